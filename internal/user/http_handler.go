package user

import (
	"bookcatalog/internal/httpx"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type registerReq struct {
	Password string `json:"password"`
}

// RegisterUser handles POST /api/user/register
// @Summary Register a new user
// @Description Create a new user account with a hashed password
// @Tags users
// @Accept json
// @Produce json
// @Param request body registerReq true "Registration request"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/user/register [post]
func (h *HTTPHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	newUser, err := h.service.Register(r.Context(), req.Password)
	if err != nil {
		log.Warn().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("registration failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "REGISTRATION_FAILED",
			"Failed to register user: "+err.Error(), nil)
		return
	}

	httpx.JSONSuccess(w, r, map[string]any{
		"message": "User registered successfully",
		"userId":  newUser.ID,
	}, nil)
}
