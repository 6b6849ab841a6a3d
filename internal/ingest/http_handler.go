package ingest

import (
	"errors"
	"net/http"

	"bookcatalog/internal/httpx"
	"bookcatalog/internal/platform/catalogsource"

	"github.com/rs/zerolog/log"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Sync handles GET /api/book
// @Summary Sync the catalog from the upstream source
// @Description Fetch the upstream catalog, insert unseen books and return a summary of every fetched record
// @Tags books
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/book [get]
func (h *HTTPHandler) Sync(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.FetchAndMergeCatalog(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, catalogsource.ErrUpstreamUnavailable):
			httpx.JSONError(w, r, http.StatusInternalServerError, "UPSTREAM_UNAVAILABLE", "Catalog source is unavailable", nil)
		case errors.Is(err, catalogsource.ErrMalformedPayload):
			httpx.JSONError(w, r, http.StatusInternalServerError, "MALFORMED_UPSTREAM_PAYLOAD", "Catalog source returned an unexpected payload", nil)
		default:
			httpx.InternalError(w, r, err)
			return
		}
		log.Warn().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("catalog sync failed")
		return
	}

	httpx.JSONSuccess(w, r, summaries, nil)
}
