package book

import (
	"bookcatalog/internal/httpx"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

const invalidPageMessage = "Page number must be greater than 0."

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Get handles GET /api/book/{id}
// @Summary Get book by ID
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/book/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathInt(r, "id")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// ListAll handles GET /api/book/all
// @Summary List books by offset
// @Tags books
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 10)"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/book/all [get]
func (h *HTTPHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, pageSize, ok := pageParams(w, r)
	if !ok {
		return
	}

	books, err := h.service.ListOffset(r.Context(), page, pageSize)
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, nil)
}

// SpecificCondition handles GET /api/book/specific-condition
// @Summary Filter books by author, title and ISBN
// @Tags books
// @Produce json
// @Param author query string false "Author substring"
// @Param title query string false "Title substring"
// @Param isbn query string false "ISBN substring"
// @Success 200 {object} httpx.SuccessResponse
// @Router /api/book/specific-condition [get]
func (h *HTTPHandler) SpecificCondition(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := Criteria{
		Author: q.Get("author"),
		Title:  q.Get("title"),
		ISBN:   q.Get("isbn"),
	}

	books, err := h.service.FindByCriteria(r.Context(), c)
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, nil)
}

// ByAuthor handles GET /api/book/author/{author}
// @Summary Paginated books by author
// @Tags books
// @Produce json
// @Param author path string true "Author substring"
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 10)"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/book/author/{author} [get]
func (h *HTTPHandler) ByAuthor(w http.ResponseWriter, r *http.Request) {
	h.listPage(w, r, Criteria{Author: r.PathValue("author")})
}

// ByTitle handles GET /api/book/title/{title}
// @Summary Paginated books by title
// @Tags books
// @Produce json
// @Param title path string true "Title substring"
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 10)"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/book/title/{title} [get]
func (h *HTTPHandler) ByTitle(w http.ResponseWriter, r *http.Request) {
	h.listPage(w, r, Criteria{Title: r.PathValue("title")})
}

// ByISBN handles GET /api/book/isbn/{isbn}
// @Summary Paginated books by ISBN
// @Tags books
// @Produce json
// @Param isbn path string true "ISBN substring"
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 10)"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/book/isbn/{isbn} [get]
func (h *HTTPHandler) ByISBN(w http.ResponseWriter, r *http.Request) {
	h.listPage(w, r, Criteria{ISBN: r.PathValue("isbn")})
}

func (h *HTTPHandler) listPage(w http.ResponseWriter, r *http.Request, c Criteria) {
	page, pageSize, ok := pageParams(w, r)
	if !ok {
		return
	}

	p, err := h.service.ListByCriteria(r.Context(), c, page, pageSize)
	if err != nil {
		if errors.Is(err, ErrInvalidPage) {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", invalidPageMessage, nil)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, p, nil)
}

// Search handles GET /api/book/search
// @Summary Keyword search over title, authors and ISBN
// @Tags books
// @Produce json
// @Param keyword query string true "Keyword"
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 10)"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/book/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, pageSize, ok := pageParams(w, r)
	if !ok {
		return
	}

	p, err := h.service.Search(r.Context(), r.URL.Query().Get("keyword"), page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, ErrKeywordRequired):
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Keyword is required.", nil)
		case errors.Is(err, ErrInvalidPage):
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", invalidPageMessage, nil)
		case errors.Is(err, ErrNoMatches):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "No books found matching the search criteria.", nil)
		default:
			httpx.InternalError(w, r, err)
		}
		return
	}
	httpx.JSONSuccess(w, r, p, nil)
}

// Create handles POST /api/book
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Param request body Book true "Book"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/book [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	b, ok := decodeBook(w, r)
	if !ok {
		return
	}

	if err := h.service.Create(r.Context(), b); err != nil {
		if errors.Is(err, ErrConflict) {
			httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "A book with this ID already exists.", nil)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, "/api/book/"+strconv.Itoa(b.ID), b)
}

// Update handles PUT /api/book/{id}
// @Summary Update a book
// @Tags books
// @Accept json
// @Param id path int true "Book ID"
// @Param request body Book true "Book"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/book/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathInt(r, "id")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	b, ok := decodeBook(w, r)
	if !ok {
		return
	}

	if err := h.service.Update(r.Context(), id, b); err != nil {
		switch {
		case errors.Is(err, ErrIDMismatch):
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Book ID mismatch.", nil)
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		default:
			httpx.InternalError(w, r, err)
		}
		return
	}
	httpx.NoContent(w)
}

// Delete handles DELETE /api/book/{id}
// @Summary Delete a book
// @Tags books
// @Param id path int true "Book ID"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/book/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathInt(r, "id")
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

// DeleteAll handles DELETE /api/book/all
// @Summary Delete every book
// @Tags books
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/book/all [delete]
func (h *HTTPHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAll(r.Context()); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "No books to delete.", nil)
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func pageParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	page, err := httpx.QueryInt(r, "page", DefaultPage)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return 0, 0, false
	}
	pageSize, err := httpx.QueryInt(r, "pageSize", DefaultPageSize)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return 0, 0, false
	}
	return page, pageSize, true
}

// decodeBook reads the request body. A literal null is rejected like a
// malformed body.
func decodeBook(w http.ResponseWriter, r *http.Request) (*Book, bool) {
	var b *Book
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil || b == nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return nil, false
	}
	if details := httpx.ValidateStruct(b); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return nil, false
	}
	return b, true
}
