package main

import (
	"context"
	"net/http"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/ingest"
	"bookcatalog/internal/user"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	books *book.HTTPHandler
	sync  *ingest.HTTPHandler
	users *user.HTTPHandler
	db    pinger
}

func registerRoutes(router *http.ServeMux, h handlers) {
	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /api/book", h.sync.Sync)
	router.HandleFunc("POST /api/book", h.books.Create)

	// Literal segments win over {id}, so /all, /search and
	// /specific-condition never reach the id handlers.
	router.HandleFunc("GET /api/book/all", h.books.ListAll)
	router.HandleFunc("DELETE /api/book/all", h.books.DeleteAll)
	router.HandleFunc("GET /api/book/search", h.books.Search)
	router.HandleFunc("GET /api/book/specific-condition", h.books.SpecificCondition)
	router.HandleFunc("GET /api/book/author/{author}", h.books.ByAuthor)
	router.HandleFunc("GET /api/book/title/{title}", h.books.ByTitle)
	router.HandleFunc("GET /api/book/isbn/{isbn}", h.books.ByISBN)

	router.HandleFunc("GET /api/book/{id}", h.books.Get)
	router.HandleFunc("PUT /api/book/{id}", h.books.Update)
	router.HandleFunc("DELETE /api/book/{id}", h.books.Delete)

	router.HandleFunc("POST /api/user/register", h.users.RegisterUser)
}
