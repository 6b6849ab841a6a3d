package ingest

import (
	"context"

	"bookcatalog/internal/book"
	"bookcatalog/internal/platform/catalogsource"
)

type CatalogClient interface {
	Fetch(ctx context.Context) ([]catalogsource.Record, error)
}

// BookStore is the slice of the book repository a sync needs.
type BookStore interface {
	ExistingIDs(ctx context.Context, ids []int) (map[int]bool, error)
	InsertMissing(ctx context.Context, books []book.Book) (int, error)
}
