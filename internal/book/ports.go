package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	GetByID(ctx context.Context, id int) (Book, error)
	List(ctx context.Context) ([]Book, error)
	ListPage(ctx context.Context, offset, limit int) ([]Book, error)
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) (int64, error)
	ExistingIDs(ctx context.Context, ids []int) (map[int]bool, error)
	InsertMissing(ctx context.Context, books []Book) (int, error)
}
