package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a book by its ID.
func (s *Service) Get(ctx context.Context, id int) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOffset returns one window of the store without filters or counts.
// It never rejects its arguments: a pageSize below 1 yields no books.
func (s *Service) ListOffset(ctx context.Context, page, pageSize int) ([]Book, error) {
	if pageSize < 1 {
		return []Book{}, nil
	}
	books, err := s.repo.ListPage(ctx, Offset(page, pageSize), pageSize)
	if err != nil {
		return nil, fmt.Errorf("list page: %w", err)
	}
	return books, nil
}

// FindByCriteria returns every book matching c, unpaginated.
func (s *Service) FindByCriteria(ctx context.Context, c Criteria) ([]Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return Filter(books, c.Match), nil
}

// ListByCriteria filters by c and returns the requested page.
func (s *Service) ListByCriteria(ctx context.Context, c Criteria, page, pageSize int) (Page, error) {
	if err := ValidatePage(page, pageSize); err != nil {
		return Page{}, err
	}
	filtered, err := s.FindByCriteria(ctx, c)
	if err != nil {
		return Page{}, err
	}
	return Paginate(filtered, page, pageSize)
}

// Search matches keyword against title, authors and ISBN and returns the
// requested page. It fails with ErrNoMatches when nothing matches.
func (s *Service) Search(ctx context.Context, keyword string, page, pageSize int) (Page, error) {
	if strings.TrimSpace(keyword) == "" {
		return Page{}, ErrKeywordRequired
	}
	if err := ValidatePage(page, pageSize); err != nil {
		return Page{}, err
	}

	books, err := s.repo.List(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("list books: %w", err)
	}
	matches := Filter(books, func(b Book) bool { return MatchKeyword(b, keyword) })
	if len(matches) == 0 {
		return Page{}, ErrNoMatches
	}
	return Paginate(matches, page, pageSize)
}

// Create inserts b. A non-zero ID is checked for existence first; a zero ID
// lets the store assign one.
func (s *Service) Create(ctx context.Context, b *Book) error {
	if b.ID != 0 {
		_, err := s.repo.GetByID(ctx, b.ID)
		switch {
		case err == nil:
			return ErrConflict
		case !errors.Is(err, ErrNotFound):
			return fmt.Errorf("check existing book %d: %w", b.ID, err)
		}
	}
	if b.Authors == nil {
		b.Authors = []string{}
	}
	return s.repo.Create(ctx, b)
}

// Update overwrites title, ISBN, page count and authors of the book with
// the given id.
func (s *Service) Update(ctx context.Context, id int, b *Book) error {
	if id != b.ID {
		return ErrIDMismatch
	}
	if b.Authors == nil {
		b.Authors = []string{}
	}
	return s.repo.Update(ctx, b)
}

// Delete removes one book.
func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// DeleteAll removes every book, returning ErrNotFound if there were none.
func (s *Service) DeleteAll(ctx context.Context) error {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("delete all books: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
