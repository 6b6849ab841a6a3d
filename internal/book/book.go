package book

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found, or when a bulk
	// operation finds the collection empty.
	ErrNotFound = errors.New("book not found")
	// ErrConflict is returned when creating a book whose ID is already taken.
	ErrConflict = errors.New("book already exists")
	// ErrInvalidPage is returned for page or pageSize below 1.
	ErrInvalidPage = errors.New("page number must be greater than 0")
	// ErrKeywordRequired is returned for an empty or blank search keyword.
	ErrKeywordRequired = errors.New("keyword is required")
	// ErrNoMatches is returned when a keyword search matches nothing.
	ErrNoMatches = errors.New("no books found matching the search criteria")
	// ErrIDMismatch is returned when the path ID and payload ID differ on update.
	ErrIDMismatch = errors.New("book id does not match")
)

// NullISBN replaces a missing upstream ISBN.
const NullISBN = "Null"

// Book represents a book entity.
type Book struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	ISBN      string    `json:"isbn"`
	PageCount int       `json:"pageCount" validate:"gte=0"`
	Authors   []string  `json:"authors"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary is the flattened projection returned by a catalog sync.
type Summary struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	ISBN      string `json:"isbn"`
	PageCount int    `json:"pageCount"`
	Authors   string `json:"authors"`
}

// Summarize projects b, joining authors with ", ".
func Summarize(b Book) Summary {
	return Summary{
		ID:        b.ID,
		Title:     b.Title,
		ISBN:      b.ISBN,
		PageCount: b.PageCount,
		Authors:   strings.Join(b.Authors, ", "),
	}
}
