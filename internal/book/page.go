package book

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Page is one slice of a filtered collection plus its counts.
type Page struct {
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
	TotalBooks int    `json:"totalBooks"`
	Books      []Book `json:"books"`
}

// ValidatePage rejects page or pageSize below 1.
func ValidatePage(page, pageSize int) error {
	if page <= 0 || pageSize <= 0 {
		return ErrInvalidPage
	}
	return nil
}

// Paginate slices books for the 1-based page. Pages past the end are
// empty, not an error.
func Paginate(books []Book, page, pageSize int) (Page, error) {
	if err := ValidatePage(page, pageSize); err != nil {
		return Page{}, err
	}

	total := len(books)
	out := Page{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
		TotalBooks: total,
		Books:      []Book{},
	}

	// Compare in page units first so (page-1)*pageSize cannot overflow.
	if page-1 > total/pageSize {
		return out, nil
	}
	start := (page - 1) * pageSize
	if start >= total {
		return out, nil
	}
	end := start + pageSize
	if end > total || end < start {
		end = total
	}
	out.Books = append(out.Books, books[start:end]...)
	return out, nil
}

// Offset converts a 1-based page to a row offset for the unvalidated
// listing; page below 1 is treated as the first page.
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if page-1 > math.MaxInt32/pageSize {
		return math.MaxInt32
	}
	return (page - 1) * pageSize
}
