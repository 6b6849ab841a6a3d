package book

import "strings"

// Criteria holds the optional filters of the listing endpoints. Empty
// fields are ignored; the rest must all match.
type Criteria struct {
	Author string
	Title  string
	ISBN   string
}

// Match reports whether b satisfies every non-empty field of c. All
// comparisons are case-sensitive substring checks; Author matches when any
// single author entry contains it.
func (c Criteria) Match(b Book) bool {
	if c.Author != "" && !anyAuthorContains(b.Authors, c.Author) {
		return false
	}
	if c.Title != "" && !strings.Contains(b.Title, c.Title) {
		return false
	}
	if c.ISBN != "" && !strings.Contains(b.ISBN, c.ISBN) {
		return false
	}
	return true
}

// MatchKeyword is the search predicate: title substring, any author
// substring, or an ISBN equal to keyword. The ISBN check is exact here,
// unlike Criteria.
func MatchKeyword(b Book, keyword string) bool {
	return strings.Contains(b.Title, keyword) ||
		anyAuthorContains(b.Authors, keyword) ||
		b.ISBN == keyword
}

// Filter returns the books for which keep is true, preserving order.
func Filter(books []Book, keep func(Book) bool) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func anyAuthorContains(authors []string, s string) bool {
	for _, a := range authors {
		if strings.Contains(a, s) {
			return true
		}
	}
	return false
}
