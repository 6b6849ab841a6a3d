package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleBooks() []Book {
	return []Book{
		{ID: 1, Title: "Unlocking Android", ISBN: "1933988673", PageCount: 416, Authors: []string{"W. Frank Ableson", "Charlie Collins", "Robi Sen"}},
		{ID: 2, Title: "Android in Action, Second Edition", ISBN: "1935182722", PageCount: 592, Authors: []string{"W. Frank Ableson", "Robi Sen"}},
		{ID: 3, Title: "Specification by Example", ISBN: "1617290084", PageCount: 0, Authors: []string{"Gojko Adzic"}},
		{ID: 4, Title: "Flex 3 in Action", ISBN: NullISBN, PageCount: 576, Authors: []string{}},
	}
}

func ids(books []Book) []int {
	out := make([]int, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestCriteria_Match(t *testing.T) {
	books := sampleBooks()

	tests := []struct {
		name string
		c    Criteria
		want []int
	}{
		{"empty criteria keeps everything", Criteria{}, []int{1, 2, 3, 4}},
		{"author substring of any entry", Criteria{Author: "Sen"}, []int{1, 2}},
		{"author is case sensitive", Criteria{Author: "sen"}, []int{}},
		{"title substring", Criteria{Title: "Action"}, []int{2, 4}},
		{"isbn substring", Criteria{ISBN: "1935"}, []int{2}},
		{"fields combine with and", Criteria{Author: "Ableson", Title: "Unlocking"}, []int{1}},
		{"books without authors never match an author", Criteria{Author: "o"}, []int{1, 2, 3}},
		{"contradicting fields", Criteria{Title: "Flex", ISBN: "1933"}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(books, tt.c.Match)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestMatchKeyword(t *testing.T) {
	books := sampleBooks()

	tests := []struct {
		name    string
		keyword string
		want    []int
	}{
		{"title substring", "Android", []int{1, 2}},
		{"author substring", "Adzic", []int{3}},
		{"isbn exact", "1617290084", []int{3}},
		{"isbn partial does not match", "161729", []int{}},
		{"null sentinel is an exact isbn", NullISBN, []int{4}},
		{"nothing", "Kubernetes", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(books, func(b Book) bool { return MatchKeyword(b, tt.keyword) })
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_PreservesOrderAndNeverNil(t *testing.T) {
	got := Filter(nil, func(Book) bool { return true })
	assert.NotNil(t, got)
	assert.Empty(t, got)

	books := sampleBooks()
	got = Filter(books, func(b Book) bool { return b.ID%2 == 0 })
	assert.Equal(t, []int{2, 4}, ids(got))
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleBooks()[0])
	assert.Equal(t, 1, s.ID)
	assert.Equal(t, "W. Frank Ableson, Charlie Collins, Robi Sen", s.Authors)

	s = Summarize(Book{ID: 9, Authors: []string{}})
	assert.Equal(t, "", s.Authors)
}
