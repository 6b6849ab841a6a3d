package ingest

import (
	"context"
	"fmt"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/platform/catalogsource"

	"github.com/rs/zerolog/log"
)

type Service struct {
	client CatalogClient
	store  BookStore
	now    func() time.Time
}

func NewService(client CatalogClient, store BookStore) *Service {
	return &Service{
		client: client,
		store:  store,
		now:    time.Now,
	}
}

// FetchAndMergeCatalog downloads the upstream catalog, inserts the records
// whose IDs are not stored yet and returns a summary of every fetched
// record in upstream order. Existing rows are never modified.
func (s *Service) FetchAndMergeCatalog(ctx context.Context) ([]book.Summary, error) {
	run := &Run{StartedAt: s.now().UTC()}

	records, err := s.client.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	run.Fetched = len(records)

	books := make([]book.Book, len(records))
	ids := make([]int, 0, len(records))
	for i, rec := range records {
		books[i] = toBook(rec, run.StartedAt)
		ids = append(ids, rec.ID)
	}

	existing, err := s.store.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("look up existing books: %w", err)
	}

	missing := make([]book.Book, 0, len(books))
	seen := make(map[int]bool, len(books))
	for _, b := range books {
		if existing[b.ID] || seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		missing = append(missing, b)
	}

	// A concurrent sync may store some of these first; the store skips
	// them and reports only the rows it wrote.
	inserted, err := s.store.InsertMissing(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("insert books: %w", err)
	}
	run.Inserted = inserted
	run.Skipped = run.Fetched - run.Inserted
	run.FinishedAt = s.now().UTC()

	log.Info().
		Int("fetched", run.Fetched).
		Int("inserted", run.Inserted).
		Int("skipped", run.Skipped).
		Dur("duration", run.FinishedAt.Sub(run.StartedAt)).
		Msg("catalog sync completed")

	summaries := make([]book.Summary, len(books))
	for i, b := range books {
		summaries[i] = book.Summarize(b)
	}
	return summaries, nil
}

func toBook(rec catalogsource.Record, now time.Time) book.Book {
	isbn := book.NullISBN
	if rec.ISBN != nil && *rec.ISBN != "" {
		isbn = *rec.ISBN
	}
	authors := rec.Authors
	if authors == nil {
		authors = []string{}
	}
	return book.Book{
		ID:        rec.ID,
		Title:     rec.Title,
		ISBN:      isbn,
		PageCount: rec.PageCount,
		Authors:   authors,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
