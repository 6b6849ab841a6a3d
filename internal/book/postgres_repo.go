package book

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const bookColumns = `id, title, isbn, page_count, authors, created_at, updated_at`

// Explicit IDs bypass the identity sequence; move it past them so later
// store-assigned IDs do not collide. The sequence only ever moves forward:
// MAX(id) cannot see rows of other open transactions.
const syncIDSequenceSQL = `
	SELECT setval(s.seq, GREATEST(
		(SELECT MAX(id) FROM books),
		COALESCE(pg_sequence_last_value(s.seq), 0),
		1))
	FROM (SELECT pg_get_serial_sequence('books', 'id')::regclass AS seq) s`

// IDAllocationLock is the advisory lock key that serializes inserts into
// books. An explicit-ID insert and its sequence resync commit before a
// store-assigned insert can draw the next value.
const IDAllocationLock = 4_202_501

const lockIDAllocationSQL = `SELECT pg_advisory_xact_lock($1)`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (Book, error) {
	var (
		b       Book
		authors []byte
	)
	if err := row.Scan(&b.ID, &b.Title, &b.ISBN, &b.PageCount, &authors, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return Book{}, err
	}
	if err := decodeAuthors(authors, &b.Authors); err != nil {
		return Book{}, fmt.Errorf("decode authors of book %d: %w", b.ID, err)
	}
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return b, nil
}

func encodeAuthors(authors []string) ([]byte, error) {
	if authors == nil {
		authors = []string{}
	}
	return json.Marshal(authors)
}

func decodeAuthors(raw []byte, dst *[]string) error {
	*dst = []string{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = []string{}
	}
	return nil
}

func (r *PostgresRepo) collect(rows pgx.Rows) ([]Book, error) {
	defer rows.Close()
	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(timeoutCtx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *PostgresRepo) ListPage(ctx context.Context, offset, limit int) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx,
		`SELECT `+bookColumns+` FROM books ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	authors, err := encodeAuthors(b.Authors)
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	if _, err := tx.Exec(timeoutCtx, lockIDAllocationSQL, IDAllocationLock); err != nil {
		return fmt.Errorf("lock id allocation: %w", err)
	}

	explicitID := b.ID != 0
	var row pgx.Row
	if explicitID {
		row = tx.QueryRow(timeoutCtx, `
			INSERT INTO books (id, title, isbn, page_count, authors)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`,
			b.ID, b.Title, b.ISBN, b.PageCount, authors)
	} else {
		row = tx.QueryRow(timeoutCtx, `
			INSERT INTO books (title, isbn, page_count, authors)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at`,
			b.Title, b.ISBN, b.PageCount, authors)
	}
	if err := row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		// Only a caller-supplied ID can be a conflict; a collision on an
		// assigned ID is a store fault.
		var pgErr *pgconn.PgError
		if explicitID && errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrConflict
		}
		return fmt.Errorf("insert book: %w", err)
	}
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()

	if explicitID {
		if _, err := tx.Exec(timeoutCtx, syncIDSequenceSQL); err != nil {
			return fmt.Errorf("sync id sequence: %w", err)
		}
	}
	return tx.Commit(timeoutCtx)
}

// InsertMissing inserts books in one batch and transaction. Rows whose ID
// already exists are skipped by the database, so concurrent callers cannot
// duplicate or fail on them. It returns the number of rows inserted.
func (r *PostgresRepo) InsertMissing(ctx context.Context, books []Book) (int, error) {
	if len(books) == 0 {
		return 0, nil
	}

	const insertSQL = `
		INSERT INTO books (id, title, isbn, page_count, authors, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	batch := &pgx.Batch{}
	batch.Queue(lockIDAllocationSQL, IDAllocationLock)
	for _, b := range books {
		authors, err := encodeAuthors(b.Authors)
		if err != nil {
			return 0, err
		}
		batch.Queue(insertSQL, b.ID, b.Title, b.ISBN, b.PageCount, authors, b.CreatedAt, b.UpdatedAt)
	}
	batch.Queue(syncIDSequenceSQL)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(timeoutCtx)

	results := tx.SendBatch(timeoutCtx, batch)
	if _, err := results.Exec(); err != nil {
		_ = results.Close()
		return 0, fmt.Errorf("lock id allocation: %w", err)
	}
	inserted := 0
	for i := range books {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("insert book %d: %w", books[i].ID, err)
		}
		inserted += int(tag.RowsAffected())
	}
	if _, err := results.Exec(); err != nil {
		_ = results.Close()
		return 0, fmt.Errorf("sync id sequence: %w", err)
	}
	if err := results.Close(); err != nil {
		return 0, err
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return 0, err
	}
	return inserted, nil
}
