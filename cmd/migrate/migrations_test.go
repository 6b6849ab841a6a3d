package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
)

// repoMigrations collects db/migrations relative to this file, which lives
// in cmd/migrate/.
func repoMigrations(t *testing.T) goose.Migrations {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	dir := filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations")

	migrations, err := goose.CollectMigrations(filepath.Clean(dir), 0, goose.MaxVersion)
	if err != nil {
		t.Fatalf("expected migrations to parse, got error: %v", err)
	}
	return migrations
}

func TestCollectMigrations_CreatesCatalogTables(t *testing.T) {
	migrations := repoMigrations(t)

	if len(migrations) < 2 {
		t.Fatalf("expected books and users migrations, got %d", len(migrations))
	}
	for i, m := range migrations {
		if m.Version != int64(i+1) {
			t.Fatalf("migration %s has version %d, want %d", m.Source, m.Version, i+1)
		}
	}
}

func TestCollectMigrations_EveryMigrationIsReversible(t *testing.T) {
	for _, m := range repoMigrations(t) {
		name := filepath.Base(m.Source)
		if filepath.Ext(name) != ".sql" {
			t.Fatalf("%s: only SQL migrations are expected", name)
		}
		b, err := os.ReadFile(m.Source)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		for _, directive := range []string{"-- +goose Up", "-- +goose Down"} {
			if !strings.Contains(string(b), directive) {
				t.Errorf("%s: missing %q", name, directive)
			}
		}
	}
}
