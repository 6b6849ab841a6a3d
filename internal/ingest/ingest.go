package ingest

import (
	"time"
)

// Run records the outcome of one catalog sync. Skipped counts records
// already stored plus repeats inside the same payload.
type Run struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Fetched    int
	Inserted   int
	Skipped    int
}
