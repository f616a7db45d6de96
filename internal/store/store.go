// Package store persists the per-instrument positioning time series.
package store

import (
	"context"

	"github.com/cotscan/cotscan/internal/models"
)

// Store is the time-series contract the rest of the system depends on.
// Upsert is strictly last-write-wins on (ReportDate, InstrumentCode):
// an existing record for that key is fully overwritten, never merged,
// so re-ingesting the same report year is idempotent. Latest returns at
// most limit records, most recent first; an empty slice is a valid result
// for an instrument with no data yet.
type Store interface {
	Upsert(ctx context.Context, rec models.PositioningRecord) error
	Latest(ctx context.Context, instrumentCode string, limit int) ([]models.PositioningRecord, error)
	First(ctx context.Context, instrumentCode string) (*models.PositioningRecord, error)
	Close() error
}
