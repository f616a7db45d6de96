package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/cotscan/cotscan/internal/models"
)

// PostgresStore implements Store on PostgreSQL via sqlx.
type PostgresStore struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewPostgresStore wraps an open sqlx handle.
func NewPostgresStore(db *sqlx.DB, timeout time.Duration) *PostgresStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PostgresStore{db: db, timeout: timeout}
}

// OpenPostgres connects with the given DSN and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string, timeout time.Duration) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return NewPostgresStore(db, timeout), nil
}

// EnsureSchema creates the positioning table and its key constraint.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS positioning_records (
			report_date        DATE        NOT NULL,
			instrument_code    TEXT        NOT NULL,
			instrument_name    TEXT        NOT NULL,
			commercial_long    BIGINT      NOT NULL DEFAULT 0,
			commercial_short   BIGINT      NOT NULL DEFAULT 0,
			commercial_net     BIGINT      NOT NULL DEFAULT 0,
			swap_long          BIGINT      NOT NULL DEFAULT 0,
			swap_short         BIGINT      NOT NULL DEFAULT 0,
			swap_net           BIGINT      NOT NULL DEFAULT 0,
			managed_money_long  BIGINT     NOT NULL DEFAULT 0,
			managed_money_short BIGINT     NOT NULL DEFAULT 0,
			managed_money_net   BIGINT     NOT NULL DEFAULT 0,
			other_long         BIGINT      NOT NULL DEFAULT 0,
			other_short        BIGINT      NOT NULL DEFAULT 0,
			other_net          BIGINT      NOT NULL DEFAULT 0,
			sentiment          TEXT        NOT NULL DEFAULT '',
			PRIMARY KEY (report_date, instrument_code)
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Upsert writes a record, overwriting every field of an existing row with
// the same (report_date, instrument_code) key.
func (s *PostgresStore) Upsert(ctx context.Context, rec models.PositioningRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO positioning_records (
			report_date, instrument_code, instrument_name,
			commercial_long, commercial_short, commercial_net,
			swap_long, swap_short, swap_net,
			managed_money_long, managed_money_short, managed_money_net,
			other_long, other_short, other_net,
			sentiment
		) VALUES (
			:report_date, :instrument_code, :instrument_name,
			:commercial_long, :commercial_short, :commercial_net,
			:swap_long, :swap_short, :swap_net,
			:managed_money_long, :managed_money_short, :managed_money_net,
			:other_long, :other_short, :other_net,
			:sentiment
		)
		ON CONFLICT (report_date, instrument_code) DO UPDATE SET
			instrument_name     = EXCLUDED.instrument_name,
			commercial_long     = EXCLUDED.commercial_long,
			commercial_short    = EXCLUDED.commercial_short,
			commercial_net      = EXCLUDED.commercial_net,
			swap_long           = EXCLUDED.swap_long,
			swap_short          = EXCLUDED.swap_short,
			swap_net            = EXCLUDED.swap_net,
			managed_money_long  = EXCLUDED.managed_money_long,
			managed_money_short = EXCLUDED.managed_money_short,
			managed_money_net   = EXCLUDED.managed_money_net,
			other_long          = EXCLUDED.other_long,
			other_short         = EXCLUDED.other_short,
			other_net           = EXCLUDED.other_net,
			sentiment           = EXCLUDED.sentiment`, rec)
	if err != nil {
		return fmt.Errorf("failed to upsert positioning record: %w", err)
	}
	return nil
}

// Latest returns up to limit records for an instrument, newest first.
func (s *PostgresStore) Latest(ctx context.Context, instrumentCode string, limit int) ([]models.PositioningRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if limit <= 0 {
		limit = 52
	}

	var recs []models.PositioningRecord
	err := s.db.SelectContext(ctx, &recs, `
		SELECT * FROM positioning_records
		WHERE instrument_code = $1
		ORDER BY report_date DESC
		LIMIT $2`, instrumentCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest records: %w", err)
	}
	return recs, nil
}

// First returns the earliest record for an instrument, nil when none exists.
func (s *PostgresStore) First(ctx context.Context, instrumentCode string) (*models.PositioningRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rec models.PositioningRecord
	err := s.db.GetContext(ctx, &rec, `
		SELECT * FROM positioning_records
		WHERE instrument_code = $1
		ORDER BY report_date ASC
		LIMIT 1`, instrumentCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query first record: %w", err)
	}
	return &rec, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
