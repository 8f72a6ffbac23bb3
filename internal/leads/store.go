// Package leads persists captured buyer inquiries. Every email confirmation
// and voice-call summary is a lead worth following up on; losing one must
// never fail the user-facing request, so writes are fire-and-forget.
package leads

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Lead sources.
const (
	SourceEmail = "email"
	SourceVoice = "voice"
)

// Lead is one captured inquiry.
type Lead struct {
	ID            string
	UserName      string
	UserEmail     string
	PropertyTitle string
	PropertyPrice float64
	Source        string
	CreatedAt     time.Time
}

// Store writes leads to Postgres. A nil *Store (or a Store without a pool)
// skips capture entirely, so the server runs without a database.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore wraps a connection pool. pool may be nil.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// EnsureSchema creates the leads table when absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS leads (
			id             UUID PRIMARY KEY,
			user_name      TEXT NOT NULL DEFAULT '',
			user_email     TEXT NOT NULL,
			property_title TEXT NOT NULL DEFAULT '',
			property_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			source         TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create leads table: %w", err)
	}
	return nil
}

// Save inserts one lead. Failures are logged and swallowed.
func (s *Store) Save(ctx context.Context, lead Lead) {
	if s == nil || s.pool == nil {
		return
	}
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.Source == "" {
		lead.Source = SourceEmail
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO leads (id, user_name, user_email, property_title, property_price, source)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		lead.ID, lead.UserName, lead.UserEmail, lead.PropertyTitle, lead.PropertyPrice, lead.Source,
	)
	if err != nil {
		s.logger.Warn("lead capture failed", "email", lead.UserEmail, "err", err)
		return
	}
	s.logger.Info("lead captured", "id", lead.ID, "source", lead.Source)
}

// CountSince reports how many leads arrived after t. Used by operators to
// sanity-check capture; returns 0 when no database is configured.
func (s *Store) CountSince(ctx context.Context, t time.Time) (int, error) {
	if s == nil || s.pool == nil {
		return 0, nil
	}
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM leads WHERE created_at > $1`, t,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}
