package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store defines the interface for audit-record persistence. Methods accept
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveStatusCheck inserts a new status-check record. The record's ID
	// and Timestamp are filled in if unset.
	SaveStatusCheck(ctx context.Context, check *StatusCheck) error

	// ListStatusChecks retrieves the most recent 'limit' status-check
	// records, newest first.
	ListStatusChecks(ctx context.Context, limit int) ([]StatusCheck, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveStatusCheck inserts a new status-check record.
func (s *sqlxStore) SaveStatusCheck(ctx context.Context, check *StatusCheck) error {
	if check == nil {
		return fmt.Errorf("cannot save nil status check")
	}
	if check.ClientName == "" {
		return fmt.Errorf("status check must have a non-empty client_name")
	}
	if check.ID == "" {
		check.ID = uuid.NewString()
	}
	if check.Timestamp.IsZero() {
		check.Timestamp = time.Now().UTC()
	}

	query := `
        INSERT INTO status_checks (id, client_name, timestamp)
        VALUES (:id, :client_name, :timestamp);
    `

	if _, err := s.db.NamedExecContext(ctx, query, check); err != nil {
		s.logger.ErrorContext(ctx, "Error saving status check", "client_name", check.ClientName, "error", err)
		return fmt.Errorf("failed to save status check for %q: %w", check.ClientName, err)
	}
	return nil
}

// ListStatusChecks retrieves the most recent status-check records.
func (s *sqlxStore) ListStatusChecks(ctx context.Context, limit int) ([]StatusCheck, error) {
	if limit <= 0 {
		limit = 1000
	}

	checks := []StatusCheck{}
	query := `SELECT id, client_name, timestamp FROM status_checks ORDER BY timestamp DESC LIMIT ?;`
	if err := s.db.SelectContext(ctx, &checks, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error listing status checks", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to list status checks: %w", err)
	}
	return checks, nil
}

// RunSQLMaintenance performs VACUUM and ANALYZE on the database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	for _, stmt := range []string{"VACUUM;", "ANALYZE;"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.logger.ErrorContext(ctx, "SQL maintenance statement failed", "statement", stmt, "error", err)
			return fmt.Errorf("maintenance statement %q failed: %w", stmt, err)
		}
	}
	s.logger.InfoContext(ctx, "SQL maintenance completed")
	return nil
}
