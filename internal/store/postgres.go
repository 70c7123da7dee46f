package store

import (
	"context"
	_ "embed"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sfmc-labs/ai-email-activity/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its audit table.
//
//go:embed schema.sql
var schemaSQL string

// ActivityStore persists execution audit records in Postgres. It is an
// optional, best-effort sink: the service runs without it when no DB_URL is
// configured, and write failures never affect execution outcomes.
type ActivityStore struct {
	pool *pgxpool.Pool
}

// NewActivityStore creates a connection pool and fails fast if the database
// is unreachable.
func NewActivityStore(dbURL string) (*ActivityStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &ActivityStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (s *ActivityStore) EnsureSchema() error {
	_, err := s.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping validates database connectivity for the health endpoint.
func (s *ActivityStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (s *ActivityStore) Close() {
	s.pool.Close()
}

// Record inserts one audit row. Satisfies the orchestrator's sink contract.
func (s *ActivityStore) Record(ctx context.Context, rec models.AuditRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO activity_log(
			contact_key, email, subject, template, message_id,
			content_generated, simulated, success, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, rec.ContactKey, rec.Email, rec.Subject, rec.Template, rec.MessageID,
		rec.ContentGenerated, rec.Simulated, rec.Success, rec.Timestamp.UTC())
	return err
}

// RecentByContact returns the latest audit rows for one contact, newest
// first. Used for operational inspection, not by the execution path.
func (s *ActivityStore) RecentByContact(ctx context.Context, contactKey string, limit int) ([]models.AuditRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, `
		SELECT contact_key, email, subject, template, message_id,
		       content_generated, simulated, success, created_at
		FROM activity_log
		WHERE contact_key = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, contactKey, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AuditRecord
	for rows.Next() {
		var rec models.AuditRecord
		if err := rows.Scan(
			&rec.ContactKey, &rec.Email, &rec.Subject, &rec.Template, &rec.MessageID,
			&rec.ContentGenerated, &rec.Simulated, &rec.Success, &rec.Timestamp,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
