// Package journal records every relay attempt and its outcome in PostgreSQL.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutcomeSuccess marks an attempt the media server accepted. Failed attempts
// store the media error kind code instead.
const OutcomeSuccess = "success"

// Attempt is one forwarded or rejected upload.
type Attempt struct {
	ID           string    `json:"id"`
	Group        string    `json:"group"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	SizeBytes    int64     `json:"sizeBytes"`
	Outcome      string    `json:"outcome"`
	StatusCode   *int      `json:"statusCode,omitempty"`
	Error        *string   `json:"error,omitempty"`
	RequestedBy  string    `json:"requestedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Repository handles attempt persistence.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert stores a and fills in its generated ID and timestamp.
func (r *Repository) Insert(ctx context.Context, a *Attempt) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO upload_attempts
		   (target_group, filename, original_name, content_type, size_bytes,
		    outcome, status_code, error, requested_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		a.Group, a.Filename, a.OriginalName, a.ContentType, a.SizeBytes,
		a.Outcome, a.StatusCode, a.Error, a.RequestedBy,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert upload attempt: %w", err)
	}
	return nil
}

// Recent returns the newest attempts first, at most limit of them.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, target_group, filename, original_name, content_type, size_bytes,
		        outcome, status_code, error, requested_by, created_at
		 FROM upload_attempts
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query upload attempts: %w", err)
	}

	attempts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Attempt, error) {
		var a Attempt
		err := row.Scan(&a.ID, &a.Group, &a.Filename, &a.OriginalName, &a.ContentType,
			&a.SizeBytes, &a.Outcome, &a.StatusCode, &a.Error, &a.RequestedBy, &a.CreatedAt)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan upload attempts: %w", err)
	}
	return attempts, nil
}
