package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pathway/internal/profile/models"
	id "pathway/pkg/domain"
	"pathway/pkg/platform/sentinel"
)

// Postgres persists profiles as one JSONB document per user. The document is
// the source of truth; is_complete and updated_at are denormalized columns
// so operational queries never parse JSON.
//
// Schema:
//
//	CREATE TABLE profiles (
//	    user_id     UUID PRIMARY KEY,
//	    document    JSONB NOT NULL,
//	    is_complete BOOLEAN NOT NULL DEFAULT FALSE,
//	    updated_at  TIMESTAMPTZ NOT NULL
//	);
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the profiles table when missing. Idempotent; called at
// startup and by integration tests.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS profiles (
			user_id     UUID PRIMARY KEY,
			document    JSONB NOT NULL,
			is_complete BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at  TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure profiles schema: %w", err)
	}
	return nil
}

func (s *Postgres) Save(ctx context.Context, profile *models.Profile) error {
	document, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile document: %w", err)
	}
	query := `
		INSERT INTO profiles (user_id, document, is_complete, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			document = EXCLUDED.document,
			is_complete = EXCLUDED.is_complete,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, profile.UserID.String(), document, profile.IsComplete, profile.UpdatedAt); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *Postgres) FindByUser(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	var document []byte
	query := `SELECT document FROM profiles WHERE user_id = $1`
	if err := s.db.QueryRowContext(ctx, query, userID.String()).Scan(&document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	var profile models.Profile
	if err := json.Unmarshal(document, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile document: %w", err)
	}
	// Old documents may predate a list field; keep them well-typed.
	profile.Normalize()
	return &profile, nil
}

func (s *Postgres) Delete(ctx context.Context, userID id.UserID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID.String()); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
