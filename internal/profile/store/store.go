// Package store persists profile aggregates. Implementations are pure I/O;
// all domain logic (merging, gate clearing, completeness) belongs to the
// models and service layers.
package store

import (
	"context"

	"pathway/internal/profile/models"
	id "pathway/pkg/domain"
)

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks

// Store is interface-driven so the service can run against in-memory,
// PostgreSQL, or Redis persistence without rewiring business code.
// Implementations must preserve entry IDs verbatim; they are the primary
// keys for update/remove correlation.
type Store interface {
	// Save persists the aggregate, replacing any previous state for the user.
	Save(ctx context.Context, profile *models.Profile) error
	// FindByUser returns the user's profile, or sentinel.ErrNotFound.
	FindByUser(ctx context.Context, userID id.UserID) (*models.Profile, error)
	// Delete removes the user's profile. Deleting an absent profile is a no-op.
	Delete(ctx context.Context, userID id.UserID) error
}
