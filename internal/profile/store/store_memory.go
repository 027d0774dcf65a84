package store

import (
	"context"
	"sync"

	"pathway/internal/profile/models"
	id "pathway/pkg/domain"
	"pathway/pkg/platform/sentinel"
)

// InMemory keeps profiles in a process-local map. It is the canonical store
// for tests and single-instance deployments; it intentionally favors clarity
// over performance.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[id.UserID]*models.Profile
}

func NewInMemory() *InMemory {
	return &InMemory{profiles: make(map[id.UserID]*models.Profile)}
}

// Save stores a clone so later caller mutations cannot leak into the store.
func (s *InMemory) Save(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile.Clone()
	return nil
}

// FindByUser returns a clone; the store's copy stays private.
func (s *InMemory) FindByUser(_ context.Context, userID id.UserID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[userID]; ok {
		return p.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, userID)
	return nil
}
