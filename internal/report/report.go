// Package report builds the handoff payload consumed by the eligibility
// engine once a profile is complete. All routes here sit behind the
// completeness gate.
package report

import (
	"context"
	"time"

	"pathway/internal/profile/models"
	"pathway/internal/questionnaire/complete"
	id "pathway/pkg/domain"
)

// ProfileService is the slice of the profile service the report needs.
type ProfileService interface {
	Get(ctx context.Context, userID id.UserID) (*models.Profile, error)
}

// Report is the snapshot handed to downstream scoring.
type Report struct {
	UserID      id.UserID               `json:"userId"`
	GeneratedAt time.Time               `json:"generatedAt"`
	Sections    map[models.Section]bool `json:"sections"`
	Profile     *models.Profile         `json:"profile"`
}

// Build assembles a report from the user's current profile. Callers are
// expected to have verified completeness already; the section map is included
// so consumers can cross-check.
func Build(ctx context.Context, profiles ProfileService, userID id.UserID) (*Report, error) {
	profile, err := profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Report{
		UserID:      userID,
		GeneratedAt: time.Now().UTC(),
		Sections:    complete.Sections(profile),
		Profile:     profile,
	}, nil
}

// CompletenessAdapter exposes profile completeness to transport middleware,
// which works with raw string user IDs.
type CompletenessAdapter struct {
	Profiles ProfileService
}

func (a *CompletenessAdapter) IsComplete(ctx context.Context, rawUserID string) (bool, error) {
	userID, err := id.ParseUserID(rawUserID)
	if err != nil {
		return false, err
	}
	profile, err := a.Profiles.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return complete.Evaluate(profile), nil
}
