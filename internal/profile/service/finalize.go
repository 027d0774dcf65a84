package service

import (
	"context"
	"sort"

	"pathway/internal/profile/models"
	"pathway/internal/questionnaire/complete"
	id "pathway/pkg/domain"
	dErrors "pathway/pkg/domain-errors"
)

// Finalize is the terminal questionnaire transition. The completeness flag is
// never forced: it is re-derived here like everywhere else, and finalization
// fails when any section still falls short, naming the offenders.
func (s *Service) Finalize(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !complete.Evaluate(profile) {
		missing := complete.Incomplete(profile)
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		message := "profile is not complete; finish sections:"
		for _, section := range missing {
			message += " " + section.String()
		}
		return nil, dErrors.New(dErrors.CodeProfileIncomplete, message)
	}
	// persist re-derives the flag and emits the completion event on the
	// false-to-true transition.
	if err := s.persist(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Save re-persists the current aggregate without other changes. Exposed for
// the questionnaire's optional save side channel.
func (s *Service) Save(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
