// Package service implements the profile store operations: it is the single
// writer for the Profile aggregate. Mutations load, transform, re-derive
// completeness, and persist; validity remains a read-side concern of the
// questionnaire validators.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"pathway/internal/audit"
	"pathway/internal/profile/metrics"
	"pathway/internal/profile/models"
	"pathway/internal/profile/store"
	"pathway/internal/questionnaire/complete"
	"pathway/internal/remote"
	id "pathway/pkg/domain"
	dErrors "pathway/pkg/domain-errors"
	"pathway/pkg/platform/sentinel"
)

var tracer trace.Tracer = otel.Tracer("pathway/profile")

// Service owns the Profile aggregate for every active user. It is
// constructed once in main and injected wherever profile access is needed;
// there is no global instance.
//
// Concurrency: the interaction model is one active session per user issuing
// one event at a time, but the HTTP surface cannot guarantee that, so the
// mutex serializes read-modify-write cycles. A validity or completeness read
// issued after a mutation returns reflects that mutation exactly once.
type Service struct {
	mu      sync.Mutex
	store   store.Store
	remote  remote.ProfileClient
	audit   *audit.Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(
	st store.Store,
	remoteClient remote.ProfileClient,
	publisher *audit.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:   st,
		remote:  remoteClient,
		audit:   publisher,
		metrics: m,
		logger:  logger,
	}
}

// Get returns the user's profile, or a fresh empty one when none exists yet.
// The empty profile is not persisted until the first mutation.
func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	profile, err := s.store.FindByUser(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.NewProfile(userID), nil
	}
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load profile", err)
	}
	return profile, nil
}

// UpdateSection shallow-merges the partial fields into the named section.
// The store accepts any shape here; field validity surfaces through the
// validators, not through this write path.
func (s *Service) UpdateSection(ctx context.Context, userID id.UserID, section models.Section, partial json.RawMessage) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := profile.MergeSection(section, partial); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, profile); err != nil {
		return nil, err
	}

	s.metrics.SectionsUpdated.WithLabelValues(section.String()).Inc()
	s.audit.Emit(audit.Event{UserID: userID, Action: audit.ActionSectionUpdated, Section: section.String()})
	return profile, nil
}

// AddEntry appends a list entry with a freshly generated id. Structurally
// incomplete entries are rejected with a typed error so a caller bypassing
// the UI guard cannot insert malformed records.
func (s *Service) AddEntry(ctx context.Context, userID id.UserID, section models.Section, raw json.RawMessage) (id.EntryID, *models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	entryID, err := profile.AddEntry(section, raw)
	if err != nil {
		s.metrics.EntriesRejected.WithLabelValues(section.String()).Inc()
		s.audit.Emit(audit.Event{UserID: userID, Action: audit.ActionEntryRejected, Section: section.String()})
		return "", nil, err
	}
	if err := s.persist(ctx, profile); err != nil {
		return "", nil, err
	}

	s.metrics.EntriesAdded.WithLabelValues(section.String()).Inc()
	s.audit.Emit(audit.Event{
		UserID:  userID,
		Action:  audit.ActionEntryAdded,
		Section: section.String(),
		EntryID: entryID.String(),
	})
	return entryID, profile, nil
}

// RemoveEntry removes the entry with the given id. Removal is idempotent: a
// missing id leaves the list unchanged and reports success.
func (s *Service) RemoveEntry(ctx context.Context, userID id.UserID, section models.Section, entryID id.EntryID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	removed, err := profile.RemoveEntry(section, entryID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return profile, nil
	}
	if err := s.persist(ctx, profile); err != nil {
		return nil, err
	}

	s.metrics.EntriesRemoved.WithLabelValues(section.String()).Inc()
	s.audit.Emit(audit.Event{
		UserID:  userID,
		Action:  audit.ActionEntryRemoved,
		Section: section.String(),
		EntryID: entryID.String(),
	})
	return profile, nil
}

// Reset replaces the profile with a fresh empty instance. Used on logout and
// explicit reset; irreversible. Confirmation is a caller concern.
func (s *Service) Reset(ctx context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, userID); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "reset profile", err)
	}
	s.metrics.ProfilesReset.Inc()
	s.audit.Emit(audit.Event{UserID: userID, Action: audit.ActionProfileReset})
	return nil
}

// Hydrate replaces the profile with the remote account service's copy.
// Missing nested collections are defaulted to well-typed empties, and
// isComplete is recomputed locally - the remote flag is never trusted,
// regardless of which lifecycle path supplied it.
func (s *Service) Hydrate(ctx context.Context, userID id.UserID, device string) (*models.Profile, error) {
	ctx, span := tracer.Start(ctx, "profile.Hydrate")
	defer span.End()

	remoteProfile, err := s.remote.Fetch(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "no remote profile for user")
	}
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "fetch remote profile", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	remoteProfile.UserID = userID
	remoteProfile.Normalize()
	if err := s.persist(ctx, remoteProfile); err != nil {
		return nil, err
	}

	s.metrics.ProfilesHydrated.Inc()
	event := audit.Event{UserID: userID, Action: audit.ActionProfileHydrated}
	if device != "" {
		event.Metadata = map[string]string{"device": device}
	}
	s.audit.Emit(event)
	s.logger.InfoContext(ctx, "profile hydrated",
		"user_id", userID.String(),
		"is_complete", remoteProfile.IsComplete,
	)
	return remoteProfile, nil
}

// persist re-derives completeness and saves. Every mutation funnels through
// here so the flag can never diverge from field data.
func (s *Service) persist(ctx context.Context, profile *models.Profile) error {
	start := time.Now()
	was := profile.IsComplete
	profile.IsComplete = complete.Evaluate(profile)
	s.metrics.EvaluateDuration.Observe(time.Since(start).Seconds())

	profile.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, profile); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "save profile", err)
	}
	if !was && profile.IsComplete {
		s.metrics.ProfilesComplete.Inc()
		s.audit.Emit(audit.Event{UserID: profile.UserID, Action: audit.ActionProfileCompleted})
	}
	return nil
}
