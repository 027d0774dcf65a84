// Package controller runs the questionnaire state machine: which step a user
// is editing, whether a transition is in flight, and the terminal
// finalization that unlocks the report handoff.
package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"pathway/internal/profile/models"
	"pathway/internal/questionnaire"
	"pathway/internal/questionnaire/complete"
	"pathway/internal/questionnaire/validate"
	id "pathway/pkg/domain"
	dErrors "pathway/pkg/domain-errors"
)

var tracer trace.Tracer = otel.Tracer("pathway/questionnaire")

// ProfileService is the slice of the profile service the controller needs.
type ProfileService interface {
	Get(ctx context.Context, userID id.UserID) (*models.Profile, error)
	Finalize(ctx context.Context, userID id.UserID) (*models.Profile, error)
	Save(ctx context.Context, userID id.UserID) (*models.Profile, error)
}

// Status is the controller's view of one user's questionnaire.
type Status struct {
	Step       models.Section         `json:"step"`
	StepInfo   questionnaire.StepInfo `json:"stepInfo"`
	Progress   int                    `json:"progress"`
	Submitting bool                   `json:"submitting"`
	Validation validate.Result        `json:"validation"`
	IsComplete bool                   `json:"isComplete"`
	Advanced   bool                   `json:"advanced,omitempty"`
	Finalized  bool                   `json:"finalized,omitempty"`
	Home       bool                   `json:"home,omitempty"`
}

// session is one user's machine state. Editing is the implicit phase;
// submitting marks the window while the external save is awaited, during
// which further transitions are suppressed.
type session struct {
	step       models.Section
	submitting bool
}

// Config tunes controller behavior.
type Config struct {
	// SubmitDelay simulates or awaits the external save on every Continue.
	SubmitDelay time.Duration
	// EnableSave exposes the optional save side channel.
	EnableSave bool
}

// Controller coordinates step navigation for all users. It is injected,
// not global; route guards and handlers receive it from main.
type Controller struct {
	mu       sync.Mutex
	sessions map[id.UserID]*session
	profiles ProfileService
	cfg      Config
	logger   *slog.Logger
}

func New(profiles ProfileService, cfg Config, logger *slog.Logger) *Controller {
	return &Controller{
		sessions: make(map[id.UserID]*session),
		profiles: profiles,
		cfg:      cfg,
		logger:   logger,
	}
}

// Current reports the user's step, progress, and the live validity of the
// section being edited.
func (c *Controller) Current(ctx context.Context, userID id.UserID) (*Status, error) {
	c.mu.Lock()
	sess := c.session(userID)
	step, submitting := sess.step, sess.submitting
	c.mu.Unlock()

	profile, err := c.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.status(profile, step, submitting), nil
}

// Continue attempts the forward transition. An invalid section does not
// advance and is not an error: the field errors ride back on the status for
// inline display. At the terminal step Continue finalizes the profile and
// signals the report handoff.
func (c *Controller) Continue(ctx context.Context, userID id.UserID) (*Status, error) {
	ctx, span := tracer.Start(ctx, "questionnaire.Continue")
	defer span.End()

	c.mu.Lock()
	sess := c.session(userID)
	if sess.submitting {
		c.mu.Unlock()
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "a submission is already in flight")
	}
	step := sess.step
	c.mu.Unlock()

	profile, err := c.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := validate.Section(profile, step)
	if !result.Valid {
		st := c.status(profile, step, false)
		st.Validation = result
		return st, nil
	}

	c.setSubmitting(userID, true)
	defer c.setSubmitting(userID, false)

	// The submitting window: awaiting the external save. Further forward
	// transitions are suppressed for the duration, but backward navigation
	// stays open; a Back that lands mid-window wins, and the started
	// transition resolves without advancing.
	if c.cfg.SubmitDelay > 0 {
		time.Sleep(c.cfg.SubmitDelay)
	}

	next := questionnaire.Next(step)
	if next == questionnaire.StepNone {
		c.mu.Lock()
		current := sess.step
		c.mu.Unlock()
		if current != step {
			return c.status(profile, current, false), nil
		}
		finalized, err := c.profiles.Finalize(ctx, userID)
		if err != nil {
			return nil, err
		}
		c.logger.InfoContext(ctx, "questionnaire finalized", "user_id", userID.String())
		st := c.status(finalized, step, false)
		st.Finalized = true
		return st, nil
	}

	c.mu.Lock()
	if current := sess.step; current != step {
		c.mu.Unlock()
		return c.status(profile, current, false), nil
	}
	sess.step = next
	c.mu.Unlock()

	st := c.status(profile, next, false)
	st.Advanced = true
	return st, nil
}

// Back moves to the previous step. It is always allowed, regardless of the
// current section's validity and even while a submission is in flight; from
// the first step it reports the home sentinel so the caller routes out of
// the questionnaire.
func (c *Controller) Back(ctx context.Context, userID id.UserID) (*Status, error) {
	c.mu.Lock()
	sess := c.session(userID)
	prev := questionnaire.Previous(sess.step)
	home := prev == questionnaire.StepNone
	if !home {
		sess.step = prev
	}
	step, submitting := sess.step, sess.submitting
	c.mu.Unlock()

	profile, err := c.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	st := c.status(profile, step, submitting)
	st.Home = home
	return st, nil
}

// Save persists the current draft without advancing. Only available when the
// caller context enabled it.
func (c *Controller) Save(ctx context.Context, userID id.UserID) (*Status, error) {
	if !c.cfg.EnableSave {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "save is not enabled")
	}
	c.mu.Lock()
	step := c.session(userID).step
	c.mu.Unlock()

	profile, err := c.profiles.Save(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.status(profile, step, false), nil
}

// ResetSession drops the user's navigation state, returning them to the
// first step. Called alongside profile reset.
func (c *Controller) ResetSession(userID id.UserID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, userID)
}

// session returns the user's state, creating it at the first step. Callers
// hold c.mu.
func (c *Controller) session(userID id.UserID) *session {
	sess, ok := c.sessions[userID]
	if !ok {
		sess = &session{step: questionnaire.First()}
		c.sessions[userID] = sess
	}
	return sess
}

func (c *Controller) setSubmitting(userID id.UserID, v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session(userID).submitting = v
}

func (c *Controller) status(profile *models.Profile, step models.Section, submitting bool) *Status {
	return &Status{
		Step:       step,
		StepInfo:   questionnaire.Describe(step),
		Progress:   questionnaire.Progress(step),
		Submitting: submitting,
		Validation: validate.Section(profile, step),
		IsComplete: complete.Evaluate(profile),
	}
}
