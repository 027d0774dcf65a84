package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pathway/internal/platform/metrics"
	"pathway/internal/platform/middleware"
	"pathway/internal/profile/models"
	"pathway/internal/transport/http/shared"
	id "pathway/pkg/domain"
	dErrors "pathway/pkg/domain-errors"
	"pathway/pkg/ratelimit"
)

// Service defines the profile operations the handler delegates to.
type Service interface {
	Get(ctx context.Context, userID id.UserID) (*models.Profile, error)
	UpdateSection(ctx context.Context, userID id.UserID, section models.Section, partial json.RawMessage) (*models.Profile, error)
	AddEntry(ctx context.Context, userID id.UserID, section models.Section, raw json.RawMessage) (id.EntryID, *models.Profile, error)
	RemoveEntry(ctx context.Context, userID id.UserID, section models.Section, entryID id.EntryID) (*models.Profile, error)
	Reset(ctx context.Context, userID id.UserID) error
	Hydrate(ctx context.Context, userID id.UserID, device string) (*models.Profile, error)
}

// SessionResetter clears per-user questionnaire sessions. A profile reset
// must also drop the user's saved step so they restart at the beginning.
type SessionResetter interface {
	ResetSession(userID id.UserID)
}

// Handler handles profile endpoints.
type Handler struct {
	logger       *slog.Logger
	profiles     Service
	sessions     SessionResetter
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
	limiter      *ratelimit.SlidingWindow
}

// New creates a new profile Handler.
func New(
	profiles Service,
	sessions SessionResetter,
	logger *slog.Logger,
	m *metrics.Metrics,
	jwtValidator middleware.JWTValidator,
	limiter *ratelimit.SlidingWindow,
) *Handler {
	return &Handler{
		logger:       logger,
		profiles:     profiles,
		sessions:     sessions,
		metrics:      m,
		jwtValidator: jwtValidator,
		limiter:      limiter,
	}
}

// Register registers the profile routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	profileRouter := chi.NewRouter()
	profileRouter.Use(middleware.Recovery(h.logger))
	profileRouter.Use(middleware.RequestID)
	profileRouter.Use(middleware.ClientMetadata)
	profileRouter.Use(middleware.Logger(h.logger))
	profileRouter.Use(middleware.Timeout(30 * time.Second))
	profileRouter.Use(middleware.ContentTypeJSON)
	profileRouter.Use(middleware.LatencyMiddleware(h.metrics))
	profileRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	profileRouter.Get("/", h.handleGet)

	profileRouter.Group(func(mut chi.Router) {
		mut.Use(middleware.RateLimitMutations(h.limiter, h.metrics, h.logger))
		mut.Put("/sections/{section}", h.handleUpdateSection)
		mut.Post("/sections/{section}/items", h.handleAddEntry)
		mut.Delete("/sections/{section}/items/{id}", h.handleRemoveEntry)
		mut.Post("/reset", h.handleReset)
		mut.Post("/hydrate", h.handleHydrate)
	})

	r.Mount("/v1/profile", profileRouter)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load profile",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(w, r)
	if !ok {
		return
	}

	section, err := models.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	partial, err := readBody(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	profile, err := h.profiles.UpdateSection(ctx, userID, section, partial)
	if err != nil {
		h.logClientOrServer(ctx, "failed to update section", err, "section", section.String())
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(w, r)
	if !ok {
		return
	}

	section, err := models.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	raw, err := readBody(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	entryID, profile, err := h.profiles.AddEntry(ctx, userID, section, raw)
	if err != nil {
		h.logClientOrServer(ctx, "failed to add entry", err, "section", section.String())
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, addEntryResponse{
		ID:      entryID,
		Profile: profile,
	})
}

func (h *Handler) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(w, r)
	if !ok {
		return
	}

	section, err := models.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	entryID, err := id.ParseEntryID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	profile, err := h.profiles.RemoveEntry(ctx, userID, section, entryID)
	if err != nil {
		h.logClientOrServer(ctx, "failed to remove entry", err, "section", section.String())
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(w, r)
	if !ok {
		return
	}

	if err := h.profiles.Reset(ctx, userID); err != nil {
		h.logger.ErrorContext(ctx, "failed to reset profile",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	if h.sessions != nil {
		h.sessions.ResetSession(userID)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleHydrate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.Hydrate(ctx, userID, middleware.GetDevice(ctx))
	if err != nil {
		h.logClientOrServer(ctx, "failed to hydrate profile", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, profile)
}

// authedUser pulls the authenticated user from context. A missing user means
// the auth middleware is misconfigured, not a client error.
func (h *Handler) authedUser(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	ctx := r.Context()
	raw := middleware.GetUserID(ctx)
	if raw == "" {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.UserID{}, false
	}
	userID, err := id.ParseUserID(raw)
	if err != nil {
		h.logger.WarnContext(ctx, "malformed user id in token",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid user identity"))
		return id.UserID{}, false
	}
	return userID, true
}

// logClientOrServer logs client-caused failures at warn and everything else
// at error, keeping alert noise down.
func (h *Handler) logClientOrServer(ctx context.Context, msg string, err error, attrs ...any) {
	attrs = append(attrs,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInvalidInput, dErrors.CodeInvariantViolation, dErrors.CodeNotFound:
		h.logger.WarnContext(ctx, msg, attrs...)
	default:
		h.logger.ErrorContext(ctx, msg, attrs...)
	}
}

func readBody(r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInvalidInput, "failed to read request body", err)
	}
	if len(body) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "request body is required")
	}
	if !json.Valid(body) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "request body is not valid JSON")
	}
	return body, nil
}

type addEntryResponse struct {
	ID      id.EntryID      `json:"id"`
	Profile *models.Profile `json:"profile"`
}
