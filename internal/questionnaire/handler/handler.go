package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pathway/internal/platform/metrics"
	"pathway/internal/platform/middleware"
	"pathway/internal/questionnaire/controller"
	"pathway/internal/transport/http/shared"
	id "pathway/pkg/domain"
	dErrors "pathway/pkg/domain-errors"
)

// Controller defines the questionnaire operations the handler delegates to.
type Controller interface {
	Current(ctx context.Context, userID id.UserID) (*controller.Status, error)
	Continue(ctx context.Context, userID id.UserID) (*controller.Status, error)
	Back(ctx context.Context, userID id.UserID) (*controller.Status, error)
	Save(ctx context.Context, userID id.UserID) (*controller.Status, error)
}

// Handler handles questionnaire navigation endpoints.
type Handler struct {
	logger        *slog.Logger
	questionnaire Controller
	metrics       *metrics.Metrics
	jwtValidator  middleware.JWTValidator
}

// New creates a new questionnaire Handler.
func New(
	questionnaire Controller,
	logger *slog.Logger,
	m *metrics.Metrics,
	jwtValidator middleware.JWTValidator,
) *Handler {
	return &Handler{
		logger:        logger,
		questionnaire: questionnaire,
		metrics:       m,
		jwtValidator:  jwtValidator,
	}
}

// Register registers the questionnaire routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	qRouter := chi.NewRouter()
	qRouter.Use(middleware.Recovery(h.logger))
	qRouter.Use(middleware.RequestID)
	qRouter.Use(middleware.Logger(h.logger))
	qRouter.Use(middleware.Timeout(30 * time.Second))
	qRouter.Use(middleware.ContentTypeJSON)
	qRouter.Use(middleware.LatencyMiddleware(h.metrics))
	qRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	qRouter.Get("/", h.handleCurrent)
	qRouter.Post("/continue", h.handleContinue)
	qRouter.Post("/back", h.handleBack)
	qRouter.Post("/save", h.handleSave)

	r.Mount("/v1/questionnaire", qRouter)
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.questionnaire.Current)
}

func (h *Handler) handleContinue(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.questionnaire.Continue)
}

func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.questionnaire.Back)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.questionnaire.Save)
}

// run is the shared skeleton: every questionnaire endpoint takes no body and
// answers with the post-operation status.
func (h *Handler) run(w http.ResponseWriter, r *http.Request, op func(context.Context, id.UserID) (*controller.Status, error)) {
	ctx := r.Context()
	raw := middleware.GetUserID(ctx)
	if raw == "" {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}
	userID, err := id.ParseUserID(raw)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid user identity"))
		return
	}

	status, err := op(ctx, userID)
	if err != nil {
		code := dErrors.CodeOf(err)
		if code == dErrors.CodeInvalidInput || code == dErrors.CodeInvariantViolation {
			h.logger.WarnContext(ctx, "questionnaire transition rejected",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		} else {
			h.logger.ErrorContext(ctx, "questionnaire operation failed",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, status)
}
