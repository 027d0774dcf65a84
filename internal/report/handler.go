package report

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pathway/internal/platform/metrics"
	"pathway/internal/platform/middleware"
	"pathway/internal/transport/http/shared"
	id "pathway/pkg/domain"
	dErrors "pathway/pkg/domain-errors"
)

// Handler serves the gated report endpoint.
type Handler struct {
	logger       *slog.Logger
	profiles     ProfileService
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func NewHandler(
	profiles ProfileService,
	logger *slog.Logger,
	m *metrics.Metrics,
	jwtValidator middleware.JWTValidator,
) *Handler {
	return &Handler{
		logger:       logger,
		profiles:     profiles,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

// Register registers the report routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	reportRouter := chi.NewRouter()
	reportRouter.Use(middleware.Recovery(h.logger))
	reportRouter.Use(middleware.RequestID)
	reportRouter.Use(middleware.Logger(h.logger))
	reportRouter.Use(middleware.Timeout(30 * time.Second))
	reportRouter.Use(middleware.LatencyMiddleware(h.metrics))
	reportRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	reportRouter.Use(middleware.RequireCompleteProfile(&CompletenessAdapter{Profiles: h.profiles}, h.metrics, h.logger))

	reportRouter.Get("/", h.handleGet)

	r.Mount("/v1/report", reportRouter)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(middleware.GetUserID(ctx))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid user identity"))
		return
	}

	rep, err := Build(ctx, h.profiles, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build report",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, rep)
}
