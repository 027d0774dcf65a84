package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"pathway/internal/platform/metrics"
)

// CompletenessChecker reports whether a user's profile satisfies every
// section's completion rules.
type CompletenessChecker interface {
	IsComplete(ctx context.Context, userID string) (bool, error)
}

// RequireCompleteProfile guards routes that must only be reachable once the
// profile is fully filled in. Incomplete profiles get a 403 with a stable
// error code so clients can redirect back into the questionnaire.
func RequireCompleteProfile(checker CompletenessChecker, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := GetUserID(ctx)
			if userID == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing authentication")
				return
			}

			complete, err := checker.IsComplete(ctx, userID)
			if err != nil {
				logger.ErrorContext(ctx, "failed to evaluate profile completeness",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusInternalServerError, "internal", "Failed to evaluate profile")
				return
			}
			if !complete {
				m.GateDenied.Inc()
				logger.InfoContext(ctx, "gated route denied for incomplete profile",
					"path", r.URL.Path,
					"request_id", GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusForbidden, "profile_incomplete", "Profile must be complete to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
