package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"pathway/internal/platform/metrics"
	"pathway/pkg/ratelimit"
)

// RateLimitMutations throttles profile mutations per user. Reads stay
// unthrottled; the limiter only guards write amplification from misbehaving
// clients replaying autosaves.
func RateLimitMutations(limiter *ratelimit.SlidingWindow, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := GetUserID(ctx)
			if userID == "" {
				// RequireAuth runs first; without a user there is nothing to key on.
				next.ServeHTTP(w, r)
				return
			}

			result := limiter.Allow(userID)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				m.RateLimited.Inc()
				logger.WarnContext(ctx, "mutation rate limit exceeded",
					"request_id", GetRequestID(ctx),
				)
				retryAfter := max(time.Until(result.ResetAt), time.Second)
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				writeJSONError(w, http.StatusTooManyRequests, "rate_limited", "Too many profile updates, slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
