// Package httptransport composes the HTTP surface. Feature handlers register
// their own sub-routers and middleware; this package only mounts them and
// adds the operational endpoints.
package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registrar is anything that can mount routes on the root router.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports the liveness of one backing dependency.
type HealthChecker interface {
	Name() string
	Healthy() bool
}

// NewRouter wires all endpoints. Feature handlers own their middleware
// chains; /healthz and /metrics stay unauthenticated for probes and scrapes.
func NewRouter(checkers []HealthChecker, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	for _, h := range handlers {
		h.Register(r)
	}

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", handleHealth(checkers))

	return r
}

func handleHealth(checkers []HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		deps := make(map[string]string, len(checkers))
		for _, c := range checkers {
			if c.Healthy() {
				deps[c.Name()] = "ok"
				continue
			}
			deps[c.Name()] = "unavailable"
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":       http.StatusText(status),
			"dependencies": deps,
		})
	}
}
