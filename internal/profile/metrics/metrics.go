package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the profile feature.
type Metrics struct {
	SectionsUpdated  *prometheus.CounterVec
	EntriesAdded     *prometheus.CounterVec
	EntriesRejected  *prometheus.CounterVec
	EntriesRemoved   *prometheus.CounterVec
	ProfilesReset    prometheus.Counter
	ProfilesHydrated prometheus.Counter
	ProfilesComplete prometheus.Counter
	EvaluateDuration prometheus.Histogram
}

// New creates and registers all profile metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		SectionsUpdated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pathway_profile_sections_updated_total",
			Help: "Section update operations, by section",
		}, []string{"section"}),
		EntriesAdded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pathway_profile_entries_added_total",
			Help: "List entries added, by section",
		}, []string{"section"}),
		EntriesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pathway_profile_entries_rejected_total",
			Help: "List entries rejected by structural validation, by section",
		}, []string{"section"}),
		EntriesRemoved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pathway_profile_entries_removed_total",
			Help: "List entries removed, by section",
		}, []string{"section"}),
		ProfilesReset: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pathway_profiles_reset_total",
			Help: "Profiles reset to empty",
		}),
		ProfilesHydrated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pathway_profiles_hydrated_total",
			Help: "Profiles hydrated from the remote profile service",
		}),
		ProfilesComplete: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pathway_profiles_completed_total",
			Help: "Profiles that reached completeness",
		}),
		EvaluateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pathway_completeness_evaluate_seconds",
			Help:    "Latency of completeness evaluation",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
		}),
	}
}
