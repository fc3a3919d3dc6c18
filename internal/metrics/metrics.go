package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generation
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contentideas_generations_total",
		Help: "Total number of generation requests by mode and outcome.",
	}, []string{"mode", "outcome"}) // mode: "initial" | "continuation"; outcome: "success" | "unavailable" | "transport" | "panic"

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "contentideas_generation_duration_seconds",
		Help:    "Duration of model calls in seconds.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
	}, []string{"mode"})

	NormalizedIdeasTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contentideas_normalized_ideas_total",
		Help: "Ideas produced by the normalizer, by path.",
	}, []string{"path"}) // path: "structured" | "fallback"

	// Side effects
	LeadSideEffectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contentideas_lead_side_effects_total",
		Help: "Lead-capture side effects by target and outcome.",
	}, []string{"target", "outcome"}) // target: "mailchimp" | "webhook"

	// Sessions
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "contentideas_active_sessions",
		Help: "Number of sessions held by the repository.",
	})

	BookmarkGroupsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contentideas_bookmark_groups_created_total",
		Help: "Total number of bookmark groups committed.",
	})

	ExportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contentideas_exports_total",
		Help: "Total number of export artifacts produced.",
	})

	// Content mix
	MixReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contentideas_mix_reloads_total",
		Help: "Content-mix reload attempts by outcome.",
	}, []string{"outcome"})
)

// Outcome label helpers.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)
