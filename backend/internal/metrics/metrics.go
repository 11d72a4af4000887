// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Messages counts handled messages by the dispatch path that answered them
	Messages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pung",
		Name:      "messages_total",
		Help:      "Messages handled, by dispatch path.",
	}, []string{"path"})

	// ClassifierOutcomes counts classifier results
	ClassifierOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pung",
		Name:      "classifier_outcomes_total",
		Help:      "Classifier results by classifier and outcome (match, none, backend_error, invalid).",
	}, []string{"classifier", "outcome"})

	// Actions counts moderation and role actions
	Actions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pung",
		Name:      "actions_total",
		Help:      "Moderation and role actions by action and outcome.",
	}, []string{"action", "outcome"})

	// Completions counts completion backend calls
	Completions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pung",
		Name:      "completions_total",
		Help:      "Completion backend calls by backend and outcome.",
	}, []string{"backend", "outcome"})

	// KnowledgeLearned counts facts learned from chat
	KnowledgeLearned = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pung",
		Name:      "knowledge_learned_total",
		Help:      "Facts learned from chat by category.",
	}, []string{"category"})

	// InactiveUsers is the size of the last inactive-user scan
	InactiveUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "pung",
		Name:      "inactive_users",
		Help:      "Users not seen within the inactivity window at the last scan.",
	})

	// Flushes counts scheduled store flushes by outcome
	Flushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pung",
		Name:      "store_flushes_total",
		Help:      "Scheduled store flushes by outcome.",
	}, []string{"outcome"})
)

// ObserveCompletion matches the adapter observer signature
func ObserveCompletion(backend, outcome string) {
	Completions.WithLabelValues(backend, outcome).Inc()
}
