// Package metrics provides Prometheus metrics for the resolver.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PairsEvaluatedTotal tracks pairs that passed candidate generation and were scored
	PairsEvaluatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "matching",
			Name:      "pairs_evaluated_total",
			Help:      "Total number of record pairs scored",
		},
	)

	// PairsSkippedTotal tracks pairs rejected by blocking or the name prefilter
	PairsSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "matching",
			Name:      "pairs_skipped_total",
			Help:      "Total number of record pairs skipped before scoring",
		},
	)

	// RecommendationsTotal tracks scored pairs by confidence and recommendation
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "matching",
			Name:      "recommendations_total",
			Help:      "Total number of scored pairs by confidence and recommendation",
		},
		[]string{"confidence", "recommendation"},
	)

	// GroupsTotal tracks merge groups built by key kind
	GroupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "clustering",
			Name:      "groups_total",
			Help:      "Total number of merge groups by grouping key kind",
		},
		[]string{"key_kind"},
	)

	// RecordsMergedTotal tracks source records folded into consolidated records
	RecordsMergedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "merging",
			Name:      "records_merged_total",
			Help:      "Total number of source records consolidated",
		},
	)

	// MergeConflictsTotal tracks fields whose members disagreed, by field
	MergeConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "merging",
			Name:      "conflicts_total",
			Help:      "Total number of merge conflicts by field",
		},
		[]string{"field"},
	)

	// BatchDuration tracks end-to-end resolution runs in seconds
	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clover",
			Subsystem: "processor",
			Name:      "batch_duration_seconds",
			Help:      "Duration of resolution runs in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"status"},
	)
)

// RecordPairs records one scoring block
func RecordPairs(evaluated, skipped int) {
	PairsEvaluatedTotal.Add(float64(evaluated))
	PairsSkippedTotal.Add(float64(skipped))
}

// RecordRecommendation records the outcome of a scored pair
func RecordRecommendation(confidence, recommendation string) {
	RecommendationsTotal.WithLabelValues(confidence, recommendation).Inc()
}

// RecordGroup records a built merge group
func RecordGroup(keyKind string) {
	GroupsTotal.WithLabelValues(keyKind).Inc()
}

// RecordMerge records a consolidated group and its conflicting fields
func RecordMerge(records int, conflictFields []string) {
	RecordsMergedTotal.Add(float64(records))
	for _, f := range conflictFields {
		MergeConflictsTotal.WithLabelValues(f).Inc()
	}
}

// RecordBatch records a finished resolution run
func RecordBatch(status string, durationSeconds float64) {
	BatchDuration.WithLabelValues(status).Observe(durationSeconds)
}
