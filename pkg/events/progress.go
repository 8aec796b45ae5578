// Package events reports progress of the resolver stages
package events

import (
	"context"

	"github.com/Gobusters/ectologger"
)

// Stage names a step of a resolution run
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageScore     Stage = "score"
	StageCluster   Stage = "cluster"
	StageMerge     Stage = "merge"
)

// Progress is a snapshot of a stage. Done never exceeds Total.
type Progress struct {
	RunID string `json:"run_id,omitempty"`
	Stage Stage  `json:"stage"`
	Done  int    `json:"done"`
	Total int    `json:"total"`
}

// Fraction returns Done/Total, or 1 for an empty stage
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 1.0
	}
	return float64(p.Done) / float64(p.Total)
}

// Reporter receives progress updates. Implementations must be safe for
// concurrent use; scoring workers report from their own goroutines.
type Reporter interface {
	Report(ctx context.Context, p Progress)
}

// ReporterFunc adapts a function to a Reporter
type ReporterFunc func(ctx context.Context, p Progress)

// Report calls f
func (f ReporterFunc) Report(ctx context.Context, p Progress) {
	f(ctx, p)
}

// NopReporter discards progress
type NopReporter struct{}

// Report does nothing
func (NopReporter) Report(context.Context, Progress) {}

// OrNop returns r, or a NopReporter when r is nil
func OrNop(r Reporter) Reporter {
	if r == nil {
		return NopReporter{}
	}
	return r
}

// WithRunID stamps every update passing through with runID
func WithRunID(r Reporter, runID string) Reporter {
	r = OrNop(r)
	return ReporterFunc(func(ctx context.Context, p Progress) {
		p.RunID = runID
		r.Report(ctx, p)
	})
}

// LogReporter logs progress updates
type LogReporter struct {
	logger ectologger.Logger
	every  int
}

// NewLogReporter creates a reporter that logs every n-th update of a stage
// plus its completion. n <= 0 logs completions only.
func NewLogReporter(logger ectologger.Logger, every int) *LogReporter {
	return &LogReporter{
		logger: logger,
		every:  every,
	}
}

// Report logs p when it is due
func (r *LogReporter) Report(ctx context.Context, p Progress) {
	if !r.due(p) {
		return
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"run_id": p.RunID,
		"stage":  p.Stage,
		"done":   p.Done,
		"total":  p.Total,
	}).Infof("Stage %s progress %d/%d", p.Stage, p.Done, p.Total)
}

func (r *LogReporter) due(p Progress) bool {
	return p.Done >= p.Total || (r.every > 0 && p.Done%r.every == 0)
}
