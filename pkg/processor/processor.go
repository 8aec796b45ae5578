// Package processor runs a batch of client records through the resolution pipeline:
// normalize, score candidate pairs, cluster by exact key, and merge each cluster.
// The duplicate report and the consolidated dataset are independent outputs.
package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Ramsey-B/clover/internal/metrics"
	"github.com/Ramsey-B/clover/internal/tracing"
	"github.com/Ramsey-B/clover/pkg/clustering"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/merging"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
	"github.com/Ramsey-B/clover/pkg/schema"
)

// Stats summarizes a run
type Stats struct {
	Records           int           `json:"records"`
	SkippedRows       int           `json:"skipped_rows"`
	TotalPairs        int           `json:"total_pairs"`
	ScoredPairs       int           `json:"scored_pairs"`
	MergePairs        int           `json:"merge_pairs"`
	ReviewPairs       int           `json:"review_pairs"`
	Groups            int           `json:"groups"`
	MultiMemberGroups int           `json:"multi_member_groups"`
	Duration          time.Duration `json:"duration"`
}

// Result is the outcome of a run.
//
// UnclusteredMerges lists Merge-recommended pairs whose records ended up in
// different groups: fuzzy duplicates without a shared exact key are reported
// but never merged.
type Result struct {
	RunID             string                       `json:"run_id"`
	Duplicates        []models.PairScore           `json:"duplicates"`
	Groups            []*models.MergeGroup         `json:"groups"`
	Consolidated      []*models.ConsolidatedRecord `json:"consolidated"`
	Audit             []models.MergeAudit          `json:"audit"`
	UnclusteredMerges []models.PairScore           `json:"unclustered_merges"`
	Stats             Stats                        `json:"stats"`
}

// Processor runs resolution batches
type Processor struct {
	logger   ectologger.Logger
	matcher  *matching.Service
	builder  *clustering.Builder
	merger   *merging.Engine
	reporter events.Reporter
}

// NewProcessor creates a new batch processor. reporter may be nil.
func NewProcessor(logger ectologger.Logger, cfg matching.Config, reporter events.Reporter) *Processor {
	return &Processor{
		logger:   logger,
		matcher:  matching.NewService(logger, cfg),
		builder:  clustering.NewBuilder(logger),
		merger:   merging.NewEngine(logger),
		reporter: events.OrNop(reporter),
	}
}

// RunRows decodes spreadsheet-shaped rows and runs them. A missing name
// column fails with a schema.SchemaError before any work is done.
func (p *Processor) RunRows(ctx context.Context, rows []map[string]any) (*Result, error) {
	decoded, err := schema.Decode(rows)
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Warn("Rejected batch with invalid schema")
		return nil, err
	}

	result, err := p.Run(ctx, decoded.Records)
	if err != nil {
		return nil, err
	}
	result.Stats.SkippedRows = len(decoded.Skipped)
	return result, nil
}

// Run resolves a batch of records
func (p *Processor) Run(ctx context.Context, records []models.ClientRecord) (result *Result, err error) {
	start := time.Now()
	runID := uuid.NewString()

	ctx, span := tracing.StartSpan(ctx, "processor.Processor.Run",
		attribute.String("run_id", runID),
		attribute.Int("records", len(records)),
	)
	defer span.End()

	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
			tracing.RecordError(span, err)
		}
		metrics.RecordBatch(status, time.Since(start).Seconds())
	}()

	log := p.logger.WithContext(ctx).WithField("run_id", runID)
	reporter := events.WithRunID(p.reporter, runID)

	log.WithField("record_count", len(records)).Info("Starting resolution run")

	normalized := normalizers.NormalizeRecords(records)
	reporter.Report(ctx, events.Progress{Stage: events.StageNormalize, Done: len(records), Total: len(records)})

	duplicates, err := p.matcher.FindDuplicatesNormalized(ctx, normalized, reporter)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	groups := p.builder.Build(ctx, normalized, reporter)

	resolutions, err := p.merger.ResolveAll(ctx, groups, reporter)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	result = &Result{
		RunID:             runID,
		Duplicates:        duplicates,
		Groups:            groups,
		Consolidated:      make([]*models.ConsolidatedRecord, len(resolutions)),
		Audit:             make([]models.MergeAudit, len(resolutions)),
		UnclusteredMerges: unclusteredMerges(duplicates, groups),
	}
	for i, r := range resolutions {
		result.Consolidated[i] = r.Consolidated
		result.Audit[i] = r.Audit
	}

	n := len(records)
	result.Stats = Stats{
		Records:     n,
		TotalPairs:  n * (n - 1) / 2,
		ScoredPairs: len(duplicates),
		Groups:      len(groups),
		Duration:    time.Since(start),
	}
	for _, d := range duplicates {
		switch d.Recommendation {
		case models.RecommendationMerge:
			result.Stats.MergePairs++
		case models.RecommendationReview:
			result.Stats.ReviewPairs++
		}
	}
	for _, g := range groups {
		if len(g.Members) > 1 {
			result.Stats.MultiMemberGroups++
		}
	}

	if len(result.UnclusteredMerges) > 0 {
		log.WithField("pair_count", len(result.UnclusteredMerges)).
			Warn("Merge-recommended pairs share no exact key and were not consolidated")
	}

	log.WithFields(map[string]any{
		"record_count": n,
		"pair_count":   len(duplicates),
		"group_count":  len(groups),
		"duration_ms":  result.Stats.Duration.Milliseconds(),
	}).Info("Resolution run complete")

	return result, nil
}

// unclusteredMerges returns the Merge pairs whose records are in different groups
func unclusteredMerges(pairs []models.PairScore, groups []*models.MergeGroup) []models.PairScore {
	groupOf := make(map[int]int)
	for gi, g := range groups {
		for _, m := range g.Members {
			groupOf[m.Index] = gi
		}
	}

	out := []models.PairScore{}
	for _, p := range pairs {
		if p.Recommendation != models.RecommendationMerge {
			continue
		}
		if groupOf[p.RecordAIndex] != groupOf[p.RecordBIndex] {
			out = append(out, p)
		}
	}
	return out
}
