// Package matching scores client record pairs and recommends what to do with them:
// - Scorer = string similarity (Levenshtein family, 0-100)
// - Evaluator = field scores combined into a PairScore with a recommendation
// - Candidates = which pairs get compared at all
// - Service = parallel scoring of a whole batch
package matching

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/Gobusters/ectologger"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/Ramsey-B/clover/internal/metrics"
	"github.com/Ramsey-B/clover/internal/tracing"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
)

// Service finds duplicate candidates across a batch of records
type Service struct {
	log       ectologger.Logger
	evaluator *Evaluator
	cfg       Config
}

// NewService creates a new matching service.
func NewService(log ectologger.Logger, cfg Config) *Service {
	return &Service{
		log:       log,
		evaluator: NewEvaluator(cfg),
		cfg:       cfg,
	}
}

// FindDuplicates normalizes the records and scores candidate pairs.
func (s *Service) FindDuplicates(ctx context.Context, records []models.ClientRecord, reporter events.Reporter) ([]models.PairScore, error) {
	return s.FindDuplicatesNormalized(ctx, normalizers.NormalizeRecords(records), reporter)
}

// FindDuplicatesNormalized scores every admitted pair of already normalized records.
// Pairs are sorted by final score descending, ties broken by record A index then
// record B index, so the output does not depend on the worker count.
func (s *Service) FindDuplicatesNormalized(ctx context.Context, records []*models.NormalizedRecord, reporter events.Reporter) ([]models.PairScore, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Service.FindDuplicates",
		attribute.Int("records", len(records)),
		attribute.Int("workers", s.cfg.workers()),
	)
	defer span.End()

	reporter = events.OrNop(reporter)
	log := s.log.WithContext(ctx)

	candidates := NewCandidates(records, s.cfg.NamePrefilterThreshold, s.cfg.Blocking)
	blocks := candidates.Blocks(s.cfg.blocks())
	total := candidates.TotalPairs()

	if len(blocks) == 0 {
		reporter.Report(ctx, events.Progress{Stage: events.StageScore, Done: 0, Total: 0})
		return []models.PairScore{}, nil
	}

	results := make([][]models.PairScore, len(blocks))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.workers())

	for bi, block := range blocks {
		g.Go(func() error {
			scored, seen, err := s.scoreBlock(gctx, candidates, block)
			if err != nil {
				return err
			}
			results[bi] = scored

			metrics.RecordPairs(len(scored), seen-len(scored))
			reporter.Report(gctx, events.Progress{
				Stage: events.StageScore,
				Done:  int(done.Add(int64(seen))),
				Total: total,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		tracing.RecordError(span, err)
		log.WithError(err).Warn("Duplicate search aborted")
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	var pairs []models.PairScore
	for _, r := range results {
		pairs = append(pairs, r...)
	}
	SortPairs(pairs)

	for _, p := range pairs {
		metrics.RecordRecommendation(string(p.Confidence), string(p.Recommendation))
	}

	span.SetAttributes(attribute.Int("pairs", len(pairs)))
	log.WithFields(map[string]any{
		"records":      len(records),
		"total_pairs":  total,
		"scored_pairs": len(pairs),
		"blocks":       len(blocks),
	}).Debug("Duplicate search complete")

	if pairs == nil {
		pairs = []models.PairScore{}
	}
	return pairs, nil
}

// scoreBlock scores the admitted pairs of one block. It returns the scored
// pairs and the number of unfiltered pairs the block covers.
func (s *Service) scoreBlock(ctx context.Context, c *Candidates, b Block) ([]models.PairScore, int, error) {
	var scored []models.PairScore
	row := -1
	var err error
	c.walk(b, func(a, other *models.NormalizedRecord, nameScore float64) bool {
		if a.Index != row {
			row = a.Index
			if err = ctx.Err(); err != nil {
				return false
			}
		}
		scored = append(scored, s.evaluator.evaluate(a, other, nameScore))
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	seen := 0
	for i := b.Start; i < b.End; i++ {
		seen += c.rowPairs(i)
	}
	return scored, seen, nil
}

// SortPairs orders pairs by final score descending, then by record indices
func SortPairs(pairs []models.PairScore) {
	slices.SortStableFunc(pairs, func(x, y models.PairScore) int {
		if c := cmp.Compare(y.FinalScore, x.FinalScore); c != 0 {
			return c
		}
		if c := cmp.Compare(x.RecordAIndex, y.RecordAIndex); c != 0 {
			return c
		}
		return cmp.Compare(x.RecordBIndex, y.RecordBIndex)
	})
}
