// Package merging resolves merge groups into consolidated records with a merge audit trail
package merging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Gobusters/ectologger"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Ramsey-B/clover/internal/metrics"
	"github.com/Ramsey-B/clover/internal/tracing"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/fingerprint"
	"github.com/Ramsey-B/clover/pkg/models"
)

// ErrEmptyGroup is returned when resolving a group without members
var ErrEmptyGroup = errors.New("merge group has no members")

// Resolution is the outcome of resolving one group
type Resolution struct {
	Consolidated *models.ConsolidatedRecord
	Audit        models.MergeAudit
}

// DefaultStrategies returns the per-field merge policy for scalar fields.
// Orders are always collected across members.
func DefaultStrategies() map[string]models.MergeStrategyType {
	return map[string]models.MergeStrategyType{
		models.FieldName:        models.MergeStrategyMostTokens,
		models.FieldNationalID:  models.MergeStrategyFirstValue,
		models.FieldStateID:     models.MergeStrategyFirstValue,
		models.FieldPhone:       models.MergeStrategyUnion,
		models.FieldEmail:       models.MergeStrategyUnion,
		models.FieldAddress:     models.MergeStrategyLongestValue,
		models.FieldBirthDate:   models.MergeStrategyFirstValue,
		models.FieldOriginStore: models.MergeStrategyUnion,
		models.FieldOriginFile:  models.MergeStrategyUnion,
	}
}

// Engine handles group consolidation
type Engine struct {
	logger      ectologger.Logger
	fieldMerger *FieldMerger
	strategies  map[string]models.MergeStrategyType
}

// NewEngine creates a new merge engine with the default strategies
func NewEngine(logger ectologger.Logger) *Engine {
	return NewEngineWithStrategies(logger, nil)
}

// NewEngineWithStrategies creates a merge engine. Fields missing from
// overrides keep their default strategy; birth date and orders are fixed.
func NewEngineWithStrategies(logger ectologger.Logger, overrides map[string]models.MergeStrategyType) *Engine {
	strategies := DefaultStrategies()
	for field, s := range overrides {
		if field == models.FieldOrders || field == models.FieldBirthDate {
			continue
		}
		strategies[field] = s
	}

	return &Engine{
		logger:      logger,
		fieldMerger: NewFieldMerger(),
		strategies:  strategies,
	}
}

// Resolve consolidates a group's members, applying the per-field policy in
// member order. The group's Consolidated record is set on success.
func (e *Engine) Resolve(group *models.MergeGroup) (*Resolution, error) {
	if group == nil || len(group.Members) == 0 {
		return nil, ErrEmptyGroup
	}

	var conflicts []models.MergeConflict
	merge := func(field string, value func(m *models.NormalizedRecord) string) string {
		values := make([]fieldValue, len(group.Members))
		for i, m := range group.Members {
			values[i] = fieldValue{Value: value(m), SourceID: m.Record.SourceID}
		}
		result, conflict := e.fieldMerger.MergeField(field, values, e.strategies[field])
		if conflict != nil {
			conflicts = append(conflicts, *conflict)
		}
		return result
	}

	consolidated := &models.ConsolidatedRecord{TotalRecordsMerged: len(group.Members)}
	out := &consolidated.ClientRecord

	out.Name = merge(models.FieldName, func(m *models.NormalizedRecord) string {
		return strings.Join(strings.Fields(m.Record.Name), " ")
	})
	out.NationalID = merge(models.FieldNationalID, func(m *models.NormalizedRecord) string { return m.NationalID })
	out.StateID = merge(models.FieldStateID, func(m *models.NormalizedRecord) string {
		return strings.TrimSpace(m.Record.StateID)
	})
	out.Phone = merge(models.FieldPhone, func(m *models.NormalizedRecord) string { return m.Phone })
	out.Email = merge(models.FieldEmail, func(m *models.NormalizedRecord) string { return m.Email })
	out.Address = merge(models.FieldAddress, func(m *models.NormalizedRecord) string {
		return strings.TrimSpace(m.Record.Address)
	})
	birth := merge(models.FieldBirthDate, func(m *models.NormalizedRecord) string { return m.Record.BirthDateKey() })
	out.OriginStore = merge(models.FieldOriginStore, func(m *models.NormalizedRecord) string {
		return strings.TrimSpace(m.Record.OriginStore)
	})
	out.OriginFile = merge(models.FieldOriginFile, func(m *models.NormalizedRecord) string {
		return strings.TrimSpace(m.Record.OriginFile)
	})

	for _, m := range group.Members {
		if m.Record.BirthDateKey() == birth && birth != "" {
			out.BirthDate = m.Record.BirthDate
			break
		}
	}

	orders := make([][]string, len(group.Members))
	for i, m := range group.Members {
		orders[i] = m.Record.Orders
	}
	out.Orders = e.fieldMerger.CollectAll(orders)

	out.SourceID = group.ID
	consolidated.Fingerprint = fingerprint.Record(out)
	group.Consolidated = consolidated

	return &Resolution{
		Consolidated: consolidated,
		Audit: models.MergeAudit{
			GroupID:            group.ID,
			GroupKey:           group.Key,
			SourceIDs:          group.SourceIDs(),
			TotalRecordsMerged: len(group.Members),
			Conflicts:          conflicts,
		},
	}, nil
}

// ResolveAll resolves every group in order. It stops at the first invalid
// group or when ctx is done.
func (e *Engine) ResolveAll(ctx context.Context, groups []*models.MergeGroup, reporter events.Reporter) ([]*Resolution, error) {
	ctx, span := tracing.StartSpan(ctx, "merging.Engine.ResolveAll", attribute.Int("groups", len(groups)))
	defer span.End()

	reporter = events.OrNop(reporter)
	log := e.logger.WithContext(ctx)

	resolutions := make([]*Resolution, 0, len(groups))
	for i, group := range groups {
		if err := ctx.Err(); err != nil {
			tracing.RecordError(span, err)
			return nil, fmt.Errorf("resolve groups: %w", err)
		}

		res, err := e.Resolve(group)
		if err != nil {
			tracing.RecordError(span, err)
			log.WithError(err).WithField("group_index", i).Error("Failed to resolve merge group")
			return nil, fmt.Errorf("resolve group %d: %w", i, err)
		}

		conflictFields := make([]string, len(res.Audit.Conflicts))
		for j, c := range res.Audit.Conflicts {
			conflictFields[j] = c.Field
		}
		metrics.RecordMerge(res.Consolidated.TotalRecordsMerged, conflictFields)

		resolutions = append(resolutions, res)
		reporter.Report(ctx, events.Progress{Stage: events.StageMerge, Done: i + 1, Total: len(groups)})
	}

	if len(groups) == 0 {
		reporter.Report(ctx, events.Progress{Stage: events.StageMerge, Done: 0, Total: 0})
	}

	log.WithField("group_count", len(groups)).Debug("Merge groups resolved")

	return resolutions, nil
}
