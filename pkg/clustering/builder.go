// Package clustering groups records sharing an exact key into merge groups.
//
// Grouping never looks at fuzzy pair scores: two records recommended for a
// merge by the matcher stay apart unless they share a national ID, or a
// normalized name plus birth date.
package clustering

import (
	"context"
	"strconv"

	"github.com/Gobusters/ectologger"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Ramsey-B/clover/internal/metrics"
	"github.com/Ramsey-B/clover/internal/tracing"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/fingerprint"
	"github.com/Ramsey-B/clover/pkg/models"
)

// Builder builds merge groups from normalized records
type Builder struct {
	logger ectologger.Logger
}

// NewBuilder creates a new cluster builder
func NewBuilder(logger ectologger.Logger) *Builder {
	return &Builder{logger: logger}
}

// KeyFor returns the exact key a record is grouped by: the normalized
// national ID, else the normalized name with the birth date, else a
// singleton key unique to the record's batch index.
func KeyFor(r *models.NormalizedRecord) models.GroupKey {
	if r.NationalID != "" {
		return models.GroupKey{Kind: models.GroupKeyNationalID, Value: r.NationalID}
	}
	if r.Name != "" && r.Record.HasBirthDate() {
		return models.GroupKey{Kind: models.GroupKeyNameBirthDate, Value: r.Name + "|" + r.Record.BirthDateKey()}
	}
	return models.GroupKey{Kind: models.GroupKeySingleton, Value: strconv.Itoa(r.Index)}
}

// Build groups records in a single pass. Groups are returned in first-seen
// key order and members keep their input order.
func (b *Builder) Build(ctx context.Context, records []*models.NormalizedRecord, reporter events.Reporter) []*models.MergeGroup {
	ctx, span := tracing.StartSpan(ctx, "clustering.Builder.Build", attribute.Int("records", len(records)))
	defer span.End()

	reporter = events.OrNop(reporter)

	groups := make([]*models.MergeGroup, 0)
	byKey := make(map[models.GroupKey]*models.MergeGroup)

	for _, r := range records {
		key := KeyFor(r)
		group, ok := byKey[key]
		if !ok {
			group = &models.MergeGroup{
				ID:  fingerprint.GroupID(key),
				Key: key,
			}
			byKey[key] = group
			groups = append(groups, group)
			metrics.RecordGroup(string(key.Kind))
		}
		group.Members = append(group.Members, r)
	}

	reporter.Report(ctx, events.Progress{Stage: events.StageCluster, Done: len(records), Total: len(records)})

	span.SetAttributes(attribute.Int("groups", len(groups)))
	b.logger.WithContext(ctx).WithFields(map[string]any{
		"record_count": len(records),
		"group_count":  len(groups),
	}).Debug("Merge groups built")

	return groups
}
