package merging

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/Ramsey-B/clover/pkg/models"
)

// fieldValue is one member's contribution to a field
type fieldValue struct {
	Value    string
	SourceID string
}

// FieldMerger handles field-level merge logic
type FieldMerger struct{}

// NewFieldMerger creates a new FieldMerger
func NewFieldMerger() *FieldMerger {
	return &FieldMerger{}
}

// MergeField merges a single scalar field across group members. Empty values
// are no contribution. A conflict is reported when more than one distinct
// value remains.
func (m *FieldMerger) MergeField(
	field string,
	values []fieldValue,
	strategy models.MergeStrategyType,
) (string, *models.MergeConflict) {
	values = nonEmpty(values)

	if len(values) == 0 {
		return "", nil
	}

	if len(values) == 1 {
		return values[0].Value, nil
	}

	// Check for conflicts (distinct values)
	conflict := m.detectConflict(field, values)

	// Apply merge strategy
	var result string
	switch strategy {
	case models.MergeStrategyMostTokens:
		result = m.mostTokens(values)
	case models.MergeStrategyLongestValue:
		result = m.longest(values)
	case models.MergeStrategyUnion:
		result = m.union(values)
	case models.MergeStrategyFirstValue:
		result = m.first(values)
	default:
		result = m.first(values)
	}

	if conflict != nil {
		conflict.ResolvedValue = result
		conflict.Resolution = strategy
	}

	return result, conflict
}

// CollectAll concatenates list values across members in member order,
// de-duplicated by exact string equality
func (m *FieldMerger) CollectAll(lists [][]string) []string {
	var result []string
	seen := make(map[string]bool)

	for _, list := range lists {
		for _, v := range list {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			result = append(result, v)
		}
	}

	return result
}

// detectConflict checks if there's a conflict among values
func (m *FieldMerger) detectConflict(field string, values []fieldValue) *models.MergeConflict {
	distinct := distinctValues(values)
	if len(distinct) < 2 {
		return nil
	}

	return &models.MergeConflict{
		Field:  field,
		Values: distinct,
	}
}

// mostTokens returns the value with the most whitespace-separated tokens.
// Ties go to the longest value, then to the earliest member.
func (m *FieldMerger) mostTokens(values []fieldValue) string {
	best := values[0].Value
	bestTokens := len(strings.Fields(best))
	bestLen := utf8.RuneCountInString(best)

	for _, v := range values[1:] {
		tokens := len(strings.Fields(v.Value))
		length := utf8.RuneCountInString(v.Value)
		if tokens > bestTokens || (tokens == bestTokens && length > bestLen) {
			best, bestTokens, bestLen = v.Value, tokens, length
		}
	}

	return best
}

// longest returns the longest value, the earliest member winning ties
func (m *FieldMerger) longest(values []fieldValue) string {
	best := values[0].Value
	bestLen := utf8.RuneCountInString(best)

	for _, v := range values[1:] {
		if l := utf8.RuneCountInString(v.Value); l > bestLen {
			best, bestLen = v.Value, l
		}
	}

	return best
}

// union joins the distinct values in first-seen order
func (m *FieldMerger) union(values []fieldValue) string {
	return strings.Join(distinctValues(values), models.UnionSeparator)
}

// first returns the earliest member's value
func (m *FieldMerger) first(values []fieldValue) string {
	return values[0].Value
}

func nonEmpty(values []fieldValue) []fieldValue {
	out := make([]fieldValue, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v.Value) != "" {
			out = append(out, v)
		}
	}
	return out
}

func distinctValues(values []fieldValue) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v.Value) {
			out = append(out, v.Value)
		}
	}
	return out
}
