package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPairs(t *testing.T) {
	evaluated := testutil.ToFloat64(PairsEvaluatedTotal)
	skipped := testutil.ToFloat64(PairsSkippedTotal)

	RecordPairs(5, 2)

	assert.Equal(t, evaluated+5, testutil.ToFloat64(PairsEvaluatedTotal))
	assert.Equal(t, skipped+2, testutil.ToFloat64(PairsSkippedTotal))
}

func TestRecordRecommendation(t *testing.T) {
	c := RecommendationsTotal.WithLabelValues("high", "merge")
	before := testutil.ToFloat64(c)

	RecordRecommendation("high", "merge")

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestRecordMerge(t *testing.T) {
	merged := testutil.ToFloat64(RecordsMergedTotal)
	phone := testutil.ToFloat64(MergeConflictsTotal.WithLabelValues("phone"))

	RecordMerge(3, []string{"phone", "name"})

	assert.Equal(t, merged+3, testutil.ToFloat64(RecordsMergedTotal))
	assert.Equal(t, phone+1, testutil.ToFloat64(MergeConflictsTotal.WithLabelValues("phone")))
}

func TestRecordGroupAndBatch(t *testing.T) {
	g := GroupsTotal.WithLabelValues("national_id")
	before := testutil.ToFloat64(g)

	RecordGroup("national_id")
	RecordBatch("ok", 0.2)

	assert.Equal(t, before+1, testutil.ToFloat64(g))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(BatchDuration), 1)
}
