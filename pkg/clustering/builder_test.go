package clustering

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Ramsey-B/clover/internal/tracing"
	"github.com/Ramsey-B/clover/pkg/fingerprint"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
)

func newBuilder() *Builder {
	return NewBuilder(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuild_SameNationalIDDifferentNames(t *testing.T) {
	records := normalizers.NormalizeRecords([]models.ClientRecord{
		{Name: "Pedro Alves", NationalID: "123.456.789-00", SourceID: "a"},
		{Name: "Fernanda Lima", NationalID: "12345678900", SourceID: "b"},
	})

	groups := newBuilder().Build(context.Background(), records, nil)

	require.Len(t, groups, 1)
	assert.Equal(t, models.GroupKey{Kind: models.GroupKeyNationalID, Value: "12345678900"}, groups[0].Key)
	assert.Equal(t, []string{"a", "b"}, groups[0].SourceIDs())
}

func TestBuild_NameAndBirthDateFallback(t *testing.T) {
	records := normalizers.NormalizeRecords([]models.ClientRecord{
		{Name: "Maria dos Santos", BirthDate: date(1990, 5, 17), SourceID: "a"},
		{Name: "MARIA SANTOS", BirthDate: date(1990, 5, 17), SourceID: "b"},
		{Name: "Maria Santos", BirthDate: date(1991, 5, 17), SourceID: "c"},
	})

	groups := newBuilder().Build(context.Background(), records, nil)

	require.Len(t, groups, 2)
	assert.Equal(t, models.GroupKey{Kind: models.GroupKeyNameBirthDate, Value: "MARIA SANTOS|1990-05-17"}, groups[0].Key)
	assert.Equal(t, []string{"a", "b"}, groups[0].SourceIDs())
	assert.Equal(t, []string{"c"}, groups[1].SourceIDs())
}

func TestBuild_NationalIDTakesPrecedence(t *testing.T) {
	records := normalizers.NormalizeRecords([]models.ClientRecord{
		{Name: "Ana Lima", BirthDate: date(1985, 1, 2), SourceID: "a"},
		{Name: "Ana Lima", BirthDate: date(1985, 1, 2), NationalID: "98765432100", SourceID: "b"},
	})

	groups := newBuilder().Build(context.Background(), records, nil)

	require.Len(t, groups, 2)
	assert.Equal(t, models.GroupKeyNameBirthDate, groups[0].Key.Kind)
	assert.Equal(t, models.GroupKeyNationalID, groups[1].Key.Kind)
}

func TestBuild_Singletons(t *testing.T) {
	records := normalizers.NormalizeRecords([]models.ClientRecord{
		{Name: "Carlos Souza", SourceID: "a"},
		{Name: "Carlos Souza", SourceID: "b"},
		{Name: "Carlos Souza", NationalID: "invalid", SourceID: "c"},
	})

	groups := newBuilder().Build(context.Background(), records, nil)

	require.Len(t, groups, 3, "records without a usable key are never grouped")
	for i, g := range groups {
		assert.Equal(t, models.GroupKeySingleton, g.Key.Kind)
		assert.Len(t, g.Members, 1)
		assert.Equal(t, i, g.Members[0].Index)
	}
}

func TestBuild_OrderAndIDs(t *testing.T) {
	records := normalizers.NormalizeRecords([]models.ClientRecord{
		{Name: "B", NationalID: "22222222222", SourceID: "1"},
		{Name: "A", NationalID: "11111111111", SourceID: "2"},
		{Name: "B2", NationalID: "22222222222", SourceID: "3"},
	})

	groups := newBuilder().Build(context.Background(), records, nil)

	require.Len(t, groups, 2)
	assert.Equal(t, "22222222222", groups[0].Key.Value, "first-seen key order")
	assert.Equal(t, "11111111111", groups[1].Key.Value)
	assert.Equal(t, fingerprint.GroupID(groups[0].Key), groups[0].ID)

	total := 0
	for _, g := range groups {
		total += len(g.Members)
	}
	assert.Equal(t, len(records), total, "every record lands in exactly one group")
}

func TestBuild_Empty(t *testing.T) {
	groups := newBuilder().Build(context.Background(), nil, nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestBuild_Traced(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tracing.SetTracer(tp.Tracer("test"))
	t.Cleanup(func() { tracing.SetTracer(nil) })

	newBuilder().Build(context.Background(), nil, nil)

	require.Len(t, sr.Ended(), 1)
	assert.Equal(t, "clustering.Builder.Build", sr.Ended()[0].Name())
}
