package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer_Ratio(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 100.0, s.Ratio("JOAO SILVA", "JOAO SILVA"))
	assert.Equal(t, 0.0, s.Ratio("", "JOAO"))
	assert.Equal(t, 0.0, s.Ratio("JOAO", ""))
	assert.InDelta(t, 75.0, s.Ratio("JOAO", "JOAQ"), 0.001)
	assert.InDelta(t, 100*(1-2.0/12), s.Ratio("CARLOS SOUZA", "CARLA SOUZA"), 0.001)
}

func TestScorer_RatioCountsRunes(t *testing.T) {
	s := NewScorer()
	// One substitution over four runes, regardless of the UTF-8 width of Ã
	assert.InDelta(t, 75.0, s.Ratio("JOÃO", "JOAO"), 0.001)
	assert.Equal(t, 1, s.LevenshteinDistance("JOÃO", "JOAO"))
}

func TestScorer_PartialRatio(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 100.0, s.PartialRatio("SILVA", "JOAO SILVA"))
	assert.Equal(t, 100.0, s.PartialRatio("JOAO SILVA", "SILVA"))
	assert.Equal(t, s.Ratio("ABCD", "ABCE"), s.PartialRatio("ABCD", "ABCE"), "equal lengths fall back to ratio")
	assert.Equal(t, 0.0, s.PartialRatio("", "SILVA"))
}

func TestScorer_TokenSortRatio(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 100.0, s.TokenSortRatio("SILVA JOAO", "JOAO SILVA"))
	assert.Less(t, s.TokenSortRatio("SILVA JOAO", "JOAO SANTOS"), 100.0)
}

func TestScorer_TokenSetRatio(t *testing.T) {
	s := NewScorer()

	assert.Equal(t, 100.0, s.TokenSetRatio("JOAO SILVA", "JOAO PEDRO SILVA"), "subset of tokens scores 100")
	assert.Equal(t, 100.0, s.TokenSetRatio("RUA FLORES 10", "10 RUA FLORES"))
	assert.Equal(t, 0.0, s.TokenSetRatio("", "RUA"))
	assert.Less(t, s.TokenSetRatio("RUA FLORES", "AVENIDA BRASIL"), 50.0)
}

func TestScorer_Symmetric(t *testing.T) {
	s := NewScorer()
	pairs := [][2]string{
		{"JOAO SILVA", "JOAO DA SILVA"},
		{"CARLOS SOUZA", "CARLA SOUZA"},
		{"MARIA", "MARIANA SANTOS"},
		{"AVENIDA PAULISTA 1000", "PAULISTA 1000 APARTAMENTO 5"},
	}

	fns := map[string]func(string, string) float64{
		"ratio":      s.Ratio,
		"partial":    s.PartialRatio,
		"token_sort": s.TokenSortRatio,
		"token_set":  s.TokenSetRatio,
	}

	for name, fn := range fns {
		for _, p := range pairs {
			assert.InDelta(t, fn(p[0], p[1]), fn(p[1], p[0]), 0.0001, "%s not symmetric for %v", name, p)
			v := fn(p[0], p[1])
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	}
}

func TestScorer_FieldScores(t *testing.T) {
	s := NewScorer()

	t.Run("name", func(t *testing.T) {
		assert.Equal(t, 1.0, s.ScoreName("MARIA SANTOS", "MARIA SANTOS"))
		assert.Equal(t, 0.0, s.ScoreName("", "MARIA SANTOS"))
		score := s.ScoreName("CARLOS SOUZA", "CARLA SOUZA")
		assert.Greater(t, score, 0.6)
		assert.Less(t, score, 0.95)
	})

	t.Run("national id is exact", func(t *testing.T) {
		assert.Equal(t, 1.0, s.ScoreNationalID("12345678900", "12345678900"))
		assert.Equal(t, 0.0, s.ScoreNationalID("12345678900", "12345678901"))
		assert.Equal(t, 0.0, s.ScoreNationalID("", ""))
	})

	t.Run("phone", func(t *testing.T) {
		assert.Equal(t, 1.0, s.ScorePhone("11999999999", "11999999999"))
		assert.Equal(t, 0.8, s.ScorePhone("11999999999", "21999999999"), "shared local number")
		assert.Equal(t, 0.8, s.ScorePhone("11999999999", "99999999"))
		assert.Less(t, s.ScorePhone("11999999999", "11988887777"), 0.8)
		assert.Equal(t, 0.0, s.ScorePhone("", "11999999999"))
	})

	t.Run("address", func(t *testing.T) {
		assert.Equal(t, 1.0, s.ScoreAddress("RUA FLORES 10", "RUA FLORES 10"))
		assert.Equal(t, 1.0, s.ScoreAddress("RUA FLORES 10", "RUA FLORES 10 APARTAMENTO 2"))
		assert.Equal(t, 0.0, s.ScoreAddress("RUA FLORES 10", ""))
	})
}
