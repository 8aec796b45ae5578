package matching

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Scorer provides Levenshtein-family string similarity metrics.
// Every metric returns a value between 0 (no similarity) and 100 (identical)
// and is symmetric in its arguments.
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// LevenshteinDistance calculates the edit distance between two strings, in runes
func (s *Scorer) LevenshteinDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Ratio is the normalized Levenshtein similarity of the full strings.
// Returns 0 when either string is empty.
func (s *Scorer) Ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 100.0
	}
	return s.ratioRunes([]rune(a), []rune(b))
}

func (s *Scorer) ratioRunes(a, b []rune) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 0.0
	}
	distance := s.LevenshteinDistance(string(a), string(b))
	return 100.0 * (1.0 - float64(distance)/float64(maxLen))
}

// PartialRatio is the best Ratio between the shorter string and any window of
// the longer string with the same length. Tolerates one value being an
// abbreviation or substring of the other.
func (s *Scorer) PartialRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == len(longer) {
		return s.Ratio(a, b)
	}

	best := 0.0
	for start := 0; start+len(shorter) <= len(longer); start++ {
		score := s.ratioRunes(shorter, longer[start:start+len(shorter)])
		if score > best {
			best = score
			if best == 100.0 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio compares the strings after sorting their whitespace-separated tokens
func (s *Scorer) TokenSortRatio(a, b string) float64 {
	return s.Ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio compares the shared tokens of both strings against each
// string's full token set and keeps the best score. Order of tokens and
// tokens present on only one side do not penalize the shared part.
func (s *Scorer) TokenSetRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	setA := tokenSet(a)
	setB := tokenSet(b)

	var shared, onlyA, onlyB []string
	for t := range setA {
		if setB[t] {
			shared = append(shared, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}
	slices.Sort(shared)
	slices.Sort(onlyA)
	slices.Sort(onlyB)

	sect := strings.Join(shared, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	return max(
		s.Ratio(sect, combinedA),
		s.Ratio(sect, combinedB),
		s.Ratio(combinedA, combinedB),
	)
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	slices.Sort(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}
