package matching

import (
	"iter"

	"github.com/Ramsey-B/clover/pkg/models"
)

// Block is a half-open range of outer-loop indices. Every row i in
// [Start, End) is paired with every j > i, so disjoint blocks partition the
// pair space without overlap.
type Block struct {
	Start int
	End   int
}

// Candidates produces the record pairs worth scoring. Sequences returned by
// All and Block are lazy and can be ranged over more than once.
type Candidates struct {
	records   []*models.NormalizedRecord
	scorer    *Scorer
	threshold float64
	blocking  BlockingStrategy
}

// NewCandidates creates a pair generator. A threshold of 0 disables the name prefilter.
func NewCandidates(records []*models.NormalizedRecord, threshold float64, blocking BlockingStrategy) *Candidates {
	return &Candidates{
		records:   records,
		scorer:    NewScorer(),
		threshold: threshold,
		blocking:  blocking,
	}
}

// TotalPairs is the size of the unfiltered comparison space, n(n-1)/2
func (c *Candidates) TotalPairs() int {
	n := len(c.records)
	return n * (n - 1) / 2
}

// rowPairs is the number of unfiltered pairs whose outer index is i
func (c *Candidates) rowPairs(i int) int {
	return len(c.records) - 1 - i
}

// All yields every admitted pair (i < j), in row-major order
func (c *Candidates) All() iter.Seq2[*models.NormalizedRecord, *models.NormalizedRecord] {
	return c.Block(Block{Start: 0, End: len(c.records)})
}

// Block yields the admitted pairs whose outer index falls in b
func (c *Candidates) Block(b Block) iter.Seq2[*models.NormalizedRecord, *models.NormalizedRecord] {
	return func(yield func(*models.NormalizedRecord, *models.NormalizedRecord) bool) {
		c.walk(b, func(a, other *models.NormalizedRecord, _ float64) bool {
			return yield(a, other)
		})
	}
}

// walk calls fn for each admitted pair in b along with the name score the
// prefilter computed, or noNameScore when the prefilter is disabled
func (c *Candidates) walk(b Block, fn func(a, other *models.NormalizedRecord, nameScore float64) bool) {
	start := max(b.Start, 0)
	end := min(b.End, len(c.records))
	for i := start; i < end; i++ {
		a := c.records[i]
		for j := i + 1; j < len(c.records); j++ {
			other := c.records[j]
			nameScore, ok := c.admit(a, other)
			if !ok {
				continue
			}
			if !fn(a, other, nameScore) {
				return
			}
		}
	}
}

// Blocks splits the outer index into at most k contiguous blocks holding
// roughly equal numbers of pairs. Early rows pair with more records, so
// early blocks span fewer rows.
func (c *Candidates) Blocks(k int) []Block {
	n := len(c.records)
	if n < 2 {
		return nil
	}
	k = max(k, 1)

	total := c.TotalPairs()
	target := (total + k - 1) / k

	blocks := make([]Block, 0, k)
	start, acc := 0, 0
	for i := 0; i < n-1; i++ {
		acc += c.rowPairs(i)
		if acc >= target && len(blocks) < k-1 {
			blocks = append(blocks, Block{Start: start, End: i + 1})
			start, acc = i+1, 0
		}
	}
	if start < n-1 {
		blocks = append(blocks, Block{Start: start, End: n - 1})
	}
	return blocks
}

// noNameScore marks a pair whose name score has not been computed yet
const noNameScore = -1.0

// admit applies the blocking strategy then the name prefilter
func (c *Candidates) admit(a, b *models.NormalizedRecord) (float64, bool) {
	if c.blocking == BlockingNameInitial && !sameInitial(a.Name, b.Name) {
		return noNameScore, false
	}
	if c.threshold <= 0 {
		return noNameScore, true
	}
	nameScore := c.scorer.ScoreName(a.Name, b.Name)
	return nameScore, nameScore >= c.threshold
}

func sameInitial(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ra, rb := []rune(a), []rune(b)
	return ra[0] == rb[0]
}
