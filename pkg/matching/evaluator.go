package matching

import (
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
)

// Weights is the per-field weight table of the final score. Weights of
// fields missing from a record are not redistributed, so partial records
// cannot reach 1.0.
type Weights struct {
	Name       float64
	NationalID float64
	Phone      float64
	Address    float64
}

// DefaultWeights returns the production weight table
func DefaultWeights() Weights {
	return Weights{
		Name:       0.4,
		NationalID: 0.3,
		Phone:      0.2,
		Address:    0.1,
	}
}

// Thresholds are the lower bounds of the confidence tiers. High must be >= Medium.
type Thresholds struct {
	High   float64
	Medium float64
}

// DefaultThresholds returns the production confidence thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.9, Medium: 0.75}
}

// Classify assigns the confidence tier of a final score
func (t Thresholds) Classify(final float64) models.Confidence {
	switch {
	case final >= t.High:
		return models.ConfidenceHigh
	case final >= t.Medium:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// MergePolicy holds the name+phone rule: a pair whose names and phones both
// agree strongly is merged even below High confidence
type MergePolicy struct {
	NameScore  float64
	PhoneScore float64
}

// DefaultMergePolicy returns the production name+phone merge rule
func DefaultMergePolicy() MergePolicy {
	return MergePolicy{NameScore: 0.9, PhoneScore: 0.8}
}

// Evaluator combines field scores into a PairScore. It is pure and safe for concurrent use.
type Evaluator struct {
	scorer     *Scorer
	weights    Weights
	thresholds Thresholds
	policy     MergePolicy
}

// NewEvaluator creates an evaluator from the matching configuration
func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{
		scorer:     NewScorer(),
		weights:    cfg.Weights,
		thresholds: cfg.Thresholds,
		policy:     cfg.MergePolicy,
	}
}

// Evaluate normalizes two raw records and scores them
func (e *Evaluator) Evaluate(a, b *models.ClientRecord) models.PairScore {
	return e.EvaluateNormalized(normalizers.NormalizeRecord(0, a), normalizers.NormalizeRecord(1, b))
}

// EvaluateNormalized scores two normalized records
func (e *Evaluator) EvaluateNormalized(a, b *models.NormalizedRecord) models.PairScore {
	return e.evaluate(a, b, noNameScore)
}

// evaluate reuses nameScore when the candidate prefilter already computed it
func (e *Evaluator) evaluate(a, b *models.NormalizedRecord, nameScore float64) models.PairScore {
	if nameScore < 0 {
		nameScore = e.scorer.ScoreName(a.Name, b.Name)
	}

	score := models.PairScore{
		RecordAID:    a.Record.SourceID,
		RecordBID:    b.Record.SourceID,
		RecordAIndex: a.Index,
		RecordBIndex: b.Index,
		NameScore:    nameScore,
		IDScore:      e.scorer.ScoreNationalID(a.NationalID, b.NationalID),
		PhoneScore:   e.scorer.ScorePhone(a.Phone, b.Phone),
		AddressScore: e.scorer.ScoreAddress(a.Address, b.Address),
	}

	// An exact national ID match is conclusive
	if score.IDScore == 1.0 {
		score.FinalScore = 1.0
		score.Confidence = models.ConfidenceHigh
		score.Recommendation = models.RecommendationMerge
		return score
	}

	score.FinalScore = clamp01(score.NameScore*e.weights.Name +
		score.IDScore*e.weights.NationalID +
		score.PhoneScore*e.weights.Phone +
		score.AddressScore*e.weights.Address)
	score.Confidence = e.thresholds.Classify(score.FinalScore)
	score.Recommendation = e.recommend(score)

	return score
}

// recommend applies the recommendation policy in order
func (e *Evaluator) recommend(score models.PairScore) models.Recommendation {
	switch {
	case score.IDScore == 1.0:
		return models.RecommendationMerge
	case score.NameScore >= e.policy.NameScore && score.PhoneScore >= e.policy.PhoneScore:
		return models.RecommendationMerge
	case score.Confidence == models.ConfidenceHigh:
		return models.RecommendationMerge
	case score.Confidence == models.ConfidenceMedium:
		return models.RecommendationReview
	default:
		return models.RecommendationIgnore
	}
}
