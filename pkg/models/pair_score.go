package models

// Confidence is the tier assigned to a scored pair
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidence tiers, higher is more confident
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// Recommendation is the action suggested for a scored pair
type Recommendation string

const (
	RecommendationMerge  Recommendation = "merge"
	RecommendationReview Recommendation = "review"
	RecommendationIgnore Recommendation = "ignore"
)

// PairScore is the result of comparing two client records.
// Field scores and the final score are all in [0,1].
type PairScore struct {
	RecordAID      string         `json:"record_a_id"`
	RecordBID      string         `json:"record_b_id"`
	RecordAIndex   int            `json:"record_a_index"`
	RecordBIndex   int            `json:"record_b_index"`
	NameScore      float64        `json:"name_score"`
	IDScore        float64        `json:"id_score"`
	PhoneScore     float64        `json:"phone_score"`
	AddressScore   float64        `json:"address_score"`
	FinalScore     float64        `json:"final_score"`
	Confidence     Confidence     `json:"confidence"`
	Recommendation Recommendation `json:"recommendation"`
}

// FieldScores returns the per-field scores keyed by field name
func (p PairScore) FieldScores() map[string]float64 {
	return map[string]float64{
		FieldName:       p.NameScore,
		FieldNationalID: p.IDScore,
		FieldPhone:      p.PhoneScore,
		FieldAddress:    p.AddressScore,
	}
}

// Recognized record field names
const (
	FieldName        = "name"
	FieldNationalID  = "national_id"
	FieldStateID     = "state_id"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldAddress     = "address"
	FieldBirthDate   = "birth_date"
	FieldOrders      = "orders"
	FieldSourceID    = "source_id"
	FieldOriginStore = "origin_store"
	FieldOriginFile  = "origin_file"
)
