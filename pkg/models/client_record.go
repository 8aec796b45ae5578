package models

import "time"

// ClientRecord is one extracted client observation. Records are created by the
// ingestion layer and are never mutated by the engine.
type ClientRecord struct {
	Name       string     `json:"name"`
	NationalID string     `json:"national_id,omitempty"`
	StateID    string     `json:"state_id,omitempty"` // Secondary ID (state registration number)
	Phone      string     `json:"phone,omitempty"`
	Email      string     `json:"email,omitempty"`
	Address    string     `json:"address,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Orders     []string   `json:"orders,omitempty"`

	// Provenance
	SourceID    string `json:"source_id"`
	OriginStore string `json:"origin_store,omitempty"`
	OriginFile  string `json:"origin_file,omitempty"`
}

// HasBirthDate reports whether the record carries a birth date.
func (r *ClientRecord) HasBirthDate() bool {
	return r.BirthDate != nil && !r.BirthDate.IsZero()
}

// BirthDateKey returns the birth date as YYYY-MM-DD, or "" when absent.
func (r *ClientRecord) BirthDateKey() string {
	if !r.HasBirthDate() {
		return ""
	}
	return r.BirthDate.Format(time.DateOnly)
}

// NormalizedRecord holds the comparison-stable form of a ClientRecord.
// Index is the record's position in the batch and is the unit of ordering
// for candidate generation.
type NormalizedRecord struct {
	Index      int
	Record     *ClientRecord
	Name       string
	NationalID string
	Phone      string
	Email      string
	Address    string
}
