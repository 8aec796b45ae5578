package models

// MergeStrategyType defines how to merge a field when consolidating a group
type MergeStrategyType string

const (
	// MergeStrategyMostTokens picks the value with the most whitespace-separated tokens (ties: longest)
	MergeStrategyMostTokens MergeStrategyType = "most_tokens"
	// MergeStrategyFirstValue picks the first non-empty value in member order
	MergeStrategyFirstValue MergeStrategyType = "first"
	// MergeStrategyUnion joins all distinct non-empty values in first-seen order
	MergeStrategyUnion MergeStrategyType = "union"
	// MergeStrategyLongestValue picks the longest non-empty value
	MergeStrategyLongestValue MergeStrategyType = "longest"
)

// UnionSeparator joins values merged with MergeStrategyUnion
const UnionSeparator = "; "

// GroupKeyKind identifies which exact key seeded a merge group
type GroupKeyKind string

const (
	GroupKeyNationalID    GroupKeyKind = "national_id"
	GroupKeyNameBirthDate GroupKeyKind = "name_birth_date"
	GroupKeySingleton     GroupKeyKind = "singleton"
)

// GroupKey is the exact key shared by every member of a merge group
type GroupKey struct {
	Kind  GroupKeyKind `json:"kind"`
	Value string       `json:"value"`
}

// String renders the key as kind:value
func (k GroupKey) String() string {
	return string(k.Kind) + ":" + k.Value
}

// MergeGroup is a cluster of records believed to be one real-world person.
// Members are kept in discovery order.
type MergeGroup struct {
	ID           string              `json:"id"`
	Key          GroupKey            `json:"group_key"`
	Members      []*NormalizedRecord `json:"-"`
	Consolidated *ConsolidatedRecord `json:"consolidated,omitempty"`
}

// SourceIDs returns the member source IDs in member order
func (g *MergeGroup) SourceIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.Record.SourceID
	}
	return ids
}

// ConsolidatedRecord is the merge-resolved record of a group
type ConsolidatedRecord struct {
	ClientRecord
	TotalRecordsMerged int    `json:"total_records_merged"`
	Fingerprint        string `json:"fingerprint"`
}

// MergeConflict records a field whose members disagreed
type MergeConflict struct {
	Field         string            `json:"field"`
	Values        []string          `json:"values"`
	Resolution    MergeStrategyType `json:"resolution"`
	ResolvedValue string            `json:"resolved_value"`
}

// MergeAudit is the audit trail entry for one consolidated record
type MergeAudit struct {
	GroupID            string          `json:"group_id"`
	GroupKey           GroupKey        `json:"group_key"`
	SourceIDs          []string        `json:"source_ids"`
	TotalRecordsMerged int             `json:"total_records_merged"`
	Conflicts          []MergeConflict `json:"conflicts,omitempty"`
}
