// Package fingerprint derives deterministic identifiers for merge groups and consolidated records
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/Ramsey-B/clover/pkg/models"
)

// GroupID identifies a merge group by its seeding key. The same key always
// yields the same ID, across runs and worker counts.
func GroupID(key models.GroupKey) string {
	return hash(key.String())
}

// Record creates a fingerprint of a record's content (provenance excluded).
// The fingerprint is a SHA256 hash of the canonicalized JSON
func Record(r *models.ClientRecord) string {
	data := map[string]any{
		models.FieldName:       r.Name,
		models.FieldNationalID: r.NationalID,
		models.FieldStateID:    r.StateID,
		models.FieldPhone:      r.Phone,
		models.FieldEmail:      r.Email,
		models.FieldAddress:    r.Address,
		models.FieldBirthDate:  r.BirthDateKey(),
	}
	orders := make([]any, len(r.Orders))
	for i, o := range r.Orders {
		orders[i] = o
	}
	data[models.FieldOrders] = orders

	return Generate(data)
}

// Generate creates a deterministic fingerprint for arbitrary map data
func Generate(data map[string]any) string {
	return hash(canonicalize(data))
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// canonicalize creates a deterministic string representation of a value
// by sorting map keys and recursively processing nested structures
func canonicalize(data any) string {
	switch v := data.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var b strings.Builder
		b.WriteString("{")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(",")
			}
			keyJSON, _ := json.Marshal(k)
			b.Write(keyJSON)
			b.WriteString(":")
			b.WriteString(canonicalize(v[k]))
		}
		b.WriteString("}")
		return b.String()
	case []any:
		var b strings.Builder
		b.WriteString("[")
		for i, item := range v {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(canonicalize(item))
		}
		b.WriteString("]")
		return b.String()
	default:
		// For primitives, use JSON encoding
		out, _ := json.Marshal(v)
		return string(out)
	}
}
