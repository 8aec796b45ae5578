package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
)

// Accepted birth date layouts, tried in order. Day-first layouts come before
// month-first ones since input spreadsheets are Brazilian.
var birthDateLayouts = []string{
	time.DateOnly,
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
}

// Spreadsheet serial dates count days from 1899-12-30
var spreadsheetEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Decoded is the outcome of decoding a batch of rows
type Decoded struct {
	Records []models.ClientRecord
	Columns map[string]string // header -> field
	Skipped []int             // row indices dropped for lacking a usable name
}

// Decode maps key/value rows onto client records. Headers are the union of
// all row keys, identified in sorted order. A missing name column fails with
// a SchemaError; everything else about a row is best effort.
func Decode(rows []map[string]any) (*Decoded, error) {
	if len(rows) == 0 {
		return &Decoded{Columns: map[string]string{}}, nil
	}

	seen := make(map[string]bool)
	var headers []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	slices.Sort(headers)

	mapping := IdentifyColumns(headers)
	if err := ValidateSchema(mapping); err != nil {
		return nil, err
	}

	out := &Decoded{Columns: mapping}
	for i, row := range rows {
		fields := make(map[string]any, len(mapping))
		for header, field := range mapping {
			if v, ok := row[header]; ok {
				fields[field] = v
			}
		}
		appendRecord(out, i, fields)
	}
	return out, nil
}

// DecodeTable maps a header row plus value rows onto client records. Header
// order is significant when several columns identify the same field.
func DecodeTable(headers []string, rows [][]any) (*Decoded, error) {
	mapping := IdentifyColumns(headers)
	if err := ValidateSchema(mapping); err != nil {
		return nil, err
	}

	out := &Decoded{Columns: mapping}
	for i, row := range rows {
		fields := make(map[string]any, len(mapping))
		for col, header := range headers {
			field, ok := mapping[header]
			if !ok || col >= len(row) {
				continue
			}
			if _, dup := fields[field]; dup {
				continue
			}
			fields[field] = row[col]
		}
		appendRecord(out, i, fields)
	}
	return out, nil
}

func appendRecord(out *Decoded, index int, fields map[string]any) {
	r := models.ClientRecord{
		Name:        toString(fields[models.FieldName]),
		NationalID:  toString(fields[models.FieldNationalID]),
		StateID:     toString(fields[models.FieldStateID]),
		Phone:       toString(fields[models.FieldPhone]),
		Email:       toString(fields[models.FieldEmail]),
		Address:     toString(fields[models.FieldAddress]),
		BirthDate:   toDate(fields[models.FieldBirthDate]),
		Orders:      toList(fields[models.FieldOrders]),
		SourceID:    toString(fields[models.FieldSourceID]),
		OriginStore: toString(fields[models.FieldOriginStore]),
		OriginFile:  toString(fields[models.FieldOriginFile]),
	}

	// Rows without a usable name cannot be matched
	if normalizers.NormalizeName(r.Name) == "" {
		out.Skipped = append(out.Skipped, index)
		return
	}

	if r.SourceID == "" {
		r.SourceID = fmt.Sprintf("row-%d", index+1)
	}
	out.Records = append(out.Records, r)
}

// toString converts any value to string
func toString(v any) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.DateOnly)
	case fmt.Stringer:
		return val.String()
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

// toDate parses a birth date. Unparseable values are absent.
func toDate(v any) *time.Time {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		if val.IsZero() {
			return nil
		}
		d := time.Date(val.Year(), val.Month(), val.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	case *time.Time:
		if val == nil {
			return nil
		}
		return toDate(*val)
	case float64:
		return fromSerial(val)
	case int:
		return fromSerial(float64(val))
	case int64:
		return fromSerial(float64(val))
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil
		}
		return fromSerial(f)
	}

	s := toString(v)
	if s == "" {
		return nil
	}
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return toDate(t)
		}
	}
	return nil
}

// fromSerial converts a spreadsheet serial day number
func fromSerial(days float64) *time.Time {
	if days < 1 || days > 2958465 || math.IsNaN(days) {
		return nil
	}
	d := spreadsheetEpoch.AddDate(0, 0, int(days))
	return &d
}

// toList converts list-shaped values; strings are split on ";" or ","
func toList(v any) []string {
	var raw []string
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		raw = val
	case []any:
		for _, item := range val {
			raw = append(raw, toString(item))
		}
	default:
		raw = strings.FieldsFunc(toString(val), func(r rune) bool {
			return r == ';' || r == ','
		})
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
