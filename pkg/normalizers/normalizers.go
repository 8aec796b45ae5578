// Package normalizers provides field normalization functions for client matching.
// Every normalizer is pure and total: malformed input normalizes to "".
package normalizers

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Ramsey-B/clover/pkg/models"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("uppercase", Uppercase)
	Register("trim", Trim)
	Register("strip_diacritics", StripDiacritics)
	Register("digits_only", DigitsOnly)
	Register("nname", NormalizeName)
	Register("nnational_id", NormalizeNationalID)
	Register("nphone", NormalizePhone)
	Register("nemail", NormalizeEmail)
	Register("naddress", NormalizeAddress)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value. Unknown names leave the value unchanged.
func Apply(value, normalizer string) string {
	fn, ok := Get(normalizer)
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// FieldNormalizers maps each compared field to the registered normalizer used for it
var FieldNormalizers = map[string]string{
	models.FieldName:       "nname",
	models.FieldNationalID: "nnational_id",
	models.FieldPhone:      "nphone",
	models.FieldEmail:      "nemail",
	models.FieldAddress:    "naddress",
}

// NormalizeRecord builds the comparison-stable form of a record
func NormalizeRecord(index int, r *models.ClientRecord) *models.NormalizedRecord {
	return &models.NormalizedRecord{
		Index:      index,
		Record:     r,
		Name:       Apply(r.Name, FieldNormalizers[models.FieldName]),
		NationalID: Apply(r.NationalID, FieldNormalizers[models.FieldNationalID]),
		Phone:      Apply(r.Phone, FieldNormalizers[models.FieldPhone]),
		Email:      Apply(r.Email, FieldNormalizers[models.FieldEmail]),
		Address:    Apply(r.Address, FieldNormalizers[models.FieldAddress]),
	}
}

// NormalizeRecords normalizes a batch, preserving order
func NormalizeRecords(records []models.ClientRecord) []*models.NormalizedRecord {
	out := make([]*models.NormalizedRecord, len(records))
	for i := range records {
		out[i] = NormalizeRecord(i, &records[i])
	}
	return out
}

// Built-in normalizers

// StripDiacritics removes combining marks (JOÃO -> JOAO).
// Chains carry state, so one is built per call.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// Uppercase converts string to uppercase
func Uppercase(s string) string {
	return strings.ToUpper(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// DigitsOnly keeps only ASCII digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// canonicalText trims, strips diacritics and upper-cases. Marks go first:
// letters like U+1E96 have no single-rune upper case and only fold once bare.
func canonicalText(s string) string {
	return strings.ToUpper(StripDiacritics(strings.TrimSpace(s)))
}

var honorifics = map[string]bool{
	"DR": true, "DRA": true, "SR": true, "SRA": true, "SRTA": true, "PROF": true, "ENG": true,
}

var connectors = map[string]bool{
	"DE": true, "DA": true, "DO": true, "DAS": true, "DOS": true, "E": true,
}

// NormalizeName normalizes a person's name for matching
//   - Upper-case, diacritics removed
//   - Punctuation dropped, hyphens and runs of whitespace collapsed to one space
//   - Honorifics (DR, SRA, PROF...) removed
//   - Connectors (DE, DA, DOS...) removed when the name has more than two tokens
//     and at least two tokens remain
func NormalizeName(s string) string {
	s = canonicalText(s)

	var cleaned strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			cleaned.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			cleaned.WriteRune(' ')
		}
	}

	tokens := strings.Fields(cleaned.String())
	if len(tokens) == 0 {
		return ""
	}

	if kept := dropTokens(tokens, honorifics); len(kept) > 0 {
		tokens = kept
	}

	if len(tokens) > 2 {
		if kept := dropTokens(tokens, connectors); len(kept) >= 2 {
			tokens = kept
		}
	}

	return strings.Join(tokens, " ")
}

func dropTokens(tokens []string, drop map[string]bool) []string {
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !drop[t] {
			kept = append(kept, t)
		}
	}
	return kept
}

// NormalizeNationalID keeps the digits of an 11-digit national ID (CPF).
// Any other length is invalid and normalizes to "".
func NormalizeNationalID(s string) string {
	digits := DigitsOnly(s)
	if len(digits) == 11 {
		return digits
	}
	return ""
}

// NormalizePhone canonicalizes a Brazilian phone number to digits.
// The country code 55 is stripped from longer values and legacy 10-digit
// numbers get the mobile 9 inserted after the area code.
func NormalizePhone(s string) string {
	digits := DigitsOnly(s)
	for len(digits) > 11 && strings.HasPrefix(digits, "55") {
		digits = digits[2:]
	}

	switch {
	case len(digits) == 11 && digits[2] == '9':
		return digits
	case len(digits) == 10:
		return digits[:2] + "9" + digits[2:]
	default:
		return digits
	}
}

// NormalizeEmail lower-cases and trims an email address; values without "@" are invalid
func NormalizeEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.Contains(s, "@") {
		return ""
	}
	return s
}

type abbreviation struct {
	pattern     *regexp.Regexp
	replacement string
}

// addressAbbreviations expands street-type and unit abbreviations as whole tokens
var addressAbbreviations = []abbreviation{
	{regexp.MustCompile(`\bR\b\.?`), "RUA "},
	{regexp.MustCompile(`\bAV(E|DA)?\b\.?`), "AVENIDA "},
	{regexp.MustCompile(`\bTRAV\b\.?|\bTV\b\.?`), "TRAVESSA "},
	{regexp.MustCompile(`\bPCA\b\.?|\bPC\b\.?`), "PRACA "},
	{regexp.MustCompile(`\bESTR?\b\.?`), "ESTRADA "},
	{regexp.MustCompile(`\bROD\b\.?`), "RODOVIA "},
	{regexp.MustCompile(`\bAP(TO?)?\b\.?`), "APARTAMENTO "},
	{regexp.MustCompile(`\bCONJ\b\.?|\bCJ\b\.?`), "CONJUNTO "},
	{regexp.MustCompile(`\bBL\b\.?`), "BLOCO "},
	{regexp.MustCompile(`\bQD?\b\.?`), "QUADRA "},
	{regexp.MustCompile(`\bLT\b\.?`), "LOTE "},
}

var (
	addressPunct = regexp.MustCompile(`[^A-Z0-9/. ]+`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// NormalizeAddress normalizes an address string
func NormalizeAddress(s string) string {
	s = canonicalText(s)
	if s == "" {
		return ""
	}

	// Dots survive until after expansion so "R." and "AV." are recognized
	s = addressPunct.ReplaceAllString(s, " ")
	for _, abbr := range addressAbbreviations {
		s = abbr.pattern.ReplaceAllString(s, abbr.replacement)
	}
	s = strings.ReplaceAll(s, ".", " ")
	s = spaceRe.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}
