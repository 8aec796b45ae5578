// Package schema maps spreadsheet-shaped rows onto client records.
//
// Column names are free-form; they are identified by exact field name first,
// then by keyword heuristics over the lower-cased, accent-free header.
package schema

import (
	"strings"
	"unicode"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/normalizers"
)

// RecognizedFields are the record fields an input column can map to
var RecognizedFields = []string{
	models.FieldName,
	models.FieldNationalID,
	models.FieldStateID,
	models.FieldPhone,
	models.FieldEmail,
	models.FieldAddress,
	models.FieldBirthDate,
	models.FieldOrders,
	models.FieldSourceID,
	models.FieldOriginStore,
	models.FieldOriginFile,
}

// RequiredFields must be present in the recognized schema
var RequiredFields = []string{models.FieldName}

type columnRule struct {
	field string
	// substrings match anywhere in the header, tokens only whole words
	substrings []string
	tokens     []string
}

// Rules are checked in order; name comes last so that headers such as
// "cpf do cliente" or "email do cliente" map to their specific field.
var columnRules = []columnRule{
	{field: models.FieldNationalID, substrings: []string{"cpf", "national_id"}, tokens: []string{"documento"}},
	{field: models.FieldStateID, substrings: []string{"state_id", "inscricao"}, tokens: []string{"rg"}},
	{field: models.FieldBirthDate, substrings: []string{"nascimento", "nasc", "aniversario", "birth"}},
	{field: models.FieldEmail, substrings: []string{"email", "e-mail"}, tokens: []string{"mail"}},
	{field: models.FieldPhone, substrings: []string{"telefone", "celular", "fone", "whats", "phone"}, tokens: []string{"tel", "cel"}},
	{field: models.FieldAddress, substrings: []string{"endereco", "logradouro", "address"}, tokens: []string{"rua"}},
	{field: models.FieldOrders, substrings: []string{"pedido", "order"}},
	{field: models.FieldOriginStore, substrings: []string{"loja", "store", "filial"}},
	{field: models.FieldOriginFile, substrings: []string{"arquivo", "planilha", "file"}},
	{field: models.FieldSourceID, substrings: []string{"source_id", "codigo"}, tokens: []string{"id", "cod"}},
	{field: models.FieldName, substrings: []string{"nome", "cliente", "paciente", "name"}},
}

// IdentifyColumn maps one header to a recognized field, or "" when none applies
func IdentifyColumn(header string) string {
	h := canonicalHeader(header)
	if h == "" {
		return ""
	}

	for _, f := range RecognizedFields {
		if h == f {
			return f
		}
	}

	words := strings.FieldsFunc(h, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, rule := range columnRules {
		for _, s := range rule.substrings {
			if strings.Contains(h, s) {
				return rule.field
			}
		}
		for _, t := range rule.tokens {
			for _, w := range words {
				if w == t {
					return rule.field
				}
			}
		}
	}

	return ""
}

// IdentifyColumns maps headers to fields. When several headers identify the
// same field, the first one wins and the rest are left unmapped.
func IdentifyColumns(headers []string) map[string]string {
	mapping := make(map[string]string)
	taken := make(map[string]bool)

	for _, h := range headers {
		field := IdentifyColumn(h)
		if field == "" || taken[field] {
			continue
		}
		taken[field] = true
		mapping[h] = field
	}

	return mapping
}

// ValidateSchema checks that every required field has a column
func ValidateSchema(mapping map[string]string) error {
	present := make(map[string]bool, len(mapping))
	for _, f := range mapping {
		present[f] = true
	}

	for _, f := range RequiredFields {
		if !present[f] {
			return NewMissingFieldError(f)
		}
	}
	return nil
}

func canonicalHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = normalizers.StripDiacritics(h)
	return strings.Join(strings.Fields(h), " ")
}
