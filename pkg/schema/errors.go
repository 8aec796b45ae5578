package schema

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
)

// SchemaError is returned when a mandatory field is absent from the input's
// recognized schema. It is the only condition that fails a whole batch.
type SchemaError struct {
	Field   string
	Message string
}

// NewMissingFieldError creates a SchemaError for an absent mandatory field
func NewMissingFieldError(field string) *SchemaError {
	return &SchemaError{
		Field:   field,
		Message: "mandatory field is missing from the input columns",
	}
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("field '%s': %s", e.Field, e.Message)
}

// ToHTTPError converts the error for an upload surface
func (e *SchemaError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadRequest, e.Error()).AddMetaValue("field", e.Field)
}

// IsSchemaError reports whether err is or wraps a SchemaError
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
