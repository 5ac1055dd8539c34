package catalog

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedRecord matches every decode failure of a Model or Permission.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError describes why a record could not be decoded. The whole
// record is rejected; no fields are kept.
type MalformedRecordError struct {
	// Record is the kind of record being decoded ("model", "permission", "list").
	Record string
	// Field is the JSON name of the offending field, when known.
	Field  string
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed %s: %s: %s", e.Record, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed %s: %s", e.Record, e.Reason)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// malformed classifies a decode or validation error into a MalformedRecordError.
func malformed(record string, err error) error {
	var nested *MalformedRecordError
	if errors.As(err, &nested) {
		return err
	}

	e := &MalformedRecordError{Record: record, Err: err}

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &typeErr):
		e.Field = typeErr.Field
		e.Reason = fmt.Sprintf("cannot use JSON %s as %s", typeErr.Value, typeErr.Type)
	case errors.As(err, &syntaxErr):
		e.Reason = fmt.Sprintf("invalid JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &validationErrs) && len(validationErrs) > 0:
		first := validationErrs[0]
		e.Field = first.Field()
		e.Reason = first.Translate(translator)
	default:
		e.Reason = err.Error()
	}
	return e
}
