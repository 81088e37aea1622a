package binding

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

// ErrUnsupportedType indicates a type that has no fields to bind.
var ErrUnsupportedType = errors.New("unsupported mapping target")

// ErrUnknownField indicates a field name that does not exist on the record type.
var ErrUnknownField = errors.New("unknown field")

// ErrInvalidDeclaration indicates a malformed xlsx struct tag.
var ErrInvalidDeclaration = errors.New("invalid column declaration")

// MappingError represents an error while building or changing a type mapping.
type MappingError struct {
	Type  reflect.Type
	Field string // empty when the error concerns the whole type
	Err   error
}

func (e *MappingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("mapping %v: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("mapping %v.%s: %v", e.Type, e.Field, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// ConversionError represents a cell value that could not be converted to or
// from a field. Row and Column are 1-based; zero means unknown.
type ConversionError struct {
	Value  sheet.Value
	Type   reflect.Type
	Field  string
	Row    int
	Column int
	Err    error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("cannot convert %s value %q to %v for field %s", e.Value.Kind, e.Value.Text(), e.Type, e.Field)
	if e.Row > 0 {
		msg += fmt.Sprintf(" at row %d, column %d", e.Row, e.Column)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// ValidationError represents a converted value rejected by a field's rules.
type ValidationError struct {
	Field   string
	Value   any
	Message string
	Row     int
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("invalid value %v for field %s at row %d: %s", e.Value, e.Field, e.Row, e.Message)
	}
	return fmt.Sprintf("invalid value %v for field %s: %s", e.Value, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
