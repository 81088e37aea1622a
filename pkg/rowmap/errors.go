package rowmap

import (
	"errors"
	"fmt"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/binding"
)

// ErrSheetNotFound indicates the requested sheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrNoTrackedObjects indicates a tracked save for a sheet that was never read.
var ErrNoTrackedObjects = errors.New("no tracked objects")

// ErrUnsupportedType indicates a record type with no fields to bind.
var ErrUnsupportedType = binding.ErrUnsupportedType

type (
	// ConversionError reports a cell value that could not be converted.
	ConversionError = binding.ConversionError
	// ValidationError reports a value rejected by a field's rules.
	ValidationError = binding.ValidationError
	// MappingError reports a problem with a record type's bindings.
	MappingError = binding.MappingError
)

// SheetError represents an error while reading or writing a sheet.
type SheetError struct {
	SheetName string
	Op        string // "fetch", "save", "save tracked"
	Err       error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("%s sheet %q: %v", e.Op, e.SheetName, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

func newSheetError(sheetName, op string, err error) *SheetError {
	return &SheetError{
		SheetName: sheetName,
		Op:        op,
		Err:       err,
	}
}
