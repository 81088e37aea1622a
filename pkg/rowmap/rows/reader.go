package rows

import (
	"errors"
	"fmt"
	"iter"
	"reflect"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/binding"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

// Read returns a lazy, single-pass sequence of records read from sh. Each
// record is a pointer to a new value of tm.Type. When tracker is not nil
// the sheet's tracked records are reset as iteration starts and every
// record is tracked under its row as it is yielded.
//
// Iteration stops at the first error.
func Read(sh sheet.Sheet, tm *binding.TypeMapping, w Window, tracker *Tracker) iter.Seq2[reflect.Value, error] {
	return func(yield func(reflect.Value, error) bool) {
		cols, err := ReadColumns(sh, tm, w)
		if err != nil {
			yield(reflect.Value{}, err)
			return
		}
		if tracker != nil {
			tracker.Reset(sh.Name())
		}

		last := w.lastRow(sh.LastRowIndex())
		for i := w.MinRow; i <= last; i++ {
			if w.isHeader(i) {
				continue
			}
			row, ok := sh.Row(i)
			if w.SkipBlankRows && (!ok || isBlankRow(row)) {
				continue
			}

			rec := reflect.New(tm.Type)
			if ok {
				if err := readRow(rec, row, cols); err != nil {
					yield(reflect.Value{}, err)
					return
				}
			}
			if tracker != nil {
				tracker.Track(sh.Name(), i, rec)
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func readRow(rec reflect.Value, row sheet.Row, cols []BoundColumn) error {
	for _, bc := range cols {
		cell, ok := row.Cell(bc.Index)
		if !ok {
			continue
		}
		raw, err := cell.Value()
		if err != nil {
			return fmt.Errorf("reading cell at row %d, column %d: %w", row.Index()+1, bc.Index+1, err)
		}
		if err := bc.Column.Read(rec, raw); err != nil {
			return locate(err, row.Index(), bc.Index)
		}
	}
	return nil
}

// locate attaches the 1-based position of a cell to conversion and
// validation errors.
func locate(err error, row, col int) error {
	var convErr *binding.ConversionError
	if errors.As(err, &convErr) {
		convErr.Row, convErr.Column = row+1, col+1
		return err
	}
	var validErr *binding.ValidationError
	if errors.As(err, &validErr) {
		validErr.Row = row + 1
	}
	return err
}

func isBlankRow(row sheet.Row) bool {
	for _, cell := range row.Cells() {
		v, err := cell.Value()
		if err != nil || v.Kind == sheet.KindFormula || !v.IsBlank() {
			return false
		}
	}
	return true
}
