package rows

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/binding"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

// Write stores records into consecutive rows of sh starting at w.MinRow,
// stepping over the header row. Writing stops at w.MaxRow. With
// w.SkipBlankRows, rows after the last record up to w.MaxRow are cleared.
func Write(doc sheet.Document, sh sheet.Sheet, tm *binding.TypeMapping, w Window, records iter.Seq[reflect.Value]) error {
	wr, err := newWriter(doc, sh, tm, w)
	if err != nil {
		return err
	}

	i := w.MinRow
	for rec := range records {
		if w.isHeader(i) {
			i++
		}
		if w.MaxRow >= 0 && i > w.MaxRow {
			break
		}
		if err := wr.writeRow(i, rec); err != nil {
			return err
		}
		i++
	}

	if w.SkipBlankRows {
		return wr.clearFrom(i)
	}
	return nil
}

// WriteEntries stores each entry's record back into the entry's row.
// Entries outside the window are skipped.
func WriteEntries(doc sheet.Document, sh sheet.Sheet, tm *binding.TypeMapping, w Window, entries []Entry) error {
	wr, err := newWriter(doc, sh, tm, w)
	if err != nil {
		return err
	}

	next := w.MinRow
	for _, e := range entries {
		if !w.contains(e.Row) {
			continue
		}
		if err := wr.writeRow(e.Row, e.Record); err != nil {
			return err
		}
		next = max(next, e.Row+1)
	}

	if w.SkipBlankRows {
		return wr.clearFrom(next)
	}
	return nil
}

type writer struct {
	sh     sheet.Sheet
	w      Window
	cols   []BoundColumn
	styles map[int]int
}

func newWriter(doc sheet.Document, sh sheet.Sheet, tm *binding.TypeMapping, w Window) (*writer, error) {
	cols, err := WriteColumns(sh, tm, w)
	if err != nil {
		return nil, err
	}

	wr := &writer{sh: sh, w: w, cols: cols, styles: make(map[int]int)}
	registered := make(map[sheet.NumFmt]int)
	for _, bc := range cols {
		format := bc.Column.StyleFormat()
		if format.IsZero() {
			continue
		}
		id, ok := registered[format]
		if !ok {
			if id, err = doc.NewStyle(format); err != nil {
				return nil, fmt.Errorf("creating style for column %d: %w", bc.Index+1, err)
			}
			registered[format] = id
		}
		if err := sh.SetColumnStyle(bc.Index, id); err != nil {
			return nil, fmt.Errorf("styling column %d: %w", bc.Index+1, err)
		}
		wr.styles[bc.Index] = id
	}
	return wr, nil
}

func (wr *writer) writeRow(i int, rec reflect.Value) error {
	row, ok := wr.sh.Row(i)
	if !ok {
		row = wr.sh.CreateRow(i)
	}
	for _, bc := range wr.cols {
		v, err := bc.Column.Write(rec)
		if err != nil {
			return locate(err, i, bc.Index)
		}
		cell, ok := row.Cell(bc.Index)
		if !ok {
			cell = row.CreateCell(bc.Index)
		}
		if id, ok := wr.styles[bc.Index]; ok {
			if err := cell.SetStyle(id); err != nil {
				return fmt.Errorf("styling cell at row %d, column %d: %w", i+1, bc.Index+1, err)
			}
		}
		if err := cell.Set(v); err != nil {
			return fmt.Errorf("writing cell at row %d, column %d: %w", i+1, bc.Index+1, err)
		}
	}
	return nil
}

// clearFrom blanks existing rows from start to the end of the window.
func (wr *writer) clearFrom(start int) error {
	last := wr.w.lastRow(wr.sh.LastRowIndex())
	for i := max(start, wr.w.MinRow); i <= last; i++ {
		if wr.w.isHeader(i) {
			continue
		}
		row, ok := wr.sh.Row(i)
		if !ok {
			continue
		}
		if err := row.Clear(); err != nil {
			return fmt.Errorf("clearing row %d: %w", i+1, err)
		}
	}
	return nil
}
