// Package rows converts sheet rows into records and records into sheet rows
// using a binding.TypeMapping.
package rows

import (
	"fmt"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/binding"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

// Window selects the rows taking part in a read or write. Row indexes are
// 0-based and MaxRow is inclusive; a negative MaxRow means unbounded.
type Window struct {
	HasHeader     bool
	HeaderRow     int
	MinRow        int
	MaxRow        int
	SkipBlankRows bool
}

// DefaultWindow returns a window with a header in the first row, covering
// every following row and skipping blank ones.
func DefaultWindow() Window {
	return Window{
		HasHeader:     true,
		MaxRow:        -1,
		SkipBlankRows: true,
	}
}

func (w Window) isHeader(row int) bool {
	return w.HasHeader && row == w.HeaderRow
}

// lastRow clamps the sheet's last row index to the window.
func (w Window) lastRow(sheetLast int) int {
	if w.MaxRow >= 0 && w.MaxRow < sheetLast {
		return w.MaxRow
	}
	return sheetLast
}

func (w Window) contains(row int) bool {
	return row >= w.MinRow && (w.MaxRow < 0 || row <= w.MaxRow) && !w.isHeader(row)
}

// BoundColumn is a binding resolved to a concrete sheet column.
type BoundColumn struct {
	Index  int
	Column *binding.Column
}

// ReadColumns resolves the columns read from sh.
func ReadColumns(sh sheet.Sheet, tm *binding.TypeMapping, w Window) ([]BoundColumn, error) {
	return resolve(sh, tm, w, binding.Direction.CanRead)
}

func resolve(sh sheet.Sheet, tm *binding.TypeMapping, w Window, allowed func(binding.Direction) bool) ([]BoundColumn, error) {
	if w.HasHeader {
		if header, ok := sh.Row(w.HeaderRow); ok && len(header.Cells()) > 0 {
			return matchHeader(header, tm, allowed)
		}
	}

	var cols []BoundColumn
	for _, idx := range tm.Indexes() {
		c, _ := tm.At(idx)
		if allowed(c.Direction) {
			cols = append(cols, BoundColumn{Index: idx, Column: c})
		}
	}
	return cols, nil
}

// matchHeader binds header cells to columns by name. Header cells matching
// no name fall back to the binding registered at their index, unless that
// binding already matched another header cell.
func matchHeader(header sheet.Row, tm *binding.TypeMapping, allowed func(binding.Direction) bool) ([]BoundColumn, error) {
	cells := header.Cells()
	named := make([]*binding.Column, len(cells))
	matched := make(map[*binding.Column]bool)
	for i, cell := range cells {
		v, err := cell.Value()
		if err != nil {
			return nil, fmt.Errorf("reading header cell %d: %w", cell.Column()+1, err)
		}
		v = v.Cached()
		if v.Kind == sheet.KindString && v.Str != "" {
			if c, ok := tm.Lookup(v.Str); ok {
				named[i] = c
				matched[c] = true
			}
		}
	}

	var cols []BoundColumn
	for i, cell := range cells {
		c := named[i]
		if c == nil {
			if ic, ok := tm.At(cell.Column()); ok && !matched[ic] {
				c = ic
			}
		}
		if c != nil && allowed(c.Direction) {
			cols = append(cols, BoundColumn{Index: cell.Column(), Column: c})
		}
	}
	return cols, nil
}

// WriteColumns resolves the columns written to sh, creating the header row
// when the window has one and the sheet does not.
func WriteColumns(sh sheet.Sheet, tm *binding.TypeMapping, w Window) ([]BoundColumn, error) {
	if !w.HasHeader {
		return resolve(sh, tm, w, binding.Direction.CanWrite)
	}
	if header, ok := sh.Row(w.HeaderRow); ok && len(header.Cells()) > 0 {
		return matchHeader(header, tm, binding.Direction.CanWrite)
	}

	header := sh.CreateRow(w.HeaderRow)
	used := make(map[int]bool)
	var cols []BoundColumn
	add := func(idx int, c *binding.Column) error {
		used[idx] = true
		cols = append(cols, BoundColumn{Index: idx, Column: c})
		if c.Name == "" {
			return nil
		}
		return header.CreateCell(idx).Set(sheet.String(c.Name))
	}

	for _, idx := range tm.Indexes() {
		c, _ := tm.At(idx)
		if !c.Direction.CanWrite() {
			continue
		}
		if err := add(idx, c); err != nil {
			return nil, err
		}
	}
	next := 0
	for _, c := range tm.Named() {
		if !c.Direction.CanWrite() || c.Index >= 0 {
			continue
		}
		for used[next] {
			next++
		}
		if err := add(next, c); err != nil {
			return nil, err
		}
	}
	return cols, nil
}
