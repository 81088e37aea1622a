package rows

import (
	"fmt"
	"sort"
	"time"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

// memDoc is an in-memory sheet.Document.
type memDoc struct {
	sheets []*memSheet
	styles []sheet.NumFmt
}

func newMemDoc(names ...string) *memDoc {
	d := &memDoc{}
	for _, name := range names {
		d.NewSheet(name)
	}
	return d
}

func (d *memDoc) Sheet(name string) (sheet.Sheet, bool) {
	for _, s := range d.sheets {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

func (d *memDoc) SheetAt(index int) (sheet.Sheet, bool) {
	if index < 0 || index >= len(d.sheets) {
		return nil, false
	}
	return d.sheets[index], true
}

func (d *memDoc) NewSheet(name string) (sheet.Sheet, error) {
	if s, ok := d.Sheet(name); ok {
		return s, nil
	}
	s := &memSheet{
		name:      name,
		rows:      make(map[int]map[int]*memCell),
		colStyles: make(map[int]int),
	}
	d.sheets = append(d.sheets, s)
	return s, nil
}

func (d *memDoc) NewStyle(format sheet.NumFmt) (int, error) {
	d.styles = append(d.styles, format)
	return len(d.styles), nil
}

func (d *memDoc) sheet(name string) *memSheet {
	s, _ := d.Sheet(name)
	return s.(*memSheet)
}

type memSheet struct {
	name      string
	rows      map[int]map[int]*memCell
	colStyles map[int]int
}

func (s *memSheet) Name() string { return s.name }

func (s *memSheet) Row(index int) (sheet.Row, bool) {
	if _, ok := s.rows[index]; !ok {
		return nil, false
	}
	return &memRow{s: s, index: index}, true
}

func (s *memSheet) CreateRow(index int) sheet.Row {
	if _, ok := s.rows[index]; !ok {
		s.rows[index] = make(map[int]*memCell)
	}
	return &memRow{s: s, index: index}
}

func (s *memSheet) LastRowIndex() int {
	last := -1
	for i, cells := range s.rows {
		for _, c := range cells {
			if c.present() && i > last {
				last = i
			}
		}
	}
	return last
}

func (s *memSheet) SetColumnStyle(col int, style int) error {
	s.colStyles[col] = style
	return nil
}

// set stores v at row, col; Go values are converted to cell values.
func (s *memSheet) set(row, col int, x any) {
	s.CreateRow(row).CreateCell(col).Set(cellValue(x))
}

// fill writes rows of Go values starting at row 0; nil leaves a cell out.
func (s *memSheet) fill(rows ...[]any) *memSheet {
	for r, values := range rows {
		for c, x := range values {
			if x != nil {
				s.set(r, c, x)
			}
		}
	}
	return s
}

func (s *memSheet) get(row, col int) sheet.Value {
	if c, ok := s.rows[row][col]; ok {
		return c.v
	}
	return sheet.Blank
}

func (s *memSheet) style(row, col int) int {
	if c, ok := s.rows[row][col]; ok {
		return c.style
	}
	return 0
}

func cellValue(x any) sheet.Value {
	switch v := x.(type) {
	case sheet.Value:
		return v
	case string:
		return sheet.String(v)
	case int:
		return sheet.Number(float64(v))
	case float64:
		return sheet.Number(v)
	case bool:
		return sheet.Bool(v)
	case time.Time:
		return sheet.Date(v)
	}
	panic(fmt.Sprintf("unsupported test value %T", x))
}

type memRow struct {
	s     *memSheet
	index int
}

func (r *memRow) Index() int { return r.index }

func (r *memRow) Cell(col int) (sheet.Cell, bool) {
	c, ok := r.s.rows[r.index][col]
	return c, ok
}

func (r *memRow) CreateCell(col int) sheet.Cell {
	cells := r.s.rows[r.index]
	if cells == nil {
		cells = make(map[int]*memCell)
		r.s.rows[r.index] = cells
	}
	c, ok := cells[col]
	if !ok {
		c = &memCell{row: r.index, col: col}
		cells[col] = c
	}
	return c
}

func (r *memRow) Cells() []sheet.Cell {
	var out []*memCell
	for _, c := range r.s.rows[r.index] {
		if c.present() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].col < out[j].col })
	cells := make([]sheet.Cell, len(out))
	for i, c := range out {
		cells[i] = c
	}
	return cells
}

func (r *memRow) Clear() error {
	for _, c := range r.s.rows[r.index] {
		c.v = sheet.Blank
	}
	return nil
}

type memCell struct {
	row, col int
	v        sheet.Value
	style    int
}

func (c *memCell) present() bool {
	return c.v.Kind == sheet.KindFormula || !c.v.IsBlank()
}

func (c *memCell) Row() int                    { return c.row }
func (c *memCell) Column() int                 { return c.col }
func (c *memCell) Value() (sheet.Value, error) { return c.v, nil }
func (c *memCell) Set(v sheet.Value) error     { c.v = v; return nil }
func (c *memCell) SetStyle(style int) error    { c.style = style; return nil }
