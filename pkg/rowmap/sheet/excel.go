package sheet

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/xuri/nfp"
)

// Workbook is a Document backed by an excelize file.
type Workbook struct {
	f        *excelize.File
	date1904 bool
	// fresh is set for workbooks created by NewWorkbook until a sheet is
	// handed out; the first NewSheet then renames the default sheet.
	fresh      bool
	sheets     map[string]*xlSheet
	dateStyles map[int]bool
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	wb := Wrap(excelize.NewFile())
	wb.fresh = true
	return wb
}

// OpenFile opens the xlsx file at path.
func OpenFile(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return Wrap(f), nil
}

// OpenReader reads an xlsx document from r.
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	return Wrap(f), nil
}

// Wrap adapts an already open excelize file.
func Wrap(f *excelize.File) *Workbook {
	wb := &Workbook{
		f:          f,
		sheets:     make(map[string]*xlSheet),
		dateStyles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb
}

// File returns the underlying excelize file.
func (w *Workbook) File() *excelize.File {
	return w.f
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	return w.f.SaveAs(path)
}

// Write writes the workbook to wr.
func (w *Workbook) Write(wr io.Writer) error {
	return w.f.Write(wr)
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.f.Close()
}

func (w *Workbook) Sheet(name string) (Sheet, bool) {
	idx, err := w.f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, false
	}
	return w.sheet(name), true
}

func (w *Workbook) SheetAt(index int) (Sheet, bool) {
	list := w.f.GetSheetList()
	if index < 0 || index >= len(list) {
		return nil, false
	}
	return w.sheet(list[index]), true
}

func (w *Workbook) NewSheet(name string) (Sheet, error) {
	if s, ok := w.Sheet(name); ok {
		return s, nil
	}
	if w.fresh {
		w.fresh = false
		list := w.f.GetSheetList()
		if len(list) == 1 {
			if err := w.f.SetSheetName(list[0], name); err != nil {
				return nil, err
			}
			delete(w.sheets, list[0])
			return w.sheet(name), nil
		}
	}
	if _, err := w.f.NewSheet(name); err != nil {
		return nil, err
	}
	return w.sheet(name), nil
}

func (w *Workbook) NewStyle(format NumFmt) (int, error) {
	style := &excelize.Style{NumFmt: format.Builtin}
	if format.Custom != "" {
		custom := format.Custom
		style.CustomNumFmt = &custom
	}
	return w.f.NewStyle(style)
}

// sheet returns the cached view of a sheet; handing one out claims the
// default sheet of a fresh workbook.
func (w *Workbook) sheet(name string) *xlSheet {
	w.fresh = false
	s, ok := w.sheets[name]
	if !ok {
		s = &xlSheet{wb: w, name: name}
		w.sheets[name] = s
	}
	return s
}

// isDateStyle reports whether the style id carries a date or time format.
func (w *Workbook) isDateStyle(id int) bool {
	if id == 0 {
		return false
	}
	if v, ok := w.dateStyles[id]; ok {
		return v
	}
	v := false
	if style, err := w.f.GetStyle(id); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			v = isDatePattern(*style.CustomNumFmt)
		} else {
			v = isBuiltinDateFormat(style.NumFmt)
		}
	}
	w.dateStyles[id] = v
	return v
}

func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22, id >= 45 && id <= 47:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	}
	return false
}

func isDatePattern(pattern string) bool {
	p := nfp.NumberFormatParser()
	for _, section := range p.Parse(pattern) {
		for _, token := range section.Items {
			if token.TType == nfp.TokenTypeDateTimes || token.TType == nfp.TokenTypeElapsedDateTimes {
				return true
			}
		}
	}
	return false
}

// xlSheet keeps a raw snapshot of the sheet's cells to answer row and cell
// existence queries; cell values are always read from the file.
type xlSheet struct {
	wb     *Workbook
	name   string
	grid   [][]string
	loaded bool
}

func (s *xlSheet) Name() string {
	return s.name
}

func (s *xlSheet) load() [][]string {
	if !s.loaded {
		rows, err := s.wb.f.GetRows(s.name, excelize.Options{RawCellValue: true})
		if err != nil {
			rows = nil
		}
		s.grid = rows
		s.loaded = true
	}
	return s.grid
}

// mark records a write so the snapshot stays in sync without reloading.
func (s *xlSheet) mark(row, col int, blank bool) {
	grid := s.load()
	for len(grid) <= row {
		grid = append(grid, nil)
	}
	for len(grid[row]) <= col {
		grid[row] = append(grid[row], "")
	}
	if blank {
		grid[row][col] = ""
	} else {
		grid[row][col] = "\x00"
	}
	s.grid = grid
}

func (s *xlSheet) Row(index int) (Row, bool) {
	grid := s.load()
	if index < 0 || index >= len(grid) {
		return nil, false
	}
	return &xlRow{s: s, index: index}, true
}

func (s *xlSheet) CreateRow(index int) Row {
	return &xlRow{s: s, index: index}
}

func (s *xlSheet) LastRowIndex() int {
	grid := s.load()
	for i := len(grid) - 1; i >= 0; i-- {
		for _, v := range grid[i] {
			if v != "" {
				return i
			}
		}
	}
	return -1
}

func (s *xlSheet) SetColumnStyle(col int, style int) error {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return err
	}
	return s.wb.f.SetColStyle(s.name, name, style)
}

type xlRow struct {
	s     *xlSheet
	index int
}

func (r *xlRow) Index() int {
	return r.index
}

func (r *xlRow) cells() []string {
	grid := r.s.load()
	if r.index >= len(grid) {
		return nil
	}
	return grid[r.index]
}

func (r *xlRow) Cell(col int) (Cell, bool) {
	if col < 0 || col >= len(r.cells()) {
		return nil, false
	}
	return &xlCell{s: r.s, row: r.index, col: col}, true
}

func (r *xlRow) CreateCell(col int) Cell {
	return &xlCell{s: r.s, row: r.index, col: col}
}

func (r *xlRow) Cells() []Cell {
	var result []Cell
	for col, v := range r.cells() {
		if v == "" {
			continue
		}
		result = append(result, &xlCell{s: r.s, row: r.index, col: col})
	}
	return result
}

func (r *xlRow) Clear() error {
	for _, c := range r.Cells() {
		if err := c.Set(Blank); err != nil {
			return err
		}
	}
	return nil
}

type xlCell struct {
	s        *xlSheet
	row, col int
}

func (c *xlCell) Row() int {
	return c.row
}

func (c *xlCell) Column() int {
	return c.col
}

func (c *xlCell) axis() (string, error) {
	return excelize.CoordinatesToCellName(c.col+1, c.row+1)
}

func (c *xlCell) Value() (Value, error) {
	axis, err := c.axis()
	if err != nil {
		return Blank, err
	}
	f := c.s.wb.f
	formula, err := f.GetCellFormula(c.s.name, axis)
	if err != nil {
		return Blank, err
	}
	typ, err := f.GetCellType(c.s.name, axis)
	if err != nil {
		return Blank, err
	}
	raw, err := f.GetCellValue(c.s.name, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		return Blank, err
	}
	v := c.decode(axis, typ, raw)
	if formula != "" {
		return Formula(formula, &v), nil
	}
	return v, nil
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (c *xlCell) decode(axis string, typ excelize.CellType, raw string) Value {
	switch typ {
	case excelize.CellTypeBool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return Bool(b)
		}
		return String(raw)
	case excelize.CellTypeError:
		return Error(raw)
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return String(raw)
	case excelize.CellTypeDate:
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return Date(t)
			}
		}
		return String(raw)
	}
	if raw == "" {
		return Blank
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return String(raw)
	}
	if id, err := c.s.wb.f.GetCellStyle(c.s.name, axis); err == nil && c.s.wb.isDateStyle(id) {
		if t, err := excelize.ExcelDateToTime(n, c.s.wb.date1904); err == nil {
			return Date(t.Round(time.Millisecond))
		}
	}
	return Number(n)
}

func (c *xlCell) Set(v Value) error {
	axis, err := c.axis()
	if err != nil {
		return err
	}
	f, name := c.s.wb.f, c.s.name
	switch v.Kind {
	case KindBlank:
		if err = f.SetCellFormula(name, axis, ""); err == nil {
			err = f.SetCellDefault(name, axis, "")
		}
	case KindNumber:
		err = f.SetCellFloat(name, axis, v.Number, -1, 64)
	case KindBool:
		err = f.SetCellBool(name, axis, v.Bool)
	case KindString, KindError:
		err = f.SetCellStr(name, axis, v.Str)
	case KindDate:
		err = f.SetCellValue(name, axis, v.Time)
	case KindFormula:
		err = f.SetCellFormula(name, axis, v.Str)
	default:
		err = fmt.Errorf("unsupported cell kind %s", v.Kind)
	}
	if err != nil {
		return err
	}
	c.s.mark(c.row, c.col, v.IsBlank())
	return nil
}

func (c *xlCell) SetStyle(style int) error {
	axis, err := c.axis()
	if err != nil {
		return err
	}
	return c.s.wb.f.SetCellStyle(c.s.name, axis, axis, style)
}
