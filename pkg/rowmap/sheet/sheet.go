// Package sheet defines the spreadsheet document abstraction consumed by the
// mapping engine, together with an excelize-backed implementation.
package sheet

// Document is a workbook exposing named and indexed sheet access.
type Document interface {
	// Sheet returns the sheet with the given name.
	Sheet(name string) (Sheet, bool)
	// SheetAt returns the sheet at the given 0-based position.
	SheetAt(index int) (Sheet, bool)
	// NewSheet creates a sheet, returning the existing one if the name is taken.
	NewSheet(name string) (Sheet, error)
	// NewStyle registers a display format and returns its style id.
	NewStyle(format NumFmt) (int, error)
}

// Sheet is a single worksheet. Rows and columns are 0-based.
type Sheet interface {
	Name() string
	// Row returns the row at index if it exists.
	Row(index int) (Row, bool)
	// CreateRow returns the row at index, creating it if needed.
	CreateRow(index int) Row
	// LastRowIndex returns the index of the last row holding data, or -1.
	LastRowIndex() int
	// SetColumnStyle assigns a default style to a whole column.
	SetColumnStyle(col int, style int) error
}

// Row is a single sheet row.
type Row interface {
	Index() int
	// Cell returns the cell at col if the row extends that far.
	Cell(col int) (Cell, bool)
	// CreateCell returns the cell at col, creating it if needed.
	CreateCell(col int) Cell
	// Cells enumerates the cells present in the row.
	Cells() []Cell
	// Clear blanks every cell of the row without removing the row.
	Clear() error
}

// Cell is a single sheet cell.
type Cell interface {
	Row() int
	Column() int
	Value() (Value, error)
	Set(v Value) error
	SetStyle(style int) error
}

// NumFmt describes a display format: a builtin format id or a custom pattern.
// Custom takes precedence when both are set.
type NumFmt struct {
	Builtin int
	Custom  string
}

// IsZero reports whether no format is specified.
func (f NumFmt) IsZero() bool {
	return f.Builtin == 0 && f.Custom == ""
}

// DateTimeFormat is the builtin "m/d/yy h:mm" format used for date columns
// that declare no format of their own.
var DateTimeFormat = NumFmt{Builtin: 22}
