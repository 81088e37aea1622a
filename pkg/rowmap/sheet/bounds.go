package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Bounds is a 0-based inclusive cell rectangle.
type Bounds struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// Empty reports whether the bounds contain no cell.
func (b Bounds) Empty() bool {
	return b.MinRow < 0
}

// Ref returns the bounds in A1 notation, e.g. "A1:D10".
func (b Bounds) Ref() string {
	if b.Empty() {
		return ""
	}
	start, _ := excelize.CoordinatesToCellName(b.MinCol+1, b.MinRow+1)
	end, _ := excelize.CoordinatesToCellName(b.MaxCol+1, b.MaxRow+1)
	return fmt.Sprintf("%s:%s", start, end)
}

// DataBounds finds the bounding box of the non-empty cells of a sheet.
func DataBounds(s Sheet) Bounds {
	b := Bounds{MinRow: -1, MaxRow: -1, MinCol: -1, MaxCol: -1}
	for rowIdx := 0; rowIdx <= s.LastRowIndex(); rowIdx++ {
		row, ok := s.Row(rowIdx)
		if !ok {
			continue
		}
		for _, cell := range row.Cells() {
			colIdx := cell.Column()
			if b.MinRow < 0 || rowIdx < b.MinRow {
				b.MinRow = rowIdx
			}
			if b.MaxRow < 0 || rowIdx > b.MaxRow {
				b.MaxRow = rowIdx
			}
			if b.MinCol < 0 || colIdx < b.MinCol {
				b.MinCol = colIdx
			}
			if b.MaxCol < 0 || colIdx > b.MaxCol {
				b.MaxCol = colIdx
			}
		}
	}
	return b
}

// ParseRowRange parses a range such as "$A$4:$F$6" or "4:6" and returns the
// 0-based first and last row it spans.
func ParseRowRange(ref string) (minRow, maxRow int, err error) {
	ref = strings.ReplaceAll(strings.TrimSpace(ref), "$", "")
	if idx := strings.LastIndex(ref, "!"); idx >= 0 {
		ref = ref[idx+1:]
	}

	parts := strings.Split(ref, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid range %q", ref)
	}

	startRow, err := rowOf(parts[0])
	if err != nil {
		return 0, 0, err
	}
	endRow, err := rowOf(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	return startRow - 1, endRow - 1, nil
}

// rowOf returns the 1-based row of a cell reference or a bare row number.
func rowOf(ref string) (int, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 {
			return 0, fmt.Errorf("invalid row %q", ref)
		}
		return n, nil
	}
	_, row, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return 0, err
	}
	return row, nil
}
