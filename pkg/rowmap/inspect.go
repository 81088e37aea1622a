package rowmap

import (
	"fmt"
	"path/filepath"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/binding"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/models"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/rows"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

// Inspect summarises the layout of the xlsx file at path. When tm is not
// nil, header cells are matched against its bindings.
func Inspect(path string, opts Options, tm *binding.TypeMapping) (*models.WorkbookInfo, error) {
	wb, err := sheet.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	return InspectWorkbook(wb, filepath.Base(path), opts, tm)
}

// InspectWorkbook summarises the layout of an open workbook.
func InspectWorkbook(wb *sheet.Workbook, bookName string, opts Options, tm *binding.TypeMapping) (*models.WorkbookInfo, error) {
	w := opts.Window()
	info := &models.WorkbookInfo{BookName: bookName}

	for _, name := range wb.SheetNames() {
		sh, ok := wb.Sheet(name)
		if !ok {
			continue
		}
		sheetInfo, err := inspectSheet(sh, w, tm)
		if err != nil {
			return nil, newSheetError(name, "inspect", err)
		}
		info.Sheets = append(info.Sheets, sheetInfo)
	}
	return info, nil
}

func inspectSheet(sh sheet.Sheet, w rows.Window, tm *binding.TypeMapping) (models.SheetInfo, error) {
	info := models.SheetInfo{
		Name:  sh.Name(),
		Range: sheet.DataBounds(sh).Ref(),
	}

	fields := make(map[int]string)
	if tm != nil {
		cols, err := rows.ReadColumns(sh, tm, w)
		if err != nil {
			return info, err
		}
		for _, bc := range cols {
			fields[bc.Index] = bc.Column.Field.Name
		}
	}

	if w.HasHeader {
		if header, ok := sh.Row(w.HeaderRow); ok {
			for _, cell := range header.Cells() {
				v, err := cell.Value()
				if err != nil {
					return info, fmt.Errorf("reading header: %w", err)
				}
				info.Header = append(info.Header, models.HeaderCell{
					C:     cell.Column() + 1,
					Text:  v.Cached().Text(),
					Field: fields[cell.Column()],
				})
			}
		}
	}

	last := sh.LastRowIndex()
	if w.MaxRow >= 0 && w.MaxRow < last {
		last = w.MaxRow
	}
	for i := w.MinRow; i <= last; i++ {
		if w.HasHeader && i == w.HeaderRow {
			continue
		}
		if row, ok := sh.Row(i); ok && len(row.Cells()) > 0 {
			info.DataRows++
		}
	}
	return info, nil
}
