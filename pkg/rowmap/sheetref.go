package rowmap

import (
	"fmt"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

// SheetRef selects a sheet by name or by 0-based position.
type SheetRef struct {
	name   string
	index  int
	byName bool
}

// SheetName refers to the sheet called name.
func SheetName(name string) SheetRef {
	return SheetRef{name: name, byName: true}
}

// SheetIndex refers to the sheet at the 0-based position index.
func SheetIndex(index int) SheetRef {
	return SheetRef{index: index}
}

// FirstSheet refers to the first sheet of a workbook.
var FirstSheet = SheetIndex(0)

func (r SheetRef) String() string {
	if r.byName {
		return fmt.Sprintf("%q", r.name)
	}
	return fmt.Sprintf("#%d", r.index)
}

func (r SheetRef) find(doc sheet.Document) (sheet.Sheet, error) {
	var (
		sh sheet.Sheet
		ok bool
	)
	if r.byName {
		sh, ok = doc.Sheet(r.name)
	} else {
		sh, ok = doc.SheetAt(r.index)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, r)
	}
	return sh, nil
}

// findOrCreate returns the referenced sheet, creating it when missing. A
// missing indexed sheet is named after its 1-based position.
func (r SheetRef) findOrCreate(doc sheet.Document) (sheet.Sheet, error) {
	if sh, err := r.find(doc); err == nil {
		return sh, nil
	}
	return doc.NewSheet(r.newName())
}

// newName is the name given to the sheet when it has to be created.
func (r SheetRef) newName() string {
	if r.byName {
		return r.name
	}
	return fmt.Sprintf("Sheet%d", r.index+1)
}
