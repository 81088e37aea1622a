package sheet

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestDataBounds(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "B2", "Header1")
	f.SetCellValue("Sheet1", "D2", "Header2")
	f.SetCellValue("Sheet1", "C5", 10)

	sh, ok := Wrap(f).Sheet("Sheet1")
	if !ok {
		t.Fatal("Sheet1 not found")
	}

	b := DataBounds(sh)
	want := Bounds{MinRow: 1, MaxRow: 4, MinCol: 1, MaxCol: 3}
	if b != want {
		t.Errorf("DataBounds = %+v, expected %+v", b, want)
	}
	if got := b.Ref(); got != "B2:D5" {
		t.Errorf("Ref() = %q, expected %q", got, "B2:D5")
	}
}

func TestDataBoundsEmptySheet(t *testing.T) {
	wb := NewWorkbook()
	defer wb.Close()

	sh, _ := wb.SheetAt(0)
	b := DataBounds(sh)
	if !b.Empty() {
		t.Errorf("expected empty bounds, got %+v", b)
	}
	if b.Ref() != "" {
		t.Errorf("Ref() = %q, expected empty", b.Ref())
	}
}

func TestParseRowRange(t *testing.T) {
	tests := []struct {
		input   string
		minRow  int
		maxRow  int
		wantErr bool
	}{
		{"A4:F6", 3, 5, false},
		{"$A$4:$F$6", 3, 5, false},
		{"Sheet1!$B$2:$C$10", 1, 9, false},
		{"4:6", 3, 5, false},
		{"6:4", 3, 5, false},
		{"A1", 0, 0, true},
		{"0:3", 0, 0, true},
		{"A:B", 0, 0, true},
	}

	for _, tt := range tests {
		minRow, maxRow, err := ParseRowRange(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRowRange(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRowRange(%q) failed: %v", tt.input, err)
			continue
		}
		if minRow != tt.minRow || maxRow != tt.maxRow {
			t.Errorf("ParseRowRange(%q) = (%d, %d), expected (%d, %d)",
				tt.input, minRow, maxRow, tt.minRow, tt.maxRow)
		}
	}
}
