// Package models defines report structures produced by rowmap.Inspect.
package models

// WorkbookInfo represents a workbook-level summary with per-sheet data.
type WorkbookInfo struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets lists the sheets in workbook order.
	Sheets []SheetInfo `json:"sheets"`
}
