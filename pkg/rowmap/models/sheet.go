package models

// SheetInfo represents the layout of a single sheet.
type SheetInfo struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Range is the used cell range (e.g., "A1:D10"), empty for a blank sheet.
	Range string `json:"range,omitempty"`
	// DataRows is the number of non-blank rows below the header.
	DataRows int `json:"data_rows"`
	// Header contains the header cells of the sheet.
	Header []HeaderCell `json:"header,omitempty"`
}
