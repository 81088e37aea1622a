package models

// HeaderCell represents a single header cell and the field it binds to.
type HeaderCell struct {
	// C is the column index (1-based).
	C int `json:"c"`
	// Text is the header text.
	Text string `json:"text"`
	// Field is the bound record field (empty when unbound or no type given).
	Field string `json:"field,omitempty"`
}
