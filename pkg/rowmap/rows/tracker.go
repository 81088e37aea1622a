package rows

import (
	"reflect"
	"sort"
)

// Entry is a tracked record and the row it was read from.
type Entry struct {
	Row    int
	Record reflect.Value
}

// Tracker remembers, per sheet name, the record last read from each row.
// It is not safe for concurrent use.
type Tracker struct {
	sheets map[string]map[int]reflect.Value
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{sheets: make(map[string]map[int]reflect.Value)}
}

// Reset discards the records tracked for sheet.
func (t *Tracker) Reset(sheet string) {
	t.sheets[sheet] = make(map[int]reflect.Value)
}

// Track records rec as the content of row.
func (t *Tracker) Track(sheet string, row int, rec reflect.Value) {
	rows, ok := t.sheets[sheet]
	if !ok {
		rows = make(map[int]reflect.Value)
		t.sheets[sheet] = rows
	}
	rows[row] = rec
}

// Entries returns the records tracked for sheet in row order.
func (t *Tracker) Entries(sheet string) []Entry {
	rows := t.sheets[sheet]
	entries := make([]Entry, 0, len(rows))
	for row, rec := range rows {
		entries = append(entries, Entry{Row: row, Record: rec})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Row < entries[j].Row
	})
	return entries
}

// Len returns the number of records tracked for sheet.
func (t *Tracker) Len(sheet string) int {
	return len(t.sheets[sheet])
}

// Has reports whether a read pass was tracked for sheet.
func (t *Tracker) Has(sheet string) bool {
	_, ok := t.sheets[sheet]
	return ok
}
