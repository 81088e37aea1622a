package rowmap

import (
	"log/slog"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/binding"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/rows"
)

// Options configures a Mapper. The zero value is ready to use.
type Options struct {
	// HasHeader specifies whether the sheet has a header row.
	// If nil, defaults to true.
	HasHeader *bool
	// HeaderRow is the 0-based index of the header row.
	HeaderRow int
	// MinRow is the 0-based index of the first data row considered.
	MinRow int
	// MaxRow is the 0-based index of the last data row considered.
	// If nil, rows are read and written up to the end of the sheet.
	MaxRow *int
	// SkipBlankRows skips blank rows on read and clears stale rows on write.
	// If nil, defaults to true.
	SkipBlankRows *bool
	// TrackObjects records fetched records by row for SaveTracked.
	// If nil, defaults to true.
	TrackObjects *bool
	// Cache holds the type mappings. If nil, the process-wide cache is used.
	Cache *binding.Cache
	// Logger receives debug events. If nil, slog.Default is used.
	Logger *slog.Logger
}

// DefaultOptions returns default mapper options.
func DefaultOptions() Options {
	return Options{}
}

// Bool returns a pointer to b, for use in Options.
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to n, for use in Options.
func Int(n int) *int {
	return &n
}

// ShouldUseHeader returns whether the sheet has a header row.
func (o Options) ShouldUseHeader() bool {
	if o.HasHeader != nil {
		return *o.HasHeader
	}
	return true
}

// ShouldSkipBlankRows returns whether blank rows are skipped.
func (o Options) ShouldSkipBlankRows() bool {
	if o.SkipBlankRows != nil {
		return *o.SkipBlankRows
	}
	return true
}

// ShouldTrackObjects returns whether fetched records are tracked.
func (o Options) ShouldTrackObjects() bool {
	if o.TrackObjects != nil {
		return *o.TrackObjects
	}
	return true
}

// Window returns the row window described by the options.
func (o Options) Window() rows.Window {
	w := rows.DefaultWindow()
	w.HasHeader = o.ShouldUseHeader()
	w.HeaderRow = o.HeaderRow
	w.MinRow = o.MinRow
	if o.MaxRow != nil {
		w.MaxRow = *o.MaxRow
	}
	w.SkipBlankRows = o.ShouldSkipBlankRows()
	return w
}
