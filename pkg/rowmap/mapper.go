// Package rowmap maps typed records to and from the rows of a spreadsheet.
package rowmap

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"reflect"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/binding"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/rows"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

// Mapper reads and writes records. It remembers the records it fetched per
// sheet so they can be saved back with SaveTracked, and the workbook it
// last opened from a path or stream so the Save variants without a document
// write into it.
//
// A Mapper is not safe for concurrent use.
type Mapper struct {
	opts    Options
	cache   *binding.Cache
	tracker *rows.Tracker
	logger  *slog.Logger
	doc     *sheet.Workbook
}

// New creates a Mapper.
func New(opts Options) *Mapper {
	m := &Mapper{
		opts:    opts,
		cache:   opts.Cache,
		tracker: rows.NewTracker(),
		logger:  opts.Logger,
	}
	if m.cache == nil {
		m.cache = binding.DefaultCache()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Options returns the mapper's options.
func (m *Mapper) Options() Options {
	return m.opts
}

// Mapping returns the type mapping of t, a struct type or pointer to one.
// Changes to the returned mapping are seen by every user of the cache.
func (m *Mapper) Mapping(t reflect.Type) (*binding.TypeMapping, error) {
	return m.cache.Get(t)
}

// MappingFor returns the type mapping of T.
func MappingFor[T any](m *Mapper) (*binding.TypeMapping, error) {
	return m.Mapping(reflect.TypeFor[T]())
}

// Workbook returns the workbook last opened by FetchFile or FetchReader,
// or nil.
func (m *Mapper) Workbook() *sheet.Workbook {
	return m.doc
}

// Close closes the remembered workbook.
func (m *Mapper) Close() error {
	if m.doc == nil {
		return nil
	}
	err := m.doc.Close()
	m.doc = nil
	return err
}

func (m *Mapper) remember(doc *sheet.Workbook) {
	if m.doc != nil && m.doc != doc {
		if err := m.doc.Close(); err != nil {
			m.logger.Warn("closing previous workbook", "error", err)
		}
	}
	m.doc = doc
}

// document returns the remembered workbook, opening path when it exists or
// creating a new workbook otherwise.
func (m *Mapper) document(path string) (*sheet.Workbook, error) {
	if m.doc != nil {
		return m.doc, nil
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			doc, err := sheet.OpenFile(path)
			if err != nil {
				return nil, err
			}
			m.doc = doc
			return doc, nil
		}
	}
	m.doc = sheet.NewWorkbook()
	return m.doc, nil
}

// FetchType returns a lazy sequence of records of type t read from the
// referenced sheet. Records are pointers to new values of t.
func (m *Mapper) FetchType(doc sheet.Document, ref SheetRef, t reflect.Type) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for rec, err := range m.fetch(doc, ref, t) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec.Interface(), nil) {
				return
			}
		}
	}
}

func (m *Mapper) fetch(doc sheet.Document, ref SheetRef, t reflect.Type) iter.Seq2[reflect.Value, error] {
	return func(yield func(reflect.Value, error) bool) {
		tm, err := m.Mapping(t)
		if err != nil {
			yield(reflect.Value{}, err)
			return
		}
		sh, err := ref.find(doc)
		if err != nil {
			yield(reflect.Value{}, err)
			return
		}

		var tracker *rows.Tracker
		if m.opts.ShouldTrackObjects() {
			tracker = m.tracker
		}
		m.logger.Debug("fetching records", "sheet", sh.Name(), "type", tm.Type.String(), "tracking", tracker != nil)

		for rec, err := range rows.Read(sh, tm, m.opts.Window(), tracker) {
			if err != nil {
				yield(reflect.Value{}, newSheetError(sh.Name(), "fetch", err))
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Fetch returns a lazy, single-pass sequence of records read from the
// referenced sheet of doc. T must be a struct type.
func Fetch[T any](m *Mapper, doc sheet.Document, ref SheetRef) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		for rec, err := range m.fetch(doc, ref, reflect.TypeFor[T]()) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec.Interface().(*T), nil) {
				return
			}
		}
	}
}

// FetchAll reads every record of the referenced sheet of doc.
func FetchAll[T any](m *Mapper, doc sheet.Document, ref SheetRef) ([]*T, error) {
	var out []*T
	for rec, err := range Fetch[T](m, doc, ref) {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// FetchFile opens the xlsx file at path and reads every record of the
// referenced sheet. The workbook stays open for later saves until Close.
func FetchFile[T any](m *Mapper, path string, ref SheetRef) ([]*T, error) {
	doc, err := sheet.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	m.remember(doc)
	return FetchAll[T](m, doc, ref)
}

// FetchReader reads an xlsx document from r and every record of the
// referenced sheet. The workbook stays open for later saves until Close.
func FetchReader[T any](m *Mapper, r io.Reader, ref SheetRef) ([]*T, error) {
	doc, err := sheet.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	m.remember(doc)
	return FetchAll[T](m, doc, ref)
}

// SaveType writes records of type t to the referenced sheet of doc,
// creating the sheet when it does not exist.
func (m *Mapper) SaveType(doc sheet.Document, ref SheetRef, t reflect.Type, records iter.Seq[reflect.Value]) error {
	tm, err := m.Mapping(t)
	if err != nil {
		return err
	}
	sh, err := ref.findOrCreate(doc)
	if err != nil {
		return err
	}
	m.logger.Debug("saving records", "sheet", sh.Name(), "type", tm.Type.String())
	if err := rows.Write(doc, sh, tm, m.opts.Window(), records); err != nil {
		return newSheetError(sh.Name(), "save", err)
	}
	return nil
}

// Save writes records to the referenced sheet of doc. T is a struct type
// or a pointer to one; nil pointers are skipped.
func Save[T any](m *Mapper, doc sheet.Document, ref SheetRef, records []T) error {
	return m.SaveType(doc, ref, reflect.TypeFor[T](), values(records))
}

// SaveFile writes records into the remembered workbook, or the file at
// path when it exists, or a new workbook, and saves it to path.
func SaveFile[T any](m *Mapper, path string, ref SheetRef, records []T) error {
	doc, err := m.document(path)
	if err != nil {
		return err
	}
	if err := Save(m, doc, ref, records); err != nil {
		return err
	}
	return doc.SaveAs(path)
}

// SaveTo writes records into the remembered workbook, or a new one, and
// writes the workbook to w.
func SaveTo[T any](m *Mapper, w io.Writer, ref SheetRef, records []T) error {
	doc, err := m.document("")
	if err != nil {
		return err
	}
	if err := Save(m, doc, ref, records); err != nil {
		return err
	}
	return doc.Write(w)
}

func values[T any](records []T) iter.Seq[reflect.Value] {
	return func(yield func(reflect.Value) bool) {
		for _, rec := range records {
			v := reflect.ValueOf(rec)
			if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// SaveTracked writes the records last fetched from the referenced sheet
// back into their rows of doc. The mapping is taken from the type of the
// tracked records.
func (m *Mapper) SaveTracked(doc sheet.Document, ref SheetRef) error {
	return m.SaveTrackedType(doc, ref, nil)
}

// SaveTrackedType is SaveTracked with an explicit record type; t may be nil.
func (m *Mapper) SaveTrackedType(doc sheet.Document, ref SheetRef, t reflect.Type) error {
	name := ref.newName()
	if sh, err := ref.find(doc); err == nil {
		name = sh.Name()
	}
	if !m.tracker.Has(name) {
		return newSheetError(name, "save tracked", ErrNoTrackedObjects)
	}
	sh, err := ref.findOrCreate(doc)
	if err != nil {
		return err
	}

	entries := m.tracker.Entries(name)
	if t == nil {
		if len(entries) == 0 {
			return newSheetError(name, "save tracked", ErrNoTrackedObjects)
		}
		t = entries[0].Record.Type()
	}
	tm, err := m.Mapping(t)
	if err != nil {
		return err
	}

	m.logger.Debug("saving tracked records", "sheet", name, "records", len(entries))
	if err := rows.WriteEntries(doc, sh, tm, m.opts.Window(), entries); err != nil {
		return newSheetError(name, "save tracked", err)
	}
	return nil
}

// SaveTrackedFile saves the tracked records into the remembered workbook,
// or the file at path, and saves it to path.
func (m *Mapper) SaveTrackedFile(path string, ref SheetRef) error {
	doc, err := m.document(path)
	if err != nil {
		return err
	}
	if err := m.SaveTracked(doc, ref); err != nil {
		return err
	}
	return doc.SaveAs(path)
}

// SaveTrackedTo saves the tracked records into the remembered workbook, or
// a new one, and writes the workbook to w.
func (m *Mapper) SaveTrackedTo(w io.Writer, ref SheetRef) error {
	doc, err := m.document("")
	if err != nil {
		return err
	}
	if err := m.SaveTracked(doc, ref); err != nil {
		return err
	}
	return doc.Write(w)
}
