package rows

import (
	"errors"
	"iter"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/binding"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

func records[T any](recs ...T) iter.Seq[reflect.Value] {
	return func(yield func(reflect.Value) bool) {
		for _, r := range recs {
			if !yield(reflect.ValueOf(r)) {
				return
			}
		}
	}
}

func TestWriteCreatesHeader(t *testing.T) {
	type entry struct {
		Name  string
		ID    int       `xlsx:",index=2"`
		When  time.Time `xlsx:"When"`
		Price float64   `xlsxfmt:"0.00"`
		Skip  string    `xlsx:",readonly"`
	}
	when := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	doc := newMemDoc("Out")
	sh := doc.sheet("Out")

	err := Write(doc, sh, mappingOf(t, entry{}), DefaultWindow(), records(
		entry{Name: "a", ID: 10, When: when, Price: 2.5, Skip: "x"},
		entry{Name: "b", ID: 11},
	))
	require.NoError(t, err)

	header := []sheet.Value{sh.get(0, 0), sh.get(0, 1), sh.get(0, 2), sh.get(0, 3), sh.get(0, 4)}
	assert.Equal(t, []sheet.Value{
		sheet.String("Name"), sheet.String("ID"), sheet.String("When"), sheet.String("Price"), sheet.Blank,
	}, header)

	assert.Equal(t, sheet.String("a"), sh.get(1, 0))
	assert.Equal(t, sheet.Number(10), sh.get(1, 1))
	assert.Equal(t, sheet.Date(when), sh.get(1, 2))
	assert.Equal(t, sheet.Number(2.5), sh.get(1, 3))
	assert.Equal(t, sheet.Blank, sh.get(2, 2))
	assert.Equal(t, 2, sh.LastRowIndex())

	require.Equal(t, []sheet.NumFmt{sheet.DateTimeFormat, {Custom: "0.00"}}, doc.styles)
	assert.Equal(t, map[int]int{2: 1, 3: 2}, sh.colStyles)
	assert.Equal(t, 1, sh.style(1, 2))
	assert.Equal(t, 2, sh.style(2, 3))
	assert.Equal(t, 0, sh.style(1, 0))
}

func TestWriteUsesExistingHeader(t *testing.T) {
	doc := newMemDoc("S")
	sh := doc.sheet("S").fill(
		[]any{"Price", "Comment", "name"},
		[]any{9.0, "keep me", "old"},
	)

	err := Write(doc, sh, mappingOf(t, item{}), DefaultWindow(), records(item{Name: "new", Price: 1.25}))
	require.NoError(t, err)

	assert.Equal(t, sheet.Number(1.25), sh.get(1, 0))
	assert.Equal(t, sheet.String("keep me"), sh.get(1, 1))
	assert.Equal(t, sheet.String("new"), sh.get(1, 2))
	assert.Equal(t, sheet.Blank, sh.get(0, 3))
}

func TestWriteClearsTrailingRows(t *testing.T) {
	fixture := func() (*memDoc, *memSheet) {
		doc := newMemDoc("S")
		sh := doc.sheet("S").fill(
			[]any{"Name"},
			[]any{"r1"},
			[]any{"r2"},
			[]any{"r3"},
			[]any{"r4"},
		)
		return doc, sh
	}

	doc, sh := fixture()
	require.NoError(t, Write(doc, sh, mappingOf(t, item{}), DefaultWindow(), records(&item{Name: "x"}, &item{Name: "y"})))
	assert.Equal(t, sheet.String("y"), sh.get(2, 0))
	assert.Equal(t, sheet.Blank, sh.get(3, 0))
	assert.Equal(t, sheet.Blank, sh.get(4, 0))
	assert.Equal(t, 2, sh.LastRowIndex())

	doc, sh = fixture()
	w := DefaultWindow()
	w.SkipBlankRows = false
	require.NoError(t, Write(doc, sh, mappingOf(t, item{}), w, records(&item{Name: "x"})))
	assert.Equal(t, sheet.String("x"), sh.get(1, 0))
	assert.Equal(t, sheet.String("r2"), sh.get(2, 0))
	assert.Equal(t, sheet.String("r4"), sh.get(4, 0))
}

func TestWriteRespectsWindow(t *testing.T) {
	doc := newMemDoc("S")
	sh := doc.sheet("S").fill(
		[]any{"Name"},
		[]any{"r1"},
		[]any{"r2"},
		[]any{"r3"},
		[]any{"r4"},
		[]any{"r5"},
	)

	w := DefaultWindow()
	w.MinRow, w.MaxRow = 2, 3
	err := Write(doc, sh, mappingOf(t, item{}), w, records(item{Name: "a"}, item{Name: "b"}, item{Name: "c"}))
	require.NoError(t, err)

	var names []string
	for i := 0; i <= 5; i++ {
		names = append(names, sh.get(i, 0).Str)
	}
	assert.Equal(t, []string{"Name", "r1", "a", "b", "r4", "r5"}, names)
}

func TestWriteStepsOverHeaderRow(t *testing.T) {
	doc := newMemDoc("S")
	sh := doc.sheet("S")

	w := DefaultWindow()
	w.HeaderRow = 1
	err := Write(doc, sh, mappingOf(t, item{}), w, records(item{Name: "a"}, item{Name: "b"}))
	require.NoError(t, err)

	assert.Equal(t, sheet.String("a"), sh.get(0, 0))
	assert.Equal(t, sheet.String("Name"), sh.get(1, 0))
	assert.Equal(t, sheet.String("b"), sh.get(2, 0))
}

func TestWriteWithoutHeader(t *testing.T) {
	type positional struct {
		Code  string `xlsx:",index=2"`
		Count int    `xlsx:",index=1"`
		Note  string
	}
	doc := newMemDoc("S")
	sh := doc.sheet("S")

	w := DefaultWindow()
	w.HasHeader = false
	require.NoError(t, Write(doc, sh, mappingOf(t, positional{}), w, records(positional{Code: "c", Count: 2, Note: "n"})))

	assert.Equal(t, sheet.Number(2), sh.get(0, 0))
	assert.Equal(t, sheet.String("c"), sh.get(0, 1))
	assert.Equal(t, 0, sh.LastRowIndex())
}

func TestWriteConversionErrorLocation(t *testing.T) {
	type broken struct {
		Name  string
		Level level
	}
	doc := newMemDoc("S")
	sh := doc.sheet("S")

	err := Write(doc, sh, mappingOf(t, broken{}), DefaultWindow(), records(broken{Name: "ok", Level: 1}, broken{Name: "bad", Level: 9}))
	var cerr *binding.ConversionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 3, cerr.Row)
	assert.Equal(t, 2, cerr.Column)
}

func TestWriteEntries(t *testing.T) {
	doc := newMemDoc("S")
	sh := doc.sheet("S").fill(
		[]any{"Name", "Quantity"},
		[]any{"a", 1},
		[]any{"b", 2},
		[]any{"c", 3},
		[]any{"d", 4},
		[]any{"e", 5},
	)

	entries := []Entry{
		{Row: 0, Record: reflect.ValueOf(&item{Name: "header"})},
		{Row: 1, Record: reflect.ValueOf(&item{Name: "A", Qty: 10})},
		{Row: 3, Record: reflect.ValueOf(&item{Name: "C", Qty: 30})},
	}
	require.NoError(t, WriteEntries(doc, sh, mappingOf(t, item{}), DefaultWindow(), entries))

	assert.Equal(t, sheet.String("Name"), sh.get(0, 0))
	assert.Equal(t, sheet.String("A"), sh.get(1, 0))
	assert.Equal(t, sheet.Number(10), sh.get(1, 1))
	assert.Equal(t, sheet.String("b"), sh.get(2, 0))
	assert.Equal(t, sheet.String("C"), sh.get(3, 0))
	assert.Equal(t, sheet.Blank, sh.get(4, 0))
	assert.Equal(t, sheet.Blank, sh.get(5, 1))
	assert.Equal(t, 3, sh.LastRowIndex())
}

func TestWriteEntriesOutsideWindow(t *testing.T) {
	doc := newMemDoc("S")
	sh := doc.sheet("S").fill(
		[]any{"Name"},
		[]any{"a"},
		[]any{"b"},
		[]any{"c"},
	)

	w := DefaultWindow()
	w.MaxRow = 2
	entries := []Entry{
		{Row: 1, Record: reflect.ValueOf(&item{Name: "A"})},
		{Row: 3, Record: reflect.ValueOf(&item{Name: "C"})},
	}
	require.NoError(t, WriteEntries(doc, sh, mappingOf(t, item{}), w, entries))

	assert.Equal(t, sheet.String("A"), sh.get(1, 0))
	assert.Equal(t, sheet.Blank, sh.get(2, 0))
	assert.Equal(t, sheet.String("c"), sh.get(3, 0))
}

type level int

func (l level) MarshalText() ([]byte, error) {
	if l != 1 {
		return nil, errors.New("invalid level")
	}
	return []byte("one"), nil
}
