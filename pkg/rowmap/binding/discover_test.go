package binding

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

type Audit struct {
	CreatedBy string
}

type order struct {
	Audit
	ID       int       `xlsx:"Order ID,index=1"`
	Customer string    `validate:"required"`
	Amount   float64   `xlsxfmt:"#,##0.00"`
	Placed   time.Time `xlsx:",readonly"`
	Note     *string   `xlsx:"notes"`
	Lines    []string  `xlsx:"Lines,json"`
	Total    float64   `xlsx:",formula" xlsxfmt:"2"`
	Internal string    `xlsx:"-"`
	Callback func()
}

func TestDiscover(t *testing.T) {
	tm, err := Discover(reflect.TypeOf(&order{}))
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(order{}), tm.Type)

	id, ok := tm.Lookup("order id")
	require.True(t, ok)
	assert.Equal(t, "Order ID", id.Name)
	assert.Equal(t, 0, id.Index)
	byIndex, ok := tm.At(0)
	require.True(t, ok)
	assert.Same(t, id, byIndex)
	assert.Equal(t, []int{0}, tm.Indexes())

	customer, ok := tm.Lookup("CUSTOMER")
	require.True(t, ok)
	assert.Equal(t, -1, customer.Index)
	assert.Equal(t, Both, customer.Direction)
	assert.Equal(t, "required", customer.Rules)

	amount, _ := tm.Lookup("Amount")
	assert.Equal(t, sheet.NumFmt{Custom: "#,##0.00"}, amount.StyleFormat())

	placed, _ := tm.Lookup("Placed")
	assert.Equal(t, ReadOnly, placed.Direction)
	assert.Equal(t, sheet.DateTimeFormat, placed.StyleFormat())

	note, ok := tm.Lookup("Notes")
	require.True(t, ok)
	assert.True(t, note.Nullable)
	assert.Equal(t, reflect.TypeOf(""), note.Type)

	lines, _ := tm.Lookup("Lines")
	assert.True(t, lines.JSON)

	total, _ := tm.Lookup("Total")
	assert.True(t, total.FormulaResult)
	assert.Equal(t, sheet.NumFmt{Builtin: 2}, total.Format)

	createdBy, ok := tm.Lookup("CreatedBy")
	require.True(t, ok)
	assert.Equal(t, []int{0, 0}, createdBy.Field.Index)

	_, ok = tm.Lookup("Internal")
	assert.False(t, ok)
	_, ok = tm.Lookup("Callback")
	assert.False(t, ok)
	_, ok = tm.Lookup("Audit")
	assert.False(t, ok)

	assert.Len(t, tm.Columns(), 8)
}

func TestDiscoverIgnoredFieldCanBeMapped(t *testing.T) {
	tm, err := Discover(reflect.TypeOf(order{}))
	require.NoError(t, err)

	c, err := tm.MapName("Internal Code", "Internal")
	require.NoError(t, err)
	got, ok := tm.Lookup("internal code")
	require.True(t, ok)
	assert.Same(t, c, got)
}

func TestDiscoverErrors(t *testing.T) {
	type badOption struct {
		A int `xlsx:"A,bogus"`
	}
	type badIndex struct {
		A int `xlsx:"A,index=x"`
	}
	type nothingExported struct {
		a int
	}

	tests := []struct {
		name string
		typ  reflect.Type
		want error
	}{
		{"not a struct", reflect.TypeOf(0), ErrUnsupportedType},
		{"nil type", nil, ErrUnsupportedType},
		{"unknown option", reflect.TypeOf(badOption{}), ErrInvalidDeclaration},
		{"bad index", reflect.TypeOf(badIndex{}), ErrInvalidDeclaration},
		{"no fields", reflect.TypeOf(nothingExported{a: 1}), ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Discover(tt.typ)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var merr *MappingError
			assert.True(t, errors.As(err, &merr))
		})
	}
}

func TestParseDeclaration(t *testing.T) {
	type tagged struct {
		A int    `xlsx:" Qty , index=3 , writeonly " xlsxfmt:"0" validate:"min=0"`
		B string `xlsx:"-"`
		C string
	}
	rt := reflect.TypeOf(tagged{})

	d, err := parseDeclaration(rt.Field(0))
	require.NoError(t, err)
	assert.Equal(t, "Qty", d.name)
	assert.Equal(t, 3, d.index)
	assert.Equal(t, WriteOnly, d.direction)
	assert.Equal(t, sheet.NumFmt{Builtin: 0}, d.format)
	assert.Equal(t, "min=0", d.rules)

	d, err = parseDeclaration(rt.Field(1))
	require.NoError(t, err)
	assert.True(t, d.ignore)

	d, err = parseDeclaration(rt.Field(2))
	require.NoError(t, err)
	assert.False(t, d.declared)
}
