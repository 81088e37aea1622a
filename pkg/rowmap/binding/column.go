// Package binding describes how record fields map to sheet columns: column
// bindings, per-type mappings, their discovery from struct tags and the
// process-wide mapping cache.
package binding

import (
	"fmt"
	"reflect"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

// Direction restricts a binding to reading, writing or both.
type Direction uint8

const (
	Both Direction = iota
	ReadOnly
	WriteOnly
)

func (d Direction) String() string {
	switch d {
	case ReadOnly:
		return "readonly"
	case WriteOnly:
		return "writeonly"
	}
	return "both"
}

// CanRead reports whether the binding takes part in reading rows.
func (d Direction) CanRead() bool { return d != WriteOnly }

// CanWrite reports whether the binding takes part in writing rows.
func (d Direction) CanWrite() bool { return d != ReadOnly }

func (d Direction) overlaps(o Direction) bool {
	return (d.CanRead() && o.CanRead()) || (d.CanWrite() && o.CanWrite())
}

// ReadFunc converts a raw cell value into a field value.
type ReadFunc func(v sheet.Value) (any, error)

// WriteFunc converts a field value into a cell value. Absent nullable
// fields are passed as nil.
type WriteFunc func(v any) (sheet.Value, error)

// Field is a settable named slot of a record type.
type Field struct {
	Name  string
	Index []int
	Type  reflect.Type
}

// Get returns the field of rec, which must be a struct or a pointer to one.
func (f Field) Get(rec reflect.Value) reflect.Value {
	return reflect.Indirect(rec).FieldByIndex(f.Index)
}

// Set stores v into the field of rec.
func (f Field) Set(rec reflect.Value, v reflect.Value) {
	f.Get(rec).Set(v)
}

// Column binds one record field to one sheet column.
type Column struct {
	Field Field
	// Name is the header text; empty for index-only bindings.
	Name string
	// Index is the 0-based column, or -1 when the binding is matched by name only.
	Index     int
	Direction Direction
	// Type is the field type with pointer nullability stripped.
	Type     reflect.Type
	Nullable bool

	Reader ReadFunc
	Writer WriteFunc

	Format        sheet.NumFmt
	FormulaResult bool
	JSON          bool
	// Rules holds validator rules checked after every read conversion.
	Rules string
	// Chain lists bindings fed the same raw value after this one.
	Chain []*Column

	owner *TypeMapping
}

// Option configures a Column.
type Option func(*Column)

// WithReader sets a custom read conversion.
func WithReader(fn ReadFunc) Option {
	return func(c *Column) { c.Reader = fn }
}

// WithWriter sets a custom write conversion.
func WithWriter(fn WriteFunc) Option {
	return func(c *Column) { c.Writer = fn }
}

// WithFormat sets the display format applied to the column on write.
func WithFormat(f sheet.NumFmt) Option {
	return func(c *Column) { c.Format = f }
}

// WithDirection restricts the binding to reading or writing.
func WithDirection(d Direction) Option {
	return func(c *Column) { c.Direction = d }
}

// WithFormulaResult reads cached formula results instead of formula text.
func WithFormulaResult() Option {
	return func(c *Column) { c.FormulaResult = true }
}

// WithJSON stores non-primitive values as JSON text.
func WithJSON() Option {
	return func(c *Column) { c.JSON = true }
}

// WithRules sets validator rules such as "required,min=1".
func WithRules(rules string) Option {
	return func(c *Column) { c.Rules = rules }
}

// WithIndex additionally registers a name binding under a 0-based index.
func WithIndex(index int) Option {
	return func(c *Column) { c.Index = index }
}

func newColumn(owner *TypeMapping, f Field) *Column {
	c := &Column{
		Field: f,
		Index: -1,
		Type:  f.Type,
		owner: owner,
	}
	if f.Type.Kind() == reflect.Pointer {
		c.Type = f.Type.Elem()
		c.Nullable = true
	}
	return c
}

// Then chains a secondary binding for field onto c: after c reads a cell,
// the same raw value is read into field as well.
func (c *Column) Then(field string, opts ...Option) (*Column, error) {
	if c.owner == nil {
		return nil, fmt.Errorf("column %q is not attached to a type mapping", c.Name)
	}
	f, err := c.owner.field(field)
	if err != nil {
		return nil, err
	}
	next := newColumn(c.owner, f)
	next.Name = c.Name
	next.Index = c.Index
	next.Direction = ReadOnly
	for _, opt := range opts {
		opt(next)
	}
	c.Chain = append(c.Chain, next)
	return next, nil
}

// StyleFormat returns the display format written for the column: the
// declared one, or the default date-time format for time fields.
func (c *Column) StyleFormat() sheet.NumFmt {
	if !c.Format.IsZero() {
		return c.Format
	}
	if c.Type == timeType {
		return sheet.DateTimeFormat
	}
	return sheet.NumFmt{}
}

// Read converts raw and stores it into rec, then runs the chained bindings
// against the same raw value.
func (c *Column) Read(rec reflect.Value, raw sheet.Value) error {
	v, err := c.ReadValue(raw)
	if err != nil {
		return err
	}
	if err := c.validate(v); err != nil {
		return err
	}
	c.Field.Set(rec, v)
	for _, next := range c.Chain {
		if err := next.Read(rec, raw); err != nil {
			return err
		}
	}
	return nil
}

// ReadValue converts raw into a value of the field's declared type.
func (c *Column) ReadValue(raw sheet.Value) (reflect.Value, error) {
	raw = c.source(raw)
	if c.Reader != nil {
		x, err := c.Reader(raw)
		if err != nil {
			return reflect.Value{}, c.conversionError(raw, err)
		}
		v, err := c.assignable(x)
		if err != nil {
			return reflect.Value{}, c.conversionError(raw, err)
		}
		return v, nil
	}

	if raw.IsBlank() {
		return reflect.Zero(c.Field.Type), nil
	}
	v, err := coerce(raw, c.Type, c.JSON)
	if err != nil {
		return reflect.Value{}, c.conversionError(raw, err)
	}
	if c.Nullable {
		p := reflect.New(c.Type)
		p.Elem().Set(v)
		return p, nil
	}
	return v, nil
}

// source applies the formula policy: formula cells yield their cached
// result unless the binding is textual and did not ask for the result.
func (c *Column) source(raw sheet.Value) sheet.Value {
	if raw.Kind != sheet.KindFormula {
		return raw
	}
	if c.FormulaResult || c.Type.Kind() != reflect.String {
		return raw.Cached()
	}
	return raw
}

// assignable adapts a custom reader's result to the field type.
func (c *Column) assignable(x any) (reflect.Value, error) {
	ft := c.Field.Type
	if x == nil {
		return reflect.Zero(ft), nil
	}
	v := reflect.ValueOf(x)
	switch {
	case v.Type().AssignableTo(ft):
		return v, nil
	case c.Nullable && v.Type().AssignableTo(c.Type):
		p := reflect.New(c.Type)
		p.Elem().Set(v)
		return p, nil
	case v.Type().ConvertibleTo(ft):
		return v.Convert(ft), nil
	case c.Nullable && v.Type().ConvertibleTo(c.Type):
		p := reflect.New(c.Type)
		p.Elem().Set(v.Convert(c.Type))
		return p, nil
	}
	return reflect.Value{}, fmt.Errorf("reader returned %T", x)
}

// Write returns the cell value for the field of rec.
func (c *Column) Write(rec reflect.Value) (sheet.Value, error) {
	fv := c.Field.Get(rec)
	var x any
	switch {
	case c.Nullable && fv.IsNil():
	case c.Nullable:
		x = fv.Elem().Interface()
	default:
		x = fv.Interface()
	}

	if c.Writer != nil {
		v, err := c.Writer(x)
		if err != nil {
			return sheet.Blank, c.writeError(x, err)
		}
		return v, nil
	}
	if x == nil {
		return sheet.Blank, nil
	}
	v, err := c.defaultWrite(reflect.ValueOf(x))
	if err != nil {
		return sheet.Blank, c.writeError(x, err)
	}
	return v, nil
}

func (c *Column) conversionError(raw sheet.Value, err error) *ConversionError {
	return &ConversionError{
		Value: raw,
		Type:  c.Field.Type,
		Field: c.Field.Name,
		Err:   err,
	}
}

func (c *Column) writeError(x any, err error) *ConversionError {
	return &ConversionError{
		Value: sheet.String(fmt.Sprint(x)),
		Type:  c.Field.Type,
		Field: c.Field.Name,
		Err:   err,
	}
}
