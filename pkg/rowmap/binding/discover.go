package binding

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

// Struct tags read by Discover.
const (
	// TagColumn declares the column: `xlsx:"Name,index=2,readonly,formula,json"`.
	TagColumn = "xlsx"
	// TagFormat declares a display format: a builtin id or a custom pattern.
	TagFormat = "xlsxfmt"
	// TagRules declares validator rules.
	TagRules = "validate"
)

// declaration is the parsed form of a field's tags.
type declaration struct {
	declared      bool
	ignore        bool
	name          string
	index         int // 1-based, 0 when absent
	direction     Direction
	formulaResult bool
	json          bool
	format        sheet.NumFmt
	rules         string
}

func parseDeclaration(sf reflect.StructField) (declaration, error) {
	var d declaration
	tag, ok := sf.Tag.Lookup(TagColumn)
	if ok {
		d.declared = true
		if tag == "-" {
			d.ignore = true
			return d, nil
		}
		parts := strings.Split(tag, ",")
		d.name = strings.TrimSpace(parts[0])
		for _, opt := range parts[1:] {
			opt = strings.TrimSpace(opt)
			switch {
			case opt == "":
			case opt == "readonly":
				d.direction = ReadOnly
			case opt == "writeonly":
				d.direction = WriteOnly
			case opt == "formula":
				d.formulaResult = true
			case opt == "json":
				d.json = true
			case strings.HasPrefix(opt, "index="):
				n, err := strconv.Atoi(strings.TrimPrefix(opt, "index="))
				if err != nil {
					return d, fmt.Errorf("%w: %q", ErrInvalidDeclaration, opt)
				}
				d.index = n
			default:
				return d, fmt.Errorf("%w: unknown option %q", ErrInvalidDeclaration, opt)
			}
		}
	}
	if f := sf.Tag.Get(TagFormat); f != "" {
		if n, err := strconv.Atoi(f); err == nil {
			d.format = sheet.NumFmt{Builtin: n}
		} else {
			d.format = sheet.NumFmt{Custom: f}
		}
	}
	d.rules = sf.Tag.Get(TagRules)
	return d, nil
}

// bindable reports whether values of t can live in a cell.
func bindable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	}
	return true
}

// reachable reports whether the field path avoids embedded pointers, which
// may be nil on a fresh record.
func reachable(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Pointer {
			return false
		}
		t = f.Type
	}
	return true
}

// Discover builds the type mapping of a struct type, or a pointer to one,
// from its exported fields and their tags.
func Discover(t reflect.Type) (*TypeMapping, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, &MappingError{Type: t, Err: ErrUnsupportedType}
	}

	m := newTypeMapping(t)
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous || !bindable(sf.Type) || !reachable(t, sf.Index) {
			continue
		}
		if _, dup := m.fields[sf.Name]; dup {
			continue
		}
		f := Field{Name: sf.Name, Index: sf.Index, Type: sf.Type}
		m.fields[sf.Name] = f

		d, err := parseDeclaration(sf)
		if err != nil {
			return nil, &MappingError{Type: t, Field: sf.Name, Err: err}
		}
		if d.ignore {
			continue
		}

		c := newColumn(m, f)
		c.Name = sf.Name
		if d.name != "" {
			c.Name = d.name
		}
		if d.index > 0 {
			c.Index = d.index - 1
		}
		c.Direction = d.direction
		c.FormulaResult = d.formulaResult
		c.JSON = d.json
		c.Format = d.format
		c.Rules = d.rules
		m.register(c)
	}

	if len(m.order) == 0 {
		return nil, &MappingError{Type: t, Err: fmt.Errorf("%w: no bindable fields", ErrUnsupportedType)}
	}
	return m, nil
}
