package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/binding"
)

var valueTypes = map[string]reflect.Type{
	"":       reflect.TypeOf(""),
	"string": reflect.TypeOf(""),
	"int":    reflect.TypeOf(int64(0)),
	"float":  reflect.TypeOf(float64(0)),
	"number": reflect.TypeOf(float64(0)),
	"bool":   reflect.TypeOf(false),
	"date":   reflect.TypeOf(time.Time{}),
	"any":    reflect.TypeOf((*any)(nil)).Elem(),
}

// RecordType builds a struct type with one field per non-ignored column.
// Fields carry the xlsx, xlsxfmt and validate tags understood by
// binding.Discover, and a json tag named after the column.
func (f *File) RecordType() (reflect.Type, error) {
	var fields []reflect.StructField
	seen := make(map[string]bool)

	for i, c := range f.Columns {
		if c.Ignore {
			continue
		}
		if strings.ContainsAny(c.Name, `,"`) {
			return nil, fmt.Errorf("column %d: name %q may not contain commas or quotes", i+1, c.Name)
		}

		name := c.Field
		if name == "" {
			name = identifier(c.Name)
		}
		if !isExported(name) {
			return nil, fmt.Errorf("column %d: cannot derive a field name from %q", i+1, c.Name)
		}
		if seen[name] {
			return nil, fmt.Errorf("column %d: duplicate field %s", i+1, name)
		}
		seen[name] = true

		t, ok := valueTypes[strings.ToLower(c.Type)]
		if !ok {
			return nil, fmt.Errorf("column %d: unknown type %q", i+1, c.Type)
		}
		if c.Nullable && t.Kind() != reflect.Interface {
			t = reflect.PointerTo(t)
		}

		fields = append(fields, reflect.StructField{
			Name: name,
			Type: t,
			Tag:  c.tag(name),
		})
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: schema has no columns", binding.ErrUnsupportedType)
	}
	return reflect.StructOf(fields), nil
}

func (c Column) tag(field string) reflect.StructTag {
	column := c.Name
	if c.Index > 0 {
		column += ",index=" + strconv.Itoa(c.Index)
	}
	switch c.Direction.Direction {
	case binding.ReadOnly:
		column += ",readonly"
	case binding.WriteOnly:
		column += ",writeonly"
	}
	if c.Formula {
		column += ",formula"
	}
	if c.JSON {
		column += ",json"
	}

	key := c.Name
	if key == "" {
		key = field
	}
	parts := []string{
		binding.TagColumn + ":" + strconv.Quote(column),
		"json:" + strconv.Quote(key),
	}
	if !c.Format.IsZero() {
		format := c.Format.Custom
		if format == "" {
			format = strconv.Itoa(c.Format.Builtin)
		}
		parts = append(parts, binding.TagFormat+":"+strconv.Quote(format))
	}
	if c.Validate != "" {
		parts = append(parts, binding.TagRules+":"+strconv.Quote(c.Validate))
	}
	return reflect.StructTag(strings.Join(parts, " "))
}

// identifier turns header text such as "unit price" into "UnitPrice".
func identifier(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || (unicode.IsDigit(r) && b.Len() > 0):
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			b.WriteRune(r)
		default:
			upper = true
		}
	}
	return b.String()
}

func isExported(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && !unicode.IsUpper(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
