package binding

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

var (
	timeType            = reflect.TypeOf(time.Time{})
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

var errOutOfRange = errors.New("value out of range")

// dateLayouts are tried in order when a date is stored as text.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04:05",
	"01/02/2006",
	"1/2/2006",
}

// isPrimitive reports whether values of t are written as plain cell values.
func isPrimitive(t reflect.Type) bool {
	if t == timeType {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// coerce converts a non-blank raw value into a value of type t.
func coerce(raw sheet.Value, t reflect.Type, asJSON bool) (reflect.Value, error) {
	target := reflect.New(t).Elem()

	if t == timeType {
		tm, err := toTime(raw)
		if err != nil {
			return target, err
		}
		target.Set(reflect.ValueOf(tm))
		return target, nil
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		u := target.Addr().Interface().(encoding.TextUnmarshaler)
		return target, u.UnmarshalText([]byte(textOf(raw)))
	}
	if asJSON && !isPrimitive(t) {
		return target, json.Unmarshal([]byte(textOf(raw)), target.Addr().Interface())
	}

	switch t.Kind() {
	case reflect.String:
		target.SetString(textOf(raw))
	case reflect.Bool:
		b, err := toBool(raw)
		if err != nil {
			return target, err
		}
		target.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt(raw)
		if err != nil {
			return target, err
		}
		if target.OverflowInt(n) {
			return target, errOutOfRange
		}
		target.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toUint(raw)
		if err != nil {
			return target, err
		}
		if target.OverflowUint(n) {
			return target, errOutOfRange
		}
		target.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := toFloat(raw)
		if err != nil {
			return target, err
		}
		if target.OverflowFloat(f) {
			return target, errOutOfRange
		}
		target.SetFloat(f)
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return target, fmt.Errorf("unsupported target type %v", t)
		}
		if x := natural(raw); x != nil {
			target.Set(reflect.ValueOf(x))
		}
	default:
		return target, fmt.Errorf("unsupported target type %v", t)
	}
	return target, nil
}

// natural returns the Go value closest to the raw cell content.
func natural(raw sheet.Value) any {
	switch raw.Kind {
	case sheet.KindNumber:
		return raw.Number
	case sheet.KindBool:
		return raw.Bool
	case sheet.KindString, sheet.KindError, sheet.KindFormula:
		return raw.Str
	case sheet.KindDate:
		return raw.Time
	}
	return nil
}

func textOf(raw sheet.Value) string {
	switch raw.Kind {
	case sheet.KindBool:
		return strconv.FormatBool(raw.Bool)
	case sheet.KindFormula:
		return raw.Str
	}
	return raw.Text()
}

func toBool(raw sheet.Value) (bool, error) {
	switch raw.Kind {
	case sheet.KindBool:
		return raw.Bool, nil
	case sheet.KindNumber:
		return raw.Number != 0, nil
	case sheet.KindString:
		return strconv.ParseBool(strings.TrimSpace(raw.Str))
	}
	return false, fmt.Errorf("%s is not a boolean", raw.Kind)
}

func toFloat(raw sheet.Value) (float64, error) {
	switch raw.Kind {
	case sheet.KindNumber:
		return raw.Number, nil
	case sheet.KindBool:
		if raw.Bool {
			return 1, nil
		}
		return 0, nil
	case sheet.KindString:
		return strconv.ParseFloat(strings.TrimSpace(raw.Str), 64)
	}
	return 0, fmt.Errorf("%s is not a number", raw.Kind)
}

func toInt(raw sheet.Value) (int64, error) {
	if raw.Kind == sheet.KindString {
		s := strings.TrimSpace(raw.Str)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
	}
	f, err := toFloat(raw)
	if err != nil {
		return 0, err
	}
	f = math.Round(f)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errOutOfRange
	}
	return int64(f), nil
}

func toUint(raw sheet.Value) (uint64, error) {
	if raw.Kind == sheet.KindString {
		s := strings.TrimSpace(raw.Str)
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n, nil
		}
	}
	f, err := toFloat(raw)
	if err != nil {
		return 0, err
	}
	f = math.Round(f)
	if f < 0 || f >= math.MaxUint64 {
		return 0, errOutOfRange
	}
	return uint64(f), nil
}

func toTime(raw sheet.Value) (time.Time, error) {
	switch raw.Kind {
	case sheet.KindDate:
		return raw.Time, nil
	case sheet.KindNumber:
		return excelize.ExcelDateToTime(raw.Number, false)
	case sheet.KindString:
		s := strings.TrimSpace(raw.Str)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognised date %q", s)
	}
	return time.Time{}, fmt.Errorf("%s is not a date", raw.Kind)
}

// defaultWrite converts a non-nil field value into a cell value. All
// numeric kinds are widened to float64.
func (c *Column) defaultWrite(v reflect.Value) (sheet.Value, error) {
	t := v.Type()
	if t == timeType {
		tm := v.Interface().(time.Time)
		if tm.IsZero() {
			return sheet.Blank, nil
		}
		return sheet.Date(tm), nil
	}
	if t.Implements(textMarshalerType) {
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return sheet.Blank, err
		}
		return sheet.String(string(text)), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return sheet.Bool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return sheet.Number(float64(v.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return sheet.Number(float64(v.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return sheet.Number(v.Float()), nil
	case reflect.String:
		return sheet.String(v.String()), nil
	}

	if c.JSON {
		switch t.Kind() {
		case reflect.Map, reflect.Slice, reflect.Interface:
			if v.IsNil() {
				return sheet.Blank, nil
			}
		}
		b, err := json.Marshal(v.Interface())
		if err != nil {
			return sheet.Blank, err
		}
		return sheet.String(string(b)), nil
	}
	return sheet.String(fmt.Sprint(v.Interface())), nil
}
