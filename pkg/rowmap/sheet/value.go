package sheet

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindBlank Kind = iota
	KindNumber
	KindBool
	KindString
	KindDate
	KindFormula
	KindError
)

var kindNames = [...]string{"blank", "number", "bool", "string", "date", "formula", "error"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the raw content of a cell. Exactly one payload field is
// meaningful, selected by Kind. A formula keeps its text in Str and its
// cached computed value in Result.
type Value struct {
	Kind   Kind
	Number float64
	Bool   bool
	Str    string
	Time   time.Time
	Result *Value
}

// Blank is the empty cell.
var Blank = Value{}

// Number returns a numeric value.
func Number(n float64) Value { return Value{Kind: KindNumber, Number: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// String returns a text value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Date returns a date value.
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }

// Formula returns a formula value with an optional cached result.
func Formula(text string, result *Value) Value {
	return Value{Kind: KindFormula, Str: text, Result: result}
}

// Error returns an error value such as "#DIV/0!".
func Error(code string) Value { return Value{Kind: KindError, Str: code} }

// IsBlank reports whether the value is blank or an empty string.
func (v Value) IsBlank() bool {
	switch v.Kind {
	case KindBlank:
		return true
	case KindString:
		return v.Str == ""
	}
	return false
}

// Cached returns the computed value of a formula, or v itself otherwise.
func (v Value) Cached() Value {
	if v.Kind != KindFormula {
		return v
	}
	if v.Result == nil {
		return Blank
	}
	return *v.Result
}

// Text renders the value the way it is compared against header names.
func (v Value) Text() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		return strings.ToUpper(strconv.FormatBool(v.Bool))
	case KindString, KindError:
		return v.Str
	case KindDate:
		return v.Time.Format(time.RFC3339)
	case KindFormula:
		return "=" + v.Str
	}
	return ""
}
