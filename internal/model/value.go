package model

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind classifies a cell value.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindNumber
)

// Value is a single typed cell: text, number, or missing.
type Value struct {
	Kind Kind
	Text string
	Num  decimal.Decimal
}

// Null is the missing value.
var Null = Value{}

// TextValue wraps s as a text cell.
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// NumberValue wraps d as a numeric cell.
func NumberValue(d decimal.Decimal) Value {
	return Value{Kind: KindNumber, Num: d}
}

// IntValue is shorthand for a whole-number cell.
func IntValue(n int64) Value {
	return NumberValue(decimal.NewFromInt(n))
}

// IsNull reports whether v is missing.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders the value the way it appears in a delimited file.
// Null renders as "".
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return v.Num.String()
	default:
		return ""
	}
}

// Equal compares kind and content. Numbers compare by value, so 1.0 == 1.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindText:
		return v.Text == o.Text
	case KindNumber:
		return v.Num.Equal(o.Num)
	default:
		return true
	}
}

// Matches reports whether the value selects as s in a filter.
// Null never matches.
func (v Value) Matches(s string) bool {
	if v.IsNull() {
		return false
	}
	return v.String() == s
}

// Compare orders values: numbers before text, numbers by value, text
// lexically, Null last.
func (v Value) Compare(o Value) int {
	if v.Kind != o.Kind {
		return rank(v.Kind) - rank(o.Kind)
	}
	switch v.Kind {
	case KindNumber:
		return v.Num.Cmp(o.Num)
	case KindText:
		return strings.Compare(v.Text, o.Text)
	default:
		return 0
	}
}

func rank(k Kind) int {
	switch k {
	case KindNumber:
		return 0
	case KindText:
		return 1
	default:
		return 2
	}
}

// MarshalJSON encodes Null as null, numbers as JSON numbers and text as
// strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return []byte(v.Num.String()), nil
	case KindText:
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}
