package table

import (
	"math"
	"strconv"
	"time"
)

// DateLayout is how date cells are rendered and persisted
const DateLayout = "2006-01-02"

// Value is a single nullable cell. Which field is meaningful depends on the
// kind of the column holding it.
type Value struct {
	num     float64
	text    string
	date    time.Time
	numeric bool
	valid   bool
}

// Null returns a missing value
func Null() Value {
	return Value{}
}

// Number returns a numeric value, NaN is treated as missing
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{num: f, numeric: true, valid: true}
}

// Int returns a whole number value
func Int(i int64) Value {
	return Value{num: float64(i), numeric: true, valid: true}
}

// Text returns a text value
func Text(s string) Value {
	return Value{text: s, valid: true}
}

// Date returns a calendar date value
func Date(t time.Time) Value {
	return Value{date: t, valid: true}
}

func (v Value) IsNull() bool {
	return !v.valid
}

// Float is the number held by the value, ok is false for nulls and for
// text or date values
func (v Value) Float() (float64, bool) {
	return v.num, v.valid && v.numeric
}

func (v Value) Int() (int64, bool) {
	return int64(math.Round(v.num)), v.valid && v.numeric
}

func (v Value) Text() (string, bool) {
	return v.text, v.valid
}

func (v Value) Time() (time.Time, bool) {
	return v.date, v.valid
}

// Equal compares two values, two nulls are equal
func (v Value) Equal(o Value) bool {
	if v.valid != o.valid {
		return false
	}
	if !v.valid {
		return true
	}
	return v.numeric == o.numeric && v.num == o.num && v.text == o.text && v.date.Equal(o.date)
}

// Format renders the value as the given kind, null renders empty
func (v Value) Format(k Kind) string {
	if !v.valid {
		return ""
	}
	switch k {
	case KindInteger:
		return strconv.FormatInt(int64(math.Round(v.num)), 10)
	case KindDecimal, KindPercentage:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return v.text
	}
}

// Interface returns a database/sql friendly representation
func (v Value) Interface(k Kind) any {
	if !v.valid {
		return nil
	}
	switch k {
	case KindInteger:
		return int64(math.Round(v.num))
	case KindDecimal, KindPercentage:
		return v.num
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return v.text
	}
}
