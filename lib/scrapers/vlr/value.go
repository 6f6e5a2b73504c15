package vlr

import (
	"strconv"
	"strings"
)

// Kind tags the concrete type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// Value is the typed result of parsing a stat cell's display string.
// Stat tables mix integers, floats, percentages and placeholder text,
// so cells are parsed through an ordered ladder instead of being kept
// as raw strings.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

func NullValue() Value           { return Value{Kind: KindNull} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func IntValue(n int64) Value     { return Value{Kind: KindInt, Int: n} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// AsFloat widens any numeric Value to a float64. Non-numeric values
// yield 0.
func (v Value) AsFloat() float64 {
	switch v.Kind {
	case KindInt:
		return float64(v.Int)
	case KindFloat:
		return v.Float
	default:
		return 0
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return v.Str
	}
}

// ParseValue coerces a display string into a typed value. The ladder
// is ordered: null keywords, boolean keywords, integer, float,
// percentage (e.g. "72%" -> 0.72), and finally the raw string.
func ParseValue(s string) Value {
	lower := strings.ToLower(s)
	switch lower {
	case "none", "null", "nil":
		return NullValue()
	case "true", "false":
		return BoolValue(lower == "true")
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FloatValue(f)
	}
	if strings.Contains(s, "%") {
		n, err := strconv.Atoi(strings.ReplaceAll(s, "%", ""))
		if err == nil {
			return FloatValue(float64(n) / 100)
		}
	}

	return StringValue(s)
}
