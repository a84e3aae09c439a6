package sweep

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/xyplot/pkg/errors"
)

// Kind identifies which scalar a Value holds.
type Kind uint8

// Value kinds.
const (
	KindNone Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is one element of a sweep dimension. It is a closed union over the
// scalar kinds a dimension list can carry; the zero Value is None.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

// None returns the empty value.
func None() Value { return Value{} }

// Str returns a string value.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v holds no value.
func (v Value) IsNone() bool { return v.kind == KindNone }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns v as a float. Integers are widened.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// Interface returns v as a plain Go value (nil, string, int64, float64, bool).
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	}
	return nil
}

// String formats v for headers and logs. Floats always carry a decimal
// point or an exponent so 1.0 and 1 stay distinguishable in labels.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return "none"
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Equal reports whether v and o have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindBool:
		return v.b == o.b
	}
	return true
}

// MarshalJSON encodes v as the matching JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindFloat && (math.IsInf(v.f, 0) || math.IsNaN(v.f)) {
		return json.Marshal(formatFloat(v.f))
	}
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes a JSON scalar. Numbers without a fraction or
// exponent become integers.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	val, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// FromAny converts a decoded scalar (JSON, TOML or Go literal) into a Value.
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return None(), nil
	case Value:
		return x, nil
	case string:
		return Str(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case json.Number:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := x.Int64(); err == nil {
				return Int(i), nil
			}
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid number %q", s)
		}
		return Float(f), nil
	}
	return Value{}, errors.New(errors.ErrCodeInvalidInput, "unsupported value type %T", raw)
}

// FromAnySlice converts every element with FromAny.
func FromAnySlice(raw []any) ([]Value, error) {
	out := make([]Value, 0, len(raw))
	for i, r := range raw {
		v, err := FromAny(r)
		if err != nil {
			return nil, fmt.Errorf("value[%d]: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Conversion selects how raw list elements are converted.
type Conversion string

// Supported conversions.
const (
	ConvertDisabled Conversion = "disabled"
	ConvertInteger  Conversion = "integer"
	ConvertFloat    Conversion = "float"
	ConvertBoolean  Conversion = "boolean"
)

// ParseConversion validates a conversion name. The empty string means
// ConvertDisabled.
func ParseConversion(s string) (Conversion, error) {
	switch c := Conversion(strings.ToLower(strings.TrimSpace(s))); c {
	case "", ConvertDisabled:
		return ConvertDisabled, nil
	case ConvertInteger, ConvertFloat, ConvertBoolean:
		return c, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput,
		"invalid conversion %q (must be disabled, integer, float or boolean)", s)
}

var (
	trueWords  = map[string]bool{"true": true, "y": true, "yes": true, "t": true, "on": true, "1": true}
	falseWords = map[string]bool{"false": true, "n": true, "no": true, "f": true, "off": true, "0": true}
)

// Convert turns one raw list element into a Value.
//
// With ConvertDisabled the text is kept verbatim as a string. Otherwise the
// text is lower-cased, "none" yields None, and the remainder must parse as
// the requested kind. Booleans accept true/y/yes/t/on/1 and
// false/n/no/f/off/0.
func Convert(raw string, conv Conversion) (Value, error) {
	if conv == ConvertDisabled || conv == "" {
		return Str(raw), nil
	}
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "none" {
		return None(), nil
	}
	switch conv {
	case ConvertInteger:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid integer value %q", raw)
		}
		return Int(i), nil
	case ConvertFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid float value %q", raw)
		}
		return Float(f), nil
	case ConvertBoolean:
		switch {
		case trueWords[s]:
			return Bool(true), nil
		case falseWords[s]:
			return Bool(false), nil
		}
		return Value{}, errors.New(errors.ErrCodeInvalidInput, "invalid boolean value %q", raw)
	}
	return Str(s), nil
}
