package snowflake

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	NullKind ValueKind = iota
	IntKind
	FloatKind
	BoolKind
	TextKind
)

// Value is a literal bound into a statement.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	b    bool
	s    string
}

func Null() Value           { return Value{kind: NullKind} }
func Int(i int64) Value     { return Value{kind: IntKind, i: i} }
func Float(f float64) Value { return Value{kind: FloatKind, f: f} }
func Bool(b bool) Value     { return Value{kind: BoolKind, b: b} }
func Text(s string) Value   { return Value{kind: TextKind, s: s} }

func (v Value) Kind() ValueKind { return v.kind }

// ValueOf converts a decoded JSON argument into a Value. Arrays and objects
// are stored as their JSON text.
func ValueOf(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return Text(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float32:
		return floatValue(float64(x)), nil
	case float64:
		return floatValue(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", x.String(), err)
		}
		return floatValue(f), nil
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return Value{}, fmt.Errorf("unsupported value of type %T: %w", x, err)
		}
		return Text(string(data)), nil
	}
}

// ValuesOf converts every element of xs with ValueOf.
func ValuesOf(xs []any) ([]Value, error) {
	values := make([]Value, 0, len(xs))
	for i, x := range xs {
		v, err := ValueOf(x)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// JSON decodes numbers as float64; whole numbers are kept as integers.
func floatValue(f float64) Value {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return Int(int64(f))
	}
	return Float(f)
}

// Format renders v as a SQL literal. Text is wrapped in single quotes
// verbatim; embedded quotes are not escaped.
func Format(v Value) string {
	switch v.kind {
	case NullKind:
		return "NULL"
	case BoolKind:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return "'" + v.s + "'"
	}
}

func (v Value) String() string { return Format(v) }
