// Package message defines the dynamic JSON value that sits between the codec
// layer and typed decoding, and the Envelope view of a response object.
//
// Value is a tagged union. Decoding probes the literal in a fixed order
// (null, bool, int, double, string, array, object), so an integer literal that
// fits in int64 is always an Int, never a Double:
//
//	{"streak": 12, "ratio": 0.5, "done": false, "tags": ["a"], "note": null}
//	 Int           Double        Bool           Array          Null
package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Int
	Double
	String
	Array
	Object
)

var kindNames = [...]string{"null", "bool", "int", "double", "string", "array", "object"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is one JSON value. The zero Value is JSON null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  map[string]Value
}

func NullValue() Value             { return Value{} }
func BoolValue(b bool) Value       { return Value{kind: Bool, b: b} }
func IntValue(i int64) Value       { return Value{kind: Int, i: i} }
func DoubleValue(f float64) Value  { return Value{kind: Double, f: f} }
func StringValue(s string) Value   { return Value{kind: String, s: s} }
func ArrayValue(vs ...Value) Value { return Value{kind: Array, arr: vs} }

// ObjectValue wraps m. m is not copied.
func ObjectValue(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: Object, obj: m}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == Null }

func (v Value) Bool() (bool, bool)               { return v.b, v.kind == Bool }
func (v Value) Int() (int64, bool)               { return v.i, v.kind == Int }
func (v Value) Double() (float64, bool)          { return v.f, v.kind == Double }
func (v Value) Str() (string, bool)              { return v.s, v.kind == String }
func (v Value) Array() ([]Value, bool)           { return v.arr, v.kind == Array }
func (v Value) Object() (map[string]Value, bool) { return v.obj, v.kind == Object }

// Get returns the member key of an object value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	m, ok := v.obj[key]
	return m, ok
}

// Parse decodes exactly one JSON value from data. Trailing non-space bytes
// are an error.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("message: trailing data after JSON value")
	}
	return fromAny(raw)
}

func fromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(x), nil
	case json.Number:
		return fromNumber(x)
	case string:
		return StringValue(x), nil
	case []any:
		arr := make([]Value, 0, len(x))
		for _, elem := range x {
			v, err := fromAny(elem)
			if err != nil {
				return Value{}, err
			}
			arr = append(arr, v)
		}
		return ArrayValue(arr...), nil
	case map[string]any:
		obj := make(map[string]Value, len(x))
		for k, elem := range x {
			v, err := fromAny(elem)
			if err != nil {
				return Value{}, err
			}
			obj[k] = v
		}
		return ObjectValue(obj), nil
	}
	return Value{}, fmt.Errorf("message: unsupported JSON type %T", raw)
}

func fromNumber(n json.Number) (Value, error) {
	if !strings.ContainsAny(string(n), ".eE") {
		if i, err := n.Int64(); err == nil {
			return IntValue(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, fmt.Errorf("message: invalid number %q: %w", n, err)
	}
	return DoubleValue(f), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalJSON emits canonical JSON: object keys sorted, integral doubles keep
// a fractional part so they decode back as doubles. Non-finite doubles fail.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.b))
	case Int:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case Double:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return fmt.Errorf("message: unsupported double value %v", v.f)
		}
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		buf.WriteString(s)
	case String:
		b, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(b)
	case Array:
		buf.WriteByte('[')
		for i, elem := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := elem.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := v.obj[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("message: invalid kind %v", v.kind)
	}
	return nil
}

// Interface converts v to plain Go values (nil, bool, int64, float64, string,
// []any, map[string]any).
func (v Value) Interface() any {
	switch v.kind {
	case Bool:
		return v.b
	case Int:
		return v.i
	case Double:
		return v.f
	case String:
		return v.s
	case Array:
		out := make([]any, len(v.arr))
		for i, elem := range v.arr {
			out[i] = elem.Interface()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.obj))
		for k, elem := range v.obj {
			out[k] = elem.Interface()
		}
		return out
	}
	return nil
}
