package protocol

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind discriminates the closed Value union.
type Kind int

const (
	KindNumber Kind = iota + 1
	KindString
	KindBool
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one decoded parameter. JSON shapes outside the union (null)
// are preserved opaquely as the string form of their raw text; strict
// type checks belong to per-intent validation.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
	arr  []Value
	obj  map[string]Value
}

func Number(f float64) Value      { return Value{kind: KindNumber, num: f} }
func String(s string) Value       { return Value{kind: KindString, str: s} }
func Bool(b bool) Value           { return Value{kind: KindBool, b: b} }
func Array(vs ...Value) Value     { return Value{kind: KindArray, arr: vs} }
func Object(m map[string]Value) Value {
	if m == nil {
		m = make(map[string]Value)
	}
	return Value{kind: KindObject, obj: m}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

func (v Value) AsObject() (map[string]Value, bool) {
	return v.obj, v.kind == KindObject
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return fmt.Sprintf("%g", v.num)
	case KindString:
		return v.str
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindArray:
		return fmt.Sprintf("array[%d]", len(v.arr))
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Sprintf("object%v", keys)
	default:
		return "<zero>"
	}
}

func valueFromAny(raw any) Value {
	switch t := raw.(type) {
	case float64:
		return Number(t)
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case []any:
		arr := make([]Value, 0, len(t))
		for _, item := range t {
			arr = append(arr, valueFromAny(item))
		}
		return Value{kind: KindArray, arr: arr}
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, item := range t {
			obj[k] = valueFromAny(item)
		}
		return Value{kind: KindObject, obj: obj}
	default:
		// null and anything encoding/json does not produce above.
		raw, err := json.Marshal(t)
		if err != nil {
			return String(fmt.Sprint(t))
		}
		return String(string(raw))
	}
}
