// Package value defines the closed set of literal and result types that flow
// through the interpreter, plus the coercer that turns raw argument text into
// typed values and the sanitizer applied to decoded object literals.
package value

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies which union field in Value is valid
type Kind uint8

const (
	KindNull      Kind = iota // no field valid
	KindUndefined             // no field valid
	KindBool                  // Bool field valid
	KindNumber                // Num field valid
	KindString                // Str field valid
	KindDate                  // Time field valid
	KindObject                // Obj field valid
	KindArray                 // Arr field valid
)

// Value is a tagged union over the interpreter's literal types. Exactly one
// union field is meaningful per Kind.
type Value struct {
	Kind Kind

	Bool bool      // For KindBool
	Num  float64   // For KindNumber
	Str  string    // For KindString
	Time time.Time // For KindDate
	Obj  *Map      // For KindObject
	Arr  []Value   // For KindArray
}

// Constructors

func Null() Value            { return Value{Kind: KindNull} }
func Undefined() Value       { return Value{Kind: KindUndefined} }
func Boolean(b bool) Value   { return Value{Kind: KindBool, Bool: b} }
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func String(s string) Value  { return Value{Kind: KindString, Str: s} }
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }
func Object(m *Map) Value    { return Value{Kind: KindObject, Obj: m} }
func Array(vs []Value) Value { return Value{Kind: KindArray, Arr: vs} }

// String renders a human-friendly representation of the value.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindString:
		return v.Str
	case KindDate:
		return v.Time.Format(time.RFC3339)
	case KindObject:
		if v.Obj == nil {
			return "{}"
		}
		var b strings.Builder
		b.WriteByte('{')
		for i, key := range v.Obj.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			entry, _ := v.Obj.Get(key)
			b.WriteString(key)
			b.WriteString(": ")
			b.WriteString(entry.String())
		}
		b.WriteByte('}')
		return b.String()
	case KindArray:
		var b strings.Builder
		b.WriteByte('[')
		for i, elem := range v.Arr {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(elem.String())
		}
		b.WriteByte(']')
		return b.String()
	}
	return "<invalid>"
}

// Map is an ordered string-to-Value mapping. Key order is insertion order;
// setting an existing key updates in place without reordering.
type Map struct {
	keys    []string
	entries map[string]Value
}

// NewMap creates an empty ordered map.
func NewMap() *Map {
	return &Map{entries: make(map[string]Value)}
}

// Set inserts or updates a key. New keys are appended to the key order.
func (m *Map) Set(key string, v Value) {
	if _, exists := m.entries[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = v
}

// Get returns the value for key and whether it is present.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not mutate it.
func (m *Map) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}
