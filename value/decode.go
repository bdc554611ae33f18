package value

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// decodeStrict decodes normalized literal text into a Value, preserving
// object key order. Numbers are decoded as json.Number to avoid early
// precision loss and then widened to float64.
func decodeStrict(s string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("trailing data after literal")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key %v is not a string", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return Object(m), nil
		case '[':
			elems := []Value{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				elems = append(elems, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return Array(elems), nil
		}
		return Value{}, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return String(t), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Number(n), nil
	case bool:
		return Boolean(t), nil
	case nil:
		return Null(), nil
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// normalizeLiteral rewrites a relaxed object or array literal into strict
// JSON: single-quoted strings become double-quoted and bare identifier keys
// are quoted. Content inside strings is never treated as structure.
func normalizeLiteral(raw string) string {
	var b strings.Builder
	i := 0
	for i < len(raw) {
		ch := raw[i]
		switch {
		case ch == '\'':
			b.WriteByte('"')
			i++
			for i < len(raw) {
				c := raw[i]
				if c == '\\' && i+1 < len(raw) {
					if raw[i+1] == '\'' {
						b.WriteByte('\'')
					} else {
						b.WriteByte('\\')
						b.WriteByte(raw[i+1])
					}
					i += 2
					continue
				}
				if c == '\'' {
					break
				}
				if c == '"' {
					b.WriteString(`\"`)
					i++
					continue
				}
				b.WriteByte(c)
				i++
			}
			b.WriteByte('"')
			i++ // closing quote
		case ch == '"':
			b.WriteByte('"')
			i++
			for i < len(raw) {
				c := raw[i]
				if c == '\\' && i+1 < len(raw) {
					b.WriteByte(c)
					b.WriteByte(raw[i+1])
					i += 2
					continue
				}
				b.WriteByte(c)
				i++
				if c == '"' {
					break
				}
			}
		case isIdentStart(ch):
			j := i + 1
			for j < len(raw) && isIdentPart(raw[j]) {
				j++
			}
			word := raw[i:j]
			k := j
			for k < len(raw) && (raw[k] == ' ' || raw[k] == '\t') {
				k++
			}
			if k < len(raw) && raw[k] == ':' {
				b.WriteByte('"')
				b.WriteString(word)
				b.WriteByte('"')
			} else {
				b.WriteString(word)
			}
			i = j
		default:
			b.WriteByte(ch)
			i++
		}
	}
	return b.String()
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || ('0' <= ch && ch <= '9')
}
