package value

import "strings"

// Prefixes that mark a key as unsafe to carry through an object literal.
// Double-underscore keys can address internal object machinery; "on"-prefixed
// keys are event-handler attachment points.
const (
	internalKeyPrefix = "__"
	handlerKeyPrefix  = "on"
)

// Sanitize deep-cleans a decoded object literal. Keys with an internal or
// event-handler prefix are dropped, string values are stripped of angle
// brackets, and nested objects are cleaned recursively. Every other kind of
// value passes through unchanged.
func Sanitize(v Value) Value {
	if v.Kind != KindObject || v.Obj == nil {
		return v
	}

	clean := NewMap()
	for _, key := range v.Obj.Keys() {
		if strings.HasPrefix(key, internalKeyPrefix) || strings.HasPrefix(key, handlerKeyPrefix) {
			continue
		}
		entry, _ := v.Obj.Get(key)
		switch entry.Kind {
		case KindString:
			entry.Str = stripMarkup(entry.Str)
		case KindObject:
			entry = Sanitize(entry)
		}
		clean.Set(key, entry)
	}
	return Object(clean)
}

func stripMarkup(s string) string {
	s = strings.ReplaceAll(s, "<", "")
	return strings.ReplaceAll(s, ">", "")
}
