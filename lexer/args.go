// Package lexer provides the argument-list scanner used by the command
// parser and the literal coercer. It is a single left-to-right scan that
// tracks bracket depth and quoted-string state so that commas inside
// strings or nested {}/[]/() never split an argument.
package lexer

import "strings"

// SplitArgs splits raw argument-list text into its top-level argument
// substrings. A comma at bracket depth zero and outside a string terminates
// the current argument. A trailing non-blank partial argument is emitted as
// the final element; empty input yields no arguments.
func SplitArgs(text string) []string {
	var args []string
	var current strings.Builder
	depth := 0
	inString := false
	var quote byte

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if inString {
			current.WriteByte(ch)
			if ch == quote && !escaped(text, i) {
				inString = false
			}
			continue
		}

		switch ch {
		case '\'', '"':
			inString = true
			quote = ch
			current.WriteByte(ch)
		case '{', '[', '(':
			depth++
			current.WriteByte(ch)
		case '}', ']', ')':
			depth--
			current.WriteByte(ch)
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(current.String()))
				current.Reset()
			} else {
				current.WriteByte(ch)
			}
		default:
			current.WriteByte(ch)
		}
	}

	if tail := strings.TrimSpace(current.String()); tail != "" {
		args = append(args, tail)
	}
	return args
}

// IndexTopLevel returns the index of the first occurrence of sep at bracket
// depth zero and outside any string, or -1 if none exists. Used by the
// permissive object-literal fallback to split key:value pairs.
func IndexTopLevel(text string, sep byte) int {
	depth := 0
	inString := false
	var quote byte

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if inString {
			if ch == quote && !escaped(text, i) {
				inString = false
			}
			continue
		}

		switch ch {
		case '\'', '"':
			inString = true
			quote = ch
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		default:
			if ch == sep && depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Balanced reports whether text closes every bracket it opens, never closes
// a bracket it did not open, and terminates every string it starts. Argument
// text captured between the outermost parentheses of a call must satisfy
// this; chained calls and stray closers fail it.
func Balanced(text string) bool {
	depth := 0
	inString := false
	var quote byte

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if inString {
			if ch == quote && !escaped(text, i) {
				inString = false
			}
			continue
		}

		switch ch {
		case '\'', '"':
			inString = true
			quote = ch
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0 && !inString
}

// escaped reports whether the byte at position i is preceded by a backslash.
// A quote immediately after a backslash does not terminate a string.
func escaped(s string, i int) bool {
	return i > 0 && s[i-1] == '\\'
}
