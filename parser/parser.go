// Package parser classifies normalized command text into one of the three
// recognized command shapes. Anything else is rejected outright: there is no
// partial parse, no bracket or index access, and no path deeper than a root
// identifier plus two property segments.
package parser

import (
	"regexp"

	"github.com/cordon-lang/cordon/lexer"
)

var (
	methodRe   = regexp.MustCompile(`(?s)^(\w+)(?:\.(\w+))?(?:\.(\w+))?\((.*)\)$`)
	propertyRe = regexp.MustCompile(`^(\w+)(?:\.(\w+))?(?:\.(\w+))?$`)
	ctorRe     = regexp.MustCompile(`(?s)^new\s+(\w+)\s*\((.*)\)$`)
)

// Command is the closed set of parsed command shapes. Exactly one concrete
// type implements it per successfully classified command.
type Command interface {
	command()
}

// MethodCall is an invocation such as calendar.addEvent({...}) or
// calendar.settings.set('k', 'v'). RawArgs holds the unsplit argument
// substrings; coercion into typed values happens downstream.
type MethodCall struct {
	Object      string
	Property    string // optional
	SubProperty string // optional
	RawArgs     []string
}

// PropertyAccess is a bare dotted path such as calendar.settings.timezone.
type PropertyAccess struct {
	Object      string
	Property    string // optional
	SubProperty string // optional
}

// ConstructorCall is an instantiation such as new Event('title').
type ConstructorCall struct {
	Class   string
	RawArgs []string
}

func (MethodCall) command()      {}
func (PropertyAccess) command()  {}
func (ConstructorCall) command() {}

// Parse classifies normalized command text. Shapes are tried in priority
// order: method call, property access, constructor call. Returns nil, false
// when the text matches none of them.
func Parse(text string) (Command, bool) {
	if m := methodRe.FindStringSubmatch(text); m != nil && lexer.Balanced(m[4]) {
		return MethodCall{
			Object:      m[1],
			Property:    m[2],
			SubProperty: m[3],
			RawArgs:     lexer.SplitArgs(m[4]),
		}, true
	}
	if m := propertyRe.FindStringSubmatch(text); m != nil {
		return PropertyAccess{
			Object:      m[1],
			Property:    m[2],
			SubProperty: m[3],
		}, true
	}
	if m := ctorRe.FindStringSubmatch(text); m != nil && lexer.Balanced(m[2]) {
		return ConstructorCall{
			Class:   m[1],
			RawArgs: lexer.SplitArgs(m[2]),
		}, true
	}
	return nil, false
}
