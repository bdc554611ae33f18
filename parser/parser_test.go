package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethodCall(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Command
	}{
		{
			name:  "root call",
			input: "refresh()",
			want:  MethodCall{Object: "refresh"},
		},
		{
			name:  "object method",
			input: "calendar.addEvent({title: 'x'})",
			want: MethodCall{
				Object:   "calendar",
				Property: "addEvent",
				RawArgs:  []string{"{title: 'x'}"},
			},
		},
		{
			name:  "sub-property method",
			input: "calendar.settings.set('tz', 'UTC')",
			want: MethodCall{
				Object:      "calendar",
				Property:    "settings",
				SubProperty: "set",
				RawArgs:     []string{"'tz'", "'UTC'"},
			},
		},
		{
			name:  "multiple arguments with nesting",
			input: "calendar.addEvent({a:1,b:2}, 'x,y', [1,2,3])",
			want: MethodCall{
				Object:   "calendar",
				Property: "addEvent",
				RawArgs:  []string{"{a:1,b:2}", "'x,y'", "[1,2,3]"},
			},
		},
		{
			name:  "paren inside string argument",
			input: "log.write('a)b')",
			want: MethodCall{
				Object:   "log",
				Property: "write",
				RawArgs:  []string{"'a)b'"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			require.True(t, ok)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParsePropertyAccess(t *testing.T) {
	got, ok := Parse("calendar.settings.timezone")
	require.True(t, ok)
	assert.Equal(t, PropertyAccess{Object: "calendar", Property: "settings", SubProperty: "timezone"}, got)

	got, ok = Parse("calendar")
	require.True(t, ok)
	assert.Equal(t, PropertyAccess{Object: "calendar"}, got)
}

func TestParseConstructorCall(t *testing.T) {
	got, ok := Parse("new Event('standup', 'daily sync')")
	require.True(t, ok)
	assert.Equal(t, ConstructorCall{Class: "Event", RawArgs: []string{"'standup'", "'daily sync'"}}, got)

	got, ok = Parse("new Date()")
	require.True(t, ok)
	assert.Equal(t, ConstructorCall{Class: "Date", RawArgs: nil}, got)
}

func TestParseRejectsOtherShapes(t *testing.T) {
	rejected := []string{
		"",
		"a.b.c.d",             // path too deep
		"a.b.c.d()",           // call on a path too deep
		"a[0]",                // bracket access
		"a['b']()",            // computed member call
		"a.b().c()",           // chained calls
		"a.b(); c.d()",        // multiple statements
		"1 + 2",               // operators
		"a .b()",              // whitespace inside the path
		"new Foo.Bar()",       // dotted constructor
		"obj.method(",         // unterminated call
	}
	for _, input := range rejected {
		_, ok := Parse(input)
		assert.False(t, ok, "expected %q to be rejected", input)
	}
}
