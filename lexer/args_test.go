package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSplitArgsTopLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty input yields no arguments",
			input: "",
			want:  nil,
		},
		{
			name:  "blank input yields no arguments",
			input: "   ",
			want:  nil,
		},
		{
			name:  "single argument",
			input: "42",
			want:  []string{"42"},
		},
		{
			name:  "simple comma split",
			input: "1, 2, 3",
			want:  []string{"1", "2", "3"},
		},
		{
			name:  "comma inside object literal does not split",
			input: "{a:1,b:2}, 'x,y', [1,2,3]",
			want:  []string{"{a:1,b:2}", "'x,y'", "[1,2,3]"},
		},
		{
			name:  "comma inside nested brackets does not split",
			input: "[{a:[1,2]},3], 4",
			want:  []string{"[{a:[1,2]},3]", "4"},
		},
		{
			name:  "comma inside parens does not split",
			input: "new Date(1, 2), 'z'",
			want:  []string{"new Date(1, 2)", "'z'"},
		},
		{
			name:  "double quoted string with braces",
			input: `"a,b{c}"`,
			want:  []string{`"a,b{c}"`},
		},
		{
			name:  "escaped quote does not end string",
			input: `'it\'s, fine', 2`,
			want:  []string{`'it\'s, fine'`, "2"},
		},
		{
			name:  "trailing comma emits no final argument",
			input: "1, 2,",
			want:  []string{"1", "2"},
		},
		{
			name:  "empty middle argument is preserved",
			input: "1,,2",
			want:  []string{"1", "", "2"},
		},
		{
			name:  "whitespace around arguments is trimmed",
			input: "  'a'  ,  true ",
			want:  []string{"'a'", "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitArgs(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitArgs(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestBalanced(t *testing.T) {
	assert.True(t, Balanced(""))
	assert.True(t, Balanced("{a:1}, [2], (3)"))
	assert.True(t, Balanced("')('"))
	assert.False(t, Balanced("); c.d("))
	assert.False(t, Balanced("[1, 2"))
	assert.False(t, Balanced("'unterminated"))
}

func TestIndexTopLevel(t *testing.T) {
	assert.Equal(t, 1, IndexTopLevel("a:1", ':'))
	assert.Equal(t, -1, IndexTopLevel("'a:1'", ':'))
	assert.Equal(t, -1, IndexTopLevel("{a:1}", ':'))
	assert.Equal(t, 5, IndexTopLevel("{a:1}:2", ':'))
	assert.Equal(t, -1, IndexTopLevel("plain", ':'))
}
