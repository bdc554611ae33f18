package value

import (
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/cordon-lang/cordon/cmderrors"
	"github.com/cordon-lang/cordon/lexer"
)

var (
	numberRe    = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	epochRe     = regexp.MustCompile(`^-?\d+$`)
	dateCallRe  = regexp.MustCompile(`(?s)^new\s+Date\s*\((.*)\)$`)
	nowOffsetRe = regexp.MustCompile(`^Date\.now\(\)\s*([+-])\s*(\d+)$`)
)

// Coercer converts raw argument substrings into typed Values. The zero
// coercer is not usable; construct with NewCoercer.
type Coercer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewCoercer creates a coercer. A nil logger discards debug output.
func NewCoercer(logger *slog.Logger) *Coercer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	return &Coercer{logger: logger, now: time.Now}
}

// Coerce converts one raw argument substring into a Value. Unrecognized text
// is returned verbatim as a string.
func (c *Coercer) Coerce(raw string) Value {
	raw = strings.TrimSpace(raw)

	switch raw {
	case "null":
		return Null()
	case "undefined":
		return Undefined()
	case "true":
		return Boolean(true)
	case "false":
		return Boolean(false)
	}

	if s, ok := unquote(raw); ok {
		return String(s)
	}
	if numberRe.MatchString(raw) {
		n, _ := strconv.ParseFloat(raw, 64)
		return Number(n)
	}
	if m := dateCallRe.FindStringSubmatch(raw); m != nil {
		return c.coerceDate(strings.TrimSpace(m[1]))
	}
	if strings.HasPrefix(raw, "{") {
		return c.coerceObject(raw)
	}
	if strings.HasPrefix(raw, "[") {
		return c.coerceArray(raw)
	}
	return String(raw)
}

// coerceDate handles the argument text inside new Date(...).
func (c *Coercer) coerceDate(arg string) Value {
	if arg == "" {
		return Date(c.now())
	}
	if s, ok := unquote(arg); ok {
		return c.parseDate(s)
	}
	if epochRe.MatchString(arg) {
		ms, _ := strconv.ParseInt(arg, 10, 64)
		return Date(time.UnixMilli(ms))
	}
	if m := nowOffsetRe.FindStringSubmatch(arg); m != nil {
		offset, _ := strconv.ParseInt(m[2], 10, 64)
		d := time.Duration(offset) * time.Millisecond
		if m[1] == "-" {
			d = -d
		}
		return Date(c.now().Add(d))
	}
	return c.parseDate(arg)
}

func (c *Coercer) parseDate(text string) Value {
	t, err := dateparse.ParseAny(text)
	if err != nil {
		c.logger.Debug("unparseable date text", "text", text, "error", err)
		return Date(time.Time{})
	}
	return Date(t)
}

// coerceObject decodes an object literal. Strict decoding after quote and
// key normalization is attempted first; on failure a permissive single-level
// key:value split is used. Either way the result passes through Sanitize.
func (c *Coercer) coerceObject(raw string) Value {
	v, err := decodeStrict(normalizeLiteral(raw))
	if err == nil {
		return Sanitize(v)
	}
	c.logger.Debug("strict object decode failed, using permissive fallback",
		"code", cmderrors.CodeDecodeFailure, "literal", raw, "error", err)

	inner := strings.TrimSpace(raw)
	inner = strings.TrimPrefix(inner, "{")
	inner = strings.TrimSuffix(inner, "}")

	m := NewMap()
	for _, pair := range lexer.SplitArgs(inner) {
		idx := lexer.IndexTopLevel(pair, ':')
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(pair[:idx])
		if unquoted, ok := unquote(key); ok {
			key = unquoted
		}
		m.Set(key, c.Coerce(pair[idx+1:]))
	}
	return Sanitize(Object(m))
}

// coerceArray decodes an array literal. A literal that fails strict decoding
// degrades to an empty list; the degradation is logged but not surfaced as an
// error, matching the interpreter's documented semantics.
func (c *Coercer) coerceArray(raw string) Value {
	v, err := decodeStrict(normalizeLiteral(raw))
	if err == nil {
		return v
	}
	c.logger.Debug("malformed array literal degraded to empty list",
		"code", cmderrors.CodeDecodeFailure, "literal", raw, "error", err)
	return Array([]Value{})
}

// unquote strips a matching pair of single or double quotes and unescapes
// embedded quote sequences. Returns false when raw is not a quoted string.
func unquote(raw string) (string, bool) {
	if len(raw) < 2 {
		return "", false
	}
	quote := raw[0]
	if quote != '\'' && quote != '"' {
		return "", false
	}
	if raw[len(raw)-1] != quote {
		return "", false
	}

	body := raw[1 : len(raw)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) && (body[i+1] == quote || body[i+1] == '\\') {
			b.WriteByte(body[i+1])
			i++
			continue
		}
		b.WriteByte(body[i])
	}
	return b.String(), true
}
