// Package interp wires the command pipeline together: denylist screening,
// grammar classification, argument coercion, and allow-list-checked
// dispatch. One Interpreter holds a fixed context and allow-list for its
// whole lifetime; each Execute call is an independent pass through the
// pipeline with no memory of prior calls.
package interp

import (
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cordon-lang/cordon/cmderrors"
	"github.com/cordon-lang/cordon/dispatch"
	"github.com/cordon-lang/cordon/guard"
	"github.com/cordon-lang/cordon/parser"
	"github.com/cordon-lang/cordon/value"
)

// Interpreter executes textual commands against a fixed, whitelisted
// object graph. Construct with New; the zero value is not usable.
type Interpreter struct {
	validator *guard.Validator
	executor  *dispatch.Executor
	coercer   *value.Coercer
	logger    *slog.Logger
}

type config struct {
	ctx    dispatch.Context
	allow  *dispatch.AllowList
	ctors  map[string]dispatch.Callable
	deny   []guard.Pattern
	logger *slog.Logger
}

// Option configures an Interpreter at construction time.
type Option func(*config)

// WithContext merges the given root identifiers into the context graph.
func WithContext(ctx dispatch.Context) Option {
	return func(c *config) {
		for name, node := range ctx {
			c.ctx[name] = node
		}
	}
}

// WithObject binds a single root identifier to a context graph node.
func WithObject(name string, node any) Option {
	return func(c *config) {
		c.ctx[name] = node
	}
}

// WithAllow permits the given member names within scope. As soon as a scope
// has an allow-list, every name outside it is forbidden in that scope.
func WithAllow(scope string, names ...string) Option {
	return func(c *config) {
		c.allow.Allow(scope, names...)
	}
}

// WithConstructor registers a constructible class. Only registered classes
// may be instantiated with the `new` shape.
func WithConstructor(name string, fn dispatch.Callable) Option {
	return func(c *config) {
		c.ctors[name] = fn
	}
}

// WithDenyPattern appends a deny pattern to the built-in screening list.
func WithDenyPattern(name string, re *regexp.Regexp) Option {
	return func(c *config) {
		c.deny = append(c.deny, guard.Pattern{Name: name, Re: re})
	}
}

// WithLogger sets the logger for pipeline debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New constructs an interpreter. The context, allow-list, and constructor
// registry are fixed from this point on.
func New(opts ...Option) *Interpreter {
	cfg := &config{
		ctx:   dispatch.Context{},
		allow: dispatch.NewAllowList(),
		ctors: map[string]dispatch.Callable{},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}

	return &Interpreter{
		validator: guard.NewValidator(cfg.logger, cfg.deny...),
		executor:  dispatch.NewExecutor(cfg.ctx, cfg.allow, cfg.ctors, cfg.logger),
		coercer:   value.NewCoercer(cfg.logger),
		logger:    cfg.logger,
	}
}

// Execute runs one command through the pipeline and returns its result.
// Every stage failure is wrapped into a single execution error carrying the
// original message; there is no partial success.
func (i *Interpreter) Execute(text string) (value.Value, error) {
	cmd := normalize(text)
	i.logger.Debug("executing command", "command", cmd)

	result, err := i.run(cmd)
	if err != nil {
		return value.Value{}, cmderrors.Wrap(cmderrors.CodeExecutionError,
			"command execution failed", err)
	}
	return result, nil
}

func (i *Interpreter) run(cmd string) (value.Value, error) {
	if cmd == "" {
		return value.Value{}, cmderrors.New(cmderrors.CodeInvalidFormat, "empty command")
	}

	if err := i.validator.Validate(cmd); err != nil {
		return value.Value{}, err
	}

	parsed, ok := parser.Parse(cmd)
	if !ok {
		return value.Value{}, cmderrors.Newf(cmderrors.CodeInvalidFormat,
			"unrecognized command format: %q", cmd)
	}

	switch c := parsed.(type) {
	case parser.MethodCall:
		return i.executor.CallMethod(c.Object, c.Property, c.SubProperty, i.coerceAll(c.RawArgs))
	case parser.PropertyAccess:
		return i.executor.Access(c.Object, c.Property, c.SubProperty)
	case parser.ConstructorCall:
		return i.executor.Construct(c.Class, i.coerceAll(c.RawArgs))
	}
	return value.Value{}, cmderrors.Newf(cmderrors.CodeInvalidFormat,
		"unrecognized command format: %q", cmd)
}

func (i *Interpreter) coerceAll(raw []string) []value.Value {
	args := make([]value.Value, len(raw))
	for idx, r := range raw {
		args[idx] = i.coercer.Coerce(r)
	}
	return args
}

// normalize trims surrounding whitespace and a trailing semicolon.
func normalize(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, ";")
	return strings.TrimSpace(text)
}
