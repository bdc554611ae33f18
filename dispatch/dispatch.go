// Package dispatch resolves parsed commands against a caller-supplied
// context graph and performs the call, access, or construction. Every
// invocation is gated by an allow-list keyed on the scope that owns the
// callable; constructors are gated by their own registry.
package dispatch

import (
	"io"
	"log/slog"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/cordon-lang/cordon/cmderrors"
	"github.com/cordon-lang/cordon/value"
)

// Callable is an invokable member of the context graph. Implementations are
// usually closures over their owning object, so receiver binding is implicit.
type Callable func(args []value.Value) (value.Value, error)

// Object is one node of the context graph. Members may be nested Objects,
// Callables, or plain value.Values.
type Object map[string]any

// Context maps root identifiers to the objects a command may address. The
// executor never mutates it.
type Context map[string]any

// AllowList maps a scope name to the set of member names commands may
// invoke or read within that scope. A scope that is absent from the list
// imposes no restriction; a scope that is present denies every name it does
// not contain.
type AllowList struct {
	scopes map[string]map[string]struct{}
}

// NewAllowList creates an empty allow-list.
func NewAllowList() *AllowList {
	return &AllowList{scopes: make(map[string]map[string]struct{})}
}

// Allow permits the given member names within scope.
func (a *AllowList) Allow(scope string, names ...string) *AllowList {
	set, ok := a.scopes[scope]
	if !ok {
		set = make(map[string]struct{})
		a.scopes[scope] = set
	}
	for _, name := range names {
		set[name] = struct{}{}
	}
	return a
}

// permitted reports whether name may be used within scope. The second result
// is the set of allowed names for suggestion purposes when denied.
func (a *AllowList) permitted(scope, name string) (bool, []string) {
	if a == nil {
		return true, nil
	}
	set, ok := a.scopes[scope]
	if !ok {
		return true, nil
	}
	if _, ok := set[name]; ok {
		return true, nil
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	return false, names
}

// Executor performs allow-list-checked dispatch against a fixed Context.
type Executor struct {
	ctx    Context
	allow  *AllowList
	ctors  map[string]Callable
	logger *slog.Logger
}

// NewExecutor creates an executor over the given context graph. allow and
// ctors may be nil, which permits nothing to be constructed and everything
// reachable to be called.
func NewExecutor(ctx Context, allow *AllowList, ctors map[string]Callable, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	if ctx == nil {
		ctx = Context{}
	}
	return &Executor{ctx: ctx, allow: allow, ctors: ctors, logger: logger}
}

// CallMethod resolves and invokes a method-call command. The callable is the
// sub-property if given, else the property, else the root itself. The
// allow-list scope is the name of the callable's owner: the property name
// when a sub-property is called, else the root name.
func (e *Executor) CallMethod(object, property, subProperty string, args []value.Value) (value.Value, error) {
	root, ok := e.ctx[object]
	if !ok {
		return value.Value{}, e.notFound(object, e.rootNames())
	}

	owner := root
	scope := object
	name := property
	if property != "" && subProperty != "" {
		owner, ok = member(root, property)
		if !ok {
			return value.Value{}, e.notFound(object+"."+property, memberNames(root))
		}
		scope = property
		name = subProperty
	}

	target := owner
	if name != "" {
		target, ok = member(owner, name)
		if !ok {
			return value.Value{}, e.notFound(scope+"."+name, memberNames(owner))
		}
	} else {
		name = object
	}

	fn, ok := asCallable(target)
	if !ok {
		label := scope + "." + name
		if property == "" {
			label = object
		}
		return value.Value{}, cmderrors.Newf(cmderrors.CodeNotCallable,
			"%s is not callable", label)
	}

	if allowed, candidates := e.allow.permitted(scope, name); !allowed {
		return value.Value{}, e.forbidden(scope, name, candidates)
	}

	e.logger.Debug("dispatching method call", "scope", scope, "name", name, "args", len(args))
	return fn(args)
}

// Access resolves a dotted path and returns the final value. It fails
// NOT_FOUND at the first absent segment.
func (e *Executor) Access(object, property, subProperty string) (value.Value, error) {
	node, ok := e.ctx[object]
	if !ok {
		return value.Value{}, e.notFound(object, e.rootNames())
	}

	path := object
	for _, segment := range []string{property, subProperty} {
		if segment == "" {
			break
		}
		parent := node
		node, ok = member(parent, segment)
		if !ok {
			return value.Value{}, e.notFound(path+"."+segment, memberNames(parent))
		}
		path += "." + segment
	}

	return toValue(node), nil
}

// Construct invokes a registered constructor. Class names absent from the
// constructor registry are forbidden, never invoked.
func (e *Executor) Construct(class string, args []value.Value) (value.Value, error) {
	ctor, ok := e.ctors[class]
	if !ok {
		names := make([]string, 0, len(e.ctors))
		for n := range e.ctors {
			names = append(names, n)
		}
		return value.Value{}, e.forbidden("new", class, names)
	}

	e.logger.Debug("dispatching constructor", "class", class, "args", len(args))
	return ctor(args)
}

func (e *Executor) notFound(path string, candidates []string) error {
	last := path
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		last = path[i+1:]
	}
	err := cmderrors.Newf(cmderrors.CodeNotFound, "unknown identifier %q%s",
		path, suggestion(last, candidates))
	return err.WithContext("path", path)
}

func (e *Executor) forbidden(scope, name string, candidates []string) error {
	err := cmderrors.Newf(cmderrors.CodeForbidden, "%q is not permitted in scope %q%s",
		name, scope, suggestion(name, candidates))
	return err.WithContext("scope", scope).WithContext("name", name)
}

// suggestion renders a fuzzy "did you mean" hint from candidate names.
func suggestion(target string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	return " (did you mean \"" + ranks[0].Target + "\"?)"
}

func (e *Executor) rootNames() []string {
	names := make([]string, 0, len(e.ctx))
	for n := range e.ctx {
		names = append(names, n)
	}
	return names
}

// asCallable accepts both the named Callable type and a bare function with
// the same signature, so graph builders may register method values directly.
func asCallable(node any) (Callable, bool) {
	switch fn := node.(type) {
	case Callable:
		return fn, true
	case func([]value.Value) (value.Value, error):
		return fn, true
	}
	return nil, false
}

// member resolves a named member on a context graph node.
func member(node any, name string) (any, bool) {
	switch n := node.(type) {
	case Object:
		v, ok := n[name]
		return v, ok
	case value.Value:
		if n.Kind == value.KindObject && n.Obj != nil {
			v, ok := n.Obj.Get(name)
			return v, ok
		}
	}
	return nil, false
}

func memberNames(node any) []string {
	switch n := node.(type) {
	case Object:
		names := make([]string, 0, len(n))
		for name := range n {
			names = append(names, name)
		}
		return names
	case value.Value:
		if n.Kind == value.KindObject && n.Obj != nil {
			return n.Obj.Keys()
		}
	}
	return nil
}

// toValue converts a context graph node into a result Value. Callables have
// no literal representation and render as descriptive strings; a whole
// Object renders its data members.
func toValue(node any) value.Value {
	if _, ok := asCallable(node); ok {
		return value.String("[function]")
	}
	switch n := node.(type) {
	case value.Value:
		return n
	case Object:
		m := value.NewMap()
		for name, child := range n {
			m.Set(name, toValue(child))
		}
		return value.Object(m)
	}
	return value.Undefined()
}
