package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cordon-lang/cordon/cmderrors"
	"github.com/cordon-lang/cordon/value"
)

// spy records invocations so tests can assert a call happened exactly once
// or never.
type spy struct {
	calls int
	args  []value.Value
}

func (s *spy) fn(args []value.Value) (value.Value, error) {
	s.calls++
	s.args = args
	return value.String("done"), nil
}

func TestCallMethodInvokesAllowedMethodOnce(t *testing.T) {
	s := &spy{}
	ctx := Context{"calendar": Object{"addEvent": Callable(s.fn)}}
	allow := NewAllowList().Allow("calendar", "addEvent")
	e := NewExecutor(ctx, allow, nil, nil)

	got, err := e.CallMethod("calendar", "addEvent", "", []value.Value{value.Number(1)})
	require.NoError(t, err)
	assert.Equal(t, value.String("done"), got)
	assert.Equal(t, 1, s.calls)
	assert.Equal(t, []value.Value{value.Number(1)}, s.args)
}

func TestCallMethodForbiddenNeverInvokes(t *testing.T) {
	s := &spy{}
	ctx := Context{"calendar": Object{"clear": Callable(s.fn)}}
	allow := NewAllowList().Allow("calendar", "addEvent", "listEvents")
	e := NewExecutor(ctx, allow, nil, nil)

	_, err := e.CallMethod("calendar", "clear", "", nil)
	require.Error(t, err)
	assert.Equal(t, cmderrors.CodeForbidden, cmderrors.Code(err))
	assert.Zero(t, s.calls, "forbidden method must never be invoked")
}

func TestCallMethodScopeWithoutAllowListIsOpen(t *testing.T) {
	s := &spy{}
	ctx := Context{"notes": Object{"add": Callable(s.fn)}}
	e := NewExecutor(ctx, NewAllowList().Allow("calendar", "addEvent"), nil, nil)

	_, err := e.CallMethod("notes", "add", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.calls)
}

func TestCallMethodSubPropertyScopesToPropertyName(t *testing.T) {
	s := &spy{}
	ctx := Context{"calendar": Object{"settings": Object{"set": Callable(s.fn)}}}

	// The settings scope permits set, so the call goes through even though
	// the calendar scope does not mention it.
	allow := NewAllowList().Allow("calendar", "addEvent").Allow("settings", "set")
	e := NewExecutor(ctx, allow, nil, nil)

	_, err := e.CallMethod("calendar", "settings", "set", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.calls)

	// Deny it in the settings scope and the same call is forbidden.
	e = NewExecutor(ctx, NewAllowList().Allow("settings", "get"), nil, nil)
	_, err = e.CallMethod("calendar", "settings", "set", nil)
	require.Error(t, err)
	assert.Equal(t, cmderrors.CodeForbidden, cmderrors.Code(err))
	assert.Equal(t, 1, s.calls)
}

func TestCallMethodNotFound(t *testing.T) {
	ctx := Context{"calendar": Object{"addEvent": Callable((&spy{}).fn)}}
	e := NewExecutor(ctx, nil, nil, nil)

	_, err := e.CallMethod("calndar", "addEvent", "", nil)
	require.Error(t, err)
	assert.Equal(t, cmderrors.CodeNotFound, cmderrors.Code(err))
	assert.Contains(t, err.Error(), `did you mean "calendar"`)

	_, err = e.CallMethod("calendar", "addEvnt", "", nil)
	require.Error(t, err)
	assert.Equal(t, cmderrors.CodeNotFound, cmderrors.Code(err))
}

func TestCallMethodNotCallable(t *testing.T) {
	ctx := Context{"calendar": Object{
		"name":     value.String("work"),
		"settings": Object{"timezone": value.String("UTC")},
	}}
	e := NewExecutor(ctx, nil, nil, nil)

	_, err := e.CallMethod("calendar", "name", "", nil)
	require.Error(t, err)
	assert.Equal(t, cmderrors.CodeNotCallable, cmderrors.Code(err))

	// A sub-property call on a plain value fails rather than silently
	// returning the value.
	_, err = e.CallMethod("calendar", "settings", "timezone", nil)
	require.Error(t, err)
	assert.Equal(t, cmderrors.CodeNotCallable, cmderrors.Code(err))
}

func TestAccessResolvesPath(t *testing.T) {
	ctx := Context{"calendar": Object{
		"name":     value.String("work"),
		"settings": Object{"timezone": value.String("UTC")},
	}}
	e := NewExecutor(ctx, nil, nil, nil)

	got, err := e.Access("calendar", "name", "")
	require.NoError(t, err)
	assert.Equal(t, value.String("work"), got)

	got, err = e.Access("calendar", "settings", "timezone")
	require.NoError(t, err)
	assert.Equal(t, value.String("UTC"), got)

	_, err = e.Access("calendar", "settings", "locale")
	require.Error(t, err)
	assert.Equal(t, cmderrors.CodeNotFound, cmderrors.Code(err))
}

func TestAccessRendersWholeObject(t *testing.T) {
	ctx := Context{"calendar": Object{"name": value.String("work")}}
	e := NewExecutor(ctx, nil, nil, nil)

	got, err := e.Access("calendar", "", "")
	require.NoError(t, err)
	require.Equal(t, value.KindObject, got.Kind)
	name, ok := got.Obj.Get("name")
	require.True(t, ok)
	assert.Equal(t, value.String("work"), name)
}

func TestConstruct(t *testing.T) {
	s := &spy{}
	ctors := map[string]Callable{"Event": s.fn}
	e := NewExecutor(nil, nil, ctors, nil)

	got, err := e.Construct("Event", []value.Value{value.String("party")})
	require.NoError(t, err)
	assert.Equal(t, value.String("done"), got)
	assert.Equal(t, 1, s.calls)

	_, err = e.Construct("Unapproved", nil)
	require.Error(t, err)
	assert.Equal(t, cmderrors.CodeForbidden, cmderrors.Code(err))
	assert.Equal(t, 1, s.calls, "unapproved constructor must never be invoked")
}

func TestBareFunctionValuesAreCallable(t *testing.T) {
	s := &spy{}
	ctx := Context{"refresh": s.fn} // method value, not wrapped in Callable
	e := NewExecutor(ctx, nil, nil, nil)

	_, err := e.CallMethod("refresh", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.calls)
}
