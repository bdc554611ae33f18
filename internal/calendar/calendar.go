// Package calendar is the demo domain graph wired into the CLI: a small
// in-memory event store exposed to the interpreter as a context object.
// It exists to exercise dispatch, allow-lists, and the constructor registry;
// it is not a scheduling library.
package calendar

import (
	"fmt"
	"sync"
	"time"

	"github.com/araddon/dateparse"

	"github.com/cordon-lang/cordon/dispatch"
	"github.com/cordon-lang/cordon/value"
)

// Event is one calendar entry.
type Event struct {
	Title    string
	Start    time.Time
	Location string
}

// Calendar is a mutable in-memory event store. Its methods are safe for
// concurrent use.
type Calendar struct {
	mu       sync.Mutex
	events   []Event
	settings map[string]string
}

// New creates an empty calendar with default settings.
func New() *Calendar {
	return &Calendar{
		settings: map[string]string{"timezone": "UTC"},
	}
}

// Graph exposes the calendar as a context object. Method members are
// closures over the calendar, so dispatched calls mutate this instance.
func (c *Calendar) Graph() dispatch.Object {
	return dispatch.Object{
		"addEvent":    dispatch.Callable(c.addEvent),
		"listEvents":  dispatch.Callable(c.listEvents),
		"removeEvent": dispatch.Callable(c.removeEvent),
		"clear":       dispatch.Callable(c.clear),
		"name":        value.String("default"),
		"settings": dispatch.Object{
			"get": dispatch.Callable(c.getSetting),
			"set": dispatch.Callable(c.setSetting),
		},
	}
}

// Constructors returns the constructible classes the demo context offers.
func Constructors() map[string]dispatch.Callable {
	return map[string]dispatch.Callable{
		"Event": func(args []value.Value) (value.Value, error) {
			e := Event{Title: "untitled"}
			if len(args) > 0 && args[0].Kind == value.KindString {
				e.Title = args[0].Str
			}
			if len(args) > 1 && args[1].Kind == value.KindDate {
				e.Start = args[1].Time
			}
			return eventValue(e), nil
		},
		"Date": func(args []value.Value) (value.Value, error) {
			if len(args) > 0 {
				switch args[0].Kind {
				case value.KindDate:
					return args[0], nil
				case value.KindNumber:
					return value.Date(time.UnixMilli(int64(args[0].Num))), nil
				case value.KindString:
					t, err := dateparse.ParseAny(args[0].Str)
					if err != nil {
						return value.Value{}, fmt.Errorf("unparseable date %q", args[0].Str)
					}
					return value.Date(t), nil
				}
			}
			return value.Date(time.Now()), nil
		},
	}
}

func (c *Calendar) addEvent(args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind != value.KindObject {
		return value.Value{}, fmt.Errorf("addEvent expects one object argument")
	}

	e := Event{Title: "untitled"}
	if title, ok := args[0].Obj.Get("title"); ok && title.Kind == value.KindString {
		e.Title = title.Str
	}
	if start, ok := args[0].Obj.Get("start"); ok && start.Kind == value.KindDate {
		e.Start = start.Time
	}
	if loc, ok := args[0].Obj.Get("location"); ok && loc.Kind == value.KindString {
		e.Location = loc.Str
	}

	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()

	return eventValue(e), nil
}

func (c *Calendar) listEvents(args []value.Value) (value.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]value.Value, len(c.events))
	for i, e := range c.events {
		out[i] = eventValue(e)
	}
	return value.Array(out), nil
}

func (c *Calendar) removeEvent(args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind != value.KindString {
		return value.Value{}, fmt.Errorf("removeEvent expects an event title")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.events[:0]
	removed := false
	for _, e := range c.events {
		if !removed && e.Title == args[0].Str {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	c.events = kept
	return value.Boolean(removed), nil
}

func (c *Calendar) clear(args []value.Value) (value.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.events)
	c.events = nil
	return value.Number(float64(n)), nil
}

func (c *Calendar) getSetting(args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind != value.KindString {
		return value.Value{}, fmt.Errorf("settings.get expects a key")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.settings[args[0].Str]
	if !ok {
		return value.Undefined(), nil
	}
	return value.String(v), nil
}

func (c *Calendar) setSetting(args []value.Value) (value.Value, error) {
	if len(args) != 2 || args[0].Kind != value.KindString || args[1].Kind != value.KindString {
		return value.Value{}, fmt.Errorf("settings.set expects a key and a string value")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.settings[args[0].Str] = args[1].Str
	return value.String(args[1].Str), nil
}

func eventValue(e Event) value.Value {
	m := value.NewMap()
	m.Set("title", value.String(e.Title))
	if !e.Start.IsZero() {
		m.Set("start", value.Date(e.Start))
	}
	if e.Location != "" {
		m.Set("location", value.String(e.Location))
	}
	return value.Object(m)
}
