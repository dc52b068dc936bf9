package dom

import (
	"context"
	"errors"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Event is delivered to handlers during Dispatch
type Event struct {
	Type          string
	Target        *Element
	CurrentTarget *Element

	defaultPrevented bool
	stopped          bool
}

func (ev *Event) PreventDefault() {
	ev.defaultPrevented = true
}

func (ev *Event) DefaultPrevented() bool {
	return ev.defaultPrevented
}

// StopPropagation keeps the event from reaching further ancestors
func (ev *Event) StopPropagation() {
	ev.stopped = true
}

// Handler reacts to an event. Returned errors are collected by Dispatch.
type Handler func(ctx context.Context, ev *Event) error

// AddEventListener attaches h unconditionally
func (d *Document) AddEventListener(el *Element, eventType string, h Handler) {
	byType, ok := d.listeners[el.node]
	if !ok {
		byType = make(map[string][]Handler)
		d.listeners[el.node] = byType
	}
	byType[eventType] = append(byType[eventType], h)
}

// BindOnce attaches h unless a handler was already bound through BindOnce for
// the same element and event type. It reports whether h was attached.
func (d *Document) BindOnce(el *Element, eventType string, h Handler) bool {
	if d.Bound(el, eventType) {
		return false
	}
	byType, ok := d.bound[el.node]
	if !ok {
		byType = make(map[string]bool)
		d.bound[el.node] = byType
	}
	byType[eventType] = true
	d.AddEventListener(el, eventType, h)
	return true
}

// Bound reports whether BindOnce already attached a handler
func (d *Document) Bound(el *Element, eventType string) bool {
	return d.bound[el.node][eventType]
}

// ListenerCount returns the number of handlers attached to el for eventType
func (d *Document) ListenerCount(el *Element, eventType string) int {
	return len(d.listeners[el.node][eventType])
}

// Dispatch delivers an event to target and then bubbles it through the ancestors.
// A click on a disabled form control is not delivered.
func (d *Document) Dispatch(ctx context.Context, target *Element, eventType string) (*Event, error) {
	ev := &Event{Type: eventType, Target: target}
	if eventType == "click" && target.Disabled() && isFormControl(target.node) {
		return ev, nil
	}

	// the path is fixed before any handler runs
	var path []*html.Node
	for n := target.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode {
			path = append(path, n)
		}
	}

	var errs []error
	for _, n := range path {
		handlers := append([]Handler(nil), d.listeners[n][eventType]...)
		if len(handlers) == 0 {
			continue
		}
		ev.CurrentTarget = d.wrap(n)
		for _, h := range handlers {
			if err := h(ctx, ev); err != nil {
				errs = append(errs, err)
			}
		}
		if ev.stopped {
			break
		}
	}
	ev.CurrentTarget = nil
	return ev, errors.Join(errs...)
}

func isFormControl(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Button, atom.Input, atom.Select, atom.Textarea:
		return true
	}
	return false
}
