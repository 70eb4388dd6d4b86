// Package dispatch is the event hub between the map view and its
// controller: selection changes and member hover notifications.
//
// Listeners are registered under a name; registering a second listener
// with the same name replaces the first, and a nil function removes it.
package dispatch

import "sort"

// Event names.
const (
	SelectionChanged = "selectionChanged"
	MembersHovered   = "membersHovered"
	MembersUnhovered = "membersUnhovered"
)

type listener[T any] struct {
	name string
	fn   T
}

type registry[T any] struct {
	listeners []listener[T]
}

func (r *registry[T]) set(name string, fn T, remove bool) {
	for i, l := range r.listeners {
		if l.name != name {
			continue
		}
		if remove {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
		} else {
			r.listeners[i].fn = fn
		}
		return
	}
	if !remove {
		r.listeners = append(r.listeners, listener[T]{name: name, fn: fn})
	}
}

func (r *registry[T]) names() []string {
	out := make([]string, 0, len(r.listeners))
	for _, l := range r.listeners {
		out = append(out, l.name)
	}
	return out
}

// Dispatcher fans events out to registered listeners in registration order.
// It is not safe for concurrent use.
type Dispatcher struct {
	selection registry[func()]
	hovered   registry[func([]string)]
	unhovered registry[func()]
}

// New returns an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{}
}

// OnSelectionChanged registers fn under name.
func (d *Dispatcher) OnSelectionChanged(name string, fn func()) {
	d.selection.set(name, fn, fn == nil)
}

// OnMembersHovered registers fn under name.
func (d *Dispatcher) OnMembersHovered(name string, fn func(ids []string)) {
	d.hovered.set(name, fn, fn == nil)
}

// OnMembersUnhovered registers fn under name.
func (d *Dispatcher) OnMembersUnhovered(name string, fn func()) {
	d.unhovered.set(name, fn, fn == nil)
}

// SelectionChanged notifies listeners that the selection was mutated.
func (d *Dispatcher) SelectionChanged() {
	for _, l := range d.selection.listeners {
		l.fn()
	}
}

// MembersHovered notifies listeners that the pointer entered a delegation.
// Each listener receives its own copy of ids.
func (d *Dispatcher) MembersHovered(ids []string) {
	for _, l := range d.hovered.listeners {
		l.fn(append([]string(nil), ids...))
	}
}

// MembersUnhovered notifies listeners that the pointer left a delegation.
func (d *Dispatcher) MembersUnhovered() {
	for _, l := range d.unhovered.listeners {
		l.fn()
	}
}

// Listeners returns the registered listener names per event, sorted.
func (d *Dispatcher) Listeners() map[string][]string {
	out := map[string][]string{
		SelectionChanged: d.selection.names(),
		MembersHovered:   d.hovered.names(),
		MembersUnhovered: d.unhovered.names(),
	}
	for _, names := range out {
		sort.Strings(names)
	}
	return out
}
