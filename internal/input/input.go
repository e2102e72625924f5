// Package input is a listener registry for the host events the backdrop
// consumes. Hosts Emit events from their single update goroutine.
package input

import "errors"

// ErrClosed is returned by On after Close, and by hosts that cannot deliver
// events at all.
var ErrClosed = errors.New("input: dispatcher closed")

// Kind is an event category.
type Kind uint8

const (
	Resize Kind = iota
	PointerMove
	TouchMove
	Click
	Scroll
	numKinds
)

func (k Kind) String() string {
	switch k {
	case Resize:
		return "resize"
	case PointerMove:
		return "pointer-move"
	case TouchMove:
		return "touch-move"
	case Click:
		return "click"
	case Scroll:
		return "scroll"
	}
	return "unknown"
}

// Event carries host coordinates in logical pixels relative to the canvas.
// Progress is the document scroll progress in [0, 1] for Scroll events.
type Event struct {
	Kind     Kind
	X, Y     float64
	Progress float64
}

// Handler receives events of one kind.
type Handler func(Event)

// Source is anything listeners can be registered on.
type Source interface {
	On(k Kind, h Handler) (remove func(), err error)
}

type listener struct {
	id int
	h  Handler
}

// Dispatcher fans events out to registered listeners.
type Dispatcher struct {
	next      int
	listeners [numKinds][]listener
	closed    bool
}

// NewDispatcher creates an open dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// On registers h for events of kind k. The returned remove func is
// idempotent.
func (d *Dispatcher) On(k Kind, h Handler) (func(), error) {
	if d == nil || d.closed {
		return nil, ErrClosed
	}
	if k >= numKinds {
		return nil, errors.New("input: unknown event kind " + k.String())
	}
	d.next++
	id := d.next
	d.listeners[k] = append(d.listeners[k], listener{id: id, h: h})
	return func() { d.remove(k, id) }, nil
}

func (d *Dispatcher) remove(k Kind, id int) {
	ls := d.listeners[k]
	for i := range ls {
		if ls[i].id == id {
			d.listeners[k] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// Emit delivers e to every listener of its kind registered at call time.
func (d *Dispatcher) Emit(e Event) {
	if d == nil || d.closed || e.Kind >= numKinds {
		return
	}
	ls := d.listeners[e.Kind]
	if len(ls) == 0 {
		return
	}
	for _, l := range append([]listener(nil), ls...) {
		if d.registered(e.Kind, l.id) {
			l.h(e)
		}
	}
}

func (d *Dispatcher) registered(k Kind, id int) bool {
	for _, l := range d.listeners[k] {
		if l.id == id {
			return true
		}
	}
	return false
}

// Listeners returns the number of listeners of kind k.
func (d *Dispatcher) Listeners(k Kind) int {
	if d == nil || k >= numKinds {
		return 0
	}
	return len(d.listeners[k])
}

// Close removes every listener; later registrations fail with ErrClosed.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closed = true
	for k := range d.listeners {
		d.listeners[k] = nil
	}
}
