package dom

import "golang.org/x/net/html"

// Event is dispatched to listeners registered on the target and, while it is
// not stopped, on each of its ancestors.
type Event struct {
	Type string
	// Key carries the key of keyboard events.
	Key string

	Target        *Element
	CurrentTarget *Element

	defaultPrevented bool
	stopped          bool
}

// NewEvent returns an event of the given type.
func NewEvent(kind string) *Event {
	return &Event{Type: kind}
}

// PreventDefault cancels the default action of the event.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener handles a dispatched event.
type Listener func(*Event)

type listener struct {
	id   uint64
	kind string
	fn   Listener
}

// Subscription identifies a registered listener.
type Subscription struct {
	el *Element
	id uint64
}

// Remove unregisters the listener. Removing twice is a no-op.
func (s Subscription) Remove() {
	if s.el == nil {
		return
	}
	s.el.doc.mu.Lock()
	defer s.el.doc.mu.Unlock()
	out := s.el.listeners[:0]
	for _, l := range s.el.listeners {
		if l.id != s.id {
			out = append(out, l)
		}
	}
	s.el.listeners = out
}

// AddEventListener registers fn for events of kind on e in the bubbling
// phase.
func (e *Element) AddEventListener(kind string, fn Listener) Subscription {
	id := e.doc.nextListenerID()
	e.doc.mu.Lock()
	e.listeners = append(e.listeners, listener{id: id, kind: kind, fn: fn})
	e.doc.mu.Unlock()
	return Subscription{el: e, id: id}
}

// ListenerCount returns how many listeners of kind are registered on e.
func (e *Element) ListenerCount(kind string) int {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	count := 0
	for _, l := range e.listeners {
		if l.kind == kind {
			count++
		}
	}
	return count
}

// Dispatch delivers evt to e and then to its ancestors. It returns false when
// a listener prevented the default action.
func (e *Element) Dispatch(evt *Event) bool {
	if evt == nil {
		return true
	}
	evt.Target = e

	for _, step := range e.path() {
		if evt.stopped {
			break
		}
		fns := step.snapshot(evt.Type)
		if len(fns) == 0 {
			continue
		}
		evt.CurrentTarget = step
		for _, fn := range fns {
			fn(evt)
		}
	}
	evt.CurrentTarget = nil
	return !evt.defaultPrevented
}

func (e *Element) path() []*Element {
	e.doc.mu.RLock()
	var nodes []*html.Node
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode {
			nodes = append(nodes, n)
		}
	}
	e.doc.mu.RUnlock()

	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if el, ok := e.doc.lookup(n); ok {
			out = append(out, el)
		}
	}
	return out
}

func (e *Element) snapshot(kind string) []Listener {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	var out []Listener
	for _, l := range e.listeners {
		if l.kind == kind {
			out = append(out, l.fn)
		}
	}
	return out
}
