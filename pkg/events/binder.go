// Package events subscribes callbacks to field elements. Besides the
// primitive keyboard, focus and mouse events it derives "writing" (every
// keyup) and "afterwriting" (keyup debounced by a quiet period).
package events

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/dom"
	"github.com/goliatone/go-formbuilder/pkg/fields"
)

// Event kinds accepted by Bind.
const (
	KeyPress     = "keypress"
	KeyDown      = "keydown"
	KeyUp        = "keyup"
	Focus        = "focus"
	Blur         = "blur"
	Click        = "click"
	DblClick     = "dblclick"
	Writing      = "writing"
	AfterWriting = "afterwriting"
)

// DefaultDelay is the afterwriting quiet period when none is configured.
const DefaultDelay = 250 * time.Millisecond

var primitives = map[string]struct{}{
	KeyPress: {}, KeyDown: {}, KeyUp: {}, Focus: {}, Blur: {}, Click: {}, DblClick: {},
}

// Callback receives the value of the bound element and the raw event.
type Callback func(value string, evt *dom.Event)

// Option customises a Binder.
type Option func(*Binder)

// WithClock replaces the clock that arms debounce timers.
func WithClock(clock clockwork.Clock) Option {
	return func(b *Binder) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// WithDelay sets the afterwriting quiet period.
func WithDelay(delay time.Duration) Option {
	return func(b *Binder) {
		if delay >= 0 {
			b.delay = delay
		}
	}
}

// WithLogger routes debug records to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Binder registers event subscriptions and owns at most one pending
// debounce timer. Arming a new timer always cancels the previous one, across
// every element bound through the same Binder.
type Binder struct {
	clock  clockwork.Clock
	delay  time.Duration
	logger logrus.FieldLogger

	mu    sync.Mutex
	timer clockwork.Timer
	gen   uint64
}

// New constructs a Binder using the real clock and DefaultDelay.
func New(opts ...Option) *Binder {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	b := &Binder{
		clock:  clockwork.NewRealClock(),
		delay:  DefaultDelay,
		logger: discard,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Delay returns the afterwriting quiet period.
func (b *Binder) Delay() time.Duration {
	return b.delay
}

// Known reports whether kind is accepted by Bind.
func Known(kind string) bool {
	if _, ok := primitives[kind]; ok {
		return true
	}
	return kind == Writing || kind == AfterWriting
}

// Bind subscribes cb to kind on el.
func (b *Binder) Bind(el *dom.Element, kind string, cb Callback) error {
	if el == nil || cb == nil {
		return fmt.Errorf("events: bind %q: %w: element and callback are required", kind, fields.ErrUsage)
	}
	switch {
	case kind == Writing:
		el.AddEventListener(KeyUp, direct(cb))
	case kind == AfterWriting:
		el.AddEventListener(KeyUp, b.debounced(cb))
	default:
		if _, ok := primitives[kind]; !ok {
			return fmt.Errorf("events: %q: %w", kind, fields.ErrUnknownEvent)
		}
		el.AddEventListener(kind, direct(cb))
	}
	return nil
}

func direct(cb Callback) dom.Listener {
	return func(evt *dom.Event) {
		cb(evt.CurrentTarget.Value(), evt)
	}
}

func (b *Binder) debounced(cb Callback) dom.Listener {
	return func(evt *dom.Event) {
		target := evt.CurrentTarget
		// Dispatch clears CurrentTarget once it returns; the timer keeps
		// its own copy.
		fired := *evt

		b.mu.Lock()
		defer b.mu.Unlock()
		if b.timer != nil {
			b.timer.Stop()
		}
		b.gen++
		gen := b.gen
		b.timer = b.clock.AfterFunc(b.delay, func() {
			if !b.settle(gen) {
				return
			}
			value := target.Value()
			b.logger.WithFields(logrus.Fields{
				"event": AfterWriting,
				"name":  target.GetAttribute("name"),
			}).Debug("debounce fired")
			cb(value, &fired)
		})
	}
}

// settle clears the pending timer if gen is still the latest arming.
func (b *Binder) settle(gen uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return false
	}
	b.timer = nil
	return true
}

// Pending reports whether a debounce timer is armed.
func (b *Binder) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.timer != nil
}

// Stop cancels the pending debounce timer, if any.
func (b *Binder) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
}
