// Package eventbus implements the synchronous typed publish/subscribe
// channel connecting every producer (monitor, calendar ticker,
// interaction sources) and consumer (adapters, the state machine,
// and external animation/UI code) in the core. Dispatch is synchronous
// and runs handlers on the calling goroutine, in registration order.
package eventbus

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/deskpet/core/pkg/logger"
)

// Kind identifies one of the closed set of event kinds the core
// produces and consumes (spec.md §4.1, §6).
type Kind string

const (
	KindSystemStatsUpdated  Kind = "SystemStatsUpdated"
	KindUserInteraction     Kind = "UserInteraction"
	KindTimePeriodChanged   Kind = "TimePeriodChanged"
	KindSpecialDate         Kind = "SpecialDate"
	KindStateChanged        Kind = "StateChanged"
	KindWindowPositionChanged Kind = "WindowPositionChanged"
	KindSceneChange         Kind = "SceneChange"
)

// Event is a tagged variant dispatched synchronously. Payload carries
// the kind-specific data (see the payload types in pkg/eventbus/payloads.go).
// Handled lets a handler stop further propagation to later-registered
// handlers for this dispatch.
type Event struct {
	Kind    Kind
	Payload any
	Handled bool
}

// Handler processes one dispatched Event. It must not block and must
// not panic across goroutine boundaries — a panic inside a Handler is
// recovered by Dispatch and logged as a HandlerException; it does not
// stop remaining handlers from running.
type Handler func(*Event)

// Token identifies a single registration, returned by Register and
// consumed by Unregister.
type Token uuid.UUID

type registration struct {
	token   Token
	handler Handler
}

// Bus is the synchronous, single-process event channel. It is safe
// for concurrent Register/Unregister/Dispatch calls: handler lists
// are copied before iteration, so a handler may Unregister itself or
// another handler during its own invocation without corrupting the
// in-flight dispatch or racing the registry.
type Bus struct {
	mu   sync.RWMutex
	subs map[Kind][]registration
	log  *logger.Logger
}

// New creates an empty Bus. log may be nil, in which case handler
// panics are recovered silently (still not propagated).
func New(log *logger.Logger) *Bus {
	return &Bus{subs: make(map[Kind][]registration), log: log}
}

// Register adds handler for kind and returns a Token usable with
// Unregister. Handlers run in registration order on the goroutine
// that calls Dispatch.
func (b *Bus) Register(kind Kind, handler Handler) Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	tok := Token(uuid.New())
	b.subs[kind] = append(b.subs[kind], registration{token: tok, handler: handler})
	return tok
}

// Unregister removes the handler registered under tok, if still
// present. Safe to call during Dispatch (see Bus doc) and safe to
// call twice (second call is a no-op).
func (b *Bus) Unregister(tok Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for kind, regs := range b.subs {
		for i, r := range regs {
			if r.token == tok {
				b.subs[kind] = append(regs[:i], regs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch invokes every handler registered for event.Kind, in
// registration order, on the calling goroutine. The handler list is
// snapshotted before iteration so Unregister calls made by a handler
// do not affect this dispatch. A handler setting event.Handled = true
// stops dispatch to subsequent handlers. Panics inside a handler are
// recovered, logged, and do not abort dispatch to the rest.
func (b *Bus) Dispatch(event *Event) {
	b.mu.RLock()
	regs := make([]registration, len(b.subs[event.Kind]))
	copy(regs, b.subs[event.Kind])
	b.mu.RUnlock()

	for _, r := range regs {
		b.invoke(r.handler, event)
		if event.Handled {
			return
		}
	}
}

func (b *Bus) invoke(h Handler, event *Event) {
	defer func() {
		if rec := recover(); rec != nil {
			if b.log != nil {
				b.log.Error("handler exception", "kind", event.Kind, "recover", fmt.Sprint(rec))
			}
		}
	}()
	h(event)
}

// SubscriberCount returns the number of handlers registered for kind.
// Intended for tests and diagnostics.
func (b *Bus) SubscriberCount(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[kind])
}
