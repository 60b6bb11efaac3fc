package adapters

import (
	"context"
	"sync"
	"time"

	"github.com/deskpet/core/internal/config"
	"github.com/deskpet/core/internal/interaction"
	"github.com/deskpet/core/internal/petstate"
	"github.com/deskpet/core/pkg/eventbus"
	"github.com/deskpet/core/pkg/logger"
)

// interactionMapping is the default kind -> PetState table (spec.md
// §4.5.2), extensible at runtime via SetMapping. Zone-specific
// mappings ("head_Click" etc.) are an extension point the spec
// explicitly does not require (spec.md §9); MappingKey supports that
// extension without the core needing it today.
func defaultInteractionMapping() map[string]petstate.PetState {
	return map[string]petstate.PetState{
		"Click":       petstate.StateClicked,
		"DoubleClick": petstate.StateHappy,
		"RightClick":  petstate.StateAngry,
		"Hover":       petstate.StateHover,
		"Drag":        petstate.StateDragged,
		"Pet":         petstate.StatePetted,
		"Play":        petstate.StatePlay,
	}
}

// releaseKinds are interaction-kind strings treated as "release"
// events: while the current interaction state is Dragged, a release
// clears it immediately (spec.md §4.5.2).
var releaseKinds = map[string]bool{
	"Drop":      true,
	"MouseUp":   true,
	"RightUp":   true,
}

// shortTimeouts is the per-state short timeout table of spec.md
// §4.5.2; states not listed use the generic timeout instead.
func shortTimeouts(cfg config.InteractionTimeouts) map[petstate.PetState]time.Duration {
	return map[petstate.PetState]time.Duration{
		petstate.StateClicked: cfg.ClickedMs,
		petstate.StatePetted:  cfg.PettedMs,
		petstate.StateHover:   cfg.HoverMs,
	}
}

// InteractionStateAdapter consumes UserInteraction events, maintains
// a kind -> PetState mapping table, and enforces per-state timeouts
// (spec.md §4.5.2).
type InteractionStateAdapter struct {
	mu sync.Mutex

	machine *petstate.Machine
	mapping map[string]petstate.PetState
	cfg     config.InteractionTimeouts
	tracker *interaction.Tracker
	log     *logger.Logger

	lastInteractionTime time.Time
	haveLast            bool

	// deadline, if set, is when the currently-held interaction slot
	// should be cleared if it is still that state (spec.md §9:
	// "represent as deadlines stored on the interaction slot").
	deadline     time.Time
	deadlineHeld petstate.PetState
	haveDeadline bool
}

// NewInteractionStateAdapter wires an adapter to machine using cfg's
// timeouts, starting from the default mapping table. tracker receives
// every interaction event Handle processes (spec.md §4.3), feeding the
// pattern classifier that the daemon's persisted interaction history
// depends on.
func NewInteractionStateAdapter(machine *petstate.Machine, cfg config.InteractionTimeouts, tracker *interaction.Tracker, log *logger.Logger) *InteractionStateAdapter {
	return &InteractionStateAdapter{
		machine: machine,
		mapping: defaultInteractionMapping(),
		cfg:     cfg,
		tracker: tracker,
		log:     log,
	}
}

// SetMapping registers or overrides a kind -> PetState mapping entry.
func (a *InteractionStateAdapter) SetMapping(kind string, state petstate.PetState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mapping[kind] = state
}

// Register subscribes the adapter to bus's UserInteraction events.
func (a *InteractionStateAdapter) Register(bus *eventbus.Bus) eventbus.Token {
	return bus.Register(eventbus.KindUserInteraction, func(e *eventbus.Event) {
		ev, ok := e.Payload.(eventbus.UserInteraction)
		if !ok {
			return
		}
		now := ev.Timestamp
		if now.IsZero() {
			now = time.Now()
		}
		a.Handle(ev.Kind, ev.ZoneID, now)
	})
}

// Handle implements the per-event logic of spec.md §4.5.2: a release
// while Dragged clears immediately; otherwise an unmapped kind only
// refreshes lastInteractionTime, while a mapped kind sets the
// Interaction slot and (re)arms its timeout deadline. Every event is
// also recorded against tracker, regardless of mapping outcome, so the
// frequency classifier (spec.md §4.3) sees the same traffic the state
// machine does.
func (a *InteractionStateAdapter) Handle(kind, zoneID string, now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.lastInteractionTime = now
	a.haveLast = true

	if a.tracker != nil {
		if err := a.tracker.Track(kind, zoneID, now); err != nil && a.log != nil {
			// Release signals like "MouseUp"/"RightUp" aren't part of
			// the tracker's known-kind set; expected, not a bug.
			a.log.Debug("interaction not tracked", "kind", kind, "zone_id", zoneID, "error", err.Error())
		}
	}

	if releaseKinds[kind] {
		if a.machine.Current() == petstate.StateDragged {
			a.clearLocked(now)
		}
		return
	}

	state, mapped := a.mapping[kind]
	if !mapped {
		// Unknown-mapping: logged at debug, no state change
		// (spec.md §7: UnknownMapping).
		if a.log != nil {
			a.log.Debug("unmapped interaction kind", "kind", kind)
		}
		return
	}

	a.machine.UpdateInteraction(state, true, now)
	if d, ok := shortTimeouts(a.cfg)[state]; ok {
		a.arm(state, now.Add(d))
	} else {
		a.arm(state, now.Add(a.cfg.GenericMs))
	}
}

func (a *InteractionStateAdapter) arm(state petstate.PetState, at time.Time) {
	a.deadlineHeld = state
	a.deadline = at
	a.haveDeadline = true
}

func (a *InteractionStateAdapter) clearLocked(now time.Time) {
	a.machine.UpdateInteraction("", false, now)
	a.haveDeadline = false
}

// CheckTimeouts is called periodically by a background ticker
// (spec.md §4.5.2, §5). It is idempotent: if the slot has already
// moved on to something else, it does nothing.
func (a *InteractionStateAdapter) CheckTimeouts(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.haveDeadline {
		return
	}
	if now.Before(a.deadline) {
		return
	}
	if a.machine.Current() == a.deadlineHeld {
		a.machine.UpdateInteraction("", false, now)
	}
	a.haveDeadline = false
}

// RunTimeoutWatcher blocks, calling CheckTimeouts on a fixed tick
// (spec.md §4.5.2's "background ticker"), until ctx is canceled.
func (a *InteractionStateAdapter) RunTimeoutWatcher(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.CheckTimeouts(now)
		}
	}
}

// LastInteractionTime returns the last time any interaction event was
// handled, and whether one has ever been handled.
func (a *InteractionStateAdapter) LastInteractionTime() (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastInteractionTime, a.haveLast
}
