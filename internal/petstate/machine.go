package petstate

import (
	"sync"
	"time"

	"github.com/deskpet/core/pkg/eventbus"
	"github.com/deskpet/core/pkg/logger"
)

// CategorySlot holds the current PetState (if any) for one category,
// plus the timestamp it was set (spec.md §3). The invariant "the
// state (if any) belongs to that category" is enforced by Machine at
// write time, under debug validation (spec.md §4.6 step 1).
type CategorySlot struct {
	State PetState
	Set   bool
	At    time.Time
}

// HistoryEntry records one actual change of current (spec.md §3,
// §4.6 step 4).
type HistoryEntry struct {
	Prev      PetState
	New       PetState
	Cause     Category
	Timestamp time.Time
}

// Thresholds mirror config.Config's threshold fields, kept on the
// Machine itself so they can be tuned at runtime without a code
// change (spec.md §4.6).
type Thresholds struct {
	CPULight, CPUModerate, CPUHeavy, CPUVeryHeavy, CPUCritical float64
	MemWarning, MemCritical                                    float64
	GPUBusy, GPUVeryBusy                                       float64
	DiskBusy, DiskVeryBusy                                     float64
	NetworkBusy, NetworkVeryBusy                                float64
}

// Machine is the priority-stratified state-machine aggregate of
// spec.md §4.6: four category slots plus a derived current state.
// Slot writes, recomputation and history append happen under a single
// mutex; StateChanged is dispatched after the mutex is released, so
// dispatch is not part of that atomic unit and events from concurrent
// updates are not ordered with respect to each other.
type Machine struct {
	mu sync.Mutex

	system      CategorySlot
	timeSlot    CategorySlot
	specialDate CategorySlot
	interaction CategorySlot

	current    PetState
	currentSet bool

	history    []HistoryEntry
	historyCap int

	Thresholds Thresholds

	bus *eventbus.Bus
	log *logger.Logger
}

// New creates a Machine with current = Idle, wired to bus for
// StateChanged emission.
func New(bus *eventbus.Bus, historyCap int, thresholds Thresholds, log *logger.Logger) *Machine {
	if historyCap <= 0 {
		historyCap = 128
	}
	return &Machine{
		current:    StateIdle,
		currentSet: true,
		historyCap: historyCap,
		Thresholds: thresholds,
		bus:        bus,
		log:        log,
	}
}

// Current returns the highest-priority non-empty slot, else Idle
// (spec.md §3, §4.6).
func (m *Machine) Current() PetState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Snapshot returns a copy of the four category slots.
func (m *Machine) Snapshot() map[Category]CategorySlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[Category]CategorySlot{
		CategorySystem:      m.system,
		CategoryTime:        m.timeSlot,
		CategorySpecialDate: m.specialDate,
		CategoryInteraction: m.interaction,
	}
}

// History returns a copy of the bounded ring of HistoryEntry records.
func (m *Machine) History() []HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]HistoryEntry, len(m.history))
	copy(out, m.history)
	return out
}

// RedispatchCurrent re-announces the current state on the bus without
// changing it, via a synthetic StateChanged{Prev: current, New:
// current}. Used by animation.PlaceholderFactory.AnimationFinished to
// let a consumer re-evaluate after a one-shot animation completes
// (spec.md §4.8).
func (m *Machine) RedispatchCurrent() {
	m.mu.Lock()
	cur := m.current
	entry := HistoryEntry{Prev: cur, New: cur, Cause: "", Timestamp: time.Now()}
	m.mu.Unlock()
	m.dispatchStateChanged(entry)
}

// UpdateSystem sets the System slot and returns whether current
// changed (spec.md §4.6).
func (m *Machine) UpdateSystem(s PetState, now time.Time) bool {
	return m.update(CategorySystem, s, true, now)
}

// UpdateTime sets the Time slot and returns whether current changed.
func (m *Machine) UpdateTime(s PetState, now time.Time) bool {
	return m.update(CategoryTime, s, true, now)
}

// SetSpecialDate sets or clears the SpecialDate slot (present=false
// clears it) and returns whether current changed.
func (m *Machine) SetSpecialDate(s PetState, present bool, now time.Time) bool {
	return m.update(CategorySpecialDate, s, present, now)
}

// UpdateInteraction sets or clears the Interaction slot and returns
// whether current changed.
func (m *Machine) UpdateInteraction(s PetState, present bool, now time.Time) bool {
	return m.update(CategoryInteraction, s, present, now)
}

// update performs the algorithm of spec.md §4.6: write into the slot
// (or clear it), recompute current by priority scan, and — if current
// actually changed — append history and dispatch StateChanged. The
// slot write, recomputation and history append form one critical
// section; dispatch runs after the mutex is released.
func (m *Machine) update(cat Category, s PetState, present bool, now time.Time) bool {
	m.mu.Lock()

	if present {
		if cat2, ok := CategoryOf(s); ok && cat2 != cat {
			// Debug-only invariant check (spec.md §4.6 step 1): a
			// caller asked to place a state into the wrong category's
			// slot. Refuse the write rather than corrupt the
			// invariant "the state (if any) belongs to that category".
			m.mu.Unlock()
			if m.log != nil {
				m.log.Error("category mismatch on update", "category", cat, "state", s)
			}
			return false
		}
	}

	slot := m.slotFor(cat)
	if present {
		*slot = CategorySlot{State: s, Set: true, At: now}
	} else {
		*slot = CategorySlot{}
	}

	prev := m.current
	next := m.recompute()
	changed := next != prev || !m.currentSet
	m.current = next
	m.currentSet = true

	var entry HistoryEntry
	if changed {
		entry = HistoryEntry{Prev: prev, New: next, Cause: cat, Timestamp: now}
		m.appendHistory(entry)
	}
	m.mu.Unlock()

	if changed {
		m.dispatchStateChanged(entry)
	}
	return changed
}

func (m *Machine) slotFor(cat Category) *CategorySlot {
	switch cat {
	case CategorySystem:
		return &m.system
	case CategoryTime:
		return &m.timeSlot
	case CategorySpecialDate:
		return &m.specialDate
	case CategoryInteraction:
		return &m.interaction
	default:
		// Unreachable for the closed set of Category values used
		// internally; a fatal invariant violation if it ever occurs.
		if m.log != nil {
			m.log.Fatal("unknown category in slotFor", "category", cat)
		}
		return &CategorySlot{}
	}
}

// recompute scans slots in priority order (Interaction, SpecialDate,
// System, Time), returning the first non-empty, falling back to Idle
// (spec.md §3, §4.6 step 3). Caller holds m.mu.
func (m *Machine) recompute() PetState {
	if m.interaction.Set {
		return m.interaction.State
	}
	if m.specialDate.Set {
		return m.specialDate.State
	}
	if m.system.Set {
		return m.system.State
	}
	if m.timeSlot.Set {
		return m.timeSlot.State
	}
	return StateIdle
}

// appendHistory appends entry to the bounded ring buffer. Caller
// holds m.mu.
func (m *Machine) appendHistory(entry HistoryEntry) {
	m.history = append(m.history, entry)
	if len(m.history) > m.historyCap {
		m.history = m.history[len(m.history)-m.historyCap:]
	}
}

func (m *Machine) dispatchStateChanged(entry HistoryEntry) {
	if m.bus == nil {
		return
	}
	m.bus.Dispatch(&eventbus.Event{
		Kind: eventbus.KindStateChanged,
		Payload: eventbus.StateChanged{
			Prev:            string(entry.Prev),
			New:             string(entry.New),
			CategoryChanged: string(entry.Cause),
			Timestamp:       entry.Timestamp,
		},
	})
}
