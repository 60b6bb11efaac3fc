package adapters

import (
	"time"

	"github.com/deskpet/core/internal/calendar"
	"github.com/deskpet/core/internal/petstate"
	"github.com/deskpet/core/pkg/eventbus"
	"github.com/deskpet/core/pkg/logger"
)

// periodMapping is the complete, one-to-one PeriodOfDay -> PetState
// mapping required by spec.md §4.5.3.
var periodMapping = map[calendar.Period]petstate.PetState{
	calendar.PeriodMorning:   petstate.StateMorning,
	calendar.PeriodNoon:      petstate.StateNoon,
	calendar.PeriodAfternoon: petstate.StateAfternoon,
	calendar.PeriodEvening:   petstate.StateEvening,
	calendar.PeriodNight:     petstate.StateNight,
}

// defaultSpecialDateMapping is the best-effort SpecialDate.name -> PetState
// mapping for the built-in seed registry (spec.md §4.5.3); unmapped
// names log a warning and do not change state.
func defaultSpecialDateMapping() map[string]petstate.PetState {
	return map[string]petstate.PetState{
		"NewYear":        petstate.StateNewYear,
		"SpringFestival": petstate.StateSpringFestival,
		"Valentine":      petstate.StateValentine,
		"Birthday":       petstate.StateBirthday,
		"Lichun":         petstate.StateLichun,
	}
}

// TimeStateBridge subscribes to TimePeriodChanged and SpecialDate
// events and drives the Time and SpecialDate slots of the state
// machine (spec.md §4.5.3).
type TimeStateBridge struct {
	machine   *petstate.Machine
	mapping   map[string]petstate.PetState
	log       *logger.Logger
}

// NewTimeStateBridge wires a bridge to machine.
func NewTimeStateBridge(machine *petstate.Machine, log *logger.Logger) *TimeStateBridge {
	return &TimeStateBridge{machine: machine, mapping: defaultSpecialDateMapping(), log: log}
}

// SetSpecialDateMapping registers or overrides a SpecialDate name ->
// PetState mapping entry.
func (b *TimeStateBridge) SetSpecialDateMapping(name string, state petstate.PetState) {
	b.mapping[name] = state
}

// Register subscribes the bridge to bus's TimePeriodChanged and
// SpecialDate events.
func (b *TimeStateBridge) Register(bus *eventbus.Bus) (period, special eventbus.Token) {
	period = bus.Register(eventbus.KindTimePeriodChanged, func(e *eventbus.Event) {
		ev, ok := e.Payload.(eventbus.TimePeriodChanged)
		if !ok {
			return
		}
		b.handlePeriod(calendar.Period(ev.New), ev.Timestamp)
	})
	special = bus.Register(eventbus.KindSpecialDate, func(e *eventbus.Event) {
		ev, ok := e.Payload.(eventbus.SpecialDateFired)
		if !ok {
			return
		}
		if ev.Cleared {
			b.clearSpecialDate(ev.Timestamp)
			return
		}
		b.handleSpecialDate(ev.Name, ev.Timestamp)
	})
	return period, special
}

func (b *TimeStateBridge) handlePeriod(period calendar.Period, now time.Time) {
	state, ok := periodMapping[period]
	if !ok {
		// periodMapping is declared complete per spec.md §4.5.3; an
		// unrecognized Period string reaching here means an upstream
		// producer emitted outside the closed set.
		if b.log != nil {
			b.log.Error("unrecognized period", "period", period)
		}
		return
	}
	b.machine.UpdateTime(state, now)
}

func (b *TimeStateBridge) handleSpecialDate(name string, now time.Time) {
	state, ok := b.mapping[name]
	if !ok {
		if b.log != nil {
			b.log.Warn("unmapped special date name", "name", name)
		}
		return
	}
	b.machine.SetSpecialDate(state, true, now)
}

// clearSpecialDate drops the SpecialDate slot on day rollover,
// regardless of which name last held it, so System and Time can
// resume arbitrating (spec.md §3).
func (b *TimeStateBridge) clearSpecialDate(now time.Time) {
	b.machine.SetSpecialDate("", false, now)
}

// SyncNow performs the one-shot startup sync of spec.md §4.5.3:
// classify the current period immediately, and fire any special dates
// that registry.Tick reports as due now and not yet triggered this year.
func (b *TimeStateBridge) SyncNow(now time.Time, registry *calendar.Registry) {
	b.handlePeriod(calendar.ClassifyPeriod(now.Hour()), now)
	for _, fired := range registry.Tick(now) {
		b.handleSpecialDate(fired.Date.Name, now)
	}
}
