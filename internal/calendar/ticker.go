package calendar

import (
	"context"
	"time"

	"github.com/deskpet/core/pkg/eventbus"
	"github.com/deskpet/core/pkg/logger"
)

// Ticker drives period-of-day detection and special-date scanning at
// a slower cadence than the system monitor (spec.md §4.7, default
// 60s). It posts TimePeriodChanged only on an actual transition, and
// SpecialDate once per (name, year) trigger.
type Ticker struct {
	bus      *eventbus.Bus
	registry *Registry
	period   time.Duration
	log      *logger.Logger

	lastPeriod Period
	havePeriod bool

	lastDay string
	haveDay bool
}

// NewTicker wires a Ticker to bus and registry, ticking every period.
func NewTicker(bus *eventbus.Bus, registry *Registry, period time.Duration, log *logger.Logger) *Ticker {
	return &Ticker{bus: bus, registry: registry, period: period, log: log}
}

// Tick performs one period-change check and one special-date scan
// against now, posting events on the bus as appropriate. Exported so
// tests can drive it deterministically without a real clock.
func (t *Ticker) Tick(now time.Time) {
	t.checkPeriod(now)
	t.checkDayRollover(now)
	t.checkSpecialDates(now)
}

// checkDayRollover clears the SpecialDate slot once the calendar day
// changes underneath it. A SpecialDate only holds meaning for the day
// it fired on; without this the slot would outrank System and Time
// forever after the first festival (spec.md §3: "cleared when the
// calendar system decides the day has ended"). The very first tick
// only seeds lastDay — it never dispatches a clear, since nothing has
// fired yet.
func (t *Ticker) checkDayRollover(now time.Time) {
	day := now.Format("2006-01-02")
	if !t.haveDay {
		t.lastDay = day
		t.haveDay = true
		return
	}
	if day == t.lastDay {
		return
	}
	t.lastDay = day
	t.bus.Dispatch(&eventbus.Event{
		Kind: eventbus.KindSpecialDate,
		Payload: eventbus.SpecialDateFired{
			Cleared:   true,
			Timestamp: now,
		},
	})
}

func (t *Ticker) checkPeriod(now time.Time) {
	current := ClassifyPeriod(now.Hour())
	if t.havePeriod && current == t.lastPeriod {
		return
	}
	old := ""
	if t.havePeriod {
		old = string(t.lastPeriod)
	}
	t.lastPeriod = current
	t.havePeriod = true
	t.bus.Dispatch(&eventbus.Event{
		Kind: eventbus.KindTimePeriodChanged,
		Payload: eventbus.TimePeriodChanged{
			Old:       old,
			New:       string(current),
			Timestamp: now,
		},
	})
}

func (t *Ticker) checkSpecialDates(now time.Time) {
	for _, fired := range t.registry.Tick(now) {
		t.bus.Dispatch(&eventbus.Event{
			Kind: eventbus.KindSpecialDate,
			Payload: eventbus.SpecialDateFired{
				Name:        fired.Date.Name,
				Description: fired.Date.Description,
				LeadOffset:  fired.LeadOffset,
				IsLunar:     fired.Date.IsLunar,
				Timestamp:   fired.Timestamp,
			},
		})
	}
}

// Run blocks, calling Tick every t.period, until ctx is canceled. It
// stops cleanly within one period of cancellation (spec.md §5).
func (t *Ticker) Run(ctx context.Context, now func() time.Time) {
	ticker := time.NewTicker(t.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if t.log != nil {
				t.log.Info("calendar ticker stopped")
			}
			return
		case tm := <-ticker.C:
			if now != nil {
				tm = now()
			}
			t.Tick(tm)
		}
	}
}
