package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpet/core/pkg/eventbus"
)

func TestTicker_Tick_PostsPeriodChangeOnlyOnTransition(t *testing.T) {
	bus := eventbus.New(nil)
	reg := NewRegistry(nil)
	ticker := NewTicker(bus, reg, time.Minute, nil)

	var events []eventbus.TimePeriodChanged
	bus.Register(eventbus.KindTimePeriodChanged, func(e *eventbus.Event) {
		events = append(events, e.Payload.(eventbus.TimePeriodChanged))
	})

	morning := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	ticker.Tick(morning)
	ticker.Tick(morning.Add(time.Minute)) // still morning, no second event

	require.Len(t, events, 1)
	assert.Equal(t, "Morning", events[0].New)

	noon := time.Date(2026, 1, 5, 12, 30, 0, 0, time.UTC)
	ticker.Tick(noon)
	require.Len(t, events, 2)
	assert.Equal(t, "Morning", events[1].Old)
	assert.Equal(t, "Noon", events[1].New)
}

func TestTicker_Tick_PostsSpecialDateFired(t *testing.T) {
	bus := eventbus.New(nil)
	reg := NewRegistry(nil)
	reg.RegisterSpecialDate(SpecialDate{Name: "NewYear", Month: 1, Day: 1, Kind: KindSolarFestival})
	ticker := NewTicker(bus, reg, time.Minute, nil)

	var fired []eventbus.SpecialDateFired
	bus.Register(eventbus.KindSpecialDate, func(e *eventbus.Event) {
		fired = append(fired, e.Payload.(eventbus.SpecialDateFired))
	})

	ticker.Tick(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	require.Len(t, fired, 1)
	assert.Equal(t, "NewYear", fired[0].Name)
}

func TestTicker_Tick_ClearsSpecialDateOnDayRollover(t *testing.T) {
	bus := eventbus.New(nil)
	reg := NewRegistry(nil)
	reg.RegisterSpecialDate(SpecialDate{Name: "NewYear", Month: 1, Day: 1, Kind: KindSolarFestival})
	ticker := NewTicker(bus, reg, time.Minute, nil)

	var fired []eventbus.SpecialDateFired
	bus.Register(eventbus.KindSpecialDate, func(e *eventbus.Event) {
		fired = append(fired, e.Payload.(eventbus.SpecialDateFired))
	})

	ticker.Tick(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	require.Len(t, fired, 1, "first tick only fires, no rollover yet")

	ticker.Tick(time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC))
	require.Len(t, fired, 1, "same day, still no clear")

	ticker.Tick(time.Date(2026, 1, 2, 0, 5, 0, 0, time.UTC))
	require.Len(t, fired, 2, "day rollover dispatches a clear")
	assert.True(t, fired[1].Cleared)
	assert.Empty(t, fired[1].Name)
}
