package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpet/core/internal/calendar"
	"github.com/deskpet/core/internal/petstate"
	"github.com/deskpet/core/pkg/eventbus"
)

func newTestBridge() (*petstate.Machine, *TimeStateBridge) {
	bus := eventbus.New(nil)
	m := petstate.New(bus, 8, petstate.Thresholds{}, nil)
	b := NewTimeStateBridge(m, nil)
	return m, b
}

func TestTimeStateBridge_PeriodMappingIsComplete(t *testing.T) {
	periods := []calendar.Period{
		calendar.PeriodMorning,
		calendar.PeriodNoon,
		calendar.PeriodAfternoon,
		calendar.PeriodEvening,
		calendar.PeriodNight,
	}
	for _, p := range periods {
		_, ok := periodMapping[p]
		assert.True(t, ok, "period %s must be mapped", p)
	}
}

func TestTimeStateBridge_HandlePeriod_SetsTimeSlot(t *testing.T) {
	m, b := newTestBridge()
	b.handlePeriod(calendar.PeriodEvening, time.Now())
	assert.Equal(t, petstate.StateEvening, m.Current())
}

func TestTimeStateBridge_HandlePeriod_UnrecognizedPeriodIsNoop(t *testing.T) {
	m, b := newTestBridge()
	b.handlePeriod(calendar.Period("Midnight"), time.Now())
	assert.Equal(t, petstate.StateIdle, m.Current())
}

func TestTimeStateBridge_HandleSpecialDate_SetsSpecialDateSlot(t *testing.T) {
	m, b := newTestBridge()
	b.handleSpecialDate("NewYear", time.Now())
	assert.Equal(t, petstate.StateNewYear, m.Current())
}

func TestTimeStateBridge_HandleSpecialDate_UnmappedNameIsNoop(t *testing.T) {
	m, b := newTestBridge()
	b.handleSpecialDate("SomeUnmappedFestival", time.Now())
	assert.Equal(t, petstate.StateIdle, m.Current())
}

func TestTimeStateBridge_SpecialDateOutranksTime(t *testing.T) {
	m, b := newTestBridge()
	now := time.Now()
	b.handlePeriod(calendar.PeriodMorning, now)
	require.Equal(t, petstate.StateMorning, m.Current())

	b.handleSpecialDate("Valentine", now)
	assert.Equal(t, petstate.StateValentine, m.Current())
}

func TestTimeStateBridge_SetSpecialDateMappingOverridesDefault(t *testing.T) {
	m, b := newTestBridge()
	b.SetSpecialDateMapping("NewYear", petstate.StateHappy)
	b.handleSpecialDate("NewYear", time.Now())
	assert.Equal(t, petstate.StateHappy, m.Current())
}

func TestTimeStateBridge_Register_DispatchesThroughBus(t *testing.T) {
	bus := eventbus.New(nil)
	m := petstate.New(bus, 8, petstate.Thresholds{}, nil)
	b := NewTimeStateBridge(m, nil)
	b.Register(bus)

	bus.Dispatch(&eventbus.Event{Kind: eventbus.KindTimePeriodChanged, Payload: eventbus.TimePeriodChanged{Old: "", New: "Noon", Timestamp: time.Now()}})
	assert.Equal(t, petstate.StateNoon, m.Current())

	bus.Dispatch(&eventbus.Event{Kind: eventbus.KindSpecialDate, Payload: eventbus.SpecialDateFired{Name: "Birthday", Timestamp: time.Now()}})
	assert.Equal(t, petstate.StateBirthday, m.Current())
}

func TestTimeStateBridge_Register_ClearedSpecialDateDropsSlot(t *testing.T) {
	bus := eventbus.New(nil)
	m := petstate.New(bus, 8, petstate.Thresholds{}, nil)
	b := NewTimeStateBridge(m, nil)
	b.Register(bus)

	now := time.Now()
	bus.Dispatch(&eventbus.Event{Kind: eventbus.KindTimePeriodChanged, Payload: eventbus.TimePeriodChanged{Old: "", New: "Morning", Timestamp: now}})
	bus.Dispatch(&eventbus.Event{Kind: eventbus.KindSpecialDate, Payload: eventbus.SpecialDateFired{Name: "NewYear", Timestamp: now}})
	require.Equal(t, petstate.StateNewYear, m.Current())

	bus.Dispatch(&eventbus.Event{Kind: eventbus.KindSpecialDate, Payload: eventbus.SpecialDateFired{Cleared: true, Timestamp: now}})
	assert.Equal(t, petstate.StateMorning, m.Current(), "clearing SpecialDate should fall back to the live Time slot")
}

func TestTimeStateBridge_SyncNow_ClassifiesCurrentPeriodImmediately(t *testing.T) {
	m, b := newTestBridge()
	reg := calendar.NewRegistry(nil)
	now := time.Date(2026, 7, 31, 13, 0, 0, 0, time.UTC) // Noon period

	b.SyncNow(now, reg)
	assert.Equal(t, petstate.StateNoon, m.Current())
}

func TestTimeStateBridge_SyncNow_FiresTodaysSpecialDate(t *testing.T) {
	m, b := newTestBridge()
	reg := calendar.NewRegistry(nil)
	reg.RegisterSpecialDate(calendar.SpecialDate{Name: "NewYear", Month: 1, Day: 1, Kind: calendar.KindSolarFestival})
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	b.SyncNow(now, reg)
	assert.Equal(t, petstate.StateNewYear, m.Current())
}
