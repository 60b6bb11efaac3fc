package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpet/core/internal/config"
	"github.com/deskpet/core/internal/interaction"
	"github.com/deskpet/core/internal/petstate"
	"github.com/deskpet/core/pkg/eventbus"
)

func testTimeouts() config.InteractionTimeouts {
	return config.InteractionTimeouts{
		ClickedMs: 50 * time.Millisecond,
		PettedMs:  50 * time.Millisecond,
		HoverMs:   50 * time.Millisecond,
		GenericMs: 200 * time.Millisecond,
	}
}

func testTracker() *interaction.Tracker {
	kinds := []string{"Click", "DoubleClick", "RightClick", "Hover", "Drag", "Drop", "Custom"}
	return interaction.New(kinds, time.Hour, interaction.Thresholds{
		Rare: 1, Occasional: 5, Regular: 20, Frequent: 60,
	}, nil)
}

func newTestAdapter() (*petstate.Machine, *InteractionStateAdapter) {
	bus := eventbus.New(nil)
	m := petstate.New(bus, 8, petstate.Thresholds{}, nil)
	a := NewInteractionStateAdapter(m, testTimeouts(), testTracker(), nil)
	return m, a
}

func TestInteractionAdapter_MappedKindSetsState(t *testing.T) {
	m, a := newTestAdapter()
	now := time.Now()
	a.Handle("Click", "zone-1", now)
	assert.Equal(t, petstate.StateClicked, m.Current())
}

func TestInteractionAdapter_UnmappedKindDoesNotChangeState(t *testing.T) {
	m, a := newTestAdapter()
	a.Handle("UnknownWidget", "zone-1", time.Now())
	assert.Equal(t, petstate.StateIdle, m.Current())
}

func TestInteractionAdapter_ReleaseWhileDraggedClearsImmediately(t *testing.T) {
	m, a := newTestAdapter()
	now := time.Now()
	a.Handle("Drag", "zone-1", now)
	require.Equal(t, petstate.StateDragged, m.Current())

	a.Handle("Drop", "zone-1", now.Add(time.Millisecond))
	assert.Equal(t, petstate.StateIdle, m.Current())
}

func TestInteractionAdapter_ReleaseWhileNotDraggedIsNoop(t *testing.T) {
	m, a := newTestAdapter()
	now := time.Now()
	a.Handle("Click", "zone-1", now)
	a.Handle("Drop", "zone-1", now.Add(time.Millisecond))
	assert.Equal(t, petstate.StateClicked, m.Current(), "release only clears the Dragged state")
}

func TestInteractionAdapter_CheckTimeouts_ClearsAfterDeadline(t *testing.T) {
	m, a := newTestAdapter()
	now := time.Now()
	a.Handle("Petted", "zone-1", now) // unmapped, no-op baseline
	a.Handle("Pet", "zone-1", now)
	require.Equal(t, petstate.StatePetted, m.Current())

	a.CheckTimeouts(now.Add(49 * time.Millisecond))
	assert.Equal(t, petstate.StatePetted, m.Current(), "not yet past the short timeout")

	a.CheckTimeouts(now.Add(51 * time.Millisecond))
	assert.Equal(t, petstate.StateIdle, m.Current())
}

func TestInteractionAdapter_CheckTimeouts_IsIdempotentWhenSlotAlreadyMovedOn(t *testing.T) {
	m, a := newTestAdapter()
	now := time.Now()
	a.Handle("Pet", "zone-1", now)
	a.Handle("Click", "zone-1", now.Add(time.Millisecond))
	require.Equal(t, petstate.StateClicked, m.Current())

	assert.NotPanics(t, func() { a.CheckTimeouts(now.Add(50 * time.Millisecond)) })
	assert.Equal(t, petstate.StateClicked, m.Current(), "the pet deadline firing after click must not clear click's own (unexpired) slot")
}

func TestInteractionAdapter_GenericTimeoutAppliesToUnlistedStates(t *testing.T) {
	m, a := newTestAdapter()
	now := time.Now()
	a.Handle("Play", "zone-1", now)
	require.Equal(t, petstate.StatePlay, m.Current())

	a.CheckTimeouts(now.Add(199 * time.Millisecond))
	assert.Equal(t, petstate.StatePlay, m.Current())
	a.CheckTimeouts(now.Add(201 * time.Millisecond))
	assert.Equal(t, petstate.StateIdle, m.Current())
}

func TestInteractionAdapter_SetMappingOverridesDefault(t *testing.T) {
	m, a := newTestAdapter()
	a.SetMapping("Click", petstate.StateAngry)
	a.Handle("Click", "zone-1", time.Now())
	assert.Equal(t, petstate.StateAngry, m.Current())
}

func TestInteractionAdapter_LastInteractionTimeTracksEveryEvent(t *testing.T) {
	_, a := newTestAdapter()
	_, ok := a.LastInteractionTime()
	assert.False(t, ok)

	now := time.Now()
	a.Handle("UnknownWidget", "zone-1", now)
	got, ok := a.LastInteractionTime()
	require.True(t, ok)
	assert.True(t, got.Equal(now))
}

func TestInteractionAdapter_Register_DispatchesThroughBus(t *testing.T) {
	bus := eventbus.New(nil)
	m := petstate.New(bus, 8, petstate.Thresholds{}, nil)
	a := NewInteractionStateAdapter(m, testTimeouts(), testTracker(), nil)
	a.Register(bus)

	bus.Dispatch(&eventbus.Event{Kind: eventbus.KindUserInteraction, Payload: eventbus.UserInteraction{Kind: "Click", ZoneID: "zone-1", Timestamp: time.Now()}})
	assert.Equal(t, petstate.StateClicked, m.Current())
}

func TestInteractionAdapter_RunTimeoutWatcher_StopsOnContextCancel(t *testing.T) {
	_, a := newTestAdapter()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.RunTimeoutWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunTimeoutWatcher did not return after context cancellation")
	}
}

func TestInteractionAdapter_HandleFeedsTracker(t *testing.T) {
	bus := eventbus.New(nil)
	m := petstate.New(bus, 8, petstate.Thresholds{}, nil)
	tracker := testTracker()
	a := NewInteractionStateAdapter(m, testTimeouts(), tracker, nil)

	now := time.Now()
	a.Handle("Click", "zone-1", now)
	a.Handle("Click", "zone-1", now.Add(time.Minute))

	assert.Equal(t, 2, tracker.Count("Click", "zone-1", now.Add(time.Hour), nil))
}

func TestInteractionAdapter_HandleToleratesUnknownTrackerKind(t *testing.T) {
	m, a := newTestAdapter()
	now := time.Now()
	assert.NotPanics(t, func() { a.Handle("Drag", "zone-1", now) })
	assert.NotPanics(t, func() { a.Handle("MouseUp", "zone-1", now.Add(time.Millisecond)) })
	assert.Equal(t, petstate.StateIdle, m.Current(), "MouseUp is a release kind; it still clears Dragged")
}
