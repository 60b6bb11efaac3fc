package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func newCircleZone(t *testing.T, id string, center r2.Vec, radius float64, enabled bool) Zone {
	t.Helper()
	c, err := NewCircle(center, radius)
	require.NoError(t, err)
	return Zone{ID: id, Shape: c, Supported: map[InteractionKind]bool{KindClick: true}, Enabled: enabled}
}

func TestRegistry_ZonesAt_ReturnsAllEnabledMatches(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newCircleZone(t, "head", r2.Vec{X: 0, Y: 0}, 10, true))
	reg.Register(newCircleZone(t, "body", r2.Vec{X: 5, Y: 5}, 10, true))
	reg.Register(newCircleZone(t, "disabled", r2.Vec{X: 0, Y: 0}, 10, false))

	matches := reg.ZonesAt(r2.Vec{X: 2, Y: 2})
	require.Len(t, matches, 2)
	assert.Equal(t, "head", matches[0].ID, "matches are returned in registration order")
	assert.Equal(t, "body", matches[1].ID)
}

func TestRegistry_ZonesAt_NoMatches(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newCircleZone(t, "head", r2.Vec{X: 0, Y: 0}, 5, true))

	assert.Empty(t, reg.ZonesAt(r2.Vec{X: 100, Y: 100}))
}

func TestRegistry_RegisterPreservesInsertionOrderAcrossReplace(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newCircleZone(t, "a", r2.Vec{}, 1, true))
	reg.Register(newCircleZone(t, "b", r2.Vec{}, 1, true))
	reg.Register(newCircleZone(t, "a", r2.Vec{X: 9}, 2, true)) // replace, not re-append

	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, 2.0, all[0].Shape.(Circle).Radius, "replacement took effect")
}

func TestRegistry_Unregister(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newCircleZone(t, "a", r2.Vec{}, 1, true))
	reg.Register(newCircleZone(t, "b", r2.Vec{}, 1, true))

	reg.Unregister("a")
	_, ok := reg.Get("a")
	assert.False(t, ok)
	assert.Len(t, reg.All(), 1)

	reg.Unregister("missing") // no panic
}

func TestRegistry_SetEnabledGatesZonesAt(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newCircleZone(t, "a", r2.Vec{}, 5, true))

	reg.SetEnabled("a", false)
	assert.Empty(t, reg.ZonesAt(r2.Vec{}))

	reg.SetEnabled("a", true)
	assert.Len(t, reg.ZonesAt(r2.Vec{}), 1)
}

func TestRegistry_SetActiveDoesNotGateZonesAt(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newCircleZone(t, "a", r2.Vec{}, 5, true))

	reg.SetActive("a", true)
	assert.Len(t, reg.ZonesAt(r2.Vec{}), 1)

	z, _ := reg.Get("a")
	assert.True(t, z.Active)
}

func TestZone_Supports(t *testing.T) {
	z := newCircleZone(t, "a", r2.Vec{}, 1, true)
	assert.True(t, z.Supports(KindClick))
	assert.False(t, z.Supports(KindDrag))
}
