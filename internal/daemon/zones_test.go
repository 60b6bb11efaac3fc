package daemon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/deskpet/core/internal/config"
	"github.com/deskpet/core/internal/geometry"
)

func TestBuildZone_Circle(t *testing.T) {
	z, err := buildZone(config.ZoneConfig{
		ID: "face", Shape: "circle", CenterX: 100, CenterY: 100, Radius: 50,
		Supports: []string{"Hover", "Drag"}, Enabled: true,
	})
	require.NoError(t, err)
	assert.True(t, z.Shape.Contains(r2.Vec{X: 100, Y: 100}))
	assert.True(t, z.Supports(geometry.KindHover))
	assert.False(t, z.Supports(geometry.KindClick))
}

func TestBuildZone_Rectangle(t *testing.T) {
	z, err := buildZone(config.ZoneConfig{
		ID: "button", Shape: "rectangle", X: 0, Y: 0, Width: 10, Height: 10, Enabled: true,
	})
	require.NoError(t, err)
	assert.True(t, z.Shape.Contains(r2.Vec{X: 5, Y: 5}))
}

func TestBuildZone_Polygon(t *testing.T) {
	z, err := buildZone(config.ZoneConfig{
		ID: "triangle", Shape: "polygon",
		Vertices: [][2]float64{{0, 0}, {10, 0}, {5, 10}},
		Enabled:  true,
	})
	require.NoError(t, err)
	assert.True(t, z.Shape.Contains(r2.Vec{X: 5, Y: 3}))
}

func TestBuildZone_UnrecognizedShapeErrors(t *testing.T) {
	_, err := buildZone(config.ZoneConfig{ID: "bad", Shape: "triangle"})
	assert.Error(t, err)
}

func TestSeedZones_SkipsInvalidEntriesButKeepsValid(t *testing.T) {
	reg := geometry.NewRegistry()
	var warnings int
	seedZones(reg, []config.ZoneConfig{
		{ID: "ok", Shape: "circle", CenterX: 0, CenterY: 0, Radius: 1, Enabled: true},
		{ID: "bad", Shape: "circle", Radius: -1, Enabled: true},
	}, func(msg, id string, err error) { warnings++ })

	assert.Equal(t, 1, warnings)
	_, ok := reg.Get("ok")
	assert.True(t, ok)
	_, ok = reg.Get("bad")
	assert.False(t, ok)
}
