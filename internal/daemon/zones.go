package daemon

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/deskpet/core/internal/config"
	"github.com/deskpet/core/internal/geometry"
)

// buildZone turns a config.ZoneConfig into a geometry.Zone, resolving
// its shape and supported-kind set. Every kind string in Supports is
// copied into the set as given; unrecognized kinds are neither
// rejected nor logged.
func buildZone(zc config.ZoneConfig) (geometry.Zone, error) {
	var shape geometry.Shape
	var err error
	switch zc.Shape {
	case "circle":
		shape, err = geometry.NewCircle(r2.Vec{X: zc.CenterX, Y: zc.CenterY}, zc.Radius)
	case "rectangle":
		shape, err = geometry.NewRectangle(r2.Vec{X: zc.X, Y: zc.Y}, zc.Width, zc.Height)
	case "polygon":
		verts := make([]r2.Vec, len(zc.Vertices))
		for i, v := range zc.Vertices {
			verts[i] = r2.Vec{X: v[0], Y: v[1]}
		}
		shape, err = geometry.NewPolygon(verts)
	default:
		return geometry.Zone{}, fmt.Errorf("daemon: zone %q has unrecognized shape %q", zc.ID, zc.Shape)
	}
	if err != nil {
		return geometry.Zone{}, fmt.Errorf("daemon: build zone %q: %w", zc.ID, err)
	}

	supported := make(map[geometry.InteractionKind]bool, len(zc.Supports))
	for _, k := range zc.Supports {
		supported[geometry.InteractionKind(k)] = true
	}

	return geometry.Zone{
		ID:        zc.ID,
		Shape:     shape,
		Supported: supported,
		Enabled:   zc.Enabled,
	}, nil
}

// seedZones registers every zone in cfg.Zones into reg, logging and
// skipping (not failing startup over) any entry with invalid
// parameters — a single malformed zone should not prevent the daemon
// from serving the rest.
func seedZones(reg *geometry.Registry, zones []config.ZoneConfig, warn func(msg, id string, err error)) {
	for _, zc := range zones {
		z, err := buildZone(zc)
		if err != nil {
			if warn != nil {
				warn("skipping invalid zone", zc.ID, err)
			}
			continue
		}
		reg.Register(z)
	}
}
