// Package geometry implements the shape primitives and point-in-shape
// tests backing interaction-zone hit-testing (spec.md §4.2): circles,
// axis-aligned rectangles, and polygons, built on gonum's 2D vector
// type rather than hand-rolled (dx, dy) arithmetic.
package geometry

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrInvalidZoneParams is returned when a shape's construction
// parameters violate its invariants (spec.md §7: InvalidZoneParams).
var ErrInvalidZoneParams = errors.New("geometry: invalid zone parameters")

// Shape is anything that can answer whether a point lies inside it.
type Shape interface {
	Contains(p r2.Vec) bool
	// Kind returns a short discriminator, useful for logging/serialization.
	Kind() string
}

// Circle is a shape defined by a center and a positive radius.
type Circle struct {
	Center r2.Vec
	Radius float64
}

// NewCircle validates radius > 0 before returning a Circle.
func NewCircle(center r2.Vec, radius float64) (Circle, error) {
	if radius <= 0 {
		return Circle{}, fmt.Errorf("%w: circle radius must be > 0, got %v", ErrInvalidZoneParams, radius)
	}
	return Circle{Center: center, Radius: radius}, nil
}

// Contains uses standard Euclidean distance; points on the boundary
// count as inside.
func (c Circle) Contains(p r2.Vec) bool {
	d := r2.Sub(p, c.Center)
	return r2.Norm(d) <= c.Radius
}

func (Circle) Kind() string { return "circle" }

// Rectangle is an axis-aligned box defined by its top-left corner and
// positive width/height.
type Rectangle struct {
	TopLeft r2.Vec
	Width   float64
	Height  float64
}

// NewRectangle validates width > 0 and height > 0.
func NewRectangle(topLeft r2.Vec, width, height float64) (Rectangle, error) {
	if width <= 0 || height <= 0 {
		return Rectangle{}, fmt.Errorf("%w: rectangle width/height must be > 0, got (%v, %v)", ErrInvalidZoneParams, width, height)
	}
	return Rectangle{TopLeft: topLeft, Width: width, Height: height}, nil
}

// Contains tests the closed AABB [x, x+w] x [y, y+h] — boundary
// points count as inside (spec.md §4.2).
func (r Rectangle) Contains(p r2.Vec) bool {
	return p.X >= r.TopLeft.X && p.X <= r.TopLeft.X+r.Width &&
		p.Y >= r.TopLeft.Y && p.Y <= r.TopLeft.Y+r.Height
}

func (Rectangle) Kind() string { return "rectangle" }

// Polygon is an ordered list of ≥3 vertices. Self-intersection is
// permitted; its semantics under the ray-casting test are undefined
// per spec.md §4.2, but never cause a panic.
type Polygon struct {
	Vertices []r2.Vec
}

// NewPolygon validates at least 3 vertices.
func NewPolygon(vertices []r2.Vec) (Polygon, error) {
	if len(vertices) < 3 {
		return Polygon{}, fmt.Errorf("%w: polygon needs >= 3 vertices, got %d", ErrInvalidZoneParams, len(vertices))
	}
	verts := make([]r2.Vec, len(vertices))
	copy(verts, vertices)
	return Polygon{Vertices: verts}, nil
}

// Contains implements ray-casting (even-odd rule) with points lying
// exactly on an edge counted as inside (spec.md §4.2).
func (poly Polygon) Contains(p r2.Vec) bool {
	n := len(poly.Vertices)
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly.Vertices[i], poly.Vertices[j]
		if onSegment(a, b, p) {
			return true
		}
		intersects := (a.Y > p.Y) != (b.Y > p.Y)
		if intersects {
			xCross := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

func (Polygon) Kind() string { return "polygon" }

// onSegment reports whether p lies on the closed segment a-b,
// allowing for floating-point collinearity slack.
func onSegment(a, b, p r2.Vec) bool {
	const eps = 1e-9
	cross := (p.X-a.X)*(b.Y-a.Y) - (p.Y-a.Y)*(b.X-a.X)
	if cross > eps || cross < -eps {
		return false
	}
	dot := (p.X-a.X)*(b.X-a.X) + (p.Y-a.Y)*(b.Y-a.Y)
	if dot < 0 {
		return false
	}
	lenSq := (b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y)
	return dot <= lenSq
}
