// Package turtle traces paths with relative turn and forward moves.
package turtle

import "circlepack/internal/geometry"

// Turtle records every point it has visited, starting at its origin.
// Bearings are in degrees, 0 along +x, increasing towards +y.
type Turtle struct {
	position geometry.Point
	bearing  float64
	points   []geometry.Point
}

func New(origin geometry.Point, bearing float64) *Turtle {
	return &Turtle{
		position: origin,
		bearing:  bearing,
		points:   []geometry.Point{origin},
	}
}

func (t *Turtle) Turn(degrees float64) *Turtle {
	t.bearing += degrees
	return t
}

func (t *Turtle) Forward(distance float64) *Turtle {
	t.position.MoveBy(distance, t.bearing)
	t.points = append(t.points, t.position)
	return t
}

func (t *Turtle) Bearing() float64           { return t.bearing }
func (t *Turtle) SetBearing(degrees float64) { t.bearing = degrees }
func (t *Turtle) Position() geometry.Point   { return t.position }

// Points returns a copy of the visited points.
func (t *Turtle) Points() []geometry.Point {
	out := make([]geometry.Point, len(t.points))
	copy(out, t.points)
	return out
}

func (t *Turtle) Polyline(style geometry.Style) *geometry.Polyline {
	return geometry.NewPolyline(t.points, style)
}
