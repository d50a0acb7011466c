package layout

import (
	"circlepack/internal/geometry"
	"circlepack/internal/turtle"
)

const (
	HEXNET_EDGE = 10.0
	PENTA_TURN  = 72.0
)

// HexNet traces two fans of pentagon edges from a common spine, the net a
// folded solid is cut from.
func HexNet(edge float64) *geometry.Scene {
	t := turtle.New(geometry.Pt(0, 0), 0)

	t.Turn(90).Forward(edge)
	for i := 0; i < 3; i++ {
		t.Turn(PENTA_TURN).Forward(edge)
	}

	t.SetBearing(90)
	for i := 0; i < 4; i++ {
		t.Turn(PENTA_TURN).Forward(edge)
	}

	return geometry.NewScene().Append(t.Polyline(geometry.DefaultStyle()))
}
