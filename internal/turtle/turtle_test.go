package turtle

import (
	"testing"

	"circlepack/internal/geometry"
)

func TestSquareReturnsHome(t *testing.T) {
	tt := New(geometry.Pt(5, 5), 0)
	for i := 0; i < 4; i++ {
		tt.Forward(10).Turn(90)
	}
	pts := tt.Points()
	if len(pts) != 5 {
		t.Fatalf("Expected 5 points, got %d", len(pts))
	}
	want := []geometry.Point{
		geometry.Pt(5, 5), geometry.Pt(15, 5), geometry.Pt(15, 15), geometry.Pt(5, 15), geometry.Pt(5, 5),
	}
	for i := range want {
		if !geometry.AlmostEqualsPoint(pts[i], want[i]) {
			t.Errorf("Point %d: expected %v, got %v", i, want[i], pts[i])
		}
	}
	if tt.Bearing() != 360 {
		t.Errorf("Expected bearing 360, got %v", tt.Bearing())
	}
}

func TestPointsIsACopy(t *testing.T) {
	tt := New(geometry.Pt(0, 0), 0).Forward(1)
	pts := tt.Points()
	pts[0].X = 42
	if tt.Points()[0].X != 0 {
		t.Error("Points should not expose internal state")
	}
}

func TestPolyline(t *testing.T) {
	tt := New(geometry.Pt(0, 0), 90)
	tt.Forward(3)
	tt.SetBearing(0)
	tt.Forward(4)
	pl := tt.Polyline(geometry.DefaultStyle())
	if len(pl.Points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(pl.Points))
	}
	if !geometry.AlmostEqualsPoint(tt.Position(), geometry.Pt(4, 3)) {
		t.Errorf("Expected to end at (4,3), got %v", tt.Position())
	}
	if !geometry.FloatAlmostEqual(pl.Length(), 7) {
		t.Errorf("Expected length 7, got %v", pl.Length())
	}
}
