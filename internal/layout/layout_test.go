package layout

import (
	"errors"
	"reflect"
	"testing"

	"circlepack/internal/geometry"
	"circlepack/internal/pack"
)

func TestTabKeepsCirclesInside(t *testing.T) {
	scene, tally, err := Tab(pack.NewSeeded(1), geometry.Pt(100, 50), 235, 35)
	if err != nil {
		t.Fatalf("Tab: %v", err)
	}
	if tally.Requested != 30 {
		t.Errorf("Expected 30 requested, got %d", tally.Requested)
	}
	if tally.Placed == 0 || tally.Placed > 30 {
		t.Errorf("Unexpected placed count %d", tally.Placed)
	}

	outline, ok := scene.At(0).(*geometry.Rectangle)
	if !ok {
		t.Fatalf("First shape should be the outline, got %v", scene.At(0).Kind())
	}
	if outline.Origin != geometry.Pt(100, 50) {
		t.Errorf("Outline not moved to position: %v", outline.Origin)
	}
	hole := scene.At(1).(*geometry.Circle)
	if hole.Center != geometry.Pt(117.5, 65) || hole.Radius != HOLE_RADIUS {
		t.Errorf("Hole misplaced: %v r=%v", hole.Center, hole.Radius)
	}

	if got := scene.Count(geometry.KindCircle); got != tally.Placed+1 {
		t.Errorf("Expected %d circles, got %d", tally.Placed+1, got)
	}
	for i := 2; i < scene.Len(); i++ {
		c := scene.At(i).(*geometry.Circle)
		if d := outline.DistanceToBoundary(c.Center) + c.Radius; d > 0 || -d < TAB_SPACE {
			t.Errorf("Circle %d too close to the outline (%v)", i, d)
		}
		if gap := hole.DistanceToBoundary(c.Center) - c.Radius; gap < TAB_SPACE {
			t.Errorf("Circle %d too close to the hole (%v)", i, gap)
		}
	}
}

func TestTabsPagination(t *testing.T) {
	scene, tally, err := Tabs(pack.NewSeeded(2), DefaultTabs())
	if err != nil {
		t.Fatalf("Tabs: %v", err)
	}
	if tally.Requested != 30*8 {
		t.Errorf("Expected %d requested, got %d", 30*8, tally.Requested)
	}

	var xs []float64
	for _, shape := range scene.Shapes() {
		if r, ok := shape.(*geometry.Rectangle); ok {
			xs = append(xs, r.Origin.X)
			if r.Origin.Y != 3 {
				t.Errorf("Tab at x=%v has top %v, want 3", r.Origin.X, r.Origin.Y)
			}
		}
	}
	want := []float64{10, 45, 80, 115, 150, 225, 260, 295}
	if !reflect.DeepEqual(xs, want) {
		t.Errorf("Expected tabs at %v, got %v", want, xs)
	}
}

func TestHexNet(t *testing.T) {
	scene := HexNet(10)
	if scene.Len() != 1 {
		t.Fatalf("Expected one polyline, got %d shapes", scene.Len())
	}
	pl := scene.At(0).(*geometry.Polyline)
	if len(pl.Points) != 9 {
		t.Errorf("Expected 9 points, got %d", len(pl.Points))
	}
	if !geometry.AlmostEqualsPoint(pl.Points[1], geometry.Pt(0, 10)) {
		t.Errorf("First edge should run along +y, ends at %v", pl.Points[1])
	}
	if !geometry.FloatAlmostEqual(pl.Length(), 80) {
		t.Errorf("Expected total length 80, got %v", pl.Length())
	}
}

func TestRegistry(t *testing.T) {
	if got := Names(); !reflect.DeepEqual(got, []string{"hexnet", "tab", "tabs"}) {
		t.Errorf("Unexpected layout names %v", got)
	}
	for _, name := range Names() {
		scene, _, err := Build(name, pack.NewSeeded(3))
		if err != nil {
			t.Errorf("Build(%q): %v", name, err)
			continue
		}
		if scene.Empty() {
			t.Errorf("Build(%q) returned an empty scene", name)
		}
	}
	if _, _, err := Build("spiral", pack.NewSeeded(3)); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("Expected ErrUnknownLayout, got %v", err)
	}
}
