package pack

import (
	"bytes"
	"errors"
	"log"
	"math"
	"strings"
	"testing"

	"circlepack/internal/geometry"
)

func circles(s *geometry.Scene) []*geometry.Circle {
	var out []*geometry.Circle
	for _, shape := range s.Shapes() {
		if c, ok := shape.(*geometry.Circle); ok {
			out = append(out, c)
		}
	}
	return out
}

func TestPackEmptySceneSingleCircle(t *testing.T) {
	s := geometry.NewScene()
	req := NewRequest(geometry.Pt(0, 0), geometry.Pt(100, 100), 1, 5)

	n, err := NewSeeded(1).Pack(s, req)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if n != 1 || s.Len() != 1 {
		t.Fatalf("Expected 1 circle, got n=%d len=%d", n, s.Len())
	}
	c := s.At(0).(*geometry.Circle)
	if c.Radius != 5 {
		t.Errorf("Expected radius 5, got %v", c.Radius)
	}
	if c.Center.X < 0 || c.Center.X >= 100 || c.Center.Y < 0 || c.Center.Y >= 100 {
		t.Errorf("Centre %v outside the sampling region", c.Center)
	}
}

func TestPackInsideRectangle(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		s := geometry.NewScene()
		rect, err := geometry.NewRectangle(geometry.Pt(0, 0), geometry.Pt(20, 20), geometry.DefaultStyle())
		if err != nil {
			t.Fatal(err)
		}
		s.Append(rect)

		req := NewRequest(geometry.Pt(0, 0), geometry.Pt(20, 20), 1, 3)
		req.Space = 2
		n, err := NewSeeded(seed).Pack(s, req)
		if err != nil {
			t.Fatalf("Pack: %v", err)
		}
		if n != 1 {
			t.Fatalf("seed %d: expected 1 circle, got %d", seed, n)
		}
		c := circles(s)[0]
		if c.Center.X < 5 || c.Center.X > 15 || c.Center.Y < 5 || c.Center.Y > 15 {
			t.Errorf("seed %d: centre %v outside [5,15]x[5,15]", seed, c.Center)
		}
	}
}

func TestPackPairwiseClearance(t *testing.T) {
	s := geometry.NewScene()
	rect, _ := geometry.NewRectangle(geometry.Pt(0, 0), geometry.Pt(200, 200), geometry.DefaultStyle())
	s.Append(rect)

	p := NewSeeded(42)
	for _, pass := range []struct {
		n int
		r float64
	}{{10, 12}, {40, 6}, {80, 3}} {
		req := NewRequest(geometry.Pt(0, 0), geometry.Pt(200, 200), pass.n, pass.r)
		req.Space = 4
		req.Tries = 2000
		if _, err := p.Pack(s, req); err != nil {
			t.Fatalf("Pack: %v", err)
		}
	}

	cs := circles(s)
	if len(cs) == 0 {
		t.Fatal("Expected some circles to be placed")
	}
	for i := range cs {
		for j := i + 1; j < len(cs); j++ {
			gap := cs[i].Center.Distance(cs[j].Center) - cs[i].Radius - cs[j].Radius
			if gap < 4-1e-9 {
				t.Fatalf("Circles %d and %d only %v apart", i, j, gap)
			}
		}
		if d := rect.DistanceToBoundary(cs[i].Center) + cs[i].Radius; d > 0 || -d < 4 {
			t.Fatalf("Circle %d too close to the rectangle edge: %v", i, d)
		}
	}
}

func TestPackDegenerateRegionGivesUp(t *testing.T) {
	s := geometry.NewScene()
	first, _ := geometry.NewCircle(geometry.Pt(50, 50), 10, geometry.DefaultStyle())
	s.Append(first)

	req := NewRequest(geometry.Pt(50, 50), geometry.Pt(50, 50), 3, 5)
	req.Tries = 25
	n, err := NewSeeded(7).Pack(s, req)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected nothing placed, got %d", n)
	}
	if s.Len() != 1 {
		t.Errorf("Scene should be unchanged, has %d shapes", s.Len())
	}
}

func TestPackZeroCountOrTries(t *testing.T) {
	s := geometry.NewScene()
	p := NewSeeded(1)

	n, err := p.Pack(s, NewRequest(geometry.Pt(0, 0), geometry.Pt(10, 10), 0, 1))
	if err != nil || n != 0 {
		t.Errorf("Expected 0, nil for zero count, got %d, %v", n, err)
	}

	req := NewRequest(geometry.Pt(0, 0), geometry.Pt(10, 10), 5, 1)
	req.Tries = 0
	n, err = p.Pack(s, req)
	if err != nil || n != 0 {
		t.Errorf("Expected 0, nil for zero tries, got %d, %v", n, err)
	}
}

func TestPackRejectsInvalidRequests(t *testing.T) {
	base := NewRequest(geometry.Pt(0, 0), geometry.Pt(10, 10), 1, 1)

	tests := []struct {
		name   string
		mutate func(r *Request)
		want   error
	}{
		{"zero radius", func(r *Request) { r.Radius = 0 }, ErrInvalidRadius},
		{"negative radius", func(r *Request) { r.Radius = -2 }, ErrInvalidRadius},
		{"negative count", func(r *Request) { r.Count = -1 }, ErrInvalidCount},
		{"negative tries", func(r *Request) { r.Tries = -1 }, ErrInvalidTries},
		{"nan region", func(r *Request) { r.Max.X = math.NaN() }, ErrInvalidRegion},
		{"nan space", func(r *Request) { r.Space = math.NaN() }, ErrInvalidSpace},
		{"vertical gradient", func(r *Request) {
			r.Gradient = &Gradient{From: geometry.Pt(3, 1), To: geometry.Pt(3, 9)}
		}, ErrDegenerateGradient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			s := geometry.NewScene()
			n, err := NewSeeded(1).Pack(s, req)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if n != 0 || s.Len() != 0 {
				t.Errorf("Invalid request should not touch the scene")
			}
		})
	}
}

func TestPackIsReproducible(t *testing.T) {
	run := func() []geometry.Point {
		s := geometry.NewScene()
		req := NewRequest(geometry.Pt(0, 0), geometry.Pt(100, 100), 30, 4)
		if _, err := NewSeeded(99).Pack(s, req); err != nil {
			t.Fatal(err)
		}
		var pts []geometry.Point
		for _, c := range circles(s) {
			pts = append(pts, c.Center)
		}
		return pts
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("Different counts for the same seed: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Circle %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func assertClearance(t *testing.T, cs []*geometry.Circle, space float64) {
	t.Helper()
	for i := range cs {
		for j := i + 1; j < len(cs); j++ {
			gap := cs[i].Center.Distance(cs[j].Center) - cs[i].Radius - cs[j].Radius
			if gap < space-1e-9 {
				t.Fatalf("Circles %d and %d only %v apart, need %v", i, j, gap, space)
			}
		}
	}
}

func TestPackOpenSceneKeepsClearance(t *testing.T) {
	s := geometry.NewScene()
	req := NewRequest(geometry.Pt(0, 0), geometry.Pt(100, 100), 100, 3)
	n, err := NewSeeded(1).Pack(s, req)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("Expected some circles to be placed")
	}
	assertClearance(t, circles(s), DEFAULT_SPACE)
}

func TestPackPassesWithoutOutline(t *testing.T) {
	s := geometry.NewScene()
	p := NewSeeded(17)
	for _, pass := range []struct {
		n int
		r float64
	}{{8, 15}, {30, 7}, {120, 2}} {
		req := NewRequest(geometry.Pt(0, 0), geometry.Pt(150, 150), pass.n, pass.r)
		req.Space = 3
		req.Tries = 2000
		if _, err := p.Pack(s, req); err != nil {
			t.Fatalf("Pack: %v", err)
		}
	}
	cs := circles(s)
	if len(cs) < 10 {
		t.Fatalf("Expected a coarse to fine fill, got %d circles", len(cs))
	}
	assertClearance(t, cs, 3)
}

func TestPackRespectsEarlierCircles(t *testing.T) {
	s := geometry.NewScene()
	req := NewRequest(geometry.Pt(0, 0), geometry.Pt(150, 150), 200, 3)
	req.Space = 1
	req.Tries = 500
	if _, err := NewSeeded(5).Pack(s, req); err != nil {
		t.Fatal(err)
	}

	// Every circle must clear all the circles placed before it.
	cs := circles(s)
	for i, c := range cs {
		for _, prev := range cs[:i] {
			if prev.DistanceToBoundary(c.Center)-c.Radius < req.Space {
				t.Fatalf("Circle %d violates clearance to an earlier circle", i)
			}
		}
	}
}

func TestPackLinesAreIgnored(t *testing.T) {
	s := geometry.NewScene()
	s.Append(geometry.NewLine(geometry.Pt(0, 5), geometry.Pt(10, 5), geometry.DefaultStyle()))
	s.Append(geometry.NewPolyline([]geometry.Point{geometry.Pt(0, 0), geometry.Pt(10, 10)}, geometry.DefaultStyle()))

	n, err := NewSeeded(3).Pack(s, NewRequest(geometry.Pt(0, 0), geometry.Pt(10, 10), 1, 2))
	if err != nil || n != 1 {
		t.Errorf("Expected one circle over the lines, got %d, %v", n, err)
	}
}

func TestPackCrosshairs(t *testing.T) {
	s := geometry.NewScene()
	req := NewRequest(geometry.Pt(0, 0), geometry.Pt(100, 100), 2, 5)
	req.Crosshairs = true
	n, err := NewSeeded(11).Pack(s, req)
	if err != nil {
		t.Fatal(err)
	}
	if s.Count(geometry.KindCircle) != n || s.Count(geometry.KindLine) != 2*n {
		t.Fatalf("Expected %d circles and %d lines, got %d and %d",
			n, 2*n, s.Count(geometry.KindCircle), s.Count(geometry.KindLine))
	}
	c := s.At(0).(*geometry.Circle)
	h := s.At(1).(*geometry.Line)
	v := s.At(2).(*geometry.Line)
	if h.Start != geometry.Pt(c.Center.X-1, c.Center.Y) || h.End != geometry.Pt(c.Center.X+1, c.Center.Y) {
		t.Errorf("Horizontal crosshair misplaced: %v..%v", h.Start, h.End)
	}
	if v.Start != geometry.Pt(c.Center.X, c.Center.Y-1) || v.End != geometry.Pt(c.Center.X, c.Center.Y+1) {
		t.Errorf("Vertical crosshair misplaced: %v..%v", v.Start, v.End)
	}
}

func TestGradientClearance(t *testing.T) {
	g := &Gradient{From: geometry.Pt(0, 1), To: geometry.Pt(100, 11)}
	tests := []struct {
		x, want float64
	}{{0, 1}, {50, 6}, {100, 11}, {-10, 0}, {200, 21}}
	for _, tt := range tests {
		if got := g.Clearance(tt.x); !geometry.FloatAlmostEqual(got, tt.want) {
			t.Errorf("Clearance(%v): expected %v, got %v", tt.x, tt.want, got)
		}
	}
}

func TestPackEdgeHonoursGradient(t *testing.T) {
	s := geometry.NewScene()
	from, to := geometry.Pt(0, 0), geometry.Pt(200, 20)
	if _, err := NewSeeded(8).PackEdge(s, geometry.Pt(0, 0), geometry.Pt(200, 100), 150, 3, from, to); err != nil {
		t.Fatal(err)
	}
	g := &Gradient{From: from, To: to}
	cs := circles(s)
	for i, c := range cs {
		for _, prev := range cs[:i] {
			if gap := prev.DistanceToBoundary(c.Center) - c.Radius; gap < g.Clearance(c.Center.X)-1e-9 {
				t.Fatalf("Circle %d at x=%v has gap %v, needs %v", i, c.Center.X, gap, g.Clearance(c.Center.X))
			}
		}
	}
}

func TestPackLogsProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewSeeded(1).SetLogger(log.New(&buf, "", 0))
	if _, err := p.Pack(geometry.NewScene(), NewRequest(geometry.Pt(0, 0), geometry.Pt(50, 50), 2, 2)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "placed 2/2") {
		t.Errorf("Unexpected log output %q", buf.String())
	}
}
