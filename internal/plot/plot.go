// Package plot prepares a scene for a pen plotter: it drops repeated
// shapes, joins touching strokes and orders everything to cut down on
// pen-up travel.
package plot

import (
	"container/list"
	"log"
	"math"

	"circlepack/internal/geometry"
)

// Stats reports pen-up travel, the distance between the end of one shape
// and the start of the next.
type Stats struct {
	Shapes int
	Before float64
	After  float64
}

type logger struct{ *log.Logger }

func (l logger) printf(format string, args ...interface{}) {
	if l.Logger != nil {
		l.Printf(format, args...)
	}
}

////////////////////////////////////////////////////////////////////////////
// +++ Pen points

// entry is where the pen goes down to draw s, exit where it comes up.
// Circles start and finish at their rightmost point.
func entry(s geometry.Shape) geometry.Point {
	switch v := s.(type) {
	case *geometry.Circle:
		return geometry.Pt(v.Center.X+v.Radius, v.Center.Y)
	case *geometry.Rectangle:
		return v.Origin
	case *geometry.Line:
		return v.Start
	case *geometry.Polyline:
		if len(v.Points) > 0 {
			return v.Points[0]
		}
	}
	return geometry.Point{}
}

func exit(s geometry.Shape) geometry.Point {
	switch v := s.(type) {
	case *geometry.Line:
		return v.End
	case *geometry.Polyline:
		if len(v.Points) > 0 {
			return v.Points[len(v.Points)-1]
		}
	}
	return entry(s)
}

func reversible(s geometry.Shape) bool {
	switch s.(type) {
	case *geometry.Line, *geometry.Polyline:
		return true
	}
	return false
}

func reverse(s geometry.Shape) {
	switch v := s.(type) {
	case *geometry.Line:
		v.Start, v.End = v.End, v.Start
	case *geometry.Polyline:
		for i, j := 0, len(v.Points)-1; i < j; i, j = i+1, j-1 {
			v.Points[i], v.Points[j] = v.Points[j], v.Points[i]
		}
	}
}

// Travel sums the pen-up distance of drawing the scene in order.
func Travel(scene *geometry.Scene) float64 {
	total := 0.0
	shapes := scene.Shapes()
	for i := 1; i < len(shapes); i++ {
		total += exit(shapes[i-1]).Distance(entry(shapes[i]))
	}
	return total
}

////////////////////////////////////////////////////////////////////////////
// +++ Duplicates

func sameStyle(a, b geometry.Style) bool {
	return a.String() == b.String()
}

func almostEqualShapes(a, b geometry.Shape) bool {
	if a.Kind() != b.Kind() || !sameStyle(a.Style(), b.Style()) {
		return false
	}
	switch va := a.(type) {
	case *geometry.Circle:
		vb := b.(*geometry.Circle)
		return geometry.AlmostEqualsPoint(va.Center, vb.Center) &&
			geometry.FloatAlmostEqual(va.Radius, vb.Radius)
	case *geometry.Rectangle:
		vb := b.(*geometry.Rectangle)
		return geometry.AlmostEqualsPoint(va.Origin, vb.Origin) &&
			geometry.AlmostEqualsPoint(va.Size, vb.Size) &&
			geometry.FloatAlmostEqual(va.RX, vb.RX) && geometry.FloatAlmostEqual(va.RY, vb.RY)
	case *geometry.Line:
		vb := b.(*geometry.Line)
		return (geometry.AlmostEqualsPoint(va.Start, vb.Start) && geometry.AlmostEqualsPoint(va.End, vb.End)) ||
			(geometry.AlmostEqualsPoint(va.Start, vb.End) && geometry.AlmostEqualsPoint(va.End, vb.Start))
	case *geometry.Polyline:
		vb := b.(*geometry.Polyline)
		return samePoints(va.Points, vb.Points, false) || samePoints(va.Points, vb.Points, true)
	}
	return false
}

func samePoints(a, b []geometry.Point, reversed bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		j := i
		if reversed {
			j = len(b) - 1 - i
		}
		if !geometry.AlmostEqualsPoint(a[i], b[j]) {
			return false
		}
	}
	return true
}

// RemoveDuplicates returns a scene without shapes that repeat an earlier
// one. A line or polyline drawn backwards counts as a repeat.
func RemoveDuplicates(scene *geometry.Scene, l *log.Logger) *geometry.Scene {
	lg := logger{l}
	lg.printf("Number of shapes before RemoveDuplicates: %d", scene.Len())

	out := geometry.NewScene()
	kept := []geometry.Shape{}
OuterLoop:
	for _, s := range scene.Shapes() {
		for _, k := range kept {
			if almostEqualShapes(s, k) {
				continue OuterLoop
			}
		}
		kept = append(kept, s)
		out.Append(s)
	}

	lg.printf("Number of shapes after RemoveDuplicates: %d", out.Len())
	return out
}

////////////////////////////////////////////////////////////////////////////
// +++ Joining

// stroke is a run of points drawn without lifting the pen.
type stroke struct {
	points []geometry.Point
	style  geometry.Style
}

func strokeOf(s geometry.Shape) (*stroke, bool) {
	switch v := s.(type) {
	case *geometry.Line:
		return &stroke{points: []geometry.Point{v.Start, v.End}, style: v.Style()}, true
	case *geometry.Polyline:
		if len(v.Points) < 2 {
			return nil, false
		}
		return &stroke{points: append([]geometry.Point(nil), v.Points...), style: v.Style()}, true
	}
	return nil, false
}

func (st *stroke) front() geometry.Point { return st.points[0] }
func (st *stroke) back() geometry.Point  { return st.points[len(st.points)-1] }

func (st *stroke) reverse() {
	for i, j := 0, len(st.points)-1; i < j; i, j = i+1, j-1 {
		st.points[i], st.points[j] = st.points[j], st.points[i]
	}
}

// attach tries to glue ns onto one of strokes, flipping it if needed.
func attach(strokes []*stroke, ns *stroke) bool {
	for _, st := range strokes {
		if !sameStyle(st.style, ns.style) {
			continue
		}
		switch {
		case geometry.AlmostEqualsPoint(ns.back(), st.front()):
			st.points = append(ns.points[:len(ns.points)-1:len(ns.points)-1], st.points...)
		case geometry.AlmostEqualsPoint(ns.front(), st.back()):
			st.points = append(st.points, ns.points[1:]...)
		case geometry.AlmostEqualsPoint(ns.front(), st.front()):
			ns.reverse()
			st.points = append(ns.points[:len(ns.points)-1:len(ns.points)-1], st.points...)
		case geometry.AlmostEqualsPoint(ns.back(), st.back()):
			ns.reverse()
			st.points = append(st.points, ns.points[1:]...)
		default:
			continue
		}
		return true
	}
	return false
}

// Join merges lines and polylines of the same style that share endpoints
// into longer polylines. Other shapes keep their order ahead of the joined
// strokes.
func Join(scene *geometry.Scene, l *log.Logger) *geometry.Scene {
	lg := logger{l}
	out := geometry.NewScene()
	var strokes []*stroke
	for _, s := range scene.Shapes() {
		st, ok := strokeOf(s)
		if !ok {
			out.Append(s)
			continue
		}
		strokes = append(strokes, st)
	}
	lg.printf("  Number of strokes before joining: %d", len(strokes))

	// Loop through until the number of strokes stabilizes
	for i := 0; ; i++ {
		prev := len(strokes)
		old := strokes
		strokes = nil
		for _, st := range old {
			if !attach(strokes, st) {
				strokes = append(strokes, st)
			}
		}
		lg.printf("  Number of strokes after iteration %d: %d", i, len(strokes))
		if prev == len(strokes) {
			break
		}
	}

	for _, st := range strokes {
		if len(st.points) == 2 {
			out.Append(geometry.NewLine(st.points[0], st.points[1], st.style))
		} else {
			out.Append(geometry.NewPolyline(st.points, st.style))
		}
	}
	return out
}

////////////////////////////////////////////////////////////////////////////
// +++ Ordering

// Optimize reorders the scene greedily: starting from the first shape, the
// next one drawn is whichever can be started closest to where the pen
// lifted. Lines and polylines may be flipped to start at their near end.
func Optimize(scene *geometry.Scene, l *log.Logger) (*geometry.Scene, Stats) {
	lg := logger{l}
	stats := Stats{Shapes: scene.Len(), Before: Travel(scene)}
	if scene.Len() < 2 {
		stats.After = stats.Before
		return scene, stats
	}
	lg.printf("  Non-cutting travel distance before optimization: %f", stats.Before)

	shapes := scene.Shapes()
	remaining := new(list.List)
	for _, s := range shapes[1:] {
		remaining.PushBack(s)
	}

	out := geometry.NewScene().Append(shapes[0])
	last := exit(shapes[0])
	for remaining.Len() != 0 {
		best := math.MaxFloat64
		var bestElem *list.Element
		bestFlip := false
		for e := remaining.Front(); e != nil; e = e.Next() {
			s := e.Value.(geometry.Shape)
			if d := last.Distance(entry(s)); d < best {
				best, bestElem, bestFlip = d, e, false
			}
			if reversible(s) {
				if d := last.Distance(exit(s)); d < best {
					best, bestElem, bestFlip = d, e, true
				}
			}
		}
		s := bestElem.Value.(geometry.Shape)
		if bestFlip {
			reverse(s)
		}
		out.Append(s)
		last = exit(s)
		stats.After += best
		remaining.Remove(bestElem)
	}

	lg.printf("  Non-cutting travel distance after optimization: %f", stats.After)
	return out, stats
}
