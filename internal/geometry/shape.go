package geometry

import (
	"errors"
	"math"

	"github.com/jbeda/geom"
)

var (
	ErrInvalidRadius = errors.New("radius must be positive and finite")
	ErrInvalidSize   = errors.New("size must be non-negative and finite")
	ErrInvalidCorner = errors.New("corner radius must be non-negative and finite")
	ErrInvalidPoint  = errors.New("coordinates must be finite")
)

type Kind int

const (
	KindCircle Kind = iota
	KindRectangle
	KindLine
	KindPolyline
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindRectangle:
		return "rect"
	case KindLine:
		return "line"
	case KindPolyline:
		return "polyline"
	}
	return "unknown"
}

// Shape is one of *Circle, *Rectangle, *Line or *Polyline. The set is
// closed; code that needs per-kind behaviour switches on the concrete type.
type Shape interface {
	geom.Bounded
	Kind() Kind
	Style() Style
	SetStyle(s Style)
	Translate(d Point)
	Scale(fx, fy ScaleFunc)
	sealed()
}

// Boundary is implemented by shapes that answer signed distance queries:
// negative inside, zero on the edge, positive outside.
type Boundary interface {
	Shape
	DistanceToBoundary(p Point) float64
}

func nilBounds() geom.Rect {
	return geom.Rect{
		Min: geom.Coord{X: math.Inf(1), Y: math.Inf(1)},
		Max: geom.Coord{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

func boundsOf(pts ...Point) geom.Rect {
	min := Pt(math.Inf(1), math.Inf(1))
	max := Pt(math.Inf(-1), math.Inf(-1))
	for _, p := range pts {
		min.Shrink(p)
		max.Expand(p)
	}
	return geom.Rect{Min: min.Coord(), Max: max.Coord()}
}

////////////////////////////////////////////////////////////////////////////
// +++ Circle

type Circle struct {
	Center Point
	Radius float64
	style  Style
}

func NewCircle(center Point, radius float64, style Style) (*Circle, error) {
	if !Finite(center.X, center.Y) {
		return nil, ErrInvalidPoint
	}
	if !Finite(radius) || radius <= 0 {
		return nil, ErrInvalidRadius
	}
	return &Circle{Center: center, Radius: radius, style: style.Clone()}, nil
}

func (c *Circle) Kind() Kind        { return KindCircle }
func (c *Circle) Style() Style      { return c.style }
func (c *Circle) SetStyle(s Style)  { c.style = s.Clone() }
func (c *Circle) Translate(d Point) { c.Center.Translate(d) }
func (c *Circle) sealed()           {}

// Scale maps the centre only; the radius is left as drawn.
func (c *Circle) Scale(fx, fy ScaleFunc) { c.Center.Scale(fx, fy) }

func (c *Circle) Bounds() geom.Rect {
	offset := c.Radius + c.style.StrokeWidth()/2
	return geom.Rect{
		Min: geom.Coord{X: c.Center.X - offset, Y: c.Center.Y - offset},
		Max: geom.Coord{X: c.Center.X + offset, Y: c.Center.Y + offset},
	}
}

func (c *Circle) DistanceToBoundary(p Point) float64 {
	d := p.Distance(c.Center)
	if d > c.Radius {
		return d - c.Radius
	}
	return -(c.Radius - d)
}

////////////////////////////////////////////////////////////////////////////
// +++ Rectangle

// Rectangle is anchored at its top-left Origin. RX and RY round the
// corners when drawn; they do not change distance queries.
type Rectangle struct {
	Origin Point
	Size   Point
	RX, RY float64
	style  Style
}

func NewRectangle(origin, size Point, style Style) (*Rectangle, error) {
	return NewRoundedRectangle(origin, size, 0, 0, style)
}

func NewRoundedRectangle(origin, size Point, rx, ry float64, style Style) (*Rectangle, error) {
	if !Finite(origin.X, origin.Y) {
		return nil, ErrInvalidPoint
	}
	if !Finite(size.X, size.Y) || size.X < 0 || size.Y < 0 {
		return nil, ErrInvalidSize
	}
	if !Finite(rx, ry) || rx < 0 || ry < 0 {
		return nil, ErrInvalidCorner
	}
	return &Rectangle{Origin: origin, Size: size, RX: rx, RY: ry, style: style.Clone()}, nil
}

func (r *Rectangle) Kind() Kind        { return KindRectangle }
func (r *Rectangle) Style() Style      { return r.style }
func (r *Rectangle) SetStyle(s Style)  { r.style = s.Clone() }
func (r *Rectangle) Translate(d Point) { r.Origin.Translate(d) }
func (r *Rectangle) sealed()           {}

// Scale maps both corners through fx and fy. A function that flips an axis
// swaps the corners, so origin stays the minimum corner.
func (r *Rectangle) Scale(fx, fy ScaleFunc) {
	lo, hi := r.Origin, r.Max()
	lo.Scale(fx, fy)
	hi.Scale(fx, fy)
	r.Origin = Pt(math.Min(lo.X, hi.X), math.Min(lo.Y, hi.Y))
	r.Size = Pt(math.Abs(hi.X-lo.X), math.Abs(hi.Y-lo.Y))
}

func (r *Rectangle) Max() Point {
	return r.Origin.Plus(r.Size)
}

func (r *Rectangle) Bounds() geom.Rect {
	offset := r.style.StrokeWidth() / 2
	max := r.Max()
	return geom.Rect{
		Min: geom.Coord{X: r.Origin.X - offset, Y: r.Origin.Y - offset},
		Max: geom.Coord{X: max.X + offset, Y: max.Y + offset},
	}
}

// DistanceToBoundary is the negated depth for points inside (edges
// included) and the distance to the perimeter for points outside.
func (r *Rectangle) DistanceToBoundary(p Point) float64 {
	max := r.Max()
	insideX := r.Origin.X <= p.X && p.X <= max.X
	insideY := r.Origin.Y <= p.Y && p.Y <= max.Y

	if insideX && insideY {
		left := p.X - r.Origin.X
		right := max.X - p.X
		top := p.Y - r.Origin.Y
		bottom := max.Y - p.Y
		return -math.Min(math.Min(left, right), math.Min(top, bottom))
	}

	dx := math.Max(math.Max(r.Origin.X-p.X, 0), p.X-max.X)
	dy := math.Max(math.Max(r.Origin.Y-p.Y, 0), p.Y-max.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

////////////////////////////////////////////////////////////////////////////
// +++ Line

type Line struct {
	Start, End Point
	style      Style
}

func NewLine(start, end Point, style Style) *Line {
	return &Line{Start: start, End: end, style: style.Clone()}
}

func (l *Line) Kind() Kind        { return KindLine }
func (l *Line) Style() Style      { return l.style }
func (l *Line) SetStyle(s Style)  { l.style = s.Clone() }
func (l *Line) Bounds() geom.Rect { return boundsOf(l.Start, l.End) }
func (l *Line) sealed()           {}

func (l *Line) Translate(d Point) {
	l.Start.Translate(d)
	l.End.Translate(d)
}

func (l *Line) Scale(fx, fy ScaleFunc) {
	l.Start.Scale(fx, fy)
	l.End.Scale(fx, fy)
}

func (l *Line) Length() float64 {
	return l.Start.Distance(l.End)
}

////////////////////////////////////////////////////////////////////////////
// +++ Polyline

type Polyline struct {
	Points []Point
	style  Style
}

// NewPolyline copies pts so the caller's slice stays independent.
func NewPolyline(pts []Point, style Style) *Polyline {
	own := make([]Point, len(pts))
	copy(own, pts)
	return &Polyline{Points: own, style: style.Clone()}
}

func (pl *Polyline) Kind() Kind       { return KindPolyline }
func (pl *Polyline) Style() Style     { return pl.style }
func (pl *Polyline) SetStyle(s Style) { pl.style = s.Clone() }
func (pl *Polyline) sealed()          {}

// Bounds of an empty polyline is the degenerate +Inf..-Inf box.
func (pl *Polyline) Bounds() geom.Rect {
	if len(pl.Points) == 0 {
		return nilBounds()
	}
	return boundsOf(pl.Points...)
}

func (pl *Polyline) Translate(d Point) {
	for i := range pl.Points {
		pl.Points[i].Translate(d)
	}
}

func (pl *Polyline) Scale(fx, fy ScaleFunc) {
	for i := range pl.Points {
		pl.Points[i].Scale(fx, fy)
	}
}

func (pl *Polyline) Length() float64 {
	total := 0.0
	for i := 1; i < len(pl.Points); i++ {
		total += pl.Points[i-1].Distance(pl.Points[i])
	}
	return total
}
