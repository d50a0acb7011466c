package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

// ScaleFunc maps one coordinate axis. Scene and shape scaling take one per
// axis so callers can fit, offset or flip independently.
type ScaleFunc func(float64) float64

// Point is a 2D coordinate. Mutating methods work in place and return the
// receiver so calls can be chained.
type Point struct {
	X, Y float64
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func FromCoord(c geom.Coord) Point {
	return Point{X: c.X, Y: c.Y}
}

func (p Point) Coord() geom.Coord {
	return geom.Coord{X: p.X, Y: p.Y}
}

func (p Point) Copy() Point {
	return p
}

func (p Point) Plus(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) Minus(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p *Point) Translate(d Point) *Point {
	p.X += d.X
	p.Y += d.Y
	return p
}

func (p *Point) Scale(fx, fy ScaleFunc) *Point {
	p.X = fx(p.X)
	p.Y = fy(p.Y)
	return p
}

// Rotate turns the point about the origin.
func (p *Point) Rotate(radians float64) *Point {
	sin, cos := math.Sincos(radians)
	p.X, p.Y = p.X*cos-p.Y*sin, p.X*sin+p.Y*cos
	return p
}

// MoveBy displaces the point by distance along a bearing given in degrees.
func (p *Point) MoveBy(distance, degrees float64) *Point {
	sin, cos := math.Sincos(degToRads(degrees))
	p.X += distance * cos
	p.Y += distance * sin
	return p
}

// Shrink pulls each coordinate down to q's where q is smaller.
func (p *Point) Shrink(q Point) *Point {
	if q.X < p.X {
		p.X = q.X
	}
	if q.Y < p.Y {
		p.Y = q.Y
	}
	return p
}

// Expand pushes each coordinate up to q's where q is larger.
func (p *Point) Expand(q Point) *Point {
	if q.X > p.X {
		p.X = q.X
	}
	if q.Y > p.Y {
		p.Y = q.Y
	}
	return p
}

func (p Point) Magnitude() float64 {
	return p.Coord().Magnitude()
}

// Angle is the polar angle in radians, 0 at the origin.
func (p Point) Angle() float64 {
	if p.X == 0 && p.Y == 0 {
		return 0
	}
	return math.Atan2(p.Y, p.X)
}

func (p Point) Distance(q Point) float64 {
	return p.Coord().DistanceFrom(q.Coord())
}

func degToRads(d float64) float64 {
	return d * math.Pi / 180.0
}
