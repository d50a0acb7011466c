// Package pack places non-overlapping circles into a scene by rejection
// sampling against the shapes already there.
package pack

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"circlepack/internal/geometry"
)

const (
	DEFAULT_SPACE = 5.0
	DEFAULT_TRIES = 10000

	// Half length of each crosshair stroke.
	CROSSHAIR_SIZE = 1.0
)

var (
	ErrInvalidRadius      = errors.New("pack: radius must be positive and finite")
	ErrInvalidCount       = errors.New("pack: count must not be negative")
	ErrInvalidTries       = errors.New("pack: tries must not be negative")
	ErrInvalidRegion      = errors.New("pack: region corners must be finite")
	ErrInvalidSpace       = errors.New("pack: space must be finite")
	ErrDegenerateGradient = errors.New("pack: gradient endpoints share an x coordinate")
)

// Gradient replaces the fixed clearance with one that varies linearly along
// x: From.Y is the clearance at From.X, To.Y the clearance at To.X. The line
// is extended beyond the two points, and may go negative.
type Gradient struct {
	From, To geometry.Point
}

func (g *Gradient) slope() (m, c float64) {
	m = (g.To.Y - g.From.Y) / (g.To.X - g.From.X)
	c = g.From.Y - m*g.From.X
	return m, c
}

// Clearance at x.
func (g *Gradient) Clearance(x float64) float64 {
	m, c := g.slope()
	return m*x + c
}

// Request describes one packing pass: Count circles of Radius, centres drawn
// uniformly from the Min..Max region.
type Request struct {
	Min, Max   geometry.Point
	Count      int
	Radius     float64
	Space      float64
	Tries      int
	Crosshairs bool
	Gradient   *Gradient
	Style      geometry.Style
}

func NewRequest(min, max geometry.Point, n int, r float64) Request {
	return Request{
		Min:    min,
		Max:    max,
		Count:  n,
		Radius: r,
		Space:  DEFAULT_SPACE,
		Tries:  DEFAULT_TRIES,
		Style:  geometry.DefaultStyle(),
	}
}

func (r Request) validate() error {
	switch {
	case math.IsNaN(r.Radius) || math.IsInf(r.Radius, 0) || r.Radius <= 0:
		return fmt.Errorf("%w: %v", ErrInvalidRadius, r.Radius)
	case r.Count < 0:
		return fmt.Errorf("%w: %d", ErrInvalidCount, r.Count)
	case r.Tries < 0:
		return fmt.Errorf("%w: %d", ErrInvalidTries, r.Tries)
	case !geometry.Finite(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y):
		return fmt.Errorf("%w: %v..%v", ErrInvalidRegion, r.Min, r.Max)
	case r.Gradient == nil && !geometry.Finite(r.Space):
		return fmt.Errorf("%w: %v", ErrInvalidSpace, r.Space)
	case r.Gradient != nil && r.Gradient.From.X == r.Gradient.To.X:
		return ErrDegenerateGradient
	case r.Gradient != nil && !geometry.Finite(r.Gradient.From.X, r.Gradient.From.Y, r.Gradient.To.X, r.Gradient.To.Y):
		return fmt.Errorf("%w: gradient %v..%v", ErrInvalidRegion, r.Gradient.From, r.Gradient.To)
	}
	return nil
}

func (r Request) clearance(x float64) float64 {
	if r.Gradient != nil {
		return r.Gradient.Clearance(x)
	}
	return r.Space
}

// Packer owns the random source used for sampling. It is not safe for
// concurrent use; give each goroutine its own.
type Packer struct {
	rng *rand.Rand
	log *log.Logger
}

// New returns a packer drawing from rng. A nil rng is seeded from the clock.
func New(rng *rand.Rand) *Packer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Packer{rng: rng}
}

// NewSeeded is New with a fresh source for seed.
func NewSeeded(seed int64) *Packer {
	return New(rand.New(rand.NewSource(seed)))
}

// SetLogger enables a progress line per Pack call.
func (p *Packer) SetLogger(l *log.Logger) *Packer {
	p.log = l
	return p
}

func (p *Packer) point(min, max geometry.Point) geometry.Point {
	return geometry.Pt(
		min.X+(max.X-min.X)*p.rng.Float64(),
		min.Y+(max.Y-min.Y)*p.rng.Float64(),
	)
}

// Pack appends up to req.Count circles to scene. Each slot gets req.Tries
// attempts; a slot that runs out is skipped, so the return value may be
// lower than Count. Only a malformed request is an error.
//
// A candidate is rejected if it comes closer than the clearance to any
// circle already in the scene, or if it is not inside every rectangle with
// at least the clearance to each edge. Lines and polylines are ignored.
func (p *Packer) Pack(scene *geometry.Scene, req Request) (int, error) {
	if err := req.validate(); err != nil {
		return 0, err
	}
	style := req.Style
	if style.Len() == 0 {
		style = geometry.DefaultStyle()
	}

	placed, attempts := 0, 0
	for i := 0; i < req.Count; i++ {
		for t := 0; t < req.Tries; t++ {
			attempts++
			c := p.point(req.Min, req.Max)
			if !fits(scene, c, req.Radius, req.clearance(c.X)) {
				continue
			}
			circle, err := geometry.NewCircle(c, req.Radius, style)
			if err != nil {
				return placed, err
			}
			scene.Append(circle)
			if req.Crosshairs {
				addCrosshairs(scene, c, style)
			}
			placed++
			break
		}
	}

	if p.log != nil {
		p.log.Printf("[PACK] r=%g placed %d/%d in %d attempts", req.Radius, placed, req.Count, attempts)
	}
	return placed, nil
}

// PackEdge packs with clearance graded from from.Y at from.X to to.Y at
// to.X, using the default tries.
func (p *Packer) PackEdge(scene *geometry.Scene, min, max geometry.Point, n int, r float64, from, to geometry.Point) (int, error) {
	req := NewRequest(min, max, n, r)
	req.Gradient = &Gradient{From: from, To: to}
	return p.Pack(scene, req)
}

// fits checks a circle of radius r at p against every shape in the scene,
// in insertion order.
func fits(scene *geometry.Scene, p geometry.Point, r, clearance float64) bool {
	for i := 0; i < scene.Len(); i++ {
		switch e := scene.At(i).(type) {
		case *geometry.Circle:
			if e.DistanceToBoundary(p)-r < clearance {
				return false
			}
		case *geometry.Rectangle:
			d := e.DistanceToBoundary(p) + r
			if d > 0 || -d < clearance {
				return false
			}
		}
	}
	return true
}

func addCrosshairs(scene *geometry.Scene, c geometry.Point, style geometry.Style) {
	scene.Append(geometry.NewLine(
		geometry.Pt(c.X-CROSSHAIR_SIZE, c.Y), geometry.Pt(c.X+CROSSHAIR_SIZE, c.Y), style))
	scene.Append(geometry.NewLine(
		geometry.Pt(c.X, c.Y-CROSSHAIR_SIZE), geometry.Pt(c.X, c.Y+CROSSHAIR_SIZE), style))
}
