// Package raster renders scene outlines to an anti-aliased PNG.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"

	"circlepack/internal/geometry"
)

const (
	DEFAULT_WIDTH   = 800
	DEFAULT_PADDING = 10
	DEFAULT_STROKE  = 1.5
)

type Options struct {
	Width    int
	Padding  int
	StrokePx float64
	Ink      color.Color
	Paper    color.Color
}

func DefaultOptions() Options {
	return Options{
		Width:    DEFAULT_WIDTH,
		Padding:  DEFAULT_PADDING,
		StrokePx: DEFAULT_STROKE,
		Ink:      color.Black,
		Paper:    color.White,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.StrokePx <= 0 {
		o.StrokePx = d.StrokePx
	}
	if o.Ink == nil {
		o.Ink = d.Ink
	}
	if o.Paper == nil {
		o.Paper = d.Paper
	}
	return o
}

// pen strokes segments into a single rasterizer. Every segment becomes a
// quad wound the same way, so overlapping strokes add up instead of
// cancelling.
type pen struct {
	r      *vector.Rasterizer
	half   float64
	fx, fy geometry.ScaleFunc
}

func (p *pen) segment(a, b geometry.Point) {
	ax, ay := p.fx(a.X), p.fy(a.Y)
	bx, by := p.fx(b.X), p.fy(b.Y)
	dx, dy := bx-ax, by-ay
	l := math.Hypot(dx, dy)
	if l == 0 {
		dx, dy, l = 1, 0, 1
	}
	nx, ny := -dy/l*p.half, dx/l*p.half
	// Extend each end by half the width so joins close up.
	ex, ey := dx/l*p.half, dy/l*p.half

	p.r.MoveTo(float32(ax+nx-ex), float32(ay+ny-ey))
	p.r.LineTo(float32(bx+nx+ex), float32(by+ny+ey))
	p.r.LineTo(float32(bx-nx+ex), float32(by-ny+ey))
	p.r.LineTo(float32(ax-nx-ex), float32(ay-ny-ey))
	p.r.ClosePath()
}

func (p *pen) circle(c geometry.Point, radius, scale float64) {
	steps := int(2 * math.Pi * radius * scale / 2)
	if steps < 16 {
		steps = 16
	}
	prev := geometry.Pt(c.X+radius, c.Y)
	for i := 1; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		next := geometry.Pt(c.X+radius*math.Cos(a), c.Y+radius*math.Sin(a))
		p.segment(prev, next)
		prev = next
	}
}

// Render draws the scene scaled to opts.Width pixels across, keeping its
// aspect ratio. An empty scene gives a blank square.
func Render(scene *geometry.Scene, opts Options) *image.RGBA {
	opts = opts.withDefaults()
	w := opts.Width
	h := opts.Width
	inner := float64(w - 2*opts.Padding)
	if inner <= 0 {
		inner = float64(w)
	}

	var fx, fy geometry.ScaleFunc
	scale := 1.0
	if !scene.Empty() {
		b := scene.Bounds()
		bw, bh := b.Max.X-b.Min.X, b.Max.Y-b.Min.Y
		if bw > 0 {
			scale = inner / bw
		} else if bh > 0 {
			scale = inner / bh
		}
		h = int(math.Ceil(bh*scale)) + 2*opts.Padding
		if h < 1 {
			h = 1
		}
		pad := float64(opts.Padding)
		fx = func(x float64) float64 { return pad + (x-b.Min.X)*scale }
		fy = func(y float64) float64 { return pad + (y-b.Min.Y)*scale }
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Paper), image.Point{}, draw.Src)
	if scene.Empty() {
		return img
	}

	p := &pen{r: vector.NewRasterizer(w, h), half: opts.StrokePx / 2, fx: fx, fy: fy}
	for _, shape := range scene.Shapes() {
		switch s := shape.(type) {
		case *geometry.Circle:
			p.circle(s.Center, s.Radius, scale)
		case *geometry.Rectangle:
			max := s.Max()
			p.segment(s.Origin, geometry.Pt(max.X, s.Origin.Y))
			p.segment(geometry.Pt(max.X, s.Origin.Y), max)
			p.segment(max, geometry.Pt(s.Origin.X, max.Y))
			p.segment(geometry.Pt(s.Origin.X, max.Y), s.Origin)
		case *geometry.Line:
			p.segment(s.Start, s.End)
		case *geometry.Polyline:
			for i := 1; i < len(s.Points); i++ {
				p.segment(s.Points[i-1], s.Points[i])
			}
		}
	}
	p.r.Draw(img, img.Bounds(), image.NewUniform(opts.Ink), image.Point{})
	return img
}

func WritePNG(w io.Writer, scene *geometry.Scene, opts Options) error {
	if err := png.Encode(w, Render(scene, opts)); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
