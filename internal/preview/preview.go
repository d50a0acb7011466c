// Package preview draws scenes and packing summaries for the terminal.
package preview

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"circlepack/internal/geometry"
)

const (
	DEFAULT_WIDTH  = 60
	DEFAULT_HEIGHT = 30
)

var (
	accentFg  = lipgloss.Color("#7C3AED")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	borderCol = lipgloss.Color("#243141")
	warnFg    = lipgloss.Color("#D97706")

	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	warnStyle  = lipgloss.NewStyle().Foreground(warnFg)
)

// Options sizes the drawing in terminal cells.
type Options struct {
	Width, Height int
	Title         string
}

// project maps scene coordinates onto the dot grid, keeping aspect ratio.
type project struct {
	min   geometry.Point
	scale float64
}

func newProject(b geometry.Point, size geometry.Point, dotsW, dotsH int) project {
	scale := 1.0
	if size.X > 0 || size.Y > 0 {
		sx, sy := math.Inf(1), math.Inf(1)
		if size.X > 0 {
			sx = float64(dotsW-1) / size.X
		}
		if size.Y > 0 {
			sy = float64(dotsH-1) / size.Y
		}
		scale = math.Min(sx, sy)
	}
	return project{min: b, scale: scale}
}

func (p project) dot(pt geometry.Point) (int, int) {
	return round((pt.X - p.min.X) * p.scale), round((pt.Y - p.min.Y) * p.scale)
}

func (p project) segment(c *canvas, a, b geometry.Point) {
	x0, y0 := p.dot(a)
	x1, y1 := p.dot(b)
	c.line(x0, y0, x1, y1)
}

func (p project) ring(c *canvas, center geometry.Point, r float64) {
	steps := int(2 * math.Pi * r * p.scale)
	if steps < 8 {
		steps = 8
	}
	prev := geometry.Pt(center.X+r, center.Y)
	for i := 1; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		next := geometry.Pt(center.X+r*math.Cos(a), center.Y+r*math.Sin(a))
		p.segment(c, prev, next)
		prev = next
	}
}

func draw(scene *geometry.Scene, w, h int) *canvas {
	c := newCanvas(w, h)
	if scene.Empty() {
		return c
	}
	b := scene.Bounds()
	min := geometry.FromCoord(b.Min)
	p := newProject(min, geometry.FromCoord(b.Max).Minus(min), 2*w, 4*h)

	for _, shape := range scene.Shapes() {
		switch s := shape.(type) {
		case *geometry.Circle:
			p.ring(c, s.Center, s.Radius)
		case *geometry.Rectangle:
			max := s.Max()
			p.segment(c, s.Origin, geometry.Pt(max.X, s.Origin.Y))
			p.segment(c, geometry.Pt(max.X, s.Origin.Y), max)
			p.segment(c, max, geometry.Pt(s.Origin.X, max.Y))
			p.segment(c, geometry.Pt(s.Origin.X, max.Y), s.Origin)
		case *geometry.Line:
			p.segment(c, s.Start, s.End)
		case *geometry.Polyline:
			for i := 1; i < len(s.Points); i++ {
				p.segment(c, s.Points[i-1], s.Points[i])
			}
		}
	}
	return c
}

// Render draws the scene as braille inside a rounded, titled box.
func Render(scene *geometry.Scene, opts Options) string {
	if opts.Width <= 0 {
		opts.Width = DEFAULT_WIDTH
	}
	if opts.Height <= 0 {
		opts.Height = DEFAULT_HEIGHT
	}
	body := strings.Join(draw(scene, opts.Width, opts.Height).lines(), "\n")

	parts := []string{}
	if opts.Title != "" {
		parts = append(parts, titleStyle.Render(opts.Title))
	}
	parts = append(parts, body)
	parts = append(parts, dimStyle.Render(fmt.Sprintf("%d shapes, %d circles", scene.Len(), scene.Count(geometry.KindCircle))))
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// Row is one line of a packing summary.
type Row struct {
	Label     string
	Requested int
	Placed    int
}

// Summary tabulates requested against placed circles. Rows that fell
// short are highlighted.
func Summary(title string, rows []Row) string {
	lines := []string{titleStyle.Render(title)}
	totalReq, totalPlaced := 0, 0
	for _, r := range rows {
		line := fmt.Sprintf("%-16s %4d / %-4d", r.Label, r.Placed, r.Requested)
		if r.Placed < r.Requested {
			line = warnStyle.Render(line)
		}
		lines = append(lines, line)
		totalReq += r.Requested
		totalPlaced += r.Placed
	}
	lines = append(lines, dimStyle.Render(fmt.Sprintf("%-16s %4d / %-4d", "total", totalPlaced, totalReq)))
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
