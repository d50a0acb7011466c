package job

import (
	"context"
	"fmt"

	"circlepack/internal/geometry"
	"circlepack/internal/pack"
	"circlepack/internal/svg"
)

// PackStat is the outcome of one packing pass.
type PackStat struct {
	Panel     int     `json:"panel"`
	Radius    float64 `json:"radius"`
	Requested int     `json:"requested"`
	Placed    int     `json:"placed"`
}

type Result struct {
	Scene *geometry.Scene
	Stats []PackStat
}

func (r *Result) Totals() (requested, placed int) {
	for _, s := range r.Stats {
		requested += s.Requested
		placed += s.Placed
	}
	return requested, placed
}

func (p XY) point() geometry.Point {
	return geometry.Pt(p.X, p.Y)
}

func (s *Style) style() geometry.Style {
	st := geometry.DefaultStyle()
	if s == nil {
		return st
	}
	if s.Fill != "" {
		st = st.Set("fill", s.Fill)
	}
	if s.Stroke != "" {
		st = st.Set("stroke", s.Stroke)
	}
	if s.StrokeWidth != nil {
		st = st.Set("stroke-width", fmt.Sprint(*s.StrokeWidth))
	}
	return st
}

// SVG is the output page, A4 in millimetres unless overridden.
func (p Page) SVG() svg.Page {
	out := svg.A4()
	if p.Width > 0 {
		out.Width = p.Width
	}
	if p.Height > 0 {
		out.Height = p.Height
	}
	if p.Units != "" {
		out.Units = p.Units
	}
	if p.Digits != nil {
		out.Digits = *p.Digits
	}
	out.StrokeUnits = p.StrokeUnits
	out.ViewBox = p.ViewBox
	out.Stylesheet = p.Stylesheet
	return out
}

func (s Shape) build() (geometry.Shape, error) {
	style := s.Style.style()
	switch s.Kind {
	case "circle":
		return geometry.NewCircle(s.Center.point(), s.Radius, style)
	case "rect":
		return geometry.NewRoundedRectangle(s.Origin.point(), s.Size.point(), s.RX, s.RY, style)
	case "line":
		return geometry.NewLine(s.Start.point(), s.End.point(), style), nil
	case "polyline":
		pts := make([]geometry.Point, len(s.Points))
		for i, p := range s.Points {
			pts[i] = p.point()
		}
		return geometry.NewPolyline(pts, style), nil
	}
	return nil, fmt.Errorf("%w: unknown shape kind %q", ErrInvalidJob, s.Kind)
}

func (p Pack) request() pack.Request {
	req := pack.NewRequest(p.Min.point(), p.Max.point(), p.Count, p.Radius)
	if p.Space != nil {
		req.Space = *p.Space
	}
	if p.Tries != nil {
		req.Tries = *p.Tries
	}
	req.Crosshairs = p.Crosshairs
	if p.Gradient != nil {
		req.Gradient = &pack.Gradient{From: p.Gradient.From.point(), To: p.Gradient.To.point()}
	}
	req.Style = p.Style.style()
	return req
}

// Run builds every panel in order: its fixed shapes first, then its packs,
// coarse to fine as listed, then moves it to its offset and adds it to the
// page. Panels are packed independently of each other.
func Run(ctx context.Context, j *Job, p *pack.Packer) (*Result, error) {
	res := &Result{Scene: geometry.NewScene()}
	for i, panel := range j.Panels {
		scene := geometry.NewScene()
		for k, s := range panel.Shapes {
			shape, err := s.build()
			if err != nil {
				return nil, fmt.Errorf("panel %d shape %d: %w", i, k, err)
			}
			scene.Append(shape)
		}
		for k, ps := range panel.Packs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			placed, err := p.Pack(scene, ps.request())
			if err != nil {
				return nil, fmt.Errorf("panel %d pack %d: %w", i, k, err)
			}
			res.Stats = append(res.Stats, PackStat{Panel: i, Radius: ps.Radius, Requested: ps.Count, Placed: placed})
		}
		scene.Translate(panel.Offset.point())
		res.Scene.Merge(scene)
	}
	return res, nil
}
