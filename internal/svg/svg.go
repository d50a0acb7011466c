// Package svg writes a geometry.Scene as an SVG document using svgo.
package svg

import (
	"fmt"
	"io"

	svgo "github.com/ajstarks/svgo/float"

	"circlepack/internal/geometry"
)

const (
	DEFAULT_DIGITS = 2

	A4_WIDTH  = 210.0
	A4_HEIGHT = 297.0
)

// Page is the outer document: its size on paper and how user units map
// onto it.
type Page struct {
	Width, Height float64

	// Units is appended to width and height, e.g. "mm". Geometry stays in
	// user units and is placed by the viewbox.
	Units string

	// ViewBox overrides the one computed from the scene bounds.
	ViewBox string

	// Stylesheet, if set, is imported as <name>.css.
	Stylesheet string

	// StrokeUnits, if set, is appended to every stroke-width.
	StrokeUnits string

	Digits int
}

// A4 is a portrait A4 page in millimetres.
func A4() Page {
	return Page{Width: A4_WIDTH, Height: A4_HEIGHT, Units: "mm", Digits: DEFAULT_DIGITS}
}

// errWriter remembers the first write error; svgo itself drops them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// Write emits the document for scene. An empty scene with no explicit
// viewbox is written without one.
func Write(w io.Writer, scene *geometry.Scene, page Page) error {
	ew := &errWriter{w: w}
	canvas := svgo.New(ew)
	canvas.Decimals = page.Digits

	var attrs []string
	viewBox := page.ViewBox
	if viewBox == "" && !scene.Empty() {
		viewBox = scene.ViewBox(page.Digits)
	}
	if viewBox != "" {
		attrs = append(attrs, fmt.Sprintf(`viewBox="%s"`, viewBox))
	}
	canvas.Startunit(page.Width, page.Height, page.Units, attrs...)

	if page.Stylesheet != "" {
		canvas.Style("text/css", fmt.Sprintf("@import url(%s.css);", page.Stylesheet))
	}
	for _, shape := range scene.Shapes() {
		writeShape(canvas, shape, page.StrokeUnits)
	}
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("writing svg: %w", ew.err)
	}
	return nil
}

// WriteHTML wraps the document in a bare HTML page for viewing in a browser.
func WriteHTML(w io.Writer, scene *geometry.Scene, page Page) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n<html>\n<body>\n<div>\n"); err != nil {
		return fmt.Errorf("writing html: %w", err)
	}
	if err := Write(w, scene, page); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "</div>\n</body>\n</html>\n"); err != nil {
		return fmt.Errorf("writing html: %w", err)
	}
	return nil
}

func writeShape(canvas *svgo.SVG, shape geometry.Shape, units string) {
	style := shape.Style().CSS(units)
	switch s := shape.(type) {
	case *geometry.Circle:
		canvas.Circle(s.Center.X, s.Center.Y, s.Radius, style)
	case *geometry.Rectangle:
		if s.RX != 0 || s.RY != 0 {
			canvas.Roundrect(s.Origin.X, s.Origin.Y, s.Size.X, s.Size.Y, s.RX, s.RY, style)
		} else {
			canvas.Rect(s.Origin.X, s.Origin.Y, s.Size.X, s.Size.Y, style)
		}
	case *geometry.Line:
		canvas.Line(s.Start.X, s.Start.Y, s.End.X, s.End.Y, style)
	case *geometry.Polyline:
		// svgo cannot write a polyline without points.
		if len(s.Points) == 0 {
			return
		}
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i], ys[i] = p.X, p.Y
		}
		canvas.Polyline(xs, ys, style)
	}
}
