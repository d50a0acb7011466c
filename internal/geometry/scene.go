package geometry

import (
	"fmt"
	"math"

	"github.com/jbeda/geom"
)

// Scene is an ordered collection of shapes. Insertion order is draw order,
// later shapes render on top. Overlap is allowed here; keeping shapes apart
// is the packer's job.
type Scene struct {
	shapes []Shape
}

func NewScene() *Scene {
	return &Scene{}
}

func (s *Scene) Append(shape Shape) *Scene {
	s.shapes = append(s.shapes, shape)
	return s
}

// Merge appends all of other's shapes after this scene's own, keeping their
// order. The shapes are shared, not copied: other should not be used as an
// independent scene afterwards.
func (s *Scene) Merge(other *Scene) *Scene {
	s.shapes = append(s.shapes, other.shapes...)
	return s
}

func (s *Scene) Len() int {
	return len(s.shapes)
}

func (s *Scene) Empty() bool {
	return len(s.shapes) == 0
}

func (s *Scene) At(i int) Shape {
	return s.shapes[i]
}

// Shapes returns the shapes in draw order. The slice is a copy; the shapes
// are not.
func (s *Scene) Shapes() []Shape {
	out := make([]Shape, len(s.shapes))
	copy(out, s.shapes)
	return out
}

func (s *Scene) Count(k Kind) int {
	n := 0
	for _, shape := range s.shapes {
		if shape.Kind() == k {
			n++
		}
	}
	return n
}

// Bounds folds every shape's bounds together. An empty scene yields the
// degenerate box (+Inf,+Inf)-(-Inf,-Inf); check Empty before deriving a
// viewbox from it.
func (s *Scene) Bounds() geom.Rect {
	min := Pt(math.Inf(1), math.Inf(1))
	max := Pt(math.Inf(-1), math.Inf(-1))
	for _, shape := range s.shapes {
		b := shape.Bounds()
		min.Shrink(FromCoord(b.Min))
		max.Expand(FromCoord(b.Max))
	}
	return geom.Rect{Min: min.Coord(), Max: max.Coord()}
}

// ViewBox formats "minX minY width height" with the given number of digits.
func (s *Scene) ViewBox(digits int) string {
	b := s.Bounds()
	return fmt.Sprintf("%.*f %.*f %.*f %.*f",
		digits, b.Min.X, digits, b.Min.Y, digits, b.Max.X-b.Min.X, digits, b.Max.Y-b.Min.Y)
}

func (s *Scene) Translate(d Point) *Scene {
	for _, shape := range s.shapes {
		shape.Translate(d)
	}
	return s
}

func (s *Scene) ScaleShapes(fx, fy ScaleFunc) *Scene {
	for _, shape := range s.shapes {
		shape.Scale(fx, fy)
	}
	return s
}

// ScaleFunctions returns axis functions that fit the scene into a
// width x height page, scaled uniformly by the shorter side. With flipY the
// y axis points up.
func (s *Scene) ScaleFunctions(width, height float64, flipY bool) (fx, fy ScaleFunc) {
	b := s.Bounds()
	xmx := b.Max.X - b.Min.X
	ymx := b.Max.Y - b.Min.Y
	scale := math.Min(width, height) / math.Min(xmx, ymx)

	fx = func(x float64) float64 { return scale * (x - b.Min.X) }
	fy = func(y float64) float64 {
		if flipY {
			return height - scale*(y-b.Min.Y)
		}
		return scale * (y - b.Min.Y)
	}
	return fx, fy
}
