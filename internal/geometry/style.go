package geometry

import (
	"strconv"
	"strings"
)

// Attr is one presentation attribute, e.g. stroke-width: 1.
type Attr struct {
	Name  string
	Value string
}

// Style is an ordered list of presentation attributes. It behaves as a
// value: Set returns a new Style and shapes clone the style they are given,
// so changing one shape's style never leaks into another.
type Style struct {
	attrs []Attr
}

const (
	DEFAULT_FILL         = "none"
	DEFAULT_STROKE       = "black"
	DEFAULT_STROKE_WIDTH = 1.0
)

func DefaultStyle() Style {
	return NewStyle(DEFAULT_FILL, DEFAULT_STROKE, DEFAULT_STROKE_WIDTH)
}

func NewStyle(fill, stroke string, strokeWidth float64) Style {
	return Style{attrs: []Attr{
		{"fill", fill},
		{"stroke", stroke},
		{"stroke-width", formatNumber(strokeWidth)},
	}}
}

// Set returns a copy of s with k set to v. An existing key keeps its
// position; a new key is appended.
func (s Style) Set(k, v string) Style {
	n := s.Clone()
	for i := range n.attrs {
		if n.attrs[i].Name == k {
			n.attrs[i].Value = v
			return n
		}
	}
	n.attrs = append(n.attrs, Attr{k, v})
	return n
}

func (s Style) Get(k string) (string, bool) {
	for _, a := range s.attrs {
		if a.Name == k {
			return a.Value, true
		}
	}
	return "", false
}

func (s Style) Clone() Style {
	if s.attrs == nil {
		return Style{}
	}
	attrs := make([]Attr, len(s.attrs))
	copy(attrs, s.attrs)
	return Style{attrs: attrs}
}

func (s Style) Attrs() []Attr {
	return s.Clone().attrs
}

func (s Style) Len() int {
	return len(s.attrs)
}

// StrokeWidth is the numeric stroke-width, or 0 when absent or unparsable.
func (s Style) StrokeWidth() float64 {
	v, ok := s.Get("stroke-width")
	if !ok {
		return 0
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return w
}

// CSS renders the inline style string "k:v;k:v;". units, if set, is
// appended to stroke-width the way plotter pages in mm expect.
func (s Style) CSS(units string) string {
	var b strings.Builder
	for _, a := range s.attrs {
		b.WriteString(a.Name)
		b.WriteByte(':')
		b.WriteString(a.Value)
		if a.Name == "stroke-width" && units != "" {
			b.WriteString(units)
		}
		b.WriteByte(';')
	}
	return b.String()
}

func (s Style) String() string {
	return s.CSS("")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
