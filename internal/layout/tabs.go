package layout

import (
	"fmt"

	"circlepack/internal/geometry"
	"circlepack/internal/pack"
)

const (
	HOLE_RADIUS = 3.0
	HOLE_DROP   = 15.0
	TAB_SPACE   = 4.0

	// Packing region inset from the tab outline.
	TAB_INSET_LEFT   = 10.0
	TAB_INSET_RIGHT  = 5.0
	TAB_INSET_TOP    = 20.0
	TAB_INSET_BOTTOM = 10.0
)

// Tally counts circles asked for and circles placed across packing passes.
type Tally struct {
	Requested int
	Placed    int
}

func (t *Tally) add(requested, placed int) {
	t.Requested += requested
	t.Placed += placed
}

// tabPasses go coarse to fine so the small circles fill the gaps the big
// ones leave.
var tabPasses = []struct {
	radius float64
	count  int
}{
	{8, 5},
	{5, 10},
	{3, 15},
}

// Tab builds one hanging tab: an outline, a hole near the top and three
// passes of circles packed into the body, moved to position.
func Tab(p *pack.Packer, position geometry.Point, height, width float64) (*geometry.Scene, Tally, error) {
	var tally Tally
	scene := geometry.NewScene()

	outline, err := geometry.NewRectangle(geometry.Pt(0, 0), geometry.Pt(width, height), geometry.DefaultStyle())
	if err != nil {
		return nil, tally, fmt.Errorf("tab outline: %w", err)
	}
	hole, err := geometry.NewCircle(geometry.Pt(width/2, HOLE_DROP), HOLE_RADIUS, geometry.DefaultStyle())
	if err != nil {
		return nil, tally, fmt.Errorf("tab hole: %w", err)
	}
	scene.Append(outline).Append(hole)

	min := geometry.Pt(TAB_INSET_LEFT, TAB_INSET_TOP)
	max := geometry.Pt(width-TAB_INSET_RIGHT, height-TAB_INSET_BOTTOM)
	for _, pass := range tabPasses {
		req := pack.NewRequest(min, max, pass.count, pass.radius)
		req.Space = TAB_SPACE
		placed, err := p.Pack(scene, req)
		if err != nil {
			return nil, tally, fmt.Errorf("tab r=%g: %w", pass.radius, err)
		}
		tally.add(pass.count, placed)
	}

	scene.Translate(position)
	return scene, tally, nil
}

// TabsConfig lays tabs left to right across pages of PageWidth.
type TabsConfig struct {
	Offset    float64
	TabWidth  float64
	Spacing   float64
	PageWidth float64
	Top       float64
	Heights   []float64
}

func DefaultTabs() TabsConfig {
	return TabsConfig{
		Offset:    10,
		TabWidth:  35,
		Spacing:   35,
		PageWidth: 210,
		Top:       3,
		Heights:   []float64{235, 290, 275, 260, 285, 240, 271, 231},
	}
}

// Tabs builds every tab in cfg.Heights. When the next tab would reach the
// edge of the current page it starts a fresh page instead, so the scene is
// a strip of pages placed side by side.
func Tabs(p *pack.Packer, cfg TabsConfig) (*geometry.Scene, Tally, error) {
	var tally Tally
	scene := geometry.NewScene()

	x := cfg.Offset
	page := 0
	nextOrigin := cfg.PageWidth
	for i, height := range cfg.Heights {
		tab, t, err := Tab(p, geometry.Pt(x, cfg.Top), height, cfg.TabWidth)
		if err != nil {
			return nil, tally, fmt.Errorf("tab %d: %w", i, err)
		}
		scene.Merge(tab)
		tally.add(t.Requested, t.Placed)

		if x+cfg.Spacing+cfg.TabWidth >= nextOrigin {
			page++
			x = cfg.PageWidth*float64(page) + 5 + cfg.Offset
			nextOrigin += cfg.PageWidth
		} else {
			x += cfg.Spacing
		}
	}
	return scene, tally, nil
}
