// Package layout holds the built-in drawings: hanging tabs filled with
// packed circles and a turtle-traced net.
package layout

import (
	"errors"
	"fmt"
	"sort"

	"circlepack/internal/geometry"
	"circlepack/internal/pack"
)

var ErrUnknownLayout = errors.New("unknown layout")

type builder func(p *pack.Packer) (*geometry.Scene, Tally, error)

var layouts = map[string]builder{
	"tabs": func(p *pack.Packer) (*geometry.Scene, Tally, error) {
		return Tabs(p, DefaultTabs())
	},
	"tab": func(p *pack.Packer) (*geometry.Scene, Tally, error) {
		cfg := DefaultTabs()
		return Tab(p, geometry.Pt(cfg.Offset, cfg.Top), cfg.Heights[0], cfg.TabWidth)
	},
	"hexnet": func(p *pack.Packer) (*geometry.Scene, Tally, error) {
		return HexNet(HEXNET_EDGE), Tally{}, nil
	},
}

// Names lists the built-in layouts, sorted.
func Names() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Build(name string, p *pack.Packer) (*geometry.Scene, Tally, error) {
	b, ok := layouts[name]
	if !ok {
		return nil, Tally{}, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	return b(p)
}
