// Package geometry holds the 2D primitives circle packing works with:
// points, styles, the closed set of drawable shapes and the Scene that
// collects them.
//
// Circle and Rectangle answer signed distance queries (negative inside,
// zero on the edge, positive outside). Bounds are github.com/jbeda/geom
// rectangles so shapes satisfy geom.Bounded.
package geometry
