package preview

import "math"

// canvas is a grid of braille cells, each holding a 2x4 block of dots.
type canvas struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell dot mask
}

func newCanvas(w, h int) *canvas {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &canvas{w: w, h: h, m: m}
}

// dotBits maps a dot's column and row inside its cell to the braille bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// set turns on the dot at dot coordinates (2 per cell across, 4 down).
func (c *canvas) set(dx, dy int) {
	if dx < 0 || dy < 0 {
		return
	}
	cx, cy := dx/2, dy/4
	if cx >= c.w || cy >= c.h {
		return
	}
	c.m[cy][cx] |= dotBits[dx%2][dy%4]
}

// line draws between two dots using Bresenham
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) lines() []string {
	out := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		row := make([]rune, c.w)
		for x := 0; x < c.w; x++ {
			if mask := c.m[y][x]; mask == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(mask))
			}
		}
		out[y] = string(row)
	}
	return out
}

func (c *canvas) dots() int {
	n := 0
	for _, row := range c.m {
		for _, mask := range row {
			for ; mask != 0; mask &= mask - 1 {
				n++
			}
		}
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func round(v float64) int {
	return int(math.Round(v))
}
