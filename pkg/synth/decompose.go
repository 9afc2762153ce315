package synth

import (
	"fmt"

	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/raster"
)

// PixelRect is a block of drawn pixels: columns [C0, C1) and rows [R0, R1).
type PixelRect struct {
	C0, R0, C1, R1 int
}

// Cells returns the number of pixels in the block.
func (p PixelRect) Cells() int { return (p.C1 - p.C0) * (p.R1 - p.R0) }

// Rect maps the block to layout coordinates.
func (p PixelRect) Rect(gridHeight int, pitch int64) geom.Rect {
	return geom.PixelRect(p.C0, p.R0, p.C1, p.R1, gridHeight, pitch)
}

func (p PixelRect) String() string {
	return fmt.Sprintf("[c%d:%d r%d:%d]", p.C0, p.C1, p.R0, p.R1)
}

type span struct{ c0, c1 int }

// Decompose covers the drawn cells of g with disjoint rectangles. Output is
// ordered by top row, then left column.
func Decompose(g *raster.PixelGrid) []PixelRect {
	var arena []PixelRect
	open := make(map[span]int)

	for r := 0; r < g.Height(); r++ {
		next := make(map[span]int)
		c := 0
		for c < g.Width() {
			if !g.At(c, r) {
				c++
				continue
			}
			start := c
			for c < g.Width() && g.At(c, r) {
				c++
			}
			s := span{start, c}
			if idx, ok := open[s]; ok {
				arena[idx].R1 = r + 1
				next[s] = idx
				continue
			}
			next[s] = len(arena)
			arena = append(arena, PixelRect{C0: start, R0: r, C1: c, R1: r + 1})
		}
		open = next
	}
	return arena
}
