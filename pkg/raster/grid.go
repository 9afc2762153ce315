package raster

import (
	"strings"

	"github.com/siliconmark/logocell/pkg/errors"
)

// PixelGrid is a width x height grid of drawn/undrawn pixels. Coordinates
// are (column, row) from the top-left. A PixelGrid is never modified after it
// is returned from this package.
type PixelGrid struct {
	width  int
	height int
	cells  []bool
}

func newPixelGrid(width, height int) *PixelGrid {
	return &PixelGrid{width: width, height: height, cells: make([]bool, width*height)}
}

// ParseGrid builds a grid from text rows, one string per row. '#', 'X' and
// '1' are drawn; '.', '0' and ' ' are not.
//
//	g, _ := raster.ParseGrid(
//	    "#.",
//	    ".#",
//	)
func ParseGrid(rows ...string) (*PixelGrid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "grid has no pixels")
	}
	g := newPixelGrid(len(rows[0]), len(rows))
	for r, row := range rows {
		if len(row) != g.width {
			return nil, errors.New(errors.ErrCodeInvalidInput, "row %d has %d cells, want %d", r, len(row), g.width)
		}
		for c, ch := range []byte(row) {
			switch ch {
			case '#', 'X', '1':
				g.set(c, r, true)
			case '.', '0', ' ':
			default:
				return nil, errors.New(errors.ErrCodeInvalidInput, "row %d: unexpected cell %q", r, ch)
			}
		}
	}
	return g, nil
}

func (g *PixelGrid) Width() int  { return g.width }
func (g *PixelGrid) Height() int { return g.height }

// At reports whether pixel (c, r) is drawn. Cells outside the grid are not.
func (g *PixelGrid) At(c, r int) bool {
	if c < 0 || r < 0 || c >= g.width || r >= g.height {
		return false
	}
	return g.cells[r*g.width+c]
}

func (g *PixelGrid) set(c, r int, v bool) {
	g.cells[r*g.width+c] = v
}

// Count returns the number of drawn pixels.
func (g *PixelGrid) Count() int {
	n := 0
	for _, v := range g.cells {
		if v {
			n++
		}
	}
	return n
}

// Equal reports whether both grids have the same size and cells.
func (g *PixelGrid) Equal(o *PixelGrid) bool {
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

func (g *PixelGrid) clone() *PixelGrid {
	out := newPixelGrid(g.width, g.height)
	copy(out.cells, g.cells)
	return out
}

// String renders the grid with '#' for drawn and '.' for empty pixels.
func (g *PixelGrid) String() string {
	var sb strings.Builder
	for r := range g.height {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := range g.width {
			if g.At(c, r) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
