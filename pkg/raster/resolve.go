package raster

import "github.com/siliconmark/logocell/pkg/errors"

// DefaultMaxPasses bounds the diagonal re-scan loop when no limit is given.
const DefaultMaxPasses = 64

// ResolveStats describes a [Resolve] run.
type ResolveStats struct {
	Passes int // scans performed, including the final clean one
	Filled int // pixels switched to drawn
}

type pattern int

const (
	patternNone pattern = iota
	patternMain         // top-left + bottom-right drawn
	patternAnti         // top-right + bottom-left drawn
)

// windowPattern classifies the 2x2 window whose top-left cell is (c, r).
func windowPattern(g *PixelGrid, c, r int) pattern {
	tl, tr := g.At(c, r), g.At(c+1, r)
	bl, br := g.At(c, r+1), g.At(c+1, r+1)
	switch {
	case tl && br && !tr && !bl:
		return patternMain
	case tr && bl && !tl && !br:
		return patternAnti
	}
	return patternNone
}

// Resolve returns a copy of g in which no 2x2 window holds only a diagonal
// pair of drawn pixels. See the package documentation for the fill rule.
// It fails with UNRESOLVABLE_DIAGONAL_PATTERN when maxPasses scans (<= 0 means
// [DefaultMaxPasses]) leave a diagonal pair behind.
func Resolve(g *PixelGrid, maxPasses int) (*PixelGrid, ResolveStats, error) {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	work := g.clone()
	var stats ResolveStats
	for pass := 1; pass <= maxPasses; pass++ {
		stats.Passes = pass
		filled := resolvePass(work)
		stats.Filled += filled
		if filled == 0 {
			return work, stats, nil
		}
	}
	if n := CountDiagonals(work); n > 0 {
		return nil, stats, errors.New(errors.ErrCodeUnresolvablePattern,
			"%d diagonal patterns remain after %d passes", n, maxPasses)
	}
	return work, stats, nil
}

// resolvePass scans every window once, top row first, repairing patterns in
// place so later windows see earlier fills. It returns the number of fills.
func resolvePass(g *PixelGrid) int {
	filled := 0
	for r := 0; r < g.height-1; r++ {
		for c := 0; c < g.width-1; c++ {
			switch windowPattern(g, c, r) {
			case patternMain:
				fill(g, c+1, r, c, r+1)
				filled++
			case patternAnti:
				fill(g, c, r, c+1, r+1)
				filled++
			}
		}
	}
	return filled
}

// fill draws the top candidate unless that forms a new diagonal pair and the
// bottom candidate does not.
func fill(g *PixelGrid, topC, topR, bottomC, bottomR int) {
	if createsDiagonal(g, topC, topR) && !createsDiagonal(g, bottomC, bottomR) {
		g.set(bottomC, bottomR, true)
		return
	}
	g.set(topC, topR, true)
}

// createsDiagonal reports whether drawing (c, r) would leave any window that
// contains it holding a diagonal pair.
func createsDiagonal(g *PixelGrid, c, r int) bool {
	g.set(c, r, true)
	defer g.set(c, r, false)

	for wr := r - 1; wr <= r; wr++ {
		for wc := c - 1; wc <= c; wc++ {
			if wc < 0 || wr < 0 || wc >= g.width-1 || wr >= g.height-1 {
				continue
			}
			if windowPattern(g, wc, wr) != patternNone {
				return true
			}
		}
	}
	return false
}

// CountDiagonals returns the number of windows holding a diagonal pair.
func CountDiagonals(g *PixelGrid) int {
	n := 0
	for r := 0; r < g.height-1; r++ {
		for c := 0; c < g.width-1; c++ {
			if windowPattern(g, c, r) != patternNone {
				n++
			}
		}
	}
	return n
}
