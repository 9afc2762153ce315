package synth

import (
	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/tech"
)

// Rules are metal rules snapped to database units. MinArea is in DBU².
type Rules struct {
	MinWidth   int64
	MinArea    int64
	MinSpacing int64
}

// RulesFor snaps a layer's micrometre rules up to the DBU grid.
func RulesFor(m tech.MetalRules) Rules {
	return Rules{
		MinWidth:   geom.CeilDBU(m.MinWidth),
		MinArea:    geom.CeilDBU2(m.MinArea),
		MinSpacing: geom.CeilDBU(m.MinSpacing),
	}
}

// Options bound synthesis.
type Options struct {
	// MaxShapeSize is the largest width or height, in DBU, that a grown or
	// merged shape may reach. Zero disables the check.
	MaxShapeSize int64
}

// Stats describe one layer's synthesis.
type Stats struct {
	Rects  int `json:"rects"`  // rectangles from the decomposition
	Grown  int `json:"grown"`  // rectangles enlarged by width or area repair
	Merged int `json:"merged"` // spacing merges performed
	Shapes int `json:"shapes"` // surviving shapes
}

type shape struct {
	rect    geom.Rect
	changed bool
	alive   bool
}

// Synthesize builds the shapes of one metal layer from pixel rectangles of a
// grid with the given height.
func Synthesize(rects []PixelRect, gridHeight int, pitch int64, rules Rules, opts Options) ([]geom.Rect, Stats, error) {
	if pitch <= 0 {
		return nil, Stats{}, errors.New(errors.ErrCodeInvalidInput, "pixel pitch must be > 0 DBU, got %d", pitch)
	}
	stats := Stats{Rects: len(rects)}

	arena := make([]shape, len(rects))
	for i, pr := range rects {
		r, grown := fixSize(pr.Rect(gridHeight, pitch), rules)
		if grown {
			stats.Grown++
		}
		arena[i] = shape{rect: r, changed: grown, alive: true}
	}

	stats.Merged = mergeClose(arena, rules, pitch)

	out := make([]geom.Rect, 0, len(arena)-stats.Merged)
	for _, s := range arena {
		if !s.alive {
			continue
		}
		if opts.MaxShapeSize > 0 && s.changed &&
			(s.rect.Width() > opts.MaxShapeSize || s.rect.Height() > opts.MaxShapeSize) {
			return nil, stats, errors.New(errors.ErrCodeGeometryViolation,
				"shape %v is %dx%d DBU after rule repair, ceiling is %d",
				s.rect, s.rect.Width(), s.rect.Height(), opts.MaxShapeSize)
		}
		out = append(out, s.rect)
	}
	stats.Shapes = len(out)
	return out, stats, nil
}

// fixSize applies the width then the area repair.
func fixSize(r geom.Rect, rules Rules) (geom.Rect, bool) {
	orig := r
	if w := r.Width(); w < rules.MinWidth {
		r.X0, r.X1 = grow(r.X0, r.X1, rules.MinWidth)
	}
	if h := r.Height(); h < rules.MinWidth {
		r.Y0, r.Y1 = grow(r.Y0, r.Y1, rules.MinWidth)
	}
	if r.Area() < rules.MinArea {
		w, h := r.Width(), r.Height()
		if w >= h {
			r.X0, r.X1 = grow(r.X0, r.X1, ceilDiv(rules.MinArea, h))
		} else {
			r.Y0, r.Y1 = grow(r.Y0, r.Y1, ceilDiv(rules.MinArea, w))
		}
	}
	return r, r != orig
}

// grow widens [lo, hi] to length about its center, odd unit on the high side.
func grow(lo, hi, length int64) (int64, int64) {
	extra := length - (hi - lo)
	if extra <= 0 {
		return lo, hi
	}
	lo -= extra / 2
	return lo, lo + length
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

// tooClose reports a spacing violation between two shapes.
func tooClose(a, b geom.Rect, spacing int64) bool {
	if spacing <= 0 || a.Connected(b) {
		return false
	}
	return a.Gap2(b) < spacing*spacing
}
