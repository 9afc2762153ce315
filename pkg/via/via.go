// Package via places via cuts where adjacent metal layers overlap.
//
// Every overlap region between a lower and an upper shape that can hold a
// whole cut is tiled from its lower-left corner, stepping by cut size plus
// spacing on each axis. Regions from different shape pairs may overlap, so a
// candidate is kept only when it clears every cut already accepted on the
// same via layer by at least the spacing rule.
package via

import (
	"fmt"

	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/synth"
	"github.com/siliconmark/logocell/pkg/tech"
)

// Rules are via rules in database units.
type Rules struct {
	Width   int64
	Height  int64
	Spacing int64
}

// RulesFor converts micrometre via rules. Cut sizes round to the nearest
// unit; spacing rounds up.
func RulesFor(v tech.ViaRules) Rules {
	return Rules{
		Width:   geom.ToDBU(v.Width),
		Height:  geom.ToDBU(v.Height),
		Spacing: geom.CeilDBU(v.Spacing),
	}
}

// Stats count the work done for one via layer.
type Stats struct {
	Regions  int `json:"regions"`  // overlap regions found
	Skipped  int `json:"skipped"`  // regions too small for one cut
	Rejected int `json:"rejected"` // candidates too close to an accepted cut
	Cuts     int `json:"cuts"`
}

// Place returns the cuts joining lower and upper.
func Place(lower, upper []geom.Rect, rules Rules) ([]geom.Rect, Stats, error) {
	var stats Stats
	if rules.Width <= 0 || rules.Height <= 0 {
		return nil, stats, errors.New(errors.ErrCodeInvalidInput, "via size must be > 0, got %dx%d DBU", rules.Width, rules.Height)
	}
	if rules.Spacing < 0 {
		return nil, stats, errors.New(errors.ErrCodeInvalidInput, "via spacing must be >= 0, got %d DBU", rules.Spacing)
	}

	stepX := rules.Width + rules.Spacing
	stepY := rules.Height + rules.Spacing

	upperIndex := geom.NewIndex(max(stepX, stepY) * 4)
	for i, r := range upper {
		upperIndex.Insert(i, r)
	}
	cutIndex := geom.NewIndex(max(stepX, stepY))

	var cuts []geom.Rect
	accept := func(c geom.Rect) bool {
		ok := true
		cutIndex.Query(c.Grow(rules.Spacing), func(id int) {
			o := cuts[id]
			if c.Overlaps(o) || c.Gap2(o) < rules.Spacing*rules.Spacing {
				ok = false
			}
		})
		return ok
	}

	for _, lo := range lower {
		upperIndex.Query(lo, func(j int) {
			region := lo.Intersect(upper[j])
			if region.Empty() {
				return
			}
			stats.Regions++
			if region.Width() < rules.Width || region.Height() < rules.Height {
				stats.Skipped++
				return
			}
			for y := region.Y0; y+rules.Height <= region.Y1; y += stepY {
				for x := region.X0; x+rules.Width <= region.X1; x += stepX {
					c := geom.R(x, y, x+rules.Width, y+rules.Height)
					if !accept(c) {
						stats.Rejected++
						continue
					}
					cutIndex.Insert(len(cuts), c)
					cuts = append(cuts, c)
				}
			}
		})
	}
	stats.Cuts = len(cuts)
	return cuts, stats, nil
}

// LayerCuts is the cut set of one via layer.
type LayerCuts struct {
	Layer tech.Layer
	Lower string
	Upper string
	Cuts  []geom.Rect
	Stats Stats
}

// Stack places cuts for each adjacent pair of metal layers. vias holds one
// via layer per pair, bottom to top, or none to skip placement.
func Stack(metals []synth.LayerShapes, vias []tech.Layer) ([]LayerCuts, error) {
	if len(vias) == 0 {
		return nil, nil
	}
	if len(vias) != len(metals)-1 {
		return nil, errors.New(errors.ErrCodeMissingConstraint, "%d metal layers need %d via layers, got %d", len(metals), len(metals)-1, len(vias))
	}
	out := make([]LayerCuts, 0, len(vias))
	for i, v := range vias {
		lower, upper := metals[i], metals[i+1]
		cuts, stats, err := Place(lower.Rects, upper.Rects, RulesFor(v.Via))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v.Name, err)
		}
		out = append(out, LayerCuts{
			Layer: v,
			Lower: lower.Layer.Name,
			Upper: upper.Layer.Name,
			Cuts:  cuts,
			Stats: stats,
		})
	}
	return out, nil
}
