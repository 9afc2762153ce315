package synth

import "github.com/siliconmark/logocell/pkg/geom"

// mergeClose replaces every too-close pair with its bounding box until no
// pair violates. It returns the number of merges. Each merge retires one
// shape, so the loop ends after at most len(arena) passes.
func mergeClose(arena []shape, rules Rules, pitch int64) int {
	s := rules.MinSpacing
	if s <= 0 {
		return 0
	}
	merges := 0
	for {
		index := geom.NewIndex(max(s, pitch))
		for i := range arena {
			if arena[i].alive {
				index.Insert(i, arena[i].rect)
			}
		}

		passMerges := 0
		for i := range arena {
			if !arena[i].alive {
				continue
			}
			index.Query(arena[i].rect.Grow(s), func(j int) {
				if j == i || !arena[j].alive {
					return
				}
				if !tooClose(arena[i].rect, arena[j].rect, s) {
					return
				}
				arena[i].rect, _ = fixSize(arena[i].rect.Union(arena[j].rect), rules)
				arena[i].changed = true
				arena[j].alive = false
				passMerges++
			})
		}
		merges += passMerges
		if passMerges == 0 {
			return merges
		}
	}
}
