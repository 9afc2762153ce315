package via

import (
	"slices"
	"testing"

	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/raster"
	"github.com/siliconmark/logocell/pkg/synth"
	"github.com/siliconmark/logocell/pkg/tech"
)

func TestPlace(t *testing.T) {
	tests := []struct {
		name  string
		lower []geom.Rect
		upper []geom.Rect
		rules Rules
		want  []geom.Rect
		stats Stats
	}{
		{
			name:  "one cut in 2x2 block",
			lower: []geom.Rect{geom.R(0, 0, 2000, 2000)},
			upper: []geom.Rect{geom.R(0, 0, 2000, 2000)},
			rules: Rules{Width: 1000, Height: 1000, Spacing: 1500},
			want:  []geom.Rect{geom.R(0, 0, 1000, 1000)},
			stats: Stats{Regions: 1, Cuts: 1},
		},
		{
			name:  "row of cuts",
			lower: []geom.Rect{geom.R(0, 0, 3000, 1000)},
			upper: []geom.Rect{geom.R(0, 0, 3000, 1000)},
			rules: Rules{Width: 500, Height: 500, Spacing: 500},
			want: []geom.Rect{
				geom.R(0, 0, 500, 500),
				geom.R(1000, 0, 1500, 500),
				geom.R(2000, 0, 2500, 500),
			},
			stats: Stats{Regions: 1, Cuts: 3},
		},
		{
			name:  "region too small",
			lower: []geom.Rect{geom.R(0, 0, 400, 400)},
			upper: []geom.Rect{geom.R(0, 0, 2000, 2000)},
			rules: Rules{Width: 500, Height: 500, Spacing: 500},
			want:  nil,
			stats: Stats{Regions: 1, Skipped: 1},
		},
		{
			name:  "edge contact is no region",
			lower: []geom.Rect{geom.R(0, 0, 1000, 1000)},
			upper: []geom.Rect{geom.R(1000, 0, 2000, 1000)},
			rules: Rules{Width: 100, Height: 100, Spacing: 100},
			want:  nil,
			stats: Stats{},
		},
		{
			name:  "overlapping regions share cuts",
			lower: []geom.Rect{geom.R(0, 0, 2000, 1000), geom.R(0, 0, 1000, 2000)},
			upper: []geom.Rect{geom.R(0, 0, 2000, 2000)},
			rules: Rules{Width: 500, Height: 500, Spacing: 500},
			want: []geom.Rect{
				geom.R(0, 0, 500, 500),
				geom.R(1000, 0, 1500, 500),
				geom.R(0, 1000, 500, 1500),
			},
			stats: Stats{Regions: 2, Rejected: 1, Cuts: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats, err := Place(tt.lower, tt.upper, tt.rules)
			if err != nil {
				t.Fatalf("Place: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Place() = %v, want %v", got, tt.want)
			}
			if stats != tt.stats {
				t.Errorf("stats = %+v, want %+v", stats, tt.stats)
			}
		})
	}
}

func TestPlaceInvalidRules(t *testing.T) {
	r := []geom.Rect{geom.R(0, 0, 10, 10)}
	for _, rules := range []Rules{{Width: 0, Height: 1}, {Width: 1, Height: 1, Spacing: -1}} {
		if _, _, err := Place(r, r, rules); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Place(%+v) error = %v, want INVALID_INPUT", rules, err)
		}
	}
}

func TestPlaceContainmentAndSpacing(t *testing.T) {
	g, err := raster.ParseGrid(
		"####....##",
		"####.##.##",
		"..#..##...",
		"..########",
		"#.....##..",
	)
	if err != nil {
		t.Fatal(err)
	}
	rects := synth.Decompose(g)
	lower, _, err := synth.Synthesize(rects, g.Height(), 1000, synth.Rules{MinWidth: 800, MinSpacing: 300}, synth.Options{})
	if err != nil {
		t.Fatal(err)
	}
	upper, _, err := synth.Synthesize(rects, g.Height(), 1000, synth.Rules{MinWidth: 1200, MinSpacing: 900}, synth.Options{})
	if err != nil {
		t.Fatal(err)
	}

	rules := Rules{Width: 300, Height: 250, Spacing: 200}
	cuts, stats, err := Place(lower, upper, rules)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(cuts) == 0 || stats.Cuts != len(cuts) {
		t.Fatalf("got %d cuts, stats %+v", len(cuts), stats)
	}

	for _, c := range cuts {
		if c.Width() != rules.Width || c.Height() != rules.Height {
			t.Errorf("cut %v has wrong size", c)
		}
		inLower := slices.ContainsFunc(lower, func(r geom.Rect) bool { return r.Contains(c) })
		inUpper := slices.ContainsFunc(upper, func(r geom.Rect) bool { return r.Contains(c) })
		if !inLower || !inUpper {
			t.Errorf("cut %v not inside both layers (lower %v, upper %v)", c, inLower, inUpper)
		}
	}
	for i := range cuts {
		for j := i + 1; j < len(cuts); j++ {
			if cuts[i].Overlaps(cuts[j]) || cuts[i].Gap2(cuts[j]) < rules.Spacing*rules.Spacing {
				t.Errorf("cuts %v and %v closer than %d", cuts[i], cuts[j], rules.Spacing)
			}
		}
	}
}

func TestStack(t *testing.T) {
	doc := `{
	  "metal1": {"layer": 1}, "metal2": {"layer": 2},
	  "via1": {"layer": 11, "width": 1.0, "height": 1.0, "spacing": 1.5}
	}`
	tc, err := tech.Parse([]byte(doc), tech.FormatJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g, err := raster.ParseGrid("##", "##")
	if err != nil {
		t.Fatal(err)
	}
	stack, err := tc.Stack(nil)
	if err != nil {
		t.Fatal(err)
	}
	metals, err := synth.Stack(g, 1000, tc, stack, synth.Options{})
	if err != nil {
		t.Fatalf("synth.Stack: %v", err)
	}
	vias, err := tc.ViasFor(stack)
	if err != nil {
		t.Fatalf("ViasFor: %v", err)
	}

	layers, err := Stack(metals, vias)
	if err != nil {
		t.Fatalf("Stack: %v", err)
	}
	if len(layers) != 1 {
		t.Fatalf("len(layers) = %d, want 1", len(layers))
	}
	lc := layers[0]
	if lc.Layer.Name != "via1" || lc.Lower != "metal1" || lc.Upper != "metal2" {
		t.Errorf("layer = %s %s->%s", lc.Layer.Name, lc.Lower, lc.Upper)
	}
	if got, want := lc.Cuts, []geom.Rect{geom.R(0, 0, 1000, 1000)}; !slices.Equal(got, want) {
		t.Errorf("cuts = %v, want %v", got, want)
	}

	if _, err := Stack(metals, append(vias, vias[0])); !errors.Is(err, errors.ErrCodeMissingConstraint) {
		t.Errorf("Stack() mismatched error = %v, want MISSING_CONSTRAINT", err)
	}
	if got, err := Stack(metals, nil); got != nil || err != nil {
		t.Errorf("Stack(no vias) = %v, %v; want nil, nil", got, err)
	}
}
