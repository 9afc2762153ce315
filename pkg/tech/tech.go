package tech

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
)

// Kind classifies a layer by its role in the logo stack.
type Kind int

const (
	KindMetal Kind = iota + 1
	KindVia
	KindOutline
	KindExclusion
)

func (k Kind) String() string {
	switch k {
	case KindMetal:
		return "metal"
	case KindVia:
		return "via"
	case KindOutline:
		return "outline"
	case KindExclusion:
		return "exclusion"
	default:
		return "unknown"
	}
}

// MetalRules are the width/area/spacing rules of a routing layer.
type MetalRules struct {
	MinWidth   float64 `json:"min_width"`   // µm
	MinArea    float64 `json:"min_area"`    // µm²
	MinSpacing float64 `json:"min_spacing"` // µm
}

// ViaRules fix the cut size and cut-to-cut spacing of a via layer.
type ViaRules struct {
	Width   float64 `json:"width"`   // µm
	Height  float64 `json:"height"`  // µm
	Spacing float64 `json:"spacing"` // µm
}

// Layer is one entry of the constraint document.
type Layer struct {
	Name     string     `json:"name"`
	Kind     Kind       `json:"kind"`
	Number   int        `json:"number,omitempty"` // N in metal<N>, via<N>, DM<N>EXCL
	GDSLayer int16      `json:"layer"`
	Datatype int16      `json:"datatype"`
	LEFName  string     `json:"lef_name,omitempty"`
	Metal    MetalRules `json:"metal"`
	Via      ViaRules   `json:"via"`
	Connects [2]string  `json:"connects"` // via layers only: lower, upper
}

// LEFLayerName returns the layer name to use in LEF output.
func (l Layer) LEFLayerName() string {
	if l.LEFName != "" {
		return l.LEFName
	}
	return l.Name
}

func (l Layer) String() string {
	return fmt.Sprintf("%s %s %d/%d", l.Kind, l.Name, l.GDSLayer, l.Datatype)
}

// DefaultOutline is used when the document has no "logo" entry.
var DefaultOutline = Layer{Name: "logo", Kind: KindOutline, GDSLayer: 100, Datatype: 0}

// Tech is the validated constraint set of one conversion.
type Tech struct {
	layers     map[string]Layer
	metals     []string
	vias       []string
	exclusions []string
	outline    Layer
	ignored    []string
}

// Layer looks up a layer by document name.
func (t *Tech) Layer(name string) (Layer, bool) {
	l, ok := t.layers[name]
	return l, ok
}

// Metals returns the metal layer names sorted bottom to top.
func (t *Tech) Metals() []string { return slices.Clone(t.metals) }

// Vias returns the via layer names sorted by number.
func (t *Tech) Vias() []string { return slices.Clone(t.vias) }

// HasVias reports whether the document defines any via layer.
func (t *Tech) HasVias() bool { return len(t.vias) > 0 }

// Outline returns the outline layer, [DefaultOutline] when not configured.
func (t *Tech) Outline() Layer { return t.outline }

// Exclusions returns the dummy-metal exclusion layers sorted by number.
func (t *Tech) Exclusions() []Layer {
	out := make([]Layer, 0, len(t.exclusions))
	for _, name := range t.exclusions {
		out = append(out, t.layers[name])
	}
	return out
}

// Ignored returns document keys that matched no known layer kind.
func (t *Tech) Ignored() []string { return slices.Clone(t.ignored) }

// ViaBetween returns the via layer joining two metal layers, in either order.
func (t *Tech) ViaBetween(lower, upper string) (Layer, bool) {
	for _, name := range t.vias {
		v := t.layers[name]
		if (v.Connects[0] == lower && v.Connects[1] == upper) ||
			(v.Connects[0] == upper && v.Connects[1] == lower) {
			return v, true
		}
	}
	return Layer{}, false
}

// Canonical returns a deterministic encoding of the constraint set, suitable
// for cache keys.
func (t *Tech) Canonical() []byte {
	layers := make([]Layer, 0, len(t.layers)+1)
	for _, l := range t.layers {
		layers = append(layers, l)
	}
	slices.SortFunc(layers, func(a, b Layer) int { return cmp.Compare(a.Name, b.Name) })
	if _, ok := t.layers[t.outline.Name]; !ok {
		layers = append(layers, t.outline)
	}
	data, _ := json.Marshal(layers)
	return data
}
