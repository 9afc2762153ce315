// Package layout assembles synthesized metal shapes and via cuts into the
// finished cell and hands its shapes to format writers.
package layout

import (
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/synth"
	"github.com/siliconmark/logocell/pkg/tech"
	"github.com/siliconmark/logocell/pkg/via"
)

// DefaultCell is the GDS structure name used when none is configured.
const DefaultCell = "LOGO"

// LayerSet is the shape set of one layer.
type LayerSet struct {
	Layer tech.Layer
	Rects []geom.Rect
}

// Layout is a finished cell. All coordinates are non-negative and Bounds
// starts at the origin.
type Layout struct {
	Cell       string
	Bounds     geom.Rect
	Shift      geom.Point // translation applied to keep coordinates non-negative
	Metals     []LayerSet // bottom to top
	Vias       []LayerSet // bottom to top
	Outline    LayerSet
	Exclusions []LayerSet
}

// Spec carries what New needs beyond the shapes.
type Spec struct {
	Cell       string
	GridWidth  int
	GridHeight int
	Pitch      int64
}

// New assembles a layout. The nominal box is the pixel grid footprint; when
// rule repair grew shapes past it, the box grows to cover them and everything
// is shifted so the lower-left corner sits at (0, 0).
func New(spec Spec, metals []synth.LayerShapes, cuts []via.LayerCuts, t *tech.Tech) *Layout {
	cell := spec.Cell
	if cell == "" {
		cell = DefaultCell
	}
	l := &Layout{Cell: cell}

	box := geom.R(0, 0, int64(spec.GridWidth)*spec.Pitch, int64(spec.GridHeight)*spec.Pitch)
	for _, m := range metals {
		if len(m.Rects) > 0 {
			box = box.Union(geom.Bounds(m.Rects))
		}
	}
	dx, dy := -box.X0, -box.Y0
	l.Shift = geom.Point{X: dx, Y: dy}
	l.Bounds = box.Translate(dx, dy)

	for _, m := range metals {
		l.Metals = append(l.Metals, LayerSet{Layer: m.Layer, Rects: translateAll(m.Rects, dx, dy)})
	}
	for _, c := range cuts {
		l.Vias = append(l.Vias, LayerSet{Layer: c.Layer, Rects: translateAll(c.Cuts, dx, dy)})
	}
	l.Outline = LayerSet{Layer: t.Outline(), Rects: []geom.Rect{l.Bounds}}
	for _, ex := range t.Exclusions() {
		if !exclusionApplies(ex, spec.Pitch) {
			continue
		}
		l.Exclusions = append(l.Exclusions, LayerSet{Layer: ex, Rects: []geom.Rect{l.Bounds}})
	}
	return l
}

// exclusionApplies reports whether the pixel pitch meets the exclusion
// layer's own width and area minimums.
func exclusionApplies(ex tech.Layer, pitch int64) bool {
	return pitch >= geom.CeilDBU(ex.Metal.MinWidth) && pitch*pitch >= geom.CeilDBU2(ex.Metal.MinArea)
}

func translateAll(rects []geom.Rect, dx, dy int64) []geom.Rect {
	if len(rects) == 0 {
		return nil
	}
	out := make([]geom.Rect, len(rects))
	for i, r := range rects {
		out[i] = r.Translate(dx, dy)
	}
	return out
}

// Layers returns every layer in emission order: metals, vias, outline,
// exclusions.
func (l *Layout) Layers() []LayerSet {
	out := make([]LayerSet, 0, len(l.Metals)+len(l.Vias)+1+len(l.Exclusions))
	out = append(out, l.Metals...)
	out = append(out, l.Vias...)
	out = append(out, l.Outline)
	out = append(out, l.Exclusions...)
	return out
}

// Metal returns the metal layer with the given name.
func (l *Layout) Metal(name string) (LayerSet, bool) {
	for _, m := range l.Metals {
		if m.Layer.Name == name {
			return m, true
		}
	}
	return LayerSet{}, false
}

// ShapeCount returns the number of rectangles across all layers.
func (l *Layout) ShapeCount() int {
	n := 0
	for _, ls := range l.Layers() {
		n += len(ls.Rects)
	}
	return n
}

// ViaCount returns the number of via cuts.
func (l *Layout) ViaCount() int {
	n := 0
	for _, v := range l.Vias {
		n += len(v.Rects)
	}
	return n
}
