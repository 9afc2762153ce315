package sink

import (
	"encoding/json"

	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	macro  string
	source string
	stats  any
}

// WithJSONMacro records the LEF macro name.
func WithJSONMacro(name string) JSONOption { return func(r *jsonRenderer) { r.macro = name } }

// WithJSONSource records the input image the layout was generated from.
func WithJSONSource(path string) JSONOption { return func(r *jsonRenderer) { r.source = path } }

// WithJSONStats embeds conversion statistics. The value must marshal to JSON.
func WithJSONStats(stats any) JSONOption { return func(r *jsonRenderer) { r.stats = stats } }

type jsonOutput struct {
	Cell   string      `json:"cell"`
	Macro  string      `json:"macro,omitempty"`
	Source string      `json:"source,omitempty"`
	Units  string      `json:"units"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Shift  [2]float64  `json:"shift"`
	Layers []jsonLayer `json:"layers"`
	Stats  any         `json:"stats,omitempty"`
}

type jsonLayer struct {
	Name     string       `json:"name"`
	Kind     string       `json:"kind"`
	Layer    int16        `json:"layer"`
	Datatype int16        `json:"datatype"`
	Rects    [][4]float64 `json:"rects"`
}

// RenderJSON exports l with coordinates in micrometres.
func RenderJSON(l *layout.Layout, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Cell:   l.Cell,
		Macro:  r.macro,
		Source: r.source,
		Units:  "um",
		Width:  geom.ToMicrons(l.Bounds.Width()),
		Height: geom.ToMicrons(l.Bounds.Height()),
		Shift:  [2]float64{geom.ToMicrons(l.Shift.X), geom.ToMicrons(l.Shift.Y)},
		Stats:  r.stats,
	}
	for _, ls := range l.Layers() {
		jl := jsonLayer{
			Name:     ls.Layer.Name,
			Kind:     ls.Layer.Kind.String(),
			Layer:    ls.Layer.GDSLayer,
			Datatype: ls.Layer.Datatype,
			Rects:    make([][4]float64, 0, len(ls.Rects)),
		}
		for _, rect := range ls.Rects {
			jl.Rects = append(jl.Rects, [4]float64{
				geom.ToMicrons(rect.X0), geom.ToMicrons(rect.Y0),
				geom.ToMicrons(rect.X1), geom.ToMicrons(rect.Y1),
			})
		}
		out.Layers = append(out.Layers, jl)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEmitFailure, err, "encode layout JSON")
	}
	return data, nil
}
