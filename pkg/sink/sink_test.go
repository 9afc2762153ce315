package sink

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/layout"
	"github.com/siliconmark/logocell/pkg/tech"
)

func testLayout() *layout.Layout {
	m1 := tech.Layer{Name: "metal1", Kind: tech.KindMetal, GDSLayer: 68, Datatype: 20}
	v1 := tech.Layer{Name: "via1", Kind: tech.KindVia, GDSLayer: 68, Datatype: 44}
	return &layout.Layout{
		Cell:    "LOGO",
		Bounds:  geom.R(0, 0, 4000, 2000),
		Shift:   geom.Point{X: 500},
		Metals:  []layout.LayerSet{{Layer: m1, Rects: []geom.Rect{geom.R(0, 0, 2000, 2000)}}},
		Vias:    []layout.LayerSet{{Layer: v1, Rects: []geom.Rect{geom.R(500, 500, 1000, 1000)}}},
		Outline: layout.LayerSet{Layer: tech.DefaultOutline, Rects: []geom.Rect{geom.R(0, 0, 4000, 2000)}},
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testLayout(), WithJSONMacro("LOGO_CELL"), WithJSONSource("logo.png"),
		WithJSONStats(map[string]int{"shapes": 3}))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Cell != "LOGO" || out.Macro != "LOGO_CELL" || out.Source != "logo.png" {
		t.Errorf("header = %q %q %q", out.Cell, out.Macro, out.Source)
	}
	if out.Width != 4 || out.Height != 2 || out.Shift != [2]float64{0.5, 0} {
		t.Errorf("size = %v x %v shift %v", out.Width, out.Height, out.Shift)
	}
	if len(out.Layers) != 3 {
		t.Fatalf("got %d layers, want 3", len(out.Layers))
	}
	if l := out.Layers[1]; l.Name != "via1" || l.Kind != "via" || l.Rects[0] != [4]float64{0.5, 0.5, 1, 1} {
		t.Errorf("via layer = %+v", l)
	}
	if l := out.Layers[2]; l.Kind != "outline" || l.Layer != 100 {
		t.Errorf("outline layer = %+v", l)
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(testLayout(), WithMaxSide(200))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("size = %v, want 200x100", b)
	}

	white := color.NRGBAModel.Convert(color.White)
	if got := color.NRGBAModel.Convert(img.At(150, 50)); got != white {
		t.Errorf("empty area = %v, want white", got)
	}
	if got := color.NRGBAModel.Convert(img.At(90, 10)); got == white {
		t.Error("metal area is white")
	}
	// Via at (0.5..1, 0.5..1) µm lands at x 25..50, y 50..75.
	r, g, b, _ := img.At(30, 60).RGBA()
	if r>>8 > 40 || g>>8 > 40 || b>>8 > 40 {
		t.Errorf("via pixel = %d,%d,%d, want near black", r>>8, g>>8, b>>8)
	}
}

func TestRenderPNGEmptyBounds(t *testing.T) {
	if _, err := RenderPNG(&layout.Layout{}); err == nil {
		t.Error("RenderPNG() on empty layout succeeded")
	}
}

func TestLayerColors(t *testing.T) {
	a, _ := colorful.Hex("#000000")
	b, _ := colorful.Hex("#ffffff")
	got := LayerColors(3, a, b)
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Hex() != "#000000" || got[2].Hex() != "#ffffff" {
		t.Errorf("ends = %s %s", got[0].Hex(), got[2].Hex())
	}
	if l0, l1 := lightness(got[0]), lightness(got[1]); l1 <= l0 {
		t.Errorf("middle color not lighter: %v <= %v", l1, l0)
	}
	if single := LayerColors(1, a, b); single[0].Hex() != "#000000" {
		t.Errorf("single layer = %s", single[0].Hex())
	}
}

func lightness(c colorful.Color) float64 {
	l, _, _ := c.Lab()
	return l
}
