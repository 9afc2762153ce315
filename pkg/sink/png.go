package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/layout"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	maxSide int
	low     colorful.Color
	high    colorful.Color
	via     colorful.Color
	alpha   uint8
}

// WithMaxSide sets the length in pixels of the preview's longer side
// (default 512).
func WithMaxSide(px int) PNGOption {
	return func(r *pngRenderer) {
		if px > 0 {
			r.maxSide = px
		}
	}
}

// WithPalette sets the colors of the bottom and top metal layers. Layers in
// between are blended in CIE L*a*b* space.
func WithPalette(bottom, top colorful.Color) PNGOption {
	return func(r *pngRenderer) { r.low, r.high = bottom, top }
}

// LayerColors returns one color per metal layer, bottom to top.
func LayerColors(n int, bottom, top colorful.Color) []colorful.Color {
	out := make([]colorful.Color, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = bottom.BlendLab(top, t).Clamped()
	}
	return out
}

// RenderPNG draws a top-down preview of l.
func RenderPNG(l *layout.Layout, opts ...PNGOption) ([]byte, error) {
	low, _ := colorful.Hex("#2c7bb6")
	high, _ := colorful.Hex("#d7191c")
	via, _ := colorful.Hex("#1a1a1a")
	r := pngRenderer{maxSide: 512, low: low, high: high, via: via, alpha: 170}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := l.Bounds.Width(), l.Bounds.Height()
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeEmitFailure, "layout has empty bounds %v", l.Bounds)
	}
	scale := float64(r.maxSide) / float64(max(w, h))
	iw, ih := max(1, int(float64(w)*scale+0.5)), max(1, int(float64(h)*scale+0.5))

	img := image.NewNRGBA(image.Rect(0, 0, iw, ih))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	toPixels := func(rc geom.Rect) image.Rectangle {
		x0 := int(float64(rc.X0) * scale)
		x1 := int(float64(rc.X1)*scale + 0.5)
		// Layout y grows upward, image y downward.
		y0 := ih - int(float64(rc.Y1)*scale+0.5)
		y1 := ih - int(float64(rc.Y0)*scale)
		return image.Rect(x0, y0, max(x1, x0+1), max(y1, y0+1))
	}
	fill := func(rects []geom.Rect, c colorful.Color, alpha uint8) {
		cr, cg, cb := c.RGB255()
		src := image.NewUniform(color.NRGBA{R: cr, G: cg, B: cb, A: alpha})
		for _, rc := range rects {
			draw.Draw(img, toPixels(rc), src, image.Point{}, draw.Over)
		}
	}

	for i, c := range LayerColors(len(l.Metals), r.low, r.high) {
		fill(l.Metals[i].Rects, c, r.alpha)
	}
	for _, v := range l.Vias {
		fill(v.Rects, r.via, 255)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEmitFailure, err, "encode preview PNG")
	}
	return buf.Bytes(), nil
}
