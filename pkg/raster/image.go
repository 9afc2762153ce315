package raster

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/siliconmark/logocell/pkg/errors"
)

// Image is an interleaved 8-bit pixel buffer. Channels is 1 (gray),
// 2 (gray+alpha), 3 (RGB) or 4 (RGBA, straight alpha).
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// Gray is a single-channel luminance grid, row-major from the top-left.
type Gray struct {
	Width  int
	Height int
	Pix    []uint8
}

// At returns the luminance at (c, r).
func (g Gray) At(c, r int) uint8 {
	return g.Pix[r*g.Width+c]
}

func (g Gray) validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "image has no pixels (%dx%d)", g.Width, g.Height)
	}
	if len(g.Pix) != g.Width*g.Height {
		return errors.New(errors.ErrCodeInvalidInput, "luminance buffer has %d samples, want %d", len(g.Pix), g.Width*g.Height)
	}
	return nil
}

// Luma returns the BT.601 luma of an opaque RGB sample.
func Luma(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}

// overWhite composites a straight-alpha sample over a white background.
func overWhite(c, a uint8) uint8 {
	return uint8((uint32(c)*uint32(a) + 255*(255-uint32(a)) + 127) / 255)
}

// Luminance reduces a multi-channel image to luma.
func Luminance(img Image) (Gray, error) {
	if img.Width <= 0 || img.Height <= 0 {
		return Gray{}, errors.New(errors.ErrCodeInvalidInput, "image has no pixels (%dx%d)", img.Width, img.Height)
	}
	if img.Channels < 1 || img.Channels > 4 {
		return Gray{}, errors.New(errors.ErrCodeInvalidInput, "unsupported channel count %d", img.Channels)
	}
	n := img.Width * img.Height
	if len(img.Pix) != n*img.Channels {
		return Gray{}, errors.New(errors.ErrCodeInvalidInput, "pixel buffer has %d bytes, want %d", len(img.Pix), n*img.Channels)
	}

	out := Gray{Width: img.Width, Height: img.Height, Pix: make([]uint8, n)}
	for i := range n {
		px := img.Pix[i*img.Channels : (i+1)*img.Channels]
		switch img.Channels {
		case 1:
			out.Pix[i] = px[0]
		case 2:
			out.Pix[i] = overWhite(px[0], px[1])
		case 3:
			out.Pix[i] = Luma(px[0], px[1], px[2])
		case 4:
			out.Pix[i] = Luma(overWhite(px[0], px[3]), overWhite(px[1], px[3]), overWhite(px[2], px[3]))
		}
	}
	return out, nil
}

// FromImage reduces a decoded image to luma using the same formula as
// [Luminance].
func FromImage(img image.Image) Gray {
	b := img.Bounds()
	out := Gray{Width: b.Dx(), Height: b.Dy(), Pix: make([]uint8, b.Dx()*b.Dy())}
	if gray, ok := img.(*image.Gray); ok {
		for y := range out.Height {
			copy(out.Pix[y*out.Width:(y+1)*out.Width], gray.Pix[y*gray.Stride:])
		}
		return out
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			l := Luma(overWhite(c.R, c.A), overWhite(c.G, c.A), overWhite(c.B, c.A))
			out.Pix[(y-b.Min.Y)*out.Width+(x-b.Min.X)] = l
		}
	}
	return out
}

// Load decodes an image file. PNG, JPEG, GIF, BMP, TIFF and WebP are
// registered.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open image %s", path)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decode reads an encoded image in any registered format.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode image")
	}
	return img, nil
}
