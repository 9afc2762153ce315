package raster

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/siliconmark/logocell/pkg/errors"
)

// DefaultThreshold is the luma threshold used when none is configured.
const DefaultThreshold = 128

// Binarize marks pixel (c, r) as drawn iff its luma is below threshold.
// threshold must be within [0, 255]; 0 draws nothing.
func Binarize(g Gray, threshold int) (*PixelGrid, error) {
	if threshold < 0 || threshold > 255 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "threshold %d outside [0, 255]", threshold)
	}
	if err := g.validate(); err != nil {
		return nil, err
	}

	out := newPixelGrid(g.Width, g.Height)
	for i, l := range g.Pix {
		out.cells[i] = int(l) < threshold
	}
	return out, nil
}

// OtsuThreshold picks the threshold that maximizes the between-class
// variance of the luma histogram. Images with a single luma level fall back
// to [DefaultThreshold].
func OtsuThreshold(g Gray) (int, error) {
	if err := g.validate(); err != nil {
		return 0, err
	}

	hist := make([]float64, 256)
	levels := make([]float64, 256)
	for i := range levels {
		levels[i] = float64(i)
	}
	for _, l := range g.Pix {
		hist[l]++
	}
	total := floats.Sum(hist)

	best, bestVar := DefaultThreshold, 0.0
	for t := 1; t < 256; t++ {
		w0 := floats.Sum(hist[:t])
		w1 := total - w0
		if w0 == 0 || w1 == 0 {
			continue
		}
		mu0 := stat.Mean(levels[:t], hist[:t])
		mu1 := stat.Mean(levels[t:], hist[t:])
		between := w0 * w1 * (mu0 - mu1) * (mu0 - mu1)
		if between > bestVar {
			best, bestVar = t, between
		}
	}
	return best, nil
}
