package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/siliconmark/logocell/pkg/cache"
	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/raster"
)

// Raster is the outcome of the raster stage.
type Raster struct {
	Grid      *raster.PixelGrid
	Threshold int // threshold actually applied
	Drawn     int // drawn pixels before diagonal resolution
	Passes    int
	Filled    int
}

// gridEntry is the cached form of a Raster.
type gridEntry struct {
	Rows      []string `json:"rows"`
	Threshold int      `json:"threshold"`
	Drawn     int      `json:"drawn"`
	Passes    int      `json:"passes"`
	Filled    int      `json:"filled"`
}

// ImageData returns the encoded input image.
func (o *Options) ImageData() ([]byte, error) {
	if len(o.Image) > 0 {
		return o.Image, nil
	}
	data, err := os.ReadFile(o.ImagePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read image %s", o.ImagePath)
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image %s is empty", o.ImagePath)
	}
	return data, nil
}

// Rasterize decodes an image, binarizes it and resolves diagonal pairs.
func Rasterize(data []byte, opts Options) (*Raster, error) {
	img, err := raster.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	gray := raster.FromImage(img)

	threshold := DefaultThreshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}
	if threshold == ThresholdAuto {
		if threshold, err = raster.OtsuThreshold(gray); err != nil {
			return nil, err
		}
	}

	bin, err := raster.Binarize(gray, threshold)
	if err != nil {
		return nil, err
	}
	grid, stats, err := raster.Resolve(bin, opts.MaxPasses)
	if err != nil {
		return nil, err
	}
	return &Raster{
		Grid:      grid,
		Threshold: threshold,
		Drawn:     bin.Count(),
		Passes:    stats.Passes,
		Filled:    stats.Filled,
	}, nil
}

// RasterWithCacheInfo rasterizes with caching and returns cache hit info.
func (r *Runner) RasterWithCacheInfo(ctx context.Context, data []byte, imageHash string, opts Options) (*Raster, bool, error) {
	key := r.Keyer.GridKey(imageHash, opts.GridKeyOpts())

	if cached, ok := r.cacheGet(ctx, key, "grid", opts.Refresh); ok {
		if ras, err := decodeGridEntry(cached); err == nil {
			return ras, true, nil
		}
	}

	ras, err := Rasterize(data, opts)
	if err != nil {
		return nil, false, err
	}
	if entry, err := encodeGridEntry(ras); err == nil {
		r.cacheSet(ctx, key, "grid", entry, cache.TTLGrid)
	}
	return ras, false, nil
}

func encodeGridEntry(ras *Raster) ([]byte, error) {
	return json.Marshal(gridEntry{
		Rows:      strings.Split(ras.Grid.String(), "\n"),
		Threshold: ras.Threshold,
		Drawn:     ras.Drawn,
		Passes:    ras.Passes,
		Filled:    ras.Filled,
	})
}

func decodeGridEntry(data []byte) (*Raster, error) {
	var e gridEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	grid, err := raster.ParseGrid(e.Rows...)
	if err != nil {
		return nil, err
	}
	return &Raster{
		Grid:      grid,
		Threshold: e.Threshold,
		Drawn:     e.Drawn,
		Passes:    e.Passes,
		Filled:    e.Filled,
	}, nil
}
