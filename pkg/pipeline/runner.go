package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/siliconmark/logocell/pkg/cache"
	"github.com/siliconmark/logocell/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options; each
// Execute owns its grid, constraint set and shapes.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete raster → synthesize → vias → emit pipeline.
// Options and the layer plan are validated before any geometry is computed.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	t, err := opts.LoadTech()
	if err != nil {
		return nil, err
	}
	for _, name := range t.Ignored() {
		logger.Warn("ignoring unknown layer", "layer", name)
	}
	plan, err := PlanLayers(t, opts)
	if err != nil {
		return nil, err
	}
	img, err := opts.ImageData()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Tech:      t,
		ImageHash: cache.Hash(img),
		RulesHash: cache.Hash(t.Canonical()),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Raster
	var ras *Raster
	result.Stats.RasterTime, err = stage(ctx, observability.StageRaster, func() error {
		var hit bool
		ras, hit, err = r.RasterWithCacheInfo(ctx, img, result.ImageHash, opts)
		result.CacheInfo.GridHit = hit
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Grid = ras.Grid
	result.Stats.Width, result.Stats.Height = ras.Grid.Width(), ras.Grid.Height()
	result.Stats.Threshold = ras.Threshold
	result.Stats.Drawn = ras.Drawn
	result.Stats.Passes, result.Stats.Filled = ras.Passes, ras.Filled

	logger.Info("resolved pixel grid",
		"size", ras.Grid.Width()*ras.Grid.Height(),
		"drawn", ras.Grid.Count(),
		"filled", ras.Filled,
		"cached", result.CacheInfo.GridHit,
		"duration", result.Stats.RasterTime)

	// Stage 2: Synthesize
	var geo *Geometry
	result.Stats.SynthTime, err = stage(ctx, observability.StageSynthesize, func() error {
		geo, err = Synthesize(ras.Grid, t, plan, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Stack = geo.Stack
	for _, m := range geo.Metals {
		result.Stats.Layers = append(result.Stats.Layers, LayerStats{Name: m.Layer.Name, Stats: m.Stats})
		result.Stats.Shapes += len(m.Rects)
	}

	logger.Info("synthesized shapes",
		"layers", len(geo.Metals),
		"shapes", result.Stats.Shapes,
		"duration", result.Stats.SynthTime)

	// Stage 3: Vias
	result.Stats.ViaTime, err = stage(ctx, observability.StageVias, func() error {
		return geo.PlaceVias(plan)
	})
	if err != nil {
		return nil, err
	}
	for _, c := range geo.Cuts {
		result.Stats.Vias = append(result.Stats.Vias, ViaStats{Name: c.Layer.Name, Stats: c.Stats})
		result.Stats.Cuts += len(c.Cuts)
	}
	result.Layout = geo.Layout(ras.Grid, t, opts)

	if len(geo.Cuts) > 0 {
		logger.Info("placed vias",
			"layers", len(geo.Cuts),
			"cuts", result.Stats.Cuts,
			"duration", result.Stats.ViaTime)
	}

	// Stage 4: Emit
	result.Stats.EmitTime, err = stage(ctx, observability.StageEmit, func() error {
		var hit bool
		result.Artifacts, hit, err = r.RenderWithCacheInfo(ctx, result, opts)
		result.CacheInfo.ArtifactHit = hit
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("encoded outputs",
		"formats", opts.Formats,
		"cached", result.CacheInfo.ArtifactHit,
		"duration", result.Stats.EmitTime)

	observability.Pipeline().OnConversionComplete(ctx, result.Layout.ShapeCount(), result.Layout.ViaCount(), result.Stats.Total())
	return result, nil
}

// RenderWithCacheInfo encodes every requested format, reusing cached
// outputs. The flag reports whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(result.ImageHash, result.RulesHash, opts.ArtifactKeyOpts(format))
		if data, ok := r.cacheGet(ctx, key, "artifact", opts.Refresh); ok {
			artifacts[format] = data
			continue
		}
		allHit = false

		data, err := Render(result.Layout, format, opts, &result.Stats)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		r.cacheSet(ctx, key, "artifact", data, cache.TTLArtifact)
	}
	return artifacts, allHit, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cacheGet reads key, treating backend errors as misses.
func (r *Runner) cacheGet(ctx context.Context, key, keyType string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "type", keyType, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// cacheSet stores data under key. Failures are logged and ignored.
func (r *Runner) cacheSet(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// stage runs fn between the pipeline hooks and returns its duration.
func stage(ctx context.Context, name string, fn func() error) (time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	d := time.Since(start)
	hooks.OnStageComplete(ctx, name, d, err)
	return d, err
}
