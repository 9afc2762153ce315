// Package pipeline provides the logo conversion pipeline shared by the CLI
// and the HTTP API.
//
// A conversion runs four stages:
//
//  1. Raster: decode the image, binarize it and resolve diagonal pixel pairs
//  2. Synthesize: build rule-compliant metal shapes for every stack layer
//  3. Vias: place cuts between adjacent metal layers
//  4. Emit: encode the layout as GDS, LEF, JSON or PNG
//
// The resolved grid and the encoded outputs are cached; geometry is always
// recomputed from the grid.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ImagePath: "logo.png",
//	    RulesPath: "rules.json",
//	    PixelSize: 0.5,
//	})
//	if err != nil {
//	    return err
//	}
//	files, err := pipeline.WriteArtifacts("out", result.Artifacts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/siliconmark/logocell/pkg/cache"
	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/layout"
	"github.com/siliconmark/logocell/pkg/raster"
	"github.com/siliconmark/logocell/pkg/sink/gds"
	"github.com/siliconmark/logocell/pkg/sink/lef"
	"github.com/siliconmark/logocell/pkg/tech"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPixelSize is the edge length of one image pixel in micrometres.
	DefaultPixelSize = 1.0

	// DefaultThreshold is the luma cut-off used when none is configured.
	DefaultThreshold = raster.DefaultThreshold

	// DefaultMaxPasses bounds the diagonal resolver.
	DefaultMaxPasses = raster.DefaultMaxPasses

	// ThresholdAuto selects Otsu's threshold instead of a fixed one.
	ThresholdAuto = -1
)

// Output defaults.
const (
	DefaultCell    = layout.DefaultCell
	DefaultMacro   = lef.DefaultMacro
	DefaultLibrary = gds.DefaultLibrary
)

// Format constants for output formats.
const (
	FormatGDS  = "gds"
	FormatLEF  = "lef"
	FormatJSON = "json"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatGDS:  true,
	FormatLEF:  true,
	FormatJSON: true,
	FormatPNG:  true,
}

// DefaultFormats are written when no format is requested.
var DefaultFormats = []string{FormatGDS, FormatLEF}

// ViaMode controls via placement.
type ViaMode string

const (
	// ViasAuto places vias when the constraint document defines via layers.
	ViasAuto ViaMode = "auto"
	// ViasOn requires via layers for every adjacent metal pair.
	ViasOn ViaMode = "on"
	// ViasOff never places vias.
	ViasOff ViaMode = "off"
)

// =============================================================================
// Options - Conversion Configuration
// =============================================================================

// Options contains all configuration for one conversion.
// This struct supports JSON serialization for stored records.
type Options struct {
	// Inputs. Image and Rules take precedence over the paths; Tech takes
	// precedence over both rule sources.
	ImagePath   string      `json:"image,omitempty"`
	Image       []byte      `json:"-"`
	RulesPath   string      `json:"rules,omitempty"`
	Rules       []byte      `json:"-"`
	RulesFormat tech.Format `json:"rules_format,omitempty"`
	Tech        *tech.Tech  `json:"-"`

	// Raster options. A nil Threshold means DefaultThreshold.
	Threshold *int `json:"threshold,omitempty"`
	MaxPasses int  `json:"max_passes,omitempty"`

	// Geometry options, in micrometres.
	PixelSize    float64  `json:"pixel_size"`
	Stack        []string `json:"stack,omitempty"`
	Vias         ViaMode  `json:"vias,omitempty"`
	MaxShapeSize float64  `json:"max_shape_size,omitempty"`

	// Output options
	Cell      string    `json:"cell,omitempty"`
	Macro     string    `json:"macro,omitempty"`
	Library   string    `json:"library,omitempty"`
	Formats   []string  `json:"formats,omitempty"`
	Timestamp time.Time `json:"-"`
	Refresh   bool      `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a conversion.
type Result struct {
	// Grid is the resolved pixel grid.
	Grid *raster.PixelGrid

	// Layout is the finished cell.
	Layout *layout.Layout

	// Tech is the constraint set the layout was built with.
	Tech *tech.Tech

	// Stack lists the metal layers used, bottom to top.
	Stack []string

	// ImageHash and RulesHash identify the inputs.
	ImageHash string
	RulesHash string

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains conversion statistics. Durations are not serialized so
// that the JSON export stays reproducible.
type Stats struct {
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Threshold int          `json:"threshold"`
	Drawn     int          `json:"drawn"`
	Passes    int          `json:"passes"`
	Filled    int          `json:"filled"`
	Layers    []LayerStats `json:"layers"`
	Vias      []ViaStats   `json:"vias,omitempty"`
	Shapes    int          `json:"shapes"`
	Cuts      int          `json:"cuts"`

	RasterTime time.Duration `json:"-"`
	SynthTime  time.Duration `json:"-"`
	ViaTime    time.Duration `json:"-"`
	EmitTime   time.Duration `json:"-"`
}

// Total returns the summed stage durations.
func (s Stats) Total() time.Duration {
	return s.RasterTime + s.SynthTime + s.ViaTime + s.EmitTime
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GridHit     bool // Whether the resolved grid came from cache
	ArtifactHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: gds, lef, json, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateViaMode checks that a via mode is valid.
func ValidateViaMode(mode ViaMode) error {
	switch mode {
	case ViasAuto, ViasOn, ViasOff:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid via mode: %q (must be one of: auto, on, off)", mode)
}

// ParseThreshold reads a threshold flag value: an integer in [0, 255] or
// "auto".
func ParseThreshold(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "auto") {
		return ThresholdAuto, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "threshold %q is neither an integer nor \"auto\"", s)
	}
	if v < 0 || v > 255 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "threshold %d outside [0, 255]", v)
	}
	return v, nil
}

// ParseFormats splits a comma-separated format list.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// Threshold returns a pointer to v for [Options.Threshold].
func Threshold(v int) *int { return &v }

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every option and applies defaults. Nothing
// geometric runs before this succeeds. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateInputs(); err != nil {
		return err
	}
	o.SetDefaults()

	if o.PixelSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "pixel size must be > 0, got %g", o.PixelSize)
	}
	if o.Pitch() < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "pixel size %g um is below 1 nm", o.PixelSize)
	}
	if t := *o.Threshold; t != ThresholdAuto && (t < 0 || t > 255) {
		return errors.New(errors.ErrCodeInvalidInput, "threshold %d outside [0, 255]", t)
	}
	if o.MaxPasses < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max passes must be >= 0, got %d", o.MaxPasses)
	}
	if o.MaxShapeSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max shape size must be >= 0, got %g", o.MaxShapeSize)
	}
	if err := ValidateViaMode(o.Vias); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateCellName(o.Cell); err != nil {
		return err
	}
	if err := errors.ValidateMacroName(o.Macro); err != nil {
		return err
	}
	if o.Library == "" || len(o.Library) > 32 {
		return errors.New(errors.ErrCodeInvalidInput, "library name %q must be 1-32 characters", o.Library)
	}
	o.validated = true
	return nil
}

// ValidateInputs checks that an image and a constraint source are present.
func (o *Options) ValidateInputs() error {
	if len(o.Image) == 0 && o.ImagePath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "image is required")
	}
	if o.Tech == nil && len(o.Rules) == 0 && o.RulesPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "constraint document is required")
	}
	return nil
}

// SetDefaults fills unset options.
func (o *Options) SetDefaults() {
	if o.PixelSize == 0 {
		o.PixelSize = DefaultPixelSize
	}
	if o.Threshold == nil {
		o.Threshold = Threshold(DefaultThreshold)
	}
	if o.MaxPasses == 0 {
		o.MaxPasses = DefaultMaxPasses
	}
	if o.Vias == "" {
		o.Vias = ViasAuto
	}
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	if o.Cell == "" {
		o.Cell = DefaultCell
	}
	if o.Macro == "" {
		o.Macro = DefaultMacro
	}
	if o.Library == "" {
		o.Library = DefaultLibrary
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Pitch returns the pixel size in DBU.
func (o *Options) Pitch() int64 {
	return geom.ToDBU(o.PixelSize)
}

// AutoThreshold reports whether Otsu's method picks the threshold.
func (o *Options) AutoThreshold() bool {
	return o.Threshold != nil && *o.Threshold == ThresholdAuto
}

// LoadTech returns the constraint set for the conversion.
func (o *Options) LoadTech() (*tech.Tech, error) {
	switch {
	case o.Tech != nil:
		return o.Tech, nil
	case len(o.Rules) > 0:
		format := o.RulesFormat
		if format == "" {
			format = tech.FormatFromPath(o.RulesPath)
		}
		return tech.Parse(o.Rules, format)
	default:
		return tech.Load(o.RulesPath)
	}
}

// GridKeyOpts returns cache key options for the resolved grid.
func (o *Options) GridKeyOpts() cache.GridKeyOpts {
	opts := cache.GridKeyOpts{MaxPasses: o.MaxPasses, Auto: o.AutoThreshold()}
	if !opts.Auto && o.Threshold != nil {
		opts.Threshold = *o.Threshold
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for one encoded output.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:       format,
		Grid:         o.GridKeyOpts(),
		PixelSize:    o.PixelSize,
		Stack:        o.Stack,
		Vias:         o.Vias != ViasOff,
		MaxShapeSize: o.MaxShapeSize,
		Cell:         o.Cell,
		Macro:        o.Macro,
		Library:      o.Library,
	}
	if !o.Timestamp.IsZero() {
		opts.Timestamp = o.Timestamp.Unix()
	}
	return opts
}

func (o *Options) String() string {
	return fmt.Sprintf("pixel=%gum threshold=%v stack=%v vias=%s formats=%v", o.PixelSize, o.thresholdLabel(), o.Stack, o.Vias, o.Formats)
}

func (o *Options) thresholdLabel() string {
	switch {
	case o.Threshold == nil:
		return strconv.Itoa(DefaultThreshold)
	case *o.Threshold == ThresholdAuto:
		return "auto"
	}
	return strconv.Itoa(*o.Threshold)
}
