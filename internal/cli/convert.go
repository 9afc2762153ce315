package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/pipeline"
	"github.com/siliconmark/logocell/pkg/sink/lef"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	rules        string  // constraint document (.json or .toml)
	output       string  // output directory
	pixelSize    float64 // micrometres per pixel
	threshold    string  // 0-255 or "auto"
	stack        string  // comma-separated metal layers, bottom first
	vias         string  // auto, on, off
	maxPasses    int
	maxShapeSize float64 // micrometres, 0 disables
	formats      string
	cell         string
	macro        string
	library      string
	timestamp    bool // stamp GDS headers with the current time
	noCache      bool
	refresh      bool
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{
		output:    ".",
		pixelSize: pipeline.DefaultPixelSize,
		threshold: fmt.Sprint(pipeline.DefaultThreshold),
		vias:      string(pipeline.ViasAuto),
		maxPasses: pipeline.DefaultMaxPasses,
		formats:   strings.Join(pipeline.DefaultFormats, ","),
		cell:      pipeline.DefaultCell,
		macro:     pipeline.DefaultMacro,
		library:   pipeline.DefaultLibrary,
	}

	cmd := &cobra.Command{
		Use:   "convert <image>",
		Short: "Convert a logo image into GDS and LEF",
		Long: `Convert a logo image into a layout cell.

Pixels darker than the threshold become metal. Every layer of the metal stack
receives the same silhouette, grown and merged until it meets the layer's
minimum width, area and spacing. Vias are placed where adjacent layers overlap.

Outputs are written to the output directory as logo.gds and logo.lef, plus
logo.json and logo.png when requested with --format.`,
		Example: `  logocell convert logo.png -r sky130.json --pixel-size 0.5 -o out
  logocell convert logo.png -r rules.toml --threshold auto --stack metal1,metal2 -f gds,lef,png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.config != nil {
				if err := applyConfig(cmd.Flags(), c.config.Convert.flagValues()); err != nil {
					return err
				}
			}
			popts, err := opts.pipelineOptions(args[0])
			if err != nil {
				return err
			}
			return c.runConvert(cmd.Context(), popts, opts.output, opts.noCache)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.rules, "rules", "r", "", "constraint document (.json or .toml)")
	f.StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	f.Float64Var(&opts.pixelSize, "pixel-size", opts.pixelSize, "pixel edge length in micrometres")
	f.StringVarP(&opts.threshold, "threshold", "t", opts.threshold, "luma threshold 0-255, or auto (Otsu)")
	f.StringVar(&opts.stack, "stack", "", "metal layers to fill, bottom first (default: every metal layer)")
	f.StringVar(&opts.vias, "vias", opts.vias, "via placement: auto, on, off")
	f.IntVar(&opts.maxPasses, "max-passes", opts.maxPasses, "diagonal resolver pass limit")
	f.Float64Var(&opts.maxShapeSize, "max-shape-size", 0, "largest grown shape edge in micrometres (0: unlimited)")
	f.StringVarP(&opts.formats, "format", "f", opts.formats, "output formats: gds, lef, json, png (comma-separated)")
	f.StringVar(&opts.cell, "cell", opts.cell, "GDS cell name")
	f.StringVar(&opts.macro, "macro", opts.macro, "LEF macro name")
	f.StringVar(&opts.library, "library", opts.library, "GDS library name")
	f.BoolVar(&opts.timestamp, "timestamp", false, "write the current time into GDS headers (default: zero, reproducible)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	registerConvertCompletions(cmd)

	return cmd
}

// pipelineOptions converts flags to pipeline options.
func (o convertOpts) pipelineOptions(image string) (pipeline.Options, error) {
	if o.rules == "" {
		return pipeline.Options{}, fmt.Errorf("a constraint document is required (--rules)")
	}
	if o.pixelSize <= 0 {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "--pixel-size must be positive, got %g", o.pixelSize)
	}
	threshold, err := pipeline.ParseThreshold(o.threshold)
	if err != nil {
		return pipeline.Options{}, err
	}
	formats := pipeline.ParseFormats(o.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		ImagePath:    image,
		RulesPath:    o.rules,
		PixelSize:    o.pixelSize,
		Threshold:    pipeline.Threshold(threshold),
		Stack:        splitList(o.stack),
		Vias:         pipeline.ViaMode(o.vias),
		MaxPasses:    o.maxPasses,
		MaxShapeSize: o.maxShapeSize,
		Formats:      formats,
		Cell:         o.cell,
		Macro:        o.macro,
		Library:      o.library,
		Refresh:      o.refresh,
	}
	if o.timestamp {
		opts.Timestamp = time.Now()
	}
	return opts, nil
}

// runConvert executes the pipeline and writes the artifacts.
func (c *CLI) runConvert(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, "Converting "+opts.ImagePath+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Conversion failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := pipeline.WriteArtifacts(output, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Converted %s", opts.ImagePath)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result, result.CacheInfo.GridHit && result.CacheInfo.ArtifactHit)
	printLayers(result.Stats)
	l := result.Layout
	printDetail("%s x %s um, stack %s", lef.Microns(l.Bounds.Width()), lef.Microns(l.Bounds.Height()), strings.Join(result.Stack, ", "))
	if gds := firstWithSuffix(paths, ".gds"); gds != "" {
		printNewline()
		printNextStep("Inspect", appName+" inspect "+gds)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstWithSuffix(paths []string, suffix string) string {
	for _, p := range paths {
		if strings.HasSuffix(p, suffix) {
			return p
		}
	}
	return ""
}
