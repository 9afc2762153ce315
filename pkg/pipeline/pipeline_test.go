package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/siliconmark/logocell/pkg/cache"
	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/observability"
	"github.com/siliconmark/logocell/pkg/sink/gds"
)

const oneMetal = `{
  "metal1": {"layer": 68, "datatype": 20, "min_width": 0.5, "min_area": 0.1, "min_spacing": 0.5}
}`

const twoMetals = `{
  "metal1": {"layer": 68, "datatype": 20, "min_width": 0.5, "min_area": 0.1, "min_spacing": 0.5},
  "via1":   {"layer": 68, "datatype": 44, "width": 0.17, "height": 0.17, "spacing": 0.17},
  "metal2": {"layer": 69, "datatype": 20, "min_width": 0.5, "min_area": 0.1, "min_spacing": 0.5}
}`

const threeMetalsOneVia = `{
  "metal1": {"layer": 68, "datatype": 20, "min_width": 0.5, "min_spacing": 0.5},
  "via1":   {"layer": 68, "datatype": 44, "width": 0.17, "height": 0.17, "spacing": 0.17},
  "metal2": {"layer": 69, "datatype": 20, "min_width": 0.5, "min_spacing": 0.5},
  "metal3": {"layer": 70, "datatype": 20, "min_width": 0.5, "min_spacing": 0.5}
}`

// squarePNG encodes a white 4x4 image with a black 2x2 block in the middle.
func squarePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for _, p := range []image.Point{{1, 1}, {2, 1}, {1, 2}, {2, 2}} {
		img.SetGray(p.X, p.Y, color.Gray{Y: 0})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func baseOptions(t *testing.T, rules string) Options {
	return Options{
		Image:       squarePNG(t),
		Rules:       []byte(rules),
		RulesFormat: "json",
		PixelSize:   1,
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"gds", false},
		{"lef", false},
		{"json", false},
		{"png", false},
		{"svg", true},
		{"GDS", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"gds", "lef"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"gds", "oasis"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"128", 128, false},
		{"0", 0, false},
		{"255", 255, false},
		{" 90 ", 90, false},
		{"auto", ThresholdAuto, false},
		{"AUTO", ThresholdAuto, false},
		{"256", 0, true},
		{"-1", 0, true},
		{"dark", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseThreshold(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseThreshold(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseThreshold(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats("gds, LEF,,gds,png")
	want := []string{"gds", "lef", "png"}
	if !slices.Equal(got, want) {
		t.Errorf("ParseFormats() = %v, want %v", got, want)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{ImagePath: "logo.png", RulesPath: "rules.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if opts.PixelSize != DefaultPixelSize {
		t.Errorf("PixelSize = %g, want %g", opts.PixelSize, DefaultPixelSize)
	}
	if *opts.Threshold != DefaultThreshold {
		t.Errorf("Threshold = %d, want %d", *opts.Threshold, DefaultThreshold)
	}
	if opts.MaxPasses != DefaultMaxPasses {
		t.Errorf("MaxPasses = %d, want %d", opts.MaxPasses, DefaultMaxPasses)
	}
	if opts.Vias != ViasAuto {
		t.Errorf("Vias = %q, want %q", opts.Vias, ViasAuto)
	}
	if !slices.Equal(opts.Formats, DefaultFormats) {
		t.Errorf("Formats = %v, want %v", opts.Formats, DefaultFormats)
	}
	if opts.Cell != "LOGO" || opts.Macro != "LOGO_CELL" || opts.Library != DefaultLibrary {
		t.Errorf("names = %s/%s/%s, want LOGO/LOGO_CELL/%s", opts.Cell, opts.Macro, opts.Library, DefaultLibrary)
	}
	if opts.Pitch() != 1000 {
		t.Errorf("Pitch() = %d, want 1000", opts.Pitch())
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestOptionsValidate(t *testing.T) {
	valid := func() Options {
		return Options{ImagePath: "logo.png", RulesPath: "rules.json"}
	}
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"no image", func(o *Options) { o.ImagePath = "" }},
		{"no rules", func(o *Options) { o.RulesPath = "" }},
		{"negative pixel size", func(o *Options) { o.PixelSize = -1 }},
		{"sub-nanometre pixel", func(o *Options) { o.PixelSize = 0.0001 }},
		{"threshold above range", func(o *Options) { o.Threshold = Threshold(256) }},
		{"threshold below range", func(o *Options) { o.Threshold = Threshold(-2) }},
		{"negative passes", func(o *Options) { o.MaxPasses = -1 }},
		{"negative ceiling", func(o *Options) { o.MaxShapeSize = -1 }},
		{"via mode", func(o *Options) { o.Vias = "sometimes" }},
		{"format", func(o *Options) { o.Formats = []string{"svg"} }},
		{"cell name", func(o *Options) { o.Cell = "my cell" }},
		{"macro name", func(o *Options) { o.Macro = "A;B" }},
		{"library name", func(o *Options) { o.Library = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid()
			tt.modify(&opts)
			err := opts.ValidateAndSetDefaults()
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want INVALID_INPUT", err)
			}
		})
	}

	opts := valid()
	opts.Threshold = Threshold(0)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("threshold 0 should be valid: %v", err)
	}
	opts = valid()
	opts.Threshold = Threshold(ThresholdAuto)
	if err := opts.ValidateAndSetDefaults(); err != nil || !opts.AutoThreshold() {
		t.Errorf("auto threshold: err = %v, AutoThreshold() = %v", err, opts.AutoThreshold())
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{ImagePath: "logo.png", RulesPath: "rules.json", Formats: []string{"json"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts.ArtifactKeyOpts("json")
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	second := opts.ArtifactKeyOpts("json")
	if first.Cell != second.Cell || first.PixelSize != second.PixelSize || first.Grid != second.Grid {
		t.Errorf("second call changed options: %+v vs %+v", first, second)
	}
}

func TestGridKeyOpts(t *testing.T) {
	opts := Options{Threshold: Threshold(ThresholdAuto), MaxPasses: 8}
	got := opts.GridKeyOpts()
	if !got.Auto || got.Threshold != 0 || got.MaxPasses != 8 {
		t.Errorf("GridKeyOpts() = %+v, want auto with 8 passes", got)
	}

	opts.Threshold = Threshold(90)
	if got := opts.GridKeyOpts(); got.Auto || got.Threshold != 90 {
		t.Errorf("GridKeyOpts() = %+v, want threshold 90", got)
	}
}

func TestRasterize(t *testing.T) {
	ras, err := Rasterize(squarePNG(t), Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := "....\n.##.\n.##.\n...."
	if got := ras.Grid.String(); got != want {
		t.Errorf("grid =\n%s\nwant\n%s", got, want)
	}
	if ras.Threshold != DefaultThreshold || ras.Drawn != 4 || ras.Filled != 0 {
		t.Errorf("Rasterize() = threshold %d drawn %d filled %d, want %d 4 0", ras.Threshold, ras.Drawn, ras.Filled, DefaultThreshold)
	}

	if _, err := Rasterize([]byte("not an image"), Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Rasterize(garbage) error = %v, want INVALID_INPUT", err)
	}
}

func TestGridEntryRoundTrip(t *testing.T) {
	ras, err := Rasterize(squarePNG(t), Options{Threshold: Threshold(ThresholdAuto)})
	if err != nil {
		t.Fatal(err)
	}
	data, err := encodeGridEntry(ras)
	if err != nil {
		t.Fatal(err)
	}
	got, err := decodeGridEntry(data)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Grid.Equal(ras.Grid) || got.Threshold != ras.Threshold || got.Drawn != ras.Drawn {
		t.Errorf("decodeGridEntry() = %+v, want %+v", got, ras)
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := baseOptions(t, oneMetal)
	opts.Formats = []string{FormatGDS, FormatLEF, FormatJSON, FormatPNG}

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, f := range opts.Formats {
		if len(result.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	if got := result.Layout.Bounds; got != geom.R(0, 0, 4000, 4000) {
		t.Errorf("Bounds = %v, want (0,0)-(4000,4000)", got)
	}
	m, ok := result.Layout.Metal("metal1")
	if !ok || len(m.Rects) != 1 || m.Rects[0] != geom.R(1000, 1000, 3000, 3000) {
		t.Errorf("metal1 = %v, want one 2x2 um square at (1,1)", m.Rects)
	}
	if result.Stats.Shapes != 1 || result.Stats.Cuts != 0 || result.Stats.Drawn != 4 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if !slices.Equal(result.Stack, []string{"metal1"}) {
		t.Errorf("Stack = %v, want [metal1]", result.Stack)
	}

	lib, err := gds.Read(bytes.NewReader(result.Artifacts[FormatGDS]))
	if err != nil {
		t.Fatalf("gds.Read() error = %v", err)
	}
	if len(lib.Structures) != 1 || lib.Structures[0].Name != "LOGO" {
		t.Fatalf("structures = %+v, want one LOGO cell", lib.Structures)
	}
	// metal1 square plus the outline rectangle
	if got := len(lib.Structures[0].Boundaries); got != 2 {
		t.Errorf("boundaries = %d, want 2", got)
	}
	if !bytes.Contains(result.Artifacts[FormatLEF], []byte("MACRO LOGO_CELL")) {
		t.Error("LEF should declare MACRO LOGO_CELL")
	}
}

func TestExecuteDeterministic(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := baseOptions(t, twoMetals)
	opts.Formats = []string{FormatGDS, FormatLEF, FormatJSON}

	a, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range opts.Formats {
		if !bytes.Equal(a.Artifacts[f], b.Artifacts[f]) {
			t.Errorf("%s output differs between runs", f)
		}
	}
}

func TestExecuteVias(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), baseOptions(t, twoMetals))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !slices.Equal(result.Stack, []string{"metal1", "metal2"}) {
		t.Errorf("Stack = %v, want [metal1 metal2]", result.Stack)
	}
	// 2 um overlap tiled at 0.34 um pitch: 6 cuts per axis.
	if result.Stats.Cuts != 36 {
		t.Errorf("Cuts = %d, want 36", result.Stats.Cuts)
	}
	m1, _ := result.Layout.Metal("metal1")
	for _, c := range result.Layout.Vias[0].Rects {
		if !m1.Rects[0].Contains(c) {
			t.Errorf("cut %v outside metal %v", c, m1.Rects[0])
		}
	}

	opts := baseOptions(t, twoMetals)
	opts.Vias = ViasOff
	result, err = runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.Stats.Cuts != 0 || len(result.Layout.Vias) != 0 {
		t.Errorf("ViasOff placed %d cuts", result.Stats.Cuts)
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		want   errors.Code
	}{
		{"garbage image", func(o *Options) { o.Image = []byte("GIF89a?") }, errors.ErrCodeInvalidInput},
		{"missing image file", func(o *Options) { o.Image = nil; o.ImagePath = "/nonexistent/logo.png" }, errors.ErrCodeInvalidInput},
		{"unknown stack layer", func(o *Options) { o.Stack = []string{"metal1", "metal7"} }, errors.ErrCodeMissingConstraint},
		{"vias without via layers", func(o *Options) {
			o.Rules = []byte(`{"metal1": {"layer": 1, "datatype": 0}, "metal2": {"layer": 2, "datatype": 0}}`)
			o.Vias = ViasOn
		}, errors.ErrCodeMissingConstraint},
		{"no metal layers", func(o *Options) { o.Rules = []byte(`{"logo": {"layer": 1, "datatype": 0}}`) }, errors.ErrCodeMissingConstraint},
		{"shape ceiling", func(o *Options) {
			o.Rules = []byte(`{"metal1": {"layer": 1, "datatype": 0, "min_width": 3}}`)
			o.MaxShapeSize = 2.5
		}, errors.ErrCodeGeometryViolation},
	}

	runner := NewRunner(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := baseOptions(t, oneMetal)
			tt.modify(&opts)
			_, err := runner.Execute(context.Background(), opts)
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("Execute() error = %v, want code %s", err, tt.want)
			}
		})
	}
}

// stageRecorder remembers which pipeline stages were started.
type stageRecorder struct {
	observability.NoopPipelineHooks
	mu      sync.Mutex
	started []string
}

func (r *stageRecorder) OnStageStart(_ context.Context, stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, stage)
}

func TestExecuteRejectsMissingLayersBeforeStages(t *testing.T) {
	tests := []struct {
		name   string
		rules  string
		stack  []string
		vias   ViaMode
		wantOK bool
	}{
		{name: "missing via2", rules: threeMetalsOneVia},
		{name: "missing via2 with vias on", rules: threeMetalsOneVia, vias: ViasOn},
		{name: "unknown stack layer", rules: twoMetals, stack: []string{"metal1", "metal7"}},
		{name: "vias on without via layers", rules: `{
  "metal1": {"layer": 1, "datatype": 0},
  "metal2": {"layer": 2, "datatype": 0}
}`, vias: ViasOn},
		{name: "missing via2 with vias off", rules: threeMetalsOneVia, vias: ViasOff, wantOK: true},
	}

	runner := NewRunner(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &stageRecorder{}
			observability.SetPipelineHooks(rec)
			defer observability.Reset()

			opts := baseOptions(t, tt.rules)
			opts.Stack = tt.stack
			opts.Vias = tt.vias
			_, err := runner.Execute(context.Background(), opts)

			if tt.wantOK {
				if err != nil {
					t.Fatalf("Execute() error = %v", err)
				}
				if len(rec.started) != 4 {
					t.Errorf("stages started = %v, want all four", rec.started)
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeMissingConstraint) {
				t.Errorf("Execute() error = %v, want MISSING_CONSTRAINT", err)
			}
			if len(rec.started) != 0 {
				t.Errorf("stages started = %v, want none", rec.started)
			}
		})
	}
}

func TestPlanLayers(t *testing.T) {
	opts := baseOptions(t, threeMetalsOneVia)
	opts.Stack = []string{"metal1", "metal2"}
	tc, err := opts.LoadTech()
	if err != nil {
		t.Fatal(err)
	}
	plan, err := PlanLayers(tc, opts)
	if err != nil {
		t.Fatalf("PlanLayers() error = %v", err)
	}
	if !slices.Equal(plan.Stack, []string{"metal1", "metal2"}) {
		t.Errorf("Stack = %v, want [metal1 metal2]", plan.Stack)
	}
	if len(plan.Vias) != 1 || plan.Vias[0].Name != "via1" {
		t.Errorf("Vias = %v, want [via1]", plan.Vias)
	}

	opts.Stack = []string{"metal2"}
	if plan, err = PlanLayers(tc, opts); err != nil || len(plan.Vias) != 0 {
		t.Errorf("PlanLayers(single layer) = %+v, %v, want no vias", plan, err)
	}
}

func TestExecuteConcurrent(t *testing.T) {
	const workers = 16
	rulesFor := func(i int) string {
		if i%2 == 0 {
			return oneMetal
		}
		return twoMetals
	}
	optsFor := func(i int) Options {
		opts := baseOptions(t, rulesFor(i))
		opts.Refresh = i%4 == 3
		return opts
	}

	serial := NewRunner(nil, nil, nil)
	want := make([][]byte, 2)
	for i := range want {
		result, err := serial.Execute(context.Background(), optsFor(i))
		if err != nil {
			t.Fatalf("serial Execute(%d) error = %v", i, err)
		}
		want[i] = result.Artifacts[FormatGDS]
	}

	shared := NewRunner(cache.NewMemoryCache(), nil, nil)
	got := make([][]byte, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		opts := optsFor(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := shared.Execute(context.Background(), opts)
			if err != nil {
				errs[i] = err
				return
			}
			got[i] = result.Artifacts[FormatGDS]
		}()
	}
	wg.Wait()

	for i := range workers {
		if errs[i] != nil {
			t.Errorf("Execute(%d) error = %v", i, errs[i])
			continue
		}
		if !bytes.Equal(got[i], want[i%2]) {
			t.Errorf("Execute(%d) GDS differs from the serial run", i)
		}
	}
}

func TestExecuteCache(t *testing.T) {
	mem := cache.NewMemoryCache()
	runner := NewRunner(mem, nil, nil)
	opts := baseOptions(t, oneMetal)

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.GridHit || first.CacheInfo.ArtifactHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	// grid + gds + lef
	if mem.Len() != 3 {
		t.Errorf("cache entries = %d, want 3", mem.Len())
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.GridHit || !second.CacheInfo.ArtifactHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatGDS], second.Artifacts[FormatGDS]) {
		t.Error("cached GDS differs from the encoded one")
	}
	if !second.Grid.Equal(first.Grid) {
		t.Error("cached grid differs from the resolved one")
	}

	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.GridHit || third.CacheInfo.ArtifactHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", third.CacheInfo)
	}

	opts.Refresh = false
	opts.Cell = "OTHER"
	fourth, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !fourth.CacheInfo.GridHit || fourth.CacheInfo.ArtifactHit {
		t.Errorf("renamed cell CacheInfo = %+v, want grid hit and artifact miss", fourth.CacheInfo)
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	artifacts := map[string][]byte{
		FormatGDS: []byte("gds"),
		FormatLEF: []byte("lef"),
	}

	paths, err := WriteArtifacts(dir, artifacts)
	if err != nil {
		t.Fatalf("WriteArtifacts() error = %v", err)
	}
	want := []string{filepath.Join(dir, "logo.gds"), filepath.Join(dir, "logo.lef")}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	for i, p := range want {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != []string{"gds", "lef"}[i] {
			t.Errorf("%s = %q", p, data)
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("directory holds %d entries, want 2 (no temporaries)", len(entries))
	}
}

func TestWriteArtifactsCleanup(t *testing.T) {
	dir := t.TempDir()
	// A directory in the way makes the second rename fail.
	if err := os.Mkdir(filepath.Join(dir, "logo.lef"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := WriteArtifacts(dir, map[string][]byte{
		FormatGDS: []byte("gds"),
		FormatLEF: []byte("lef"),
	})
	if !errors.Is(err, errors.ErrCodeEmitFailure) {
		t.Fatalf("WriteArtifacts() error = %v, want EMIT_FAILURE", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != "logo.lef" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory = %v, want only the blocking logo.lef", names)
	}
}

func TestWriteArtifactsUnwritable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := WriteArtifacts(filepath.Join(file, "out"), map[string][]byte{FormatGDS: []byte("x")})
	if !errors.Is(err, errors.ErrCodeEmitFailure) {
		t.Errorf("WriteArtifacts() error = %v, want EMIT_FAILURE", err)
	}
}
