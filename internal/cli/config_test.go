package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "config.toml", `
[convert]
rules = "sky130.json"
pixel_size = 0.5
threshold = "auto"
formats = ["gds", "png"]

[serve]
addr = ":9090"
redis_db = 2
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Convert.Rules != "sky130.json" {
		t.Errorf("Convert.Rules = %q, want sky130.json", cfg.Convert.Rules)
	}
	if cfg.Convert.PixelSize != 0.5 {
		t.Errorf("Convert.PixelSize = %g, want 0.5", cfg.Convert.PixelSize)
	}
	if !slices.Equal(cfg.Convert.Formats, []string{"gds", "png"}) {
		t.Errorf("Convert.Formats = %v, want [gds png]", cfg.Convert.Formats)
	}
	if cfg.Serve.Addr != ":9090" || cfg.Serve.RedisDB != 2 {
		t.Errorf("Serve = %+v", cfg.Serve)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeFile(t, "config.toml", "[convert]\npixelsize = 0.5\n")
	_, err := loadConfig(path)
	if err == nil {
		t.Fatal("loadConfig() should reject unknown keys")
	}
	if !strings.Contains(err.Error(), "convert.pixelsize") {
		t.Errorf("error = %v, want it to name convert.pixelsize", err)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("loadConfig() with a missing explicit file should fail")
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") without a default file: %v", err)
	}
	if cfg.Convert.Rules != "" {
		t.Errorf("default config should be empty, got %+v", cfg)
	}
}

func TestApplyConfig(t *testing.T) {
	flags := pflag.NewFlagSet("convert", pflag.ContinueOnError)
	rules := flags.String("rules", "", "")
	pixel := flags.Float64("pixel-size", 1, "")
	cell := flags.String("cell", "LOGO", "")
	if err := flags.Parse([]string{"--cell", "MINE"}); err != nil {
		t.Fatal(err)
	}

	cfg := ConvertConfig{Rules: "tech.json", PixelSize: 0.25, Cell: "FROM_CONFIG"}
	if err := applyConfig(flags, cfg.flagValues()); err != nil {
		t.Fatalf("applyConfig() error: %v", err)
	}

	if *rules != "tech.json" {
		t.Errorf("rules = %q, want tech.json", *rules)
	}
	if *pixel != 0.25 {
		t.Errorf("pixel-size = %g, want 0.25", *pixel)
	}
	if *cell != "MINE" {
		t.Errorf("cell = %q, command line value should win", *cell)
	}
}

func TestApplyConfigBadValue(t *testing.T) {
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags.Int("redis-db", 0, "")

	err := applyConfig(flags, map[string]string{"redis-db": "two"})
	if err == nil {
		t.Error("applyConfig() should fail on a value the flag cannot parse")
	}
}

func TestConvertConfigFlagValues(t *testing.T) {
	v := ConvertConfig{Stack: []string{"metal1", "metal2"}, MaxPasses: 4}.flagValues()
	if v["stack"] != "metal1,metal2" {
		t.Errorf("stack = %q, want metal1,metal2", v["stack"])
	}
	if v["max-passes"] != "4" {
		t.Errorf("max-passes = %q, want 4", v["max-passes"])
	}
	if _, ok := v["pixel-size"]; ok {
		t.Error("zero pixel size should be left to the flag default")
	}
}
