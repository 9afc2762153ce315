package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// Config holds defaults read from a TOML file. Flags given on the command
// line always win.
//
//	[convert]
//	rules      = "sky130.json"
//	pixel_size = 0.5
//	threshold  = "auto"
//	formats    = ["gds", "lef", "png"]
//
//	[serve]
//	addr       = ":8080"
//	redis_addr = "localhost:6379"
type Config struct {
	Convert ConvertConfig `toml:"convert"`
	Serve   ServeConfig   `toml:"serve"`
}

// ConvertConfig mirrors the convert flags.
type ConvertConfig struct {
	Rules        string   `toml:"rules"`
	Output       string   `toml:"output"`
	PixelSize    float64  `toml:"pixel_size"`
	Threshold    string   `toml:"threshold"`
	Stack        []string `toml:"stack"`
	Vias         string   `toml:"vias"`
	MaxPasses    int      `toml:"max_passes"`
	MaxShapeSize float64  `toml:"max_shape_size"`
	Formats      []string `toml:"formats"`
	Cell         string   `toml:"cell"`
	Macro        string   `toml:"macro"`
	Library      string   `toml:"library"`
	NoCache      bool     `toml:"no_cache"`
}

// ServeConfig mirrors the serve flags.
type ServeConfig struct {
	Addr          string `toml:"addr"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	MaxUploadMB   int    `toml:"max_upload_mb"`
}

// loadConfig reads path, or the default config file when path is empty.
// A missing default file yields an empty config; a missing explicit file is
// an error. Unknown keys are rejected so typos do not pass silently.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := configFile()
		if err != nil {
			return &Config{}, nil
		}
		path = p
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// flagValues returns the configured values keyed by flag name.
func (c ConvertConfig) flagValues() map[string]string {
	v := map[string]string{
		"rules":     c.Rules,
		"output":    c.Output,
		"threshold": c.Threshold,
		"stack":     strings.Join(c.Stack, ","),
		"vias":      c.Vias,
		"format":    strings.Join(c.Formats, ","),
		"cell":      c.Cell,
		"macro":     c.Macro,
		"library":   c.Library,
	}
	if c.PixelSize != 0 {
		v["pixel-size"] = strconv.FormatFloat(c.PixelSize, 'g', -1, 64)
	}
	if c.MaxPasses != 0 {
		v["max-passes"] = strconv.Itoa(c.MaxPasses)
	}
	if c.MaxShapeSize != 0 {
		v["max-shape-size"] = strconv.FormatFloat(c.MaxShapeSize, 'g', -1, 64)
	}
	if c.NoCache {
		v["no-cache"] = "true"
	}
	return v
}

func (c ServeConfig) flagValues() map[string]string {
	v := map[string]string{
		"addr":           c.Addr,
		"redis-addr":     c.RedisAddr,
		"redis-password": c.RedisPassword,
		"mongo-uri":      c.MongoURI,
		"mongo-database": c.MongoDatabase,
	}
	if c.RedisDB != 0 {
		v["redis-db"] = strconv.Itoa(c.RedisDB)
	}
	if c.MaxUploadMB != 0 {
		v["max-upload-mb"] = strconv.Itoa(c.MaxUploadMB)
	}
	return v
}

// applyConfig sets every flag the user did not pass to its configured value.
func applyConfig(flags *pflag.FlagSet, values map[string]string) error {
	for name, value := range values {
		if value == "" || flags.Lookup(name) == nil || flags.Changed(name) {
			continue
		}
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("config value for %s: %w", name, err)
		}
	}
	return nil
}
