package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestXDGPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		env  string
		dir  string // value for env, empty to unset
		fn   func() (string, error)
		want string
	}{
		{"cache default", "XDG_CACHE_HOME", "", cacheDir, filepath.Join(home, ".cache", appName)},
		{"cache xdg", "XDG_CACHE_HOME", "/tmp/xdg-cache", cacheDir, filepath.Join("/tmp/xdg-cache", appName)},
		{"config default", "XDG_CONFIG_HOME", "", configFile, filepath.Join(home, ".config", appName, "config.toml")},
		{"config xdg", "XDG_CONFIG_HOME", "/tmp/xdg-config", configFile, filepath.Join("/tmp/xdg-config", appName, "config.toml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.dir)
			if tt.dir == "" {
				os.Unsetenv(tt.env)
			}
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCacheDisabled(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := newCache(true)
	if err != nil {
		t.Fatalf("newCache(true) error: %v", err)
	}
	defer c.Close()
	if _, err := os.Stat(filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)); !os.IsNotExist(err) {
		t.Error("a disabled cache should not create its directory")
	}
}

func TestCacheInfoAndClear(t *testing.T) {
	out := quietOutput(t)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if err := runCacheInfo(); err != nil {
		t.Fatalf("runCacheInfo() on a missing cache: %v", err)
	}

	fc, err := newCache(false)
	if err != nil {
		t.Fatal(err)
	}
	_ = fc.Set(context.Background(), "grid", []byte("cells"), 0)

	out.Reset()
	if err := runCacheInfo(); err != nil {
		t.Fatalf("runCacheInfo() error: %v", err)
	}
	if !strings.Contains(out.String(), "1") {
		t.Errorf("info output = %q, want one entry", out.String())
	}

	out.Reset()
	if err := runCacheClear(); err != nil {
		t.Fatalf("runCacheClear() error: %v", err)
	}
	if !strings.Contains(out.String(), "Cleared 1 cached entries") {
		t.Errorf("clear output = %q", out.String())
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{3 << 20, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
