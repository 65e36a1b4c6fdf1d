package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, _ = cacheDir()
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-config", appName); dir != want {
		t.Errorf("configDir() = %q, want %q", dir, want)
	}
}

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		in, want string
	}{
		{"~/fonts/a.ttf", filepath.Join(home, "fonts/a.ttf")},
		{"~", home},
		{"/abs/a.ttf", "/abs/a.ttf"},
		{"~other/a.ttf", "~other/a.ttf"},
	}
	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfigMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("missing default config should not fail: %v", err)
	}
	if cfg.Serve.Addr != ":8080" || cfg.Width != 0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing explicit config should fail")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
scale = 3
locale = "ja-JP"
embed_fonts = true

[grapheme_images]
"★" = "https://example.com/star.svg"

[cache]
backend = "none"

[serve]
addr = ":9000"
timeout = "5s"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Scale != 3 || cfg.Locale != "ja-JP" || !cfg.EmbedFonts {
		t.Errorf("top-level keys not decoded: %+v", cfg)
	}
	if cfg.GraphemeImages["★"] == "" {
		t.Error("grapheme_images not decoded")
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("cache backend = %q", cfg.Cache.Backend)
	}
	if cfg.Serve.Addr != ":9000" || cfg.Serve.Timeout != 5*time.Second {
		t.Errorf("serve = %+v", cfg.Serve)
	}
	if cfg.Serve.MaxBodyBytes != 1<<20 {
		t.Error("unset serve keys should keep defaults")
	}

	opts := cfg.Options()
	if opts.Scale != 3 || opts.Locale != "ja-JP" || len(opts.GraphemeImages) != 1 {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("sacle = 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "sacle") {
		t.Errorf("LoadConfig() error = %v, want unknown key", err)
	}
}

func TestFontRegistry(t *testing.T) {
	cfg := DefaultConfig()
	reg, err := cfg.FontRegistry()
	if err != nil {
		t.Fatalf("FontRegistry: %v", err)
	}
	if len(reg.Faces()) == 0 {
		t.Error("bundled faces missing")
	}

	cfg.Fonts = []FontConfig{{Family: "Inter", Path: filepath.Join(t.TempDir(), "missing.ttf")}}
	if _, err := cfg.FontRegistry(); err == nil {
		t.Error("missing font file should fail")
	}
	cfg.Fonts = []FontConfig{{Path: "a.ttf"}}
	if _, err := cfg.FontRegistry(); err == nil {
		t.Error("font without family should fail")
	}
}
