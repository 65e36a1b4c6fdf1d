package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/boxsvg/pkg/cache"
	"github.com/matzehuels/boxsvg/pkg/font"
	"github.com/matzehuels/boxsvg/pkg/pipeline"
)

// configFile is the config file name inside the config directory.
const configFile = "config.toml"

// Config is the CLI configuration file. Command-line flags override it.
//
//	scale = 3
//	embed_fonts = true
//
//	[[fonts]]
//	family = "Inter"
//	weight = 700
//	path = "~/fonts/Inter-Bold.ttf"
//
//	[grapheme_images]
//	"★" = "https://example.com/star.svg"
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
type Config struct {
	// Width and Height override the viewport of every document when set.
	Width          float64           `toml:"width"`
	Height         float64           `toml:"height"`
	Scale          float64           `toml:"scale"`
	Concurrency    int               `toml:"concurrency"`
	EmbedFonts     bool              `toml:"embed_fonts"`
	Locale         string            `toml:"locale"`
	Fonts          []FontConfig      `toml:"fonts"`
	GraphemeImages map[string]string `toml:"grapheme_images"`
	Cache          cache.Config      `toml:"cache"`
	Serve          ServeConfig       `toml:"serve"`
}

// FontConfig registers one font file.
type FontConfig struct {
	Family string `toml:"family"`
	Weight int    `toml:"weight"`
	Style  string `toml:"style"`
	Path   string `toml:"path"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr         string        `toml:"addr"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
	Timeout      time.Duration `toml:"timeout"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Scale:       pipeline.DefaultScale,
		Concurrency: pipeline.DefaultConcurrency,
		Serve: ServeConfig{
			Addr:         ":8080",
			MaxBodyBytes: 1 << 20,
			Timeout:      30 * time.Second,
		},
	}
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing default file is not an error; a missing
// explicit one is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFile)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// FontRegistry returns the bundled fonts plus the configured font files.
func (c *Config) FontRegistry() (*font.Registry, error) {
	reg := font.Default()
	for _, f := range c.Fonts {
		if f.Family == "" || f.Path == "" {
			return nil, fmt.Errorf("font entry needs family and path")
		}
		if err := reg.AddFile(expandHome(f.Path), f.Family, f.Weight, f.Style); err != nil {
			return nil, fmt.Errorf("font %s: %w", f.Family, err)
		}
	}
	return reg, nil
}

// Options returns pipeline options seeded from the config.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		Width:          c.Width,
		Height:         c.Height,
		Scale:          c.Scale,
		Concurrency:    c.Concurrency,
		EmbedFonts:     c.EmbedFonts,
		Locale:         c.Locale,
		GraphemeImages: c.GraphemeImages,
	}
}
