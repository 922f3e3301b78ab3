// Package config loads waterfall's optional user configuration file.
//
// The file lives at $XDG_CONFIG_HOME/waterfall/config.toml (falling back to
// ~/.config/waterfall/config.toml). A config.yaml next to it is read when no
// TOML file exists. Every key is optional; unset keys keep their defaults and
// command-line flags override both.
//
//	[layout]
//	columns = 3
//	width = 430
//
//	[render]
//	style = "card"
//	formats = ["svg", "png"]
//
//	[feed]
//	source = "picsum"
//	per_page = 20
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	werrors "github.com/matzehuels/waterfall/pkg/errors"
)

// App is the directory name used under the config and cache roots.
const App = "waterfall"

// Cache backends.
const (
	BackendFile  = "file"
	BackendBolt  = "bolt"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Feed sources.
const (
	SourceRandom = "random"
	SourceSample = "sample"
	SourcePicsum = "picsum"
)

var (
	backends = []string{BackendFile, BackendBolt, BackendRedis, BackendNone}
	sources  = []string{SourceRandom, SourceSample, SourcePicsum}
	formats  = []string{"svg", "json", "png", "pdf"}
)

// Config is the decoded configuration file.
type Config struct {
	Layout LayoutConfig `toml:"layout" yaml:"layout"`
	Render RenderConfig `toml:"render" yaml:"render"`
	Feed   FeedConfig   `toml:"feed" yaml:"feed"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Serve  ServeConfig  `toml:"serve" yaml:"serve"`
}

// LayoutConfig holds the column count and frame geometry.
type LayoutConfig struct {
	Columns int     `toml:"columns" yaml:"columns"`
	Width   float64 `toml:"width" yaml:"width"`
	Gap     float64 `toml:"gap" yaml:"gap"`
	Padding float64 `toml:"padding" yaml:"padding"`
	Scale   bool    `toml:"scale" yaml:"scale"`
}

// RenderConfig holds output defaults.
type RenderConfig struct {
	Style   string   `toml:"style" yaml:"style"`
	Formats []string `toml:"formats" yaml:"formats"`
	Labels  bool     `toml:"labels" yaml:"labels"`
}

// FeedConfig selects the photo source.
type FeedConfig struct {
	Source  string `toml:"source" yaml:"source"`
	PerPage int    `toml:"per_page" yaml:"per_page"`
	Pages   int    `toml:"pages" yaml:"pages"`
	Seed    int64  `toml:"seed" yaml:"seed"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend" yaml:"backend"`
	TTL       string `toml:"ttl" yaml:"ttl"`
	Dir       string `toml:"dir" yaml:"dir"`
	RedisAddr string `toml:"redis_addr" yaml:"redis_addr"`
	RedisDB   int    `toml:"redis_db" yaml:"redis_db"`
	// Namespace prefixes pipeline cache keys so several installations can
	// share one Redis database.
	Namespace string `toml:"namespace" yaml:"namespace"`
}

// ServeConfig configures the HTTP gallery.
type ServeConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{Columns: 2, Width: 430, Gap: 10, Padding: 10},
		Render: RenderConfig{Style: "card", Formats: []string{"svg"}},
		Feed:   FeedConfig{Source: SourceRandom, PerPage: 10, Pages: 1},
		Cache:  CacheConfig{Backend: BackendFile, TTL: "1h", RedisAddr: "localhost:6379"},
		Serve:  ServeConfig{Addr: "localhost:8080"},
	}
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, App), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, ".config", App), nil
}

// DefaultPath returns the config file that [LoadDefault] reads: config.toml,
// or config.yaml when only that exists.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	tomlPath := filepath.Join(dir, "config.toml")
	yamlPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(tomlPath); errors.Is(err, fs.ErrNotExist) {
		if _, err := os.Stat(yamlPath); err == nil {
			return yamlPath, nil
		}
	}
	return tomlPath, nil
}

// LoadDefault reads the default config file. A missing file yields [Default].
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Load reads the file at path on top of [Default]. The format follows the
// extension: .yaml/.yml for YAML, anything else TOML.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, werrors.Wrap(werrors.ErrCodeInvalidConfiguration, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := werrors.ValidateColumns(c.Layout.Columns); err != nil {
		return err
	}
	if c.Layout.Width <= 0 || c.Layout.Gap < 0 || c.Layout.Padding < 0 {
		return werrors.New(werrors.ErrCodeInvalidConfiguration, "layout: width must be positive and gap/padding non-negative")
	}
	if c.Render.Style != "card" && c.Render.Style != "simple" {
		return werrors.New(werrors.ErrCodeInvalidStyle, "render: unknown style %q", c.Render.Style)
	}
	for _, f := range c.Render.Formats {
		if !slices.Contains(formats, f) {
			return werrors.New(werrors.ErrCodeInvalidFormat, "render: unknown format %q", f)
		}
	}
	if !slices.Contains(sources, c.Feed.Source) {
		return werrors.New(werrors.ErrCodeInvalidSource, "feed: unknown source %q (want one of %v)", c.Feed.Source, sources)
	}
	if c.Feed.PerPage < 1 || c.Feed.Pages < 1 {
		return werrors.New(werrors.ErrCodeInvalidConfiguration, "feed: per_page and pages must be at least 1")
	}
	if !slices.Contains(backends, c.Cache.Backend) {
		return werrors.New(werrors.ErrCodeInvalidConfiguration, "cache: unknown backend %q (want one of %v)", c.Cache.Backend, backends)
	}
	if _, err := c.Cache.Duration(); err != nil {
		return err
	}
	if strings.ContainsFunc(c.Cache.Namespace, unicode.IsSpace) {
		return werrors.New(werrors.ErrCodeInvalidConfiguration, "cache: namespace %q contains whitespace", c.Cache.Namespace)
	}
	return nil
}

// Duration parses TTL. An empty TTL means one hour.
func (c CacheConfig) Duration() (time.Duration, error) {
	if c.TTL == "" {
		return time.Hour, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d <= 0 {
		return 0, werrors.New(werrors.ErrCodeInvalidConfiguration, "cache: invalid ttl %q", c.TTL)
	}
	return d, nil
}
