// Package config loads xyplot settings from a TOML file.
//
// Every section is optional and every missing key keeps its default, so a
// config file only needs to list what it changes:
//
//	[sweep]
//	max_dim1_per_page = 4
//	orientation = "columns"
//
//	[sweep.dim1]
//	range = "10:50:10"
//
//	[sweep.dim2]
//	values = "euler, ddim, dpm++ 2m"
//
//	[grid]
//	gap = 10
//	font_size = 32
//
//	[footer]
//	text_right = "page {current_page} of {total_pages}"
//
//	[cache]
//	backend = "redis"
//	redis.addr = "localhost:6379"
//
// The header and footer bands are only drawn when their section is present.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/xyplot/pkg/cache"
	"github.com/matzehuels/xyplot/pkg/errors"
	"github.com/matzehuels/xyplot/pkg/grid"
	"github.com/matzehuels/xyplot/pkg/pager"
	"github.com/matzehuels/xyplot/pkg/pipeline"
)

// AppName names the cache directory.
const AppName = "xyplot"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultAddr is the address the API server listens on.
const DefaultAddr = ":8080"

// DefaultMaxUploadBytes bounds a single uploaded step image.
const DefaultMaxUploadBytes = 32 << 20

// Config is the root of a config file.
type Config struct {
	Sweep  Sweep                  `toml:"sweep"`
	Grid   grid.Style             `toml:"grid"`
	Header grid.HeaderFooterStyle `toml:"header"`
	Footer grid.HeaderFooterStyle `toml:"footer"`
	Output Output                 `toml:"output"`
	Cache  Cache                  `toml:"cache"`
	Server Server                 `toml:"server"`

	hasHeader bool
	hasFooter bool
}

// Sweep configures the two dimensions and their pages.
type Sweep struct {
	Dim1           pipeline.DimSpec    `toml:"dim1"`
	Dim2           pipeline.DimSpec    `toml:"dim2"`
	MaxDim1PerPage int                 `toml:"max_dim1_per_page"`
	MaxDim2PerPage int                 `toml:"max_dim2_per_page"`
	HeaderFormats  pager.HeaderFormats `toml:"header_formats"`
	Orientation    string              `toml:"orientation"`
}

// Output configures where pages are written.
type Output struct {
	Dir      string `toml:"dir"`
	Filename string `toml:"filename"`
	Format   string `toml:"format"`
	CellSize int    `toml:"cell_size"` // swatch size when no images are given
}

// Cache selects and configures the page cache.
type Cache struct {
	Backend string            `toml:"backend"` // file, redis or none
	Dir     string            `toml:"dir"`     // file backend; empty means the XDG cache dir
	Prefix  string            `toml:"prefix"`  // key namespace, for shared backends
	Redis   cache.RedisConfig `toml:"redis"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string `toml:"addr"`
	MaxUploadBytes int64  `toml:"max_upload_bytes"`
}

// Default returns the configuration used without a config file.
func Default() *Config {
	return &Config{
		Sweep: Sweep{
			HeaderFormats: pager.DefaultHeaderFormats(),
			Orientation:   pipeline.DefaultOrientation,
		},
		Grid:   grid.DefaultStyle(),
		Header: grid.DefaultHeaderFooterStyle(),
		Footer: grid.DefaultHeaderFooterStyle(),
		Output: Output{
			Dir:      ".",
			Filename: pipeline.DefaultFilename,
			Format:   pipeline.FormatPNG,
			CellSize: pipeline.DefaultCellSize,
		},
		Cache: Cache{
			Backend: BackendFile,
			Redis:   cache.RedisConfig{Addr: "localhost:6379"},
		},
		Server: Server{
			Addr:           DefaultAddr,
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
	}
}

// Load reads a config file over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read config %s", path)
	}
	if err := cfg.decode(string(data)); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes config text over the defaults.
func Parse(text string) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(text); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(text string) error {
	md, err := toml.Decode(text, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid TOML")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "unknown config key %q", undecoded[0].String())
	}
	c.hasHeader = md.IsDefined("header")
	c.hasFooter = md.IsDefined("footer")
	return nil
}

// HeaderStyle returns the header band, or nil when none is configured.
func (c *Config) HeaderStyle() *grid.HeaderFooterStyle {
	if !c.hasHeader {
		return nil
	}
	s := c.Header
	return &s
}

// FooterStyle returns the footer band, or nil when none is configured.
func (c *Config) FooterStyle() *grid.HeaderFooterStyle {
	if !c.hasFooter {
		return nil
	}
	s := c.Footer
	return &s
}

// EnableHeader sets and enables the header band.
func (c *Config) EnableHeader(s grid.HeaderFooterStyle) {
	c.Header = s
	c.hasHeader = true
}

// EnableFooter sets and enables the footer band.
func (c *Config) EnableFooter(s grid.HeaderFooterStyle) {
	c.Footer = s
	c.hasFooter = true
}

// Options builds validated pipeline options from the config.
func (c *Config) Options() (pipeline.Options, error) {
	dims, err := pipeline.ParseDims(c.Sweep.Dim1, c.Sweep.Dim2, c.Sweep.MaxDim1PerPage, c.Sweep.MaxDim2PerPage)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Dims:          dims,
		HeaderFormats: c.Sweep.HeaderFormats,
		Orientation:   c.Sweep.Orientation,
		Grid:          c.Grid,
		Header:        c.HeaderStyle(),
		Footer:        c.FooterStyle(),
		Format:        c.Output.Format,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// CacheDir returns the file cache directory: the configured one, else
// $XDG_CACHE_HOME/xyplot, else ~/.cache/xyplot.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}

// DefaultCacheDir returns the XDG cache directory for xyplot.
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// NewCache opens the configured cache backend and its keyer.
func (c *Config) NewCache(ctx context.Context) (cache.Cache, cache.Keyer, error) {
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if c.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, c.Cache.Prefix)
	}

	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), keyer, nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Cache.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis %s: %w", c.Cache.Redis.Addr, err)
		}
		return rc, keyer, nil
	case BackendFile, "":
		dir, err := c.CacheDir()
		if err != nil {
			return cache.NewNullCache(), keyer, nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache %s: %w", dir, err)
		}
		return fc, keyer, nil
	}
	return nil, nil, errors.New(errors.ErrCodeInvalidInput,
		"unknown cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
}
