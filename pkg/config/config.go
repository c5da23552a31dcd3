// Package config loads forcelayout settings from TOML or YAML files.
//
// # Search Path
//
// [Find] returns the first file that exists out of:
//
//   - $FORCELAYOUT_CONFIG
//   - ./forcelayout.toml
//   - ./forcelayout.yaml
//   - ~/.config/forcelayout/config.toml
//
// The format follows the file extension: .toml is read with BurntSushi/toml,
// .yaml and .yml with yaml.v3.
//
// # Example
//
//	[layout]
//	passes = "Random,OpenOrd,YifanHu:100,ForceAtlas:500,Center"
//	seed = 7
//
//	[yifanhu]
//	optimal_distance = 80
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Zero values keep the built-in defaults, so a config only needs to name
// what it changes. [Config.Options] turns a config into pipeline options;
// command-line flags are applied on top of those.
package config

import (
	"time"

	"github.com/matzehuels/forcelayout/pkg/cache"
	"github.com/matzehuels/forcelayout/pkg/layout"
	"github.com/matzehuels/forcelayout/pkg/pipeline"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultAddr is the listen address of the HTTP service.
const DefaultAddr = ":8080"

// Config is the content of a configuration file.
type Config struct {
	Layout     LayoutConfig            `toml:"layout" yaml:"layout"`
	ForceAtlas layout.ForceAtlasParams `toml:"forceatlas" yaml:"forceatlas" validate:"-"`
	YifanHu    layout.YifanHuParams    `toml:"yifanhu" yaml:"yifanhu" validate:"-"`
	OpenOrd    layout.OpenOrdParams    `toml:"openord" yaml:"openord" validate:"-"`
	Cache      CacheConfig             `toml:"cache" yaml:"cache"`
	Server     ServerConfig            `toml:"server" yaml:"server"`
	Metrics    MetricsConfig           `toml:"metrics" yaml:"metrics"`
}

// LayoutConfig holds the runner settings shared by every pass.
type LayoutConfig struct {
	Passes          string  `toml:"passes" yaml:"passes"`
	Seed            uint64  `toml:"seed" yaml:"seed"`
	ReseedThreshold float64 `toml:"reseed_threshold" yaml:"reseed_threshold" validate:"gte=0"`
	Workers         int     `toml:"workers" yaml:"workers" validate:"gte=0"`
	Index           string  `toml:"index" yaml:"index" validate:"omitempty,oneof=quadtree grid exact"`
	Theta           float64 `toml:"theta" yaml:"theta" validate:"gte=0"`
	CellSize        float64 `toml:"cell_size" yaml:"cell_size" validate:"gte=0"`
	RandomSize      float64 `toml:"random_size" yaml:"random_size" validate:"gte=0"`
	RescaleDistance float64 `toml:"rescale_distance" yaml:"rescale_distance" validate:"gte=0"`
}

// CacheConfig selects the layout cache.
type CacheConfig struct {
	Backend  string        `toml:"backend" yaml:"backend" validate:"omitempty,oneof=file redis none"`
	Dir      string        `toml:"dir" yaml:"dir"`
	RedisURL string        `toml:"redis_url" yaml:"redis_url"`
	Prefix   string        `toml:"prefix" yaml:"prefix"`
	TTL      time.Duration `toml:"ttl" yaml:"ttl" validate:"gte=0"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr           string        `toml:"addr" yaml:"addr"`
	CORSOrigins    []string      `toml:"cors_origins" yaml:"cors_origins,omitempty"`
	RequestTimeout time.Duration `toml:"request_timeout" yaml:"request_timeout" validate:"gte=0"`
	MaxBodyBytes   int64         `toml:"max_body_bytes" yaml:"max_body_bytes" validate:"gte=0"`
}

// MetricsConfig enables Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
	// Textfile is written after each CLI run when set.
	Textfile string `toml:"textfile" yaml:"textfile"`
}

// Default returns the configuration used when no file is found, with every
// default spelled out.
func Default() Config {
	cfg := Config{
		Layout: LayoutConfig{
			Passes:          pipeline.DefaultPasses,
			Seed:            pipeline.DefaultSeed,
			ReseedThreshold: pipeline.DefaultReseedThreshold,
			RandomSize:      pipeline.DefaultRandomSize,
			RescaleDistance: pipeline.DefaultRescaleDistance,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     cache.TTLLayout,
		},
		Server: ServerConfig{
			Addr:           DefaultAddr,
			RequestTimeout: 2 * time.Minute,
			MaxBodyBytes:   32 << 20,
		},
	}
	cfg.ForceAtlas.SetDefaults()
	cfg.YifanHu.SetDefaults()
	cfg.OpenOrd.SetDefaults()
	return cfg
}

// SetDefaults fills the zero fields of the non-algorithm sections.
// Algorithm sections are defaulted by the passes themselves.
func (c *Config) SetDefaults() {
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = cache.TTLLayout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 2 * time.Minute
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 32 << 20
	}
}

// Options converts the config to runner options.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		Passes:          c.Layout.Passes,
		Seed:            c.Layout.Seed,
		ReseedThreshold: c.Layout.ReseedThreshold,
		Workers:         c.Layout.Workers,
		Index:           c.Layout.Index,
		Theta:           c.Layout.Theta,
		CellSize:        c.Layout.CellSize,
		RandomSize:      c.Layout.RandomSize,
		RescaleDistance: c.Layout.RescaleDistance,
		ForceAtlas:      c.ForceAtlas,
		YifanHu:         c.YifanHu,
		OpenOrd:         c.OpenOrd,
	}
}
