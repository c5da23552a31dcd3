package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/pipeline"
)

const tomlConfig = `
[layout]
passes = "Random,YifanHu:40,Center"
seed = 7
workers = 2
index = "grid"
cell_size = 25.0

[yifanhu]
optimal_distance = 80.0
adaptive_cooling = false

[openord]
iterations = 200

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/1"
ttl = "1h"

[server]
addr = ":9090"
cors_origins = ["https://example.com"]

[metrics]
enabled = true
`

const yamlConfig = `
layout:
  passes: Random,YifanHu:40,Center
  seed: 7
  workers: 2
  index: grid
  cell_size: 25
yifanhu:
  optimal_distance: 80
  adaptive_cooling: false
openord:
  iterations: 200
cache:
  backend: redis
  redis_url: redis://localhost:6379/1
  ttl: 1h
server:
  addr: ":9090"
  cors_origins: ["https://example.com"]
metrics:
  enabled: true
`

func TestTOMLAndYAMLAgree(t *testing.T) {
	fromTOML, err := Decode(strings.NewReader(tomlConfig), FormatTOML)
	if err != nil {
		t.Fatalf("toml: %v", err)
	}
	fromYAML, err := Decode(strings.NewReader(yamlConfig), FormatYAML)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !reflect.DeepEqual(fromTOML, fromYAML) {
		t.Errorf("configs differ:\ntoml %+v\nyaml %+v", fromTOML, fromYAML)
	}

	opts := fromTOML.Options()
	if opts.Passes != "Random,YifanHu:40,Center" || opts.Seed != 7 || opts.Workers != 2 || opts.Index != "grid" {
		t.Errorf("options = %+v", opts)
	}
	if opts.YifanHu.OptimalDistance != 80 || opts.YifanHu.AdaptiveCooling == nil || *opts.YifanHu.AdaptiveCooling {
		t.Errorf("yifanhu options = %+v", opts.YifanHu)
	}
	if fromTOML.Cache.TTL != time.Hour || fromTOML.Server.Addr != ":9090" || !fromTOML.Metrics.Enabled {
		t.Errorf("sections = %+v %+v %+v", fromTOML.Cache, fromTOML.Server, fromTOML.Metrics)
	}
}

func TestDecodeDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Backend != BackendFile || cfg.Server.Addr != DefaultAddr || cfg.Cache.TTL == 0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	// Empty layout fields fall through to the runner defaults.
	opts := cfg.Options()
	opts.SetDefaults()
	if opts.Passes != pipeline.DefaultPasses {
		t.Errorf("passes = %q", opts.Passes)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		format Format
		code   errors.Code
	}{
		{"bad toml", "[layout\n", FormatTOML, errors.ErrCodeInvalidFormat},
		{"unknown yaml key", "layout:\n  pases: Random\n", FormatYAML, errors.ErrCodeInvalidFormat},
		{"bad index", "[layout]\nindex = \"octree\"\n", FormatTOML, errors.ErrCodeInvalidParams},
		{"negative workers", "layout:\n  workers: -1\n", FormatYAML, errors.ErrCodeInvalidParams},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", FormatTOML, errors.ErrCodeInvalidParams},
		{"bad passes", "[layout]\npasses = \"YifanHu:x\"\n", FormatTOML, errors.ErrCodeInvalidInput},
		{"redis without url", "[cache]\nbackend = \"redis\"\n", FormatTOML, errors.ErrCodeInvalidInput},
		{"unknown format", "", Format("ini"), errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("Decode() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, Default(), format); err != nil {
				t.Fatal(err)
			}
			back, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("decode:\n%s\n%v", buf.String(), err)
			}
			if !reflect.DeepEqual(back, Default()) {
				t.Errorf("round trip differs:\n got %+v\nwant %+v", back, Default())
			}
		})
	}
}

func TestWriteAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "forcelayout.yaml")
	if err := Write(path, Default()); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, Default()); err == nil {
		t.Error("Write overwrote an existing file")
	}
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(filepath.Join(dir, "config.ini")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Load(.ini) = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v", err)
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv(EnvConfig, "")

	if p, err := Find(); err != nil || p != "" {
		t.Errorf("Find() in empty dir = %q, %v", p, err)
	}
	cfg, path, err := LoadDefault()
	if err != nil || path != "" || !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("LoadDefault() = %q, %v", path, err)
	}

	if err := os.WriteFile("forcelayout.yaml", []byte("layout:\n  seed: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if p, _ := Find(); p != "forcelayout.yaml" {
		t.Errorf("Find() = %q, want forcelayout.yaml", p)
	}
	if err := os.WriteFile("forcelayout.toml", []byte("[layout]\nseed = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, path, err = LoadDefault()
	if err != nil || path != "forcelayout.toml" || cfg.Layout.Seed != 5 {
		t.Errorf("LoadDefault() = %q seed %d, %v; want the toml file", path, cfg.Layout.Seed, err)
	}

	t.Setenv(EnvConfig, filepath.Join(dir, "nope.toml"))
	if _, err := Find(); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Find() with missing $%s = %v", EnvConfig, err)
	}
}
