package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/forcelayout/pkg/errors"
)

// EnvConfig names the environment variable that points at a config file.
const EnvConfig = "FORCELAYOUT_CONFIG"

// Format is a config file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

var validate = validator.New()

// FormatOf returns the format for path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "config %s: unsupported extension (want .toml, .yaml or .yml)", path)
	}
}

// SearchPaths returns the candidate config locations in priority order.
func SearchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfig); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, "forcelayout.toml", "forcelayout.yaml")
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "forcelayout", "config.toml"))
	}
	return paths
}

// Find returns the first existing file on the search path, or "" if there
// is none. A path set through $FORCELAYOUT_CONFIG must exist.
func Find() (string, error) {
	for i, p := range SearchPaths() {
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if i == 0 && os.Getenv(EnvConfig) != "" {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "%s=%s", EnvConfig, p)
		}
	}
	return "", nil
}

// Load reads and validates the config file at path.
func Load(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "config %s", path)
	}
	cfg, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return Config{}, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// LoadDefault loads the file returned by [Find], or [Default] when there is
// none. It also returns the path that was read.
func LoadDefault() (Config, string, error) {
	path, err := Find()
	if err != nil {
		return Config{}, "", err
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Decode reads a config in the given format, applies defaults and
// validates it.
func Decode(r io.Reader, format Format) (Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidFormat, "unknown config format %q", format)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg in the given format.
func Encode(w io.Writer, cfg Config, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(cfg)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown config format %q", format)
	}
}

// Validate checks the config, including the runner options it produces.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return errors.New(errors.ErrCodeInvalidParams, "config: %s failed %s validation (got %v)", e.Namespace(), e.Tag(), e.Value())
		}
		return errors.Wrap(errors.ErrCodeInvalidParams, err, "config")
	}
	opts := c.Options()
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return err
	}
	if c.Cache.Backend == BackendRedis {
		if err := errors.ValidateRedisURL(c.Cache.RedisURL); err != nil {
			return err
		}
	}
	return nil
}

// Write encodes cfg to path in the format of its extension. Existing files
// are not overwritten.
func Write(path string, cfg Config) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, cfg, format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
