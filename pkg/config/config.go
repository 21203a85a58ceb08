// Package config loads the hapticfloor configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/hapticfloor/config.toml
// (falling back to ~/.config). Every key is optional; missing keys keep
// their [Default] values and a missing file yields the defaults unchanged.
//
//	[render]
//	scale = 40.0
//	formats = ["svg"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/hapticfloor/pkg/errors"
)

const (
	appName  = "hapticfloor"
	fileName = "config.toml"
)

var validate = validator.New()

// Config is the root of the configuration file.
type Config struct {
	Render  RenderConfig  `toml:"render"`
	Server  ServerConfig  `toml:"server"`
	Cache   CacheConfig   `toml:"cache"`
	Preview PreviewConfig `toml:"preview"`
}

// RenderConfig holds defaults for mesh rendering.
type RenderConfig struct {
	Scale       float64  `toml:"scale" validate:"gt=0,lte=1000"`
	ActiveSize  float64  `toml:"active_size" validate:"gt=0"`
	PassiveSize float64  `toml:"passive_size" validate:"gt=0"`
	Engine      string   `toml:"engine" validate:"oneof=neato fdp"`
	Formats     []string `toml:"formats" validate:"min=1,dive,oneof=svg dot png pdf json"`
}

// ServerConfig holds the HTTP host surface settings.
type ServerConfig struct {
	Addr    string `toml:"addr" validate:"required"`
	Metrics bool   `toml:"metrics"`
}

// CacheConfig selects and tunes the render cache.
type CacheConfig struct {
	Backend   string        `toml:"backend" validate:"oneof=file redis none"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr" validate:"required_if=Backend redis"`
	TTL       time.Duration `toml:"ttl" validate:"gte=0"`
}

// PreviewConfig tunes the interactive preview.
type PreviewConfig struct {
	FPS       int     `toml:"fps" validate:"min=1,max=120"`
	WaveSpeed float64 `toml:"wave_speed" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Scale:       40,
			ActiveSize:  0.35,
			PassiveSize: 0.08,
			Engine:      "neato",
			Formats:     []string{"svg"},
		},
		Server: ServerConfig{
			Addr:    "localhost:8080",
			Metrics: true,
		},
		Cache: CacheConfig{
			Backend: "file",
			TTL:     24 * time.Hour,
		},
		Preview: PreviewConfig{
			FPS:       20,
			WaveSpeed: 1.5,
		},
	}
}

// Dir returns the hapticfloor config directory.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the config at path, or at [Path] when path is empty.
// A missing file returns [Default]. Unknown keys and values that fail
// validation are reported as INVALID_CONFIG errors.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, formatValidationError(err), "invalid config")
	}
	return nil
}

// Save writes c as TOML to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required", "required_if":
		return fmt.Errorf("%s: field is required", field)
	case "min", "gte":
		return fmt.Errorf("%s: must be at least %s", field, e.Param())
	case "max", "lte":
		return fmt.Errorf("%s: must not exceed %s", field, e.Param())
	case "gt":
		return fmt.Errorf("%s: must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Errorf("%s: must be one of [%s], got %v", field, e.Param(), e.Value())
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}
