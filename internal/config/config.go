// Package config loads the uvalign YAML configuration and applies
// environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/smasonuk/uvalign"
)

type AlignConfig struct {
	// Tolerance snaps UVs to this grid before edges are compared; 0 means exact.
	Tolerance         float64 `yaml:"tolerance"`
	RespectSelection  bool    `yaml:"respect_selection"`
	DegenerateEpsilon float64 `yaml:"degenerate_epsilon"`
}

type PreviewConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Padding int `yaml:"padding"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type Config struct {
	ConfigVersion int           `yaml:"config_version"`
	Align         AlignConfig   `yaml:"align"`
	Preview       PreviewConfig `yaml:"preview"`
	Logging       LoggingConfig `yaml:"logging"`
}

func Defaults() Config {
	opts := uvalign.DefaultOptions()
	return Config{
		ConfigVersion: 1,
		Align: AlignConfig{
			Tolerance:         opts.Tolerance,
			RespectSelection:  opts.RespectSelection,
			DegenerateEpsilon: opts.DegenerateEpsilon,
		},
		Preview: PreviewConfig{Width: 1024, Height: 1024, Padding: 32},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvTolerance        = "UVALIGN_TOLERANCE"
	EnvRespectSelection = "UVALIGN_RESPECT_SELECTION"
	EnvLogLevel         = "UVALIGN_LOG_LEVEL"
	EnvLogFormat        = "UVALIGN_LOG_FORMAT"
	EnvLogSource        = "UVALIGN_LOG_SOURCE"
	EnvLogFile          = "UVALIGN_LOG_FILE"
)

// DefaultPath returns the per-user config file path.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.New("cannot resolve config directory")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "uvalign", "config.yaml"), nil
}

// Load reads the config at path (a missing file yields defaults), then applies
// environment overrides. An empty path means DefaultPath.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg, data)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	if err := cfg.AlignOptions().Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// mergeInto copies the fields set in src over dst. raw is the source document,
// used to tell an explicit false from an absent boolean.
func mergeInto(dst, src *Config, raw []byte) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Align.Tolerance != 0 {
		dst.Align.Tolerance = src.Align.Tolerance
	}
	if hasKey(raw, "align", "degenerate_epsilon") {
		dst.Align.DegenerateEpsilon = src.Align.DegenerateEpsilon
	}
	if hasKey(raw, "align", "respect_selection") {
		dst.Align.RespectSelection = src.Align.RespectSelection
	}
	if src.Preview.Width > 0 {
		dst.Preview.Width = src.Preview.Width
	}
	if src.Preview.Height > 0 {
		dst.Preview.Height = src.Preview.Height
	}
	if src.Preview.Padding > 0 {
		dst.Preview.Padding = src.Preview.Padding
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func hasKey(raw []byte, section, key string) bool {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return false
	}
	sec, ok := doc[section].(map[string]any)
	if !ok {
		return false
	}
	_, ok = sec[key]
	return ok
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvTolerance)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Align.Tolerance = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvRespectSelection)); v != "" {
		cfg.Align.RespectSelection = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// AlignOptions converts the align section into pipeline options.
func (c Config) AlignOptions() uvalign.Options {
	return uvalign.Options{
		Tolerance:         c.Align.Tolerance,
		RespectSelection:  c.Align.RespectSelection,
		DegenerateEpsilon: c.Align.DegenerateEpsilon,
	}
}
