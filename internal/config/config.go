// Package config loads fit configuration from YAML.
//
//	mode: normalized        # default | normalized
//	optimizer: nelder       # lm | nelder
//	log: prod               # dev | prod | silent
//	settings:
//	  max_iterations: 500
//	  ftol: 1.0e-10
//
// Omitted keys keep their defaults. Unknown keys are rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-specmatch/fit"
	"github.com/cwbudde/algo-specmatch/internal/logging"
	"github.com/cwbudde/algo-specmatch/match"
)

// ErrInvalid is returned for configurations that fail validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the file representation of the match options. A nil Optimizer
// leaves the choice to each match variant.
type Config struct {
	Mode      match.Mode   `yaml:"mode"`
	Optimizer *fit.Method  `yaml:"optimizer"`
	Settings  fit.Settings `yaml:"settings"`
	Log       logging.Mode `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Mode:     match.ModeDefault,
		Settings: fit.DefaultSettings(),
		Log:      logging.ModeProd,
	}
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes raw over [Default] and validates the result.
func Parse(raw []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports values no match can run with.
func (c Config) Validate() error {
	if _, err := c.Mode.MarshalText(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Optimizer != nil {
		if _, err := c.Optimizer.MarshalText(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	if err := c.Settings.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Method returns the configured optimizer, or Levenberg-Marquardt when the
// file names none.
func (c Config) Method() fit.Method {
	if c.Optimizer == nil {
		return fit.LevenbergMarquardt
	}
	return *c.Optimizer
}

// MatchOptions converts c into match options logging to logger. The
// optimizer option is only emitted when the file sets one.
func (c Config) MatchOptions(logger *slog.Logger) []match.Option {
	opts := []match.Option{
		match.WithMode(c.Mode),
		match.WithSettings(c.Settings),
		match.WithLogger(logger),
	}
	if c.Optimizer != nil {
		opts = append(opts, match.WithOptimizer(*c.Optimizer))
	}
	return opts
}
