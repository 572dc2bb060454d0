// Package config holds the settings shared by the calculator front ends.
package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/bond-kaneko/go-calculator/calc"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config is read from an optional YAML file and then overridden by flags.
type Config struct {
	// Precision is the number of fraction digits kept in results.
	Precision int `yaml:"precision"`
	// MaxDigits bounds the digits of a typed operand.
	MaxDigits int `yaml:"max_digits"`
	// Debounce delays replaying a watched tape after it changes.
	Debounce time.Duration `yaml:"debounce"`
	// Color enables ANSI colors in the output.
	Color bool `yaml:"color"`
	// Live redraws the display in place instead of printing a line per key.
	Live bool `yaml:"live"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Precision: calc.DefaultPrecision,
		MaxDigits: calc.DefaultMaxDigits,
		Debounce:  500 * time.Millisecond,
		Color:     true,
		Live:      true,
	}
}

// Load reads path on top of the defaults. Keys missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate reports the first setting out of range.
func (c Config) Validate() error {
	if c.Precision < 0 || c.Precision > 15 {
		return errors.Newf("precision must be between 0 and 15, got %d", c.Precision)
	}
	if c.MaxDigits < 1 || c.MaxDigits > 15 {
		return errors.Newf("max_digits must be between 1 and 15, got %d", c.MaxDigits)
	}
	if c.Debounce < 0 {
		return errors.Newf("debounce must not be negative, got %s", c.Debounce)
	}
	return nil
}

// EngineOptions converts the settings into engine options.
func (c Config) EngineOptions(logger *slog.Logger) []calc.Option {
	return []calc.Option{
		calc.WithPrecision(c.Precision),
		calc.WithMaxDigits(c.MaxDigits),
		calc.WithLogger(logger),
	}
}
