package calc

import (
	"io"
	"log/slog"
)

const (
	// DefaultPrecision is the number of fraction digits kept in non-integral results.
	DefaultPrecision = 2
	// DefaultMaxDigits bounds the digits an operand may hold while typed.
	DefaultMaxDigits = 9
)

// Option configures an Engine.
type Option func(*config)

type config struct {
	precision int
	maxDigits int
	logger    *slog.Logger
}

// WithPrecision sets how many fraction digits a non-integral result keeps.
func WithPrecision(precision int) Option {
	return func(c *config) {
		if precision >= 0 {
			c.precision = precision
		}
	}
}

// WithMaxDigits sets the digit bound of a typed operand.
func WithMaxDigits(maxDigits int) Option {
	return func(c *config) {
		if maxDigits > 0 {
			c.maxDigits = maxDigits
		}
	}
}

// WithLogger sets the logger used for halts and invariant violations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		precision: DefaultPrecision,
		maxDigits: DefaultMaxDigits,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
