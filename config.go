package wordwriter

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config controls diagnostics and image sizing.
type Config struct {
	// Logger receives the per-tag diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// Quiet suppresses the Missing Tag / Filling Tag lines.
	Quiet bool

	// ImageDPI converts native pixel sizes to document units.
	ImageDPI int

	// MaxImageWidthCM scales down natively sized images wider than this.
	// Zero disables the clamp.
	MaxImageWidthCM float64
}

// Option mutates a Config.
type Option func(*Config)

// WithConfig replaces the whole configuration with a copy of c, for
// example one built by ConfigFromEnvironment. Options after it still
// apply.
func WithConfig(c *Config) Option {
	return func(dst *Config) {
		if c != nil {
			*dst = *c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Quiet turns off per-tag diagnostics.
func Quiet() Option {
	return func(c *Config) { c.Quiet = true }
}

// WithImageDPI sets the resolution used for natively sized images.
func WithImageDPI(dpi int) Option {
	return func(c *Config) { c.ImageDPI = dpi }
}

// WithMaxImageWidth clamps natively sized images to cm centimetres.
func WithMaxImageWidth(cm float64) Option {
	return func(c *Config) { c.MaxImageWidthCM = cm }
}

// DefaultConfig returns the defaults.
func DefaultConfig() *Config {
	return &Config{
		Logger:   slog.Default(),
		ImageDPI: 96,
	}
}

// ConfigFromEnvironment overlays WORDWRITER_* variables on the defaults.
func ConfigFromEnvironment() (*Config, error) {
	c := DefaultConfig()

	if v := os.Getenv("WORDWRITER_QUIET"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("WORDWRITER_QUIET: %w", err)
		}
		c.Quiet = b
	}
	if v := os.Getenv("WORDWRITER_IMAGE_DPI"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("WORDWRITER_IMAGE_DPI: %w", err)
		}
		c.ImageDPI = n
	}
	if v := os.Getenv("WORDWRITER_MAX_IMAGE_WIDTH_CM"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("WORDWRITER_MAX_IMAGE_WIDTH_CM: %w", err)
		}
		c.MaxImageWidthCM = f
	}
	if v := os.Getenv("WORDWRITER_LOG_LEVEL"); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
			return nil, fmt.Errorf("WORDWRITER_LOG_LEVEL: %w", err)
		}
		c.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	return c, c.Validate()
}

// Validate checks the values are usable.
func (c *Config) Validate() error {
	if c.ImageDPI <= 0 {
		return fmt.Errorf("image dpi must be positive, got %d", c.ImageDPI)
	}
	if c.MaxImageWidthCM < 0 {
		return fmt.Errorf("max image width must not be negative, got %g", c.MaxImageWidthCM)
	}
	return nil
}

func newConfig(opts []Option) (*Config, error) {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
