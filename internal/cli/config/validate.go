package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/docsql/pkg/format"
)

// maxIndent bounds format.indent.
const maxIndent = 16

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(outputFormats, c.Output) {
		return fmt.Errorf("unknown output format %q (expected one of: %s)", c.Output, strings.Join(outputFormats, ", "))
	}
	if !slices.Contains(colorModes, c.Color) {
		return fmt.Errorf("unknown color mode %q (expected one of: %s)", c.Color, strings.Join(colorModes, ", "))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("unknown log level %q (expected one of: %s)", c.LogLevel, strings.Join(logLevels, ", "))
	}
	if _, err := format.ParseKeywordCase(c.Format.KeywordCase); err != nil {
		return fmt.Errorf("format.keyword_case: %w", err)
	}
	if c.Format.Indent < 1 || c.Format.Indent > maxIndent {
		return fmt.Errorf("format.indent must be between 1 and %d, got %d", maxIndent, c.Format.Indent)
	}
	if c.Check.Concurrency < 1 {
		return fmt.Errorf("check.concurrency must be positive, got %d", c.Check.Concurrency)
	}
	if c.Check.Debounce < 0 {
		return fmt.Errorf("check.debounce must not be negative, got %s", c.Check.Debounce)
	}
	if c.Serve.Addr == "" {
		return fmt.Errorf("serve.addr must not be empty")
	}
	if c.Serve.MaxBodyBytes < 1 {
		return fmt.Errorf("serve.max_body_bytes must be positive, got %d", c.Serve.MaxBodyBytes)
	}
	return nil
}

// SlogLevel returns the log level to use. Verbose forces debug.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// FormatOptions converts the format table into printer options.
func (c *Config) FormatOptions() format.Options {
	kc, err := format.ParseKeywordCase(c.Format.KeywordCase)
	if err != nil {
		kc = format.KeywordUpper
	}
	return format.Options{
		Indent:      c.Format.Indent,
		KeywordCase: kc,
		Compact:     c.Format.Compact,
	}
}
