// Package config provides configuration management for the docsql CLI.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	Output   string       `koanf:"output" yaml:"output" json:"output"`
	Color    string       `koanf:"color" yaml:"color" json:"color"`
	LogLevel string       `koanf:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool         `koanf:"verbose" yaml:"verbose" json:"verbose"`
	Format   FormatConfig `koanf:"format" yaml:"format" json:"format"`
	Check    CheckConfig  `koanf:"check" yaml:"check" json:"check"`
	Repl     ReplConfig   `koanf:"repl" yaml:"repl" json:"repl"`
	Serve    ServeConfig  `koanf:"serve" yaml:"serve" json:"serve"`
}

// FormatConfig controls how queries are printed by fmt, parse and repl.
type FormatConfig struct {
	Indent      int    `koanf:"indent" yaml:"indent" json:"indent"`
	KeywordCase string `koanf:"keyword_case" yaml:"keyword_case" json:"keyword_case"`
	Compact     bool   `koanf:"compact" yaml:"compact" json:"compact"`
}

// CheckConfig controls the check command.
type CheckConfig struct {
	Concurrency int           `koanf:"concurrency" yaml:"concurrency" json:"concurrency"`
	Watch       bool          `koanf:"watch" yaml:"watch" json:"watch"`
	Debounce    time.Duration `koanf:"debounce" yaml:"debounce" json:"debounce"`
	Extensions  []string      `koanf:"extensions" yaml:"extensions" json:"extensions"`
}

// ReplConfig controls the interactive shell.
type ReplConfig struct {
	HistoryFile string `koanf:"history_file" yaml:"history_file" json:"history_file"`
	Prompt      string `koanf:"prompt" yaml:"prompt" json:"prompt"`
}

// ServeConfig controls the HTTP API started by serve.
type ServeConfig struct {
	Addr         string `koanf:"addr" yaml:"addr" json:"addr"`
	MaxBodyBytes int64  `koanf:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes"`
}

// Default configuration values.
const (
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=plain text without color
	DefaultColor       = "auto"
	DefaultLogLevel    = "warn"
	DefaultIndent      = 2
	DefaultKeywordCase = "upper"
	DefaultDebounce    = 100 * time.Millisecond
	DefaultPrompt      = "docsql> "
	DefaultAddr        = "127.0.0.1:7878"
	DefaultMaxBody     = 1 << 20
)

// DefaultExtensions lists the file extensions check picks up when walking directories.
var DefaultExtensions = []string{".sql", ".dsql"}

// Output formats accepted by --output.
var outputFormats = []string{"auto", "text", "markdown", "json", "yaml"}

// Color modes accepted by --color.
var colorModes = []string{"auto", "always", "never"}

var logLevels = []string{"debug", "info", "warn", "error"}

// OutputFormats returns the accepted values for the output setting.
func OutputFormats() []string {
	return append([]string(nil), outputFormats...)
}

// ColorModes returns the accepted values for the color setting.
func ColorModes() []string {
	return append([]string(nil), colorModes...)
}

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Output:   DefaultOutput,
		Color:    DefaultColor,
		LogLevel: DefaultLogLevel,
		Format: FormatConfig{
			Indent:      DefaultIndent,
			KeywordCase: DefaultKeywordCase,
		},
		Check: CheckConfig{
			Concurrency: defaultConcurrency(),
			Debounce:    DefaultDebounce,
			Extensions:  append([]string(nil), DefaultExtensions...),
		},
		Repl: ReplConfig{
			Prompt: DefaultPrompt,
		},
		Serve: ServeConfig{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultMaxBody,
		},
	}
}
