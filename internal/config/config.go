// Package config loads naturebindgen settings from .naturebindgen.yaml,
// NATUREBINDGEN_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Default values for every setting.
const (
	DefaultOutput        = "bindings.n"
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// DefaultReservedKeywords mirrors the generator's built-in list.
var DefaultReservedKeywords = []string{"type", "ptr", "fn", "var", "as", "is", "import", "return"}

var (
	// ErrInvalidLogLevel is returned for a logging.level outside debug, info, warn and error.
	ErrInvalidLogLevel = errors.New("invalid logging level")
	// ErrInvalidLogFormat is returned for a logging.format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid logging format")
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

var logFormats = []string{"text", "json"}

// Config is the top-level configuration.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Output           string        `mapstructure:"output"`
	IncludeDirs      []string      `mapstructure:"include_dirs"`
	ClangArgs        []string      `mapstructure:"clang_args"`
	ReservedKeywords []string      `mapstructure:"reserved_keywords"`
	Logging          LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig selects the log level and handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, ok := logLevels[strings.ToLower(c.Logging.Level)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Logging.Format)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}
	return nil
}

// LogLevel returns the slog level for Logging.Level. Invalid values fall
// back to info; Validate reports them.
func (c *Config) LogLevel() slog.Level {
	if level, ok := logLevels[strings.ToLower(c.Logging.Level)]; ok {
		return level
	}
	return slog.LevelInfo
}

// JSONLogs reports whether logs should be written as JSON.
func (c *Config) JSONLogs() bool {
	return strings.EqualFold(c.Logging.Format, "json")
}

// CompilerArgs returns the arguments handed to the C front end: one -I per
// include directory followed by the raw extra arguments.
func (c *Config) CompilerArgs() []string {
	args := make([]string, 0, len(c.IncludeDirs)+len(c.ClangArgs))
	for _, dir := range c.IncludeDirs {
		args = append(args, "-I"+dir)
	}
	return append(args, c.ClangArgs...)
}
