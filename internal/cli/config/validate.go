package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
)

var (
	validParseModes = []string{ParseModeEager, ParseModeLazy}
	validOutputs    = []string{"auto", "text", "markdown", "json"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Module == "" {
		return fmt.Errorf("module is required")
	}
	if !strings.HasPrefix(c.SourceExt, ".") {
		return fmt.Errorf("source_ext must start with '.', got %q", c.SourceExt)
	}
	if !slices.Contains(validParseModes, c.ParseMode) {
		return fmt.Errorf("invalid parse_mode %q (valid: %s)", c.ParseMode, strings.Join(validParseModes, ", "))
	}
	if !slices.Contains(validOutputs, c.Output) {
		return fmt.Errorf("invalid output %q (valid: %s)", c.Output, strings.Join(validOutputs, ", "))
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// Level parses LogLevel. Verbose forces debug.
func (c *Config) Level() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Excluded reports whether the base name of path matches an exclude pattern.
func (c *Config) Excluded(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range c.Exclude {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
