// Package config provides configuration management for the plc CLI.
//
// Values are layered: defaults, then plc.yaml, then PLC_* environment
// variables, then explicitly set command-line flags.
package config

// Default configuration values.
const (
	DefaultModule    = "main"
	DefaultSourceExt = ".pl"
	DefaultParseMode = ParseModeEager
	DefaultOutput    = "auto"
	DefaultLogLevel  = "warn"
)

// Parse modes select how the driver feeds tokens to the parser.
const (
	// ParseModeEager scans each file completely before parsing.
	ParseModeEager = "eager"
	// ParseModeLazy pulls tokens from the scanner on demand.
	ParseModeLazy = "lazy"
)

// Config holds all CLI configuration options.
type Config struct {
	Module    string   `koanf:"module"`
	SourceExt string   `koanf:"source_ext"`
	ParseMode string   `koanf:"parse_mode"`
	Jobs      int      `koanf:"jobs"`
	Output    string   `koanf:"output"`
	LogLevel  string   `koanf:"log_level"`
	Verbose   bool     `koanf:"verbose"`
	Exclude   []string `koanf:"exclude"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when there is none. Not loaded from any source.
	ProjectRoot string `koanf:"-"`
}
