// Package config provides configuration management for the edilens CLI.
package config

import "time"

// AnalyzerConfig configures the analysis service client.
type AnalyzerConfig struct {
	BaseURL     string        `koanf:"base_url"`
	Timeout     time.Duration `koanf:"timeout"`
	MaxUploadMB int           `koanf:"max_upload_mb"`
}

// StateConfig configures the analysis archive.
type StateConfig struct {
	Driver   string `koanf:"driver"`
	DSN      string `koanf:"dsn"`
	Disabled bool   `koanf:"disabled"`
}

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int           `koanf:"port"`
	AutoOpen      bool          `koanf:"auto_open"`
	Watch         bool          `koanf:"watch"`
	SessionSecret string        `koanf:"session_secret"`
	WorkspaceTTL  time.Duration `koanf:"workspace_ttl"`
}

// Config holds all CLI configuration options.
type Config struct {
	Analyzer     AnalyzerConfig `koanf:"analyzer"`
	State        StateConfig    `koanf:"state"`
	UI           UIConfig       `koanf:"ui"`
	Verbose      bool           `koanf:"verbose"`
	OutputFormat string         `koanf:"output"`
	LogLevel     string         `koanf:"log_level"`
	LogFormat    string         `koanf:"log_format"`

	// ConfigFile is the file the config was read from, if any.
	ConfigFile string `koanf:"-"`
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Analyzer.MaxUploadMB) << 20
}

// Default configuration values.
const (
	DefaultAnalyzerURL  = "http://localhost:5000"
	DefaultTimeout      = 2 * time.Minute
	DefaultMaxUploadMB  = 32
	DefaultStateDriver  = "sqlite"
	DefaultStateFile    = ".edilens/history.db"
	DefaultPort         = 8765
	DefaultWorkspaceTTL = 30 * time.Minute
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Config file names, in lookup order.
var configFileNames = []string{"edilens.yaml", "edilens.yml"}

// Valid values.
var (
	ValidOutputFormats = []string{"auto", "text", "markdown", "csv", "json", "yaml"}
	ValidStateDrivers  = []string{"sqlite", "postgres"}
	ValidLogFormats    = []string{"text", "json"}
	ValidLogLevels     = []string{"debug", "info", "warn", "error"}
)
