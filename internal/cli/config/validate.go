package config

import (
	"fmt"
	"net/url"
	"slices"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Analyzer.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("analyzer.base_url must be an http(s) URL, got %q", c.Analyzer.BaseURL)
	}
	if c.Analyzer.Timeout < 0 {
		return fmt.Errorf("analyzer.timeout must not be negative")
	}
	if c.Analyzer.MaxUploadMB <= 0 {
		return fmt.Errorf("analyzer.max_upload_mb must be positive, got %d", c.Analyzer.MaxUploadMB)
	}
	if !c.State.Disabled && !slices.Contains(ValidStateDrivers, c.State.Driver) {
		return fmt.Errorf("state.driver must be one of %v, got %q", ValidStateDrivers, c.State.Driver)
	}
	if c.UI.Port < 1 || c.UI.Port > 65535 {
		return fmt.Errorf("ui.port must be between 1 and 65535, got %d", c.UI.Port)
	}
	if !slices.Contains(ValidOutputFormats, c.OutputFormat) {
		return fmt.Errorf("output must be one of %v, got %q", ValidOutputFormats, c.OutputFormat)
	}
	if !slices.Contains(ValidLogFormats, c.LogFormat) {
		return fmt.Errorf("log_format must be one of %v, got %q", ValidLogFormats, c.LogFormat)
	}
	if !slices.Contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("log_level must be one of %v, got %q", ValidLogLevels, c.LogLevel)
	}
	return nil
}
