package config

import (
	"fmt"
	"strings"
	"time"
)

var (
	validLogLevels  = []string{"DEBUG", "INFO", "WARN", "WARNING", "ERROR"}
	validLogFormats = []string{"text", "json"}
	validEncodings  = []string{"auto", "utf-8", "utf8", "latin-1", "latin1", "iso-8859-1", "windows-1252", "cp1252"}
	validFormats    = []string{"excel", "xlsx", "csv", "json", "sqlite", "sqlite3", "db"}
)

// Validate checks every setting and reports all problems at once
func (c *Config) Validate() error {
	var errors []string

	if c.LogLevel != "" && !containsFold(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level: %s (must be one of %s)", c.LogLevel, strings.Join(validLogLevels[:4], ", ")))
	}
	if c.LogFormat != "" && !containsFold(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format: %s (must be text or json)", c.LogFormat))
	}

	if c.InputEncoding != "" && !containsFold(validEncodings, c.InputEncoding) {
		errors = append(errors, fmt.Sprintf("invalid input encoding: %s", c.InputEncoding))
	}

	if c.OutputFormat != "" && !containsFold(validFormats, c.OutputFormat) {
		errors = append(errors, fmt.Sprintf("invalid output format: %s", c.OutputFormat))
	}

	if c.MinPurchaseYear != 0 && (c.MinPurchaseYear < 1900 || c.MinPurchaseYear > 9999) {
		errors = append(errors, fmt.Sprintf("min purchase year must be between 1900 and 9999, got %d", c.MinPurchaseYear))
	}

	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone: %s", c.Timezone))
	}

	if c.SaveRetries < 0 {
		errors = append(errors, "save retries cannot be negative")
	}
	if c.SaveRetries > 0 && c.SaveRetryDelay < 0 {
		errors = append(errors, "save retry delay cannot be negative")
	}
	if c.SaveRetryDelay > 10*time.Minute {
		errors = append(errors, "save retry delay must not exceed 10 minutes")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}
	return nil
}

// GetDefaults returns the configuration used when nothing is set
func GetDefaults() *Config {
	return &Config{
		LogLevel:       "INFO",
		LogFormat:      "json",
		InputEncoding:  "auto",
		Timezone:       "Local",
		OutputFormat:   "excel",
		SaveRetries:    2,
		SaveRetryDelay: 2 * time.Second,
	}
}

func containsFold(values []string, v string) bool {
	for _, x := range values {
		if strings.EqualFold(x, strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}
