package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config run settings of the devicerisk tools
type Config struct {
	// logging
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	// input
	InputEncoding string `json:"input_encoding"`
	InputSheet    string `json:"input_sheet"`

	// rules and dates
	RulesFile       string `json:"rules_file"`
	Timezone        string `json:"timezone"`
	MinPurchaseYear int    `json:"min_purchase_year"` // 0 keeps the rules value

	// output
	OutputFormat   string        `json:"output_format"`
	SaveRetries    int           `json:"save_retries"`
	SaveRetryDelay time.Duration `json:"save_retry_delay"`

	MetricsTextfile string `json:"metrics_textfile"`
}

// LoadConfig reads the settings from the environment. Values from a .env file
// in the working directory (or the files given) fill variables that are unset.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	config := &Config{
		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		InputEncoding: getEnv("INPUT_ENCODING", "auto"),
		InputSheet:    getEnv("INPUT_SHEET", ""),

		RulesFile:       getEnv("RULES_FILE", ""),
		Timezone:        getEnv("TIMEZONE", "Local"),
		MinPurchaseYear: getEnvInt("MIN_PURCHASE_YEAR", 0),

		OutputFormat:   getEnv("OUTPUT_FORMAT", "excel"),
		SaveRetries:    getEnvInt("SAVE_RETRIES", 2),
		SaveRetryDelay: getEnvDuration("SAVE_RETRY_DELAY", 2*time.Second),

		MetricsTextfile: getEnv("METRICS_TEXTFILE", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func loadEnvFiles(files []string) error {
	explicit := len(files) > 0
	if !explicit {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			// the default .env is optional
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// Location resolves Timezone
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// getEnv returns the variable or defaultValue when unset
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the variable as int, defaultValue when unset or malformed
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration returns the variable as a Duration, defaultValue when unset or malformed
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
