package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	apperrors "weathercli/internal/errors"
	"weathercli/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// AnalysisConfig contains the defaults for an analysis invocation.
// Every field can be overridden by an explicit CLI flag.
type AnalysisConfig struct {
	FilePath             string  `yaml:"file_path"`
	FluctuationThreshold float64 `yaml:"fluctuation_threshold"`
	UnitOfMeasurement    string  `yaml:"unit_of_measurement"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stderr",
			FilePath: "logs/weathercli.log",
		},
		Analysis: AnalysisConfig{
			FilePath:             "weather_data.csv",
			FluctuationThreshold: 20,
			UnitOfMeasurement:    string(domain.UnitFahrenheit),
		},
	}
}

// Load loads configuration from an optional YAML file layered over the
// defaults. An empty path returns the defaults unchanged. Configuration
// comes from the file and CLI flags only; environment variables are
// deliberately not consulted.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to read config file %s", path), err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate validates the configuration
func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return apperrors.NewConfigError(fmt.Sprintf("invalid log level: %s", c.Logging.Level), nil)
	}

	switch c.Logging.Output {
	case "stdout", "stderr", "file", "both":
	default:
		return apperrors.NewConfigError(fmt.Sprintf("invalid log output: %s", c.Logging.Output), nil)
	}

	if c.Logging.Output != "stdout" && c.Logging.Output != "stderr" && c.Logging.FilePath == "" {
		return apperrors.NewConfigError("log file path required for file output", nil)
	}

	if c.Analysis.FilePath == "" {
		return apperrors.NewConfigError("analysis file path must not be empty", nil)
	}

	return nil
}
