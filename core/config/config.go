package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram Bot API settings.
type TelegramConfig struct {
	Token string `yaml:"token" envconfig:"TELEGRAM_API_KEY"`
	// APIURL overrides the Bot API base URL; empty means api.telegram.org.
	APIURL string `yaml:"api_url" envconfig:"TELEGRAM_API_URL"`
	// TimeoutSeconds bounds every outbound Bot API call; 0 -> default
	TimeoutSeconds int `yaml:"timeout_seconds" envconfig:"TELEGRAM_TIMEOUT_SECONDS"`
}

// DynamoConfig specifies the DynamoDB trips table and its search indexes.
type DynamoConfig struct {
	Table        string `yaml:"table" envconfig:"DYNAMODB_TABLE_NAME"`
	BelarusIndex string `yaml:"belarus_index" envconfig:"DYNAMODB_BELARUS_INDEX"`
	SpainIndex   string `yaml:"spain_index" envconfig:"DYNAMODB_SPAIN_INDEX"`
	Region       string `yaml:"region" envconfig:"AWS_REGION"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

const (
	defaultTimeoutSeconds = 5

	defaultBelarusIndex = "to_belarus_date-index"
	defaultSpainIndex   = "to_spain_date-index"
)

// Config aggregates the configuration the bot needs at startup.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Dynamo   DynamoConfig   `yaml:"dynamo"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Load reads configuration from an optional YAML file and environment
// variables. Environment values win. On Lambda there is usually no file at
// all and path is empty.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return fmt.Errorf("telegram token is required")
	}
	if cfg.Telegram.TimeoutSeconds < 0 {
		return fmt.Errorf("telegram.timeout_seconds must be >= 0")
	}
	if cfg.Telegram.TimeoutSeconds == 0 {
		cfg.Telegram.TimeoutSeconds = defaultTimeoutSeconds
	}

	if strings.TrimSpace(cfg.Dynamo.Table) == "" {
		return fmt.Errorf("dynamo table name is required")
	}
	if strings.TrimSpace(cfg.Dynamo.BelarusIndex) == "" {
		cfg.Dynamo.BelarusIndex = defaultBelarusIndex
	}
	if strings.TrimSpace(cfg.Dynamo.SpainIndex) == "" {
		cfg.Dynamo.SpainIndex = defaultSpainIndex
	}

	return nil
}
