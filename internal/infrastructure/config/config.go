package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreDynamoDB = "dynamodb"
)

var ErrUnknownStoreDriver = errors.New("unknown STORE_DRIVER")

// DynamoDBConfig mirrors the env vars accepted by the local DynamoDB setup.
type DynamoDBConfig struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Table           string `yaml:"table"`
}

// Config holds application configuration values.
type Config struct {
	HTTPPort           string         `yaml:"http_port"`
	GinMode            string         `yaml:"gin_mode"`
	LogLevel           string         `yaml:"log_level"`
	LogFormat          string         `yaml:"log_format"`
	StoreDriver        string         `yaml:"store_driver"`
	DatabaseDSN        string         `yaml:"database_dsn"`
	CORSAllowedOrigins []string       `yaml:"cors_allowed_origins"`
	DynamoDB           DynamoDBConfig `yaml:"dynamodb"`
}

func Default() Config {
	return Config{
		HTTPPort:           "8080",
		GinMode:            "release",
		LogLevel:           "info",
		LogFormat:          "json",
		StoreDriver:        StoreSQLite,
		DatabaseDSN:        "file:quotations.db?_pragma=busy_timeout(5000)",
		CORSAllowedOrigins: []string{"*"},
		DynamoDB: DynamoDBConfig{
			Region:          "us-east-1",
			AccessKeyID:     "local",
			SecretAccessKey: "local",
			Table:           "quotations",
		},
	}
}

// Load reads .env, then the optional YAML file, then environment variables.
// Later sources win. An empty path falls back to CONFIG_FILE.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(filepath.Clean(path), &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the operator
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.HTTPPort, "HTTP_PORT")
	setFromEnv(&cfg.GinMode, "GIN_MODE")
	setFromEnv(&cfg.LogLevel, "LOG_LEVEL")
	setFromEnv(&cfg.LogFormat, "LOG_FORMAT")
	setFromEnv(&cfg.StoreDriver, "STORE_DRIVER")
	setFromEnv(&cfg.DatabaseDSN, "DATABASE_DSN")
	setFromEnv(&cfg.DynamoDB.Region, "AWS_REGION")
	setFromEnv(&cfg.DynamoDB.Endpoint, "DYNAMODB_ENDPOINT")
	setFromEnv(&cfg.DynamoDB.AccessKeyID, "AWS_ACCESS_KEY_ID")
	setFromEnv(&cfg.DynamoDB.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	setFromEnv(&cfg.DynamoDB.Table, "QUOTATIONS_TABLE")

	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSAllowedOrigins = origins
	}
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.HTTPPort); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", c.HTTPPort)
		c.HTTPPort = "8080"
	}

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case StoreSQLite, StorePostgres, StoreDynamoDB:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.StoreDriver)
	}
	if c.StoreDriver != StoreDynamoDB && strings.TrimSpace(c.DatabaseDSN) == "" {
		return errors.New("DATABASE_DSN is required for sql stores")
	}
	if len(c.CORSAllowedOrigins) == 0 {
		c.CORSAllowedOrigins = []string{"*"}
	}
	return nil
}
