/*
Package config loads the server and CLI configuration.

SOURCES (later wins):
  1. YAML file (optional; a missing file is not an error)
  2. .env in the working directory (optional; never overrides the
     real environment)
  3. Environment variables
  4. Defaults for anything still unset

ENVIRONMENT VARIABLES:
  PORT, DATABASE_PATH, LOG_LEVEL, ENVIRONMENT, SEASONALITY_FILE,
  DEFAULT_PRESET, HORIZON_DAYS, ALLOWED_ORIGINS (comma separated)

EXAMPLE FILE:
  server:
    port: 8080
    allowed_origins: ["https://calc.example.com"]
  database:
    path: data/roi.db
  log:
    level: debug
    environment: development
  projection:
    default_preset: ace-coatings
    horizon_days: 360
    seasonality_file: data/regions.yaml
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort          = 8080
	DefaultDatabasePath  = "roi.db"
	DefaultLogLevel      = "info"
	DefaultEnvironment   = "development"
	DefaultPreset        = "ace-coatings"
	DefaultHorizonDays   = 360
	MaxHorizonDays       = 3600
	defaultAllowedOrigin = "*"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Log struct {
		Level       string `yaml:"level"`
		Environment string `yaml:"environment"`
	} `yaml:"log"`
	Projection struct {
		DefaultPreset   string `yaml:"default_preset"`
		HorizonDays     int    `yaml:"horizon_days"`
		SeasonalityFile string `yaml:"seasonality_file"`
	} `yaml:"projection"`
}

// Load reads config from a YAML file (if path is non-empty and exists),
// then .env and environment overrides, then fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Errors are ignored if the file doesn't exist. godotenv never
	// overrides variables that are already set.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Log.Environment = v
	}
	if v := os.Getenv("SEASONALITY_FILE"); v != "" {
		c.Projection.SeasonalityFile = v
	}
	if v := os.Getenv("DEFAULT_PRESET"); v != "" {
		c.Projection.DefaultPreset = v
	}
	if v := os.Getenv("HORIZON_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HORIZON_DAYS: %w", err)
		}
		c.Projection.HorizonDays = days
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{defaultAllowedOrigin}
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	c.Log.Environment = strings.ToLower(c.Log.Environment)
	if c.Log.Environment == "" {
		c.Log.Environment = DefaultEnvironment
	}
	if c.Projection.DefaultPreset == "" {
		c.Projection.DefaultPreset = DefaultPreset
	}
	if c.Projection.HorizonDays == 0 {
		c.Projection.HorizonDays = DefaultHorizonDays
	}
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be within 1..65535, got %d", c.Server.Port)
	}
	if c.Projection.HorizonDays < 1 || c.Projection.HorizonDays > MaxHorizonDays {
		return fmt.Errorf("projection.horizon_days must be within 1..%d, got %d", MaxHorizonDays, c.Projection.HorizonDays)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}

// IsProduction reports whether structured (JSON) logging should be used.
func (c *Config) IsProduction() bool {
	return c.Log.Environment == "production" || c.Log.Environment == "staging"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
