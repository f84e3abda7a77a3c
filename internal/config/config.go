package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application.
// Following 12-factor app principles, everything is loaded from environment variables.
type Config struct {
	Server      ServerConfig
	Auth        AuthConfig
	DatabaseURL string
	RoutingURL  string // distance/geocoding collaborator endpoint
	CORSOrigins []string
	Env         string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
}

type AuthConfig struct {
	APIKeys []string // valid admin API keys
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "8080"),
			Host:         getEnv("APP_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("ADMIN_API_KEYS", nil),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RoutingURL:  getEnv("ROUTING_URL", ""),
		CORSOrigins: getEnvAsSlice("CORS_ORIGINS", []string{"*"}),
		Env:         getEnv("ENV", "production"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one admin API key must be configured")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
