// Package config loads process configuration from the environment.
//
// Configuration is sourced in order of precedence: OS environment
// variables, then a local .env file. All settings have defaults except
// the BMS API URL and key, which are required.
package config

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Virtus92/Rising-BSM-Dev/pkg/errors"
)

// Config holds all process configuration.
type Config struct {
	// BMS API
	BMSAPIURL string
	BMSAPIKey string

	// Server identity
	ServerName    string
	ServerVersion string

	// HTTP server
	Host string
	Port int

	// SSE
	HeartbeatInterval time.Duration
	ClientTimeout     time.Duration

	// Security
	AllowedOrigins    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	// .env values only fill in variables not already set in the environment.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("MCP_SERVER_NAME", "bms-mcp-server")
	v.SetDefault("MCP_SERVER_VERSION", "1.0.0")
	v.SetDefault("MCP_SERVER_HOST", "0.0.0.0")
	v.SetDefault("MCP_SERVER_PORT", 8000)
	v.SetDefault("SSE_HEARTBEAT_INTERVAL", 30)
	v.SetDefault("SSE_CLIENT_TIMEOUT", 300)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_REQUESTS", 60)
	v.SetDefault("RATE_LIMIT_WINDOW", 60)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	cfg := &Config{
		BMSAPIURL:         strings.TrimRight(v.GetString("BMS_API_URL"), "/"),
		BMSAPIKey:         v.GetString("BMS_API_KEY"),
		ServerName:        v.GetString("MCP_SERVER_NAME"),
		ServerVersion:     v.GetString("MCP_SERVER_VERSION"),
		Host:              v.GetString("MCP_SERVER_HOST"),
		Port:              v.GetInt("MCP_SERVER_PORT"),
		HeartbeatInterval: time.Duration(v.GetInt("SSE_HEARTBEAT_INTERVAL")) * time.Second,
		ClientTimeout:     time.Duration(v.GetInt("SSE_CLIENT_TIMEOUT")) * time.Second,
		AllowedOrigins:    parseOrigins(v.GetString("ALLOWED_ORIGINS")),
		RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
		RateLimitWindow:   time.Duration(v.GetInt("RATE_LIMIT_WINDOW")) * time.Second,
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks required settings.
func (c *Config) validate() error {
	if c.BMSAPIURL == "" {
		return errors.NewValidationError("BMS_API_URL", c.BMSAPIURL, "BMS API URL is required")
	}
	if !strings.HasPrefix(c.BMSAPIURL, "http://") && !strings.HasPrefix(c.BMSAPIURL, "https://") {
		return errors.NewValidationError("BMS_API_URL", c.BMSAPIURL, "must start with http:// or https://")
	}
	if c.BMSAPIKey == "" {
		return errors.NewValidationError("BMS_API_KEY", "", "BMS API key is required")
	}
	return nil
}

// parseOrigins accepts either a JSON array or a comma-separated list.
func parseOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	if strings.HasPrefix(raw, "[") {
		var origins []string
		if err := json.Unmarshal([]byte(raw), &origins); err == nil {
			return origins
		}
	}

	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
