/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment
variables, including the running environment, port, CORS allowed origins, the
code execution provider endpoint, and the keepalive self-ping target.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultExecutionURL is the public Piston execute endpoint used when no
// provider URL is configured.
const DefaultExecutionURL = "https://emkc.org/api/v2/piston/execute"

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// Code Execution Provider Settings
	ExecutionURL     string
	ExecutionTimeout time.Duration

	// Keepalive Self-Ping Settings
	KeepAliveURL      string
	KeepAliveInterval time.Duration

	// Static Asset Settings
	StaticDir string
}

// LoadConfig reads and parses the application configuration from environment
// variables, applying defaults and validating values where needed.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "5000"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- Code Execution Provider Settings ---
	cfg.ExecutionURL = os.Getenv("EXEC_API_URL")
	if cfg.ExecutionURL == "" {
		cfg.ExecutionURL = DefaultExecutionURL
	}

	execTimeout, err := secondsFromEnv("EXEC_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	cfg.ExecutionTimeout = execTimeout

	// --- Keepalive Self-Ping Settings ---
	// Unset means the pinger stays disabled.
	cfg.KeepAliveURL = os.Getenv("KEEPALIVE_URL")

	keepAliveInterval, err := secondsFromEnv("KEEPALIVE_INTERVAL_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	cfg.KeepAliveInterval = keepAliveInterval

	// --- Static Asset Settings ---
	cfg.StaticDir = os.Getenv("STATIC_DIR")
	if cfg.StaticDir == "" {
		cfg.StaticDir = "frontend/dist"
	}

	return cfg, nil
}

// secondsFromEnv reads a positive integer number of seconds from the named
// environment variable, falling back to the provided default when unset.
func secondsFromEnv(key string, fallback int) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return time.Duration(fallback) * time.Second, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be a positive number of seconds, got %d", key, value)
	}

	return time.Duration(value) * time.Second, nil
}
