package configs

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"ENVIRONMENT", "PORT", "ALLOWED_ORIGINS",
		"EXEC_API_URL", "EXEC_TIMEOUT_SECONDS",
		"KEEPALIVE_URL", "KEEPALIVE_INTERVAL_SECONDS", "STATIC_DIR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("unexpected environment: %q", cfg.Environment)
	}
	if cfg.Port != 5000 {
		t.Errorf("unexpected port: %d", cfg.Port)
	}
	if cfg.ExecutionURL != DefaultExecutionURL {
		t.Errorf("unexpected execution URL: %q", cfg.ExecutionURL)
	}
	if cfg.ExecutionTimeout != 30*time.Second {
		t.Errorf("unexpected execution timeout: %v", cfg.ExecutionTimeout)
	}
	if cfg.KeepAliveURL != "" {
		t.Errorf("keepalive should default to disabled, got %q", cfg.KeepAliveURL)
	}
	if cfg.KeepAliveInterval != 30*time.Second {
		t.Errorf("unexpected keepalive interval: %v", cfg.KeepAliveInterval)
	}
	if cfg.StaticDir != "frontend/dist" {
		t.Errorf("unexpected static dir: %q", cfg.StaticDir)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("unexpected allowed origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "8081")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")
	t.Setenv("EXEC_API_URL", "https://piston.internal/execute")
	t.Setenv("EXEC_TIMEOUT_SECONDS", "10")
	t.Setenv("KEEPALIVE_URL", "https://app.example.com")
	t.Setenv("KEEPALIVE_INTERVAL_SECONDS", "60")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Port != 8081 {
		t.Errorf("unexpected port: %d", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://a.example.com" || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected allowed origins: %v", cfg.AllowedOrigins)
	}
	if cfg.ExecutionURL != "https://piston.internal/execute" {
		t.Errorf("unexpected execution URL: %q", cfg.ExecutionURL)
	}
	if cfg.ExecutionTimeout != 10*time.Second {
		t.Errorf("unexpected execution timeout: %v", cfg.ExecutionTimeout)
	}
	if cfg.KeepAliveInterval != 60*time.Second {
		t.Errorf("unexpected keepalive interval: %v", cfg.KeepAliveInterval)
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "PORT", "not-a-port"},
		{"privileged port", "PORT", "80"},
		{"non-numeric timeout", "EXEC_TIMEOUT_SECONDS", "fast"},
		{"negative timeout", "EXEC_TIMEOUT_SECONDS", "-5"},
		{"zero keepalive interval", "KEEPALIVE_INTERVAL_SECONDS", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}
