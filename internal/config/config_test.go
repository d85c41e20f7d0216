package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PIPELINER_CONFIG", "API_PORT", "LLM_BACKEND", "GOOGLE_API_KEY", "OPENAI_API_KEY",
		"OPENAI_BASE_URL", "DEFAULT_PROMPT", "DB_URL", "AMQP_URL", "CORS_ALLOWED_ORIGINS",
		"EXECUTE_RATE_LIMIT", "EXECUTE_RATE_BURST", "LLM_TIMEOUT_SEC", "OTEL_TRACES_STDOUT",
		"LLM_PRIMARY_MODEL", "LLM_FALLBACK_MODEL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr())
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "gemini", cfg.LLM.Backend)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout())
	require.Len(t, cfg.LLM.Tiers, 2)
	assert.Equal(t, TierConfig{Name: "primary", Model: "gemini-1.5-flash"}, cfg.LLM.Tiers[0])
	assert.Equal(t, TierConfig{Name: "fallback", Model: "gemini-pro"}, cfg.LLM.Tiers[1])
	assert.Empty(t, cfg.LLM.APIKey, "missing key must not fail loading")
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, LogConfig{Level: "INFO", Format: "json"}, cfg.Log)
}

func TestLoad_LogSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, LogConfig{Level: "debug", Format: "text"}, cfg.Log)
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com")
	t.Setenv("EXECUTE_RATE_LIMIT", "2.5")
	t.Setenv("LLM_PRIMARY_MODEL", "gemini-2.0-flash")
	t.Setenv("LLM_TIMEOUT_SEC", "15")
	t.Setenv("OTEL_TRACES_STDOUT", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr())
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.HTTP.AllowedOrigins)
	assert.InDelta(t, 2.5, cfg.HTTP.ExecuteRateLimit, 0.001)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Tiers[0].Model)
	assert.Equal(t, "gemini-pro", cfg.LLM.Tiers[1].Model)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout())
	assert.True(t, cfg.TracesStdout)
}

func TestLoad_OpenAIKeySelectedByBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_BACKEND", "openai")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "o-key", cfg.LLM.APIKey)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "pipeliner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: "7070"
default_prompt: "Say hello"
database_url: "postgresql://localhost/pipeliner"
llm:
  backend: openai
  base_url: http://localhost:11434/v1
  tiers:
    - name: local
      model: llama3
`), 0o600))
	t.Setenv("PIPELINER_CONFIG", path)
	t.Setenv("API_PORT", "7171")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7171", cfg.HTTP.Port, "env overrides file")
	assert.Equal(t, "Say hello", cfg.DefaultPrompt)
	assert.Equal(t, "postgresql://localhost/pipeliner", cfg.DatabaseURL)
	assert.Equal(t, "openai", cfg.LLM.Backend)
	assert.Equal(t, []TierConfig{{Name: "local", Model: "llama3"}}, cfg.LLM.Tiers)
	assert.Equal(t, 60, cfg.LLM.TimeoutSec, "defaults survive partial file")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"EXECUTE_RATE_LIMIT", "fast"},
		{"EXECUTE_RATE_BURST", "-1"},
		{"LLM_TIMEOUT_SEC", "0"},
		{"OTEL_TRACES_STDOUT", "maybe"},
		{"LOG_LEVEL", "chatty"},
		{"LOG_FORMAT", "xml"},
		{"PIPELINER_CONFIG", "/nonexistent/pipeliner.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSetTierModel_AddsMissingTiers(t *testing.T) {
	cfg := Config{}
	cfg.setTierModel(1, "gemini-pro")

	assert.Equal(t, []TierConfig{
		{Name: "primary"},
		{Name: "fallback", Model: "gemini-pro"},
	}, cfg.LLM.Tiers)
}
