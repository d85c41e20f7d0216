// Package config собирает конфигурацию процесса.
//
// Порядок: значения по умолчанию → YAML-файл из PIPELINER_CONFIG →
// переменные окружения. Config создаётся один раз в main и передаётся
// в конструкторы; глобального состояния нет.
//
// Отсутствие API-ключа ошибкой загрузки не является: оно проявится
// при первом вызове провайдера.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Pipeliner/internal/telemetry"
)

// Config — конфигурация сервиса.
type Config struct {
	HTTP HTTPConfig `yaml:"http"`
	LLM  LLMConfig  `yaml:"llm"`
	Log  LogConfig  `yaml:"log"`

	// DefaultPrompt — входной текст, если pipeline его не содержит.
	DefaultPrompt string `yaml:"default_prompt"`

	// DatabaseURL — DSN Postgres для истории выполнений. Пусто — история выключена.
	DatabaseURL string `yaml:"database_url"`

	// AMQPURL — адрес RabbitMQ для событий. Пусто — события выключены.
	AMQPURL string `yaml:"amqp_url"`

	// TracesStdout — выводить спаны OpenTelemetry в stderr.
	TracesStdout bool `yaml:"traces_stdout"`
}

// HTTPConfig — параметры HTTP сервера.
type HTTPConfig struct {
	Port string `yaml:"port"`

	// AllowedOrigins — разрешённые CORS origins. "*" — любые.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// ExecuteRateLimit — запросов в секунду на /pipelines/execute. 0 — без ограничения.
	ExecuteRateLimit float64 `yaml:"execute_rate_limit"`
	ExecuteRateBurst int     `yaml:"execute_rate_burst"`
}

// LogConfig — параметры логирования.
type LogConfig struct {
	// Level — DEBUG, INFO, WARN или ERROR.
	Level string `yaml:"level"`

	// Format — json или text.
	Format string `yaml:"format"`
}

// LLMConfig — параметры провайдеров генерации текста.
type LLMConfig struct {
	// Backend — gemini или openai.
	Backend string `yaml:"backend"`

	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`

	// TimeoutSec — таймаут одного вызова провайдера.
	TimeoutSec int `yaml:"timeout_sec"`

	// Tiers — уровни в порядке перебора.
	Tiers []TierConfig `yaml:"tiers"`
}

// TierConfig — один уровень провайдера.
type TierConfig struct {
	Name  string `yaml:"name"`
	Model string `yaml:"model"`
}

// Timeout возвращает таймаут вызова провайдера.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// Addr возвращает адрес для http.Server.
func (c HTTPConfig) Addr() string {
	return ":" + c.Port
}

// Default возвращает конфигурацию по умолчанию.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Port:             "8080",
			AllowedOrigins:   []string{"*"},
			ExecuteRateLimit: 5,
			ExecuteRateBurst: 10,
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "json",
		},
		LLM: LLMConfig{
			Backend:    "gemini",
			TimeoutSec: 60,
			Tiers: []TierConfig{
				{Name: "primary", Model: "gemini-1.5-flash"},
				{Name: "fallback", Model: "gemini-pro"},
			},
		},
	}
}

// Load загружает конфигурацию из файла (если задан PIPELINER_CONFIG) и окружения.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("PIPELINER_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// loadFile накладывает YAML-файл поверх текущих значений.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

// applyEnv накладывает переменные окружения.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("API_PORT", &c.HTTP.Port)
	str("LLM_BACKEND", &c.LLM.Backend)
	str("OPENAI_BASE_URL", &c.LLM.BaseURL)
	str("DEFAULT_PROMPT", &c.DefaultPrompt)
	str("DB_URL", &c.DatabaseURL)
	str("AMQP_URL", &c.AMQPURL)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if _, ok := telemetry.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("invalid LOG_LEVEL %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case telemetry.LogFormatJSON, telemetry.LogFormatText:
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.Log.Format)
	}

	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		c.HTTP.AllowedOrigins = splitList(v)
	}

	if v, ok := lookup("EXECUTE_RATE_LIMIT"); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 {
			return fmt.Errorf("invalid EXECUTE_RATE_LIMIT %q", v)
		}
		c.HTTP.ExecuteRateLimit = rps
	}
	if v, ok := lookup("EXECUTE_RATE_BURST"); ok && v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 0 {
			return fmt.Errorf("invalid EXECUTE_RATE_BURST %q", v)
		}
		c.HTTP.ExecuteRateBurst = burst
	}
	if v, ok := lookup("LLM_TIMEOUT_SEC"); ok && v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			return fmt.Errorf("invalid LLM_TIMEOUT_SEC %q", v)
		}
		c.LLM.TimeoutSec = sec
	}
	if v, ok := lookup("OTEL_TRACES_STDOUT"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid OTEL_TRACES_STDOUT %q", v)
		}
		c.TracesStdout = enabled
	}

	if v, ok := lookup("LLM_PRIMARY_MODEL"); ok && v != "" {
		c.setTierModel(0, v)
	}
	if v, ok := lookup("LLM_FALLBACK_MODEL"); ok && v != "" {
		c.setTierModel(1, v)
	}

	// Ключ выбирается по backend'у, поэтому читается после LLM_BACKEND.
	switch strings.ToLower(c.LLM.Backend) {
	case "openai":
		str("OPENAI_API_KEY", &c.LLM.APIKey)
	default:
		str("GOOGLE_API_KEY", &c.LLM.APIKey)
	}

	return nil
}

// setTierModel задаёт модель уровня i, добавляя уровни при необходимости.
func (c *Config) setTierModel(i int, model string) {
	for n := len(c.LLM.Tiers); n <= i; n++ {
		name := "primary"
		if n > 0 {
			name = "fallback"
		}
		c.LLM.Tiers = append(c.LLM.Tiers, TierConfig{Name: name})
	}
	c.LLM.Tiers[i].Model = model
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
