package llm

import (
	"errors"
	"fmt"
)

// Ошибки конфигурации провайдеров.
var (
	// ErrMissingAPIKey — API-ключ для backend'а не задан.
	ErrMissingAPIKey = errors.New("api key is not configured")

	// ErrUnknownBackend — backend не поддерживается.
	ErrUnknownBackend = errors.New("unknown llm backend")
)

// Ошибки вызова провайдеров.
var (
	// ErrEmptyResponse — провайдер вернул пустой ответ.
	ErrEmptyResponse = errors.New("provider returned empty response")
)

// ProviderError — ошибка вызова провайдера с контекстом.
type ProviderError struct {
	Provider string // backend: gemini, openai
	Model    string // модель
	Err      error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Provider, e.Model, e.Err)
}

// Unwrap возвращает базовую ошибку.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsConfigurationError возвращает true для ошибок конфигурации
// (ключ не задан, backend неизвестен), которые не исправятся повтором.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrMissingAPIKey) || errors.Is(err, ErrUnknownBackend)
}
