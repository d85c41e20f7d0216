package llm

import (
	"context"
	"strings"
	"time"
)

// Поддерживаемые backend'ы.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

const defaultTimeout = 60 * time.Second

// Client — клиент генерации текста для одной модели.
type Client interface {
	// Generate отправляет prompt и возвращает сгенерированный текст.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options — параметры клиента.
type Options struct {
	// Backend — gemini или openai.
	Backend string

	// APIKey — ключ доступа. Пустой ключ — ошибка при первом вызове.
	APIKey string

	// BaseURL — адрес OpenAI-совместимого API (только для openai).
	BaseURL string

	// Model — имя модели.
	Model string

	// Timeout — таймаут одного вызова. По умолчанию 60 секунд.
	Timeout time.Duration
}

// New создаёт клиента для backend'а.
//
// Для неизвестного backend'а возвращается клиент, каждый вызов которого
// завершается ErrUnknownBackend: ошибка конфигурации не роняет процесс.
func New(opts Options) Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	switch strings.ToLower(opts.Backend) {
	case BackendGemini, "":
		return NewGeminiClient(opts)
	case BackendOpenAI:
		return NewOpenAIClient(opts)
	default:
		return &failingClient{opts: opts, err: ErrUnknownBackend}
	}
}

// failingClient — клиент, который всегда возвращает ошибку конфигурации.
type failingClient struct {
	opts Options
	err  error
}

// Generate реализует Client.
func (c *failingClient) Generate(_ context.Context, _ string) (string, error) {
	return "", &ProviderError{Provider: c.opts.Backend, Model: c.opts.Model, Err: c.err}
}
