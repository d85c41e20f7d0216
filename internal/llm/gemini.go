package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GeminiClient — клиент Google Gemini через langchaingo.
type GeminiClient struct {
	opts Options

	mu  sync.Mutex
	llm *googleai.GoogleAI
}

// NewGeminiClient создаёт клиента. Соединение не устанавливается до первого вызова.
func NewGeminiClient(opts Options) *GeminiClient {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &GeminiClient{opts: opts}
}

// Generate реализует Client.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	model, err := c.model(ctx)
	if err != nil {
		return "", c.wrap(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	text, err := llms.GenerateFromSinglePrompt(ctx, model, prompt, llms.WithModel(c.opts.Model))
	if err != nil {
		return "", c.wrap(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", c.wrap(ErrEmptyResponse)
	}

	return text, nil
}

// model возвращает langchaingo-модель, создавая её при первом обращении.
func (c *GeminiClient) model(ctx context.Context) (*googleai.GoogleAI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.llm != nil {
		return c.llm, nil
	}
	if c.opts.APIKey == "" {
		return nil, fmt.Errorf("%w: set GOOGLE_API_KEY", ErrMissingAPIKey)
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(c.opts.APIKey),
		googleai.WithDefaultModel(c.opts.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create googleai client: %w", err)
	}

	c.llm = llm
	return llm, nil
}

func (c *GeminiClient) wrap(err error) error {
	return &ProviderError{Provider: BackendGemini, Model: c.opts.Model, Err: err}
}
