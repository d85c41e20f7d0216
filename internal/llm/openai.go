package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient — клиент OpenAI-совместимого chat completions API.
type OpenAIClient struct {
	opts Options

	mu     sync.Mutex
	client *openai.Client
}

// NewOpenAIClient создаёт клиента. Ключ проверяется при первом вызове.
func NewOpenAIClient(opts Options) *OpenAIClient {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &OpenAIClient{opts: opts}
}

// Generate реализует Client.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := c.getClient()
	if err != nil {
		return "", c.wrap(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", c.wrap(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", c.wrap(ErrEmptyResponse)
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) getClient() (*openai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.opts.APIKey == "" {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY", ErrMissingAPIKey)
	}

	cfg := openai.DefaultConfig(c.opts.APIKey)
	if c.opts.BaseURL != "" {
		cfg.BaseURL = c.opts.BaseURL
	}

	c.client = openai.NewClientWithConfig(cfg)
	return c.client, nil
}

func (c *OpenAIClient) wrap(err error) error {
	return &ProviderError{Provider: BackendOpenAI, Model: c.opts.Model, Err: err}
}
