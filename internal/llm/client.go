// Package llm wraps the chat-completion API used for search-condition
// extraction. The model is treated as an unreliable text-in/text-out oracle;
// everything that depends on the shape of its output lives in the extractor,
// not here.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"
)

// Client produces a raw completion for a system/user prompt pair. No
// structural guarantee is made about the returned text.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error)
}

// OpenAIConfig holds configuration for an OpenAI-compatible chat API
// (OpenAI, OpenRouter, Ollama, LMStudio, etc).
type OpenAIConfig struct {
	APIKey        string
	Endpoint      string
	Model         string
	RetryAttempts uint
	Logger        *log.Logger
}

func NewOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Endpoint:      "https://api.openai.com/v1",
		RetryAttempts: 3,
	}
}

func (c OpenAIConfig) WithAPIKey(apiKey string) OpenAIConfig {
	c.APIKey = apiKey
	return c
}
func (c OpenAIConfig) WithEndpoint(endpoint string) OpenAIConfig {
	c.Endpoint = endpoint
	return c
}
func (c OpenAIConfig) WithModel(model string) OpenAIConfig {
	c.Model = model
	return c
}
func (c OpenAIConfig) WithRetryAttempts(attempts uint) OpenAIConfig {
	c.RetryAttempts = attempts
	return c
}
func (c OpenAIConfig) WithLogger(logger *log.Logger) OpenAIConfig {
	c.Logger = logger
	return c
}

func (c OpenAIConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.RetryAttempts == 0 {
		return fmt.Errorf("retry attempts must be greater than 0")
	}
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	return nil
}

// OpenAIClient implements Client against any OpenAI-compatible endpoint.
type OpenAIClient struct {
	config OpenAIConfig
	client *openai.Client
	logger *log.Logger
}

func NewOpenAIClient(config OpenAIConfig) (*OpenAIClient, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg := openai.DefaultConfig(config.APIKey)
	cfg.BaseURL = config.Endpoint
	return &OpenAIClient{
		config: config,
		client: openai.NewClientWithConfig(cfg),
		logger: config.Logger,
	}, nil
}

// NewOpenRouterClient creates a Client configured for OpenRouter's
// OpenAI-compatible API.
func NewOpenRouterClient(logger *log.Logger, apiKey, model string) (*OpenAIClient, error) {
	return NewOpenAIClient(NewOpenAIConfig().
		WithAPIKey(apiKey).
		WithModel(model).
		WithEndpoint("https://openrouter.ai/api/v1").
		WithLogger(logger))
}

func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	var content string
	start := time.Now()
	err := retry.Do(
		func() error {
			resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:       c.config.Model,
				Temperature: temperature,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
					{Role: openai.ChatMessageRoleUser, Content: userPrompt},
				},
			})
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("no choices in response")
			}
			content = resp.Choices[0].Message.Content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.config.RetryAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("Retrying completion request",
				"attempt", n+1,
				"max_attempts", c.config.RetryAttempts,
				"error", err)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to get completion: %w", err)
	}
	c.logger.Debug("Completion request succeeded",
		"model", c.config.Model,
		"response_length", len(content),
		"duration", time.Since(start))
	return content, nil
}
