package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/selvaganesh19/mailform/core/logger"
)

// Config holds the drafting backend configuration. The default base URL is
// Cohere's OpenAI-compatible surface, so any compatible provider works.
type Config struct {
	APIKey      string        `yaml:"api_key" envconfig:"COHERE_API_KEY"`
	BaseURL     string        `yaml:"base_url" envconfig:"COHERE_BASE_URL"`
	Model       string        `yaml:"model" envconfig:"COHERE_MODEL"`
	MaxTokens   int           `yaml:"max_tokens" envconfig:"COHERE_MAX_TOKENS"`
	Attempts    int           `yaml:"attempts" envconfig:"COHERE_ATTEMPTS"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"COHERE_TIMEOUT"`
	Temperature float32       `yaml:"temperature" envconfig:"COHERE_TEMPERATURE"`
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.cohere.ai/compatibility/v1"
	}
	if c.Model == "" {
		c.Model = "command"
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 300
	}
	if c.Attempts <= 0 {
		c.Attempts = 2
	}
	if c.Timeout <= 0 {
		c.Timeout = 20 * time.Second
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
}

// Client drafts email bodies through a chat completion API.
type Client struct {
	api *openai.Client
	cfg Config
}

// New builds a drafting client. The API key is required.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("generator: missing COHERE_API_KEY")
	}
	cfg.applyDefaults()

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL

	return &Client{
		api: openai.NewClientWithConfig(clientConfig),
		cfg: cfg,
	}, nil
}

// Generate produces an email body for the given form answers. Each attempt
// gets its own timeout; transient failures are retried once.
func (c *Client) Generate(ctx context.Context, role, tone, topic, subject string) (string, error) {
	prompt := fmt.Sprintf("Write a %s email from a %s about: %s. Subject: %q.", tone, role, topic, subject)

	var lastErr error
	for attempt := 1; attempt <= c.cfg.Attempts; attempt++ {
		text, err := c.complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		logger.Warn(ctx, "generator", "draft.attempt_failed",
			slog.Int("attempt", attempt),
			slog.Int("attempts", c.cfg.Attempts),
			slog.String("model", c.cfg.Model),
			slog.String("err", err.Error()),
		)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("generator: all %d attempts failed: %w", c.cfg.Attempts, lastErr)
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(attemptCtx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generator: empty completion response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("generator: blank completion text")
	}

	logger.Debug(ctx, "generator", "draft.ok",
		slog.String("model", c.cfg.Model),
		slog.Int("elapsed_ms", int(logger.RoundMS(time.Since(start)).Milliseconds())),
	)
	return text, nil
}
