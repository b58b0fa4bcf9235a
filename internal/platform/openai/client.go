package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/showgraph/showgraph-backend/internal/platform/envutil"
	"github.com/showgraph/showgraph-backend/internal/platform/logger"
)

// Client is the language-model call surface used for query translation. The
// model's output is untrusted; callers must validate it before acting on it.
type Client interface {
	// GenerateJSON sends a system+user prompt and returns the model's reply
	// parsed as a JSON object.
	GenerateJSON(ctx context.Context, system string, user string) (map[string]any, error)
}

type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:  envutil.String("OPENAI_API_KEY", ""),
		Model:   envutil.String("OPENAI_MODEL", "gpt-4o-mini"),
		Timeout: time.Duration(envutil.Int("OPENAI_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}

type client struct {
	api     *goopenai.Client
	model   string
	timeout time.Duration
	log     *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("openai: logger required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: missing OPENAI_API_KEY")
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &client{
		api:     goopenai.NewClient(cfg.APIKey),
		model:   model,
		timeout: timeout,
		log:     log.With("client", "OpenAI"),
	}, nil
}

func (c *client) GenerateJSON(ctx context.Context, system string, user string) (map[string]any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty response")
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return nil, fmt.Errorf("openai: decode model output: %w", err)
	}
	c.log.Debug("model reply decoded", "model", c.model, "finish_reason", resp.Choices[0].FinishReason)
	return out, nil
}
