package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicConfig configures the Anthropic backend.
type AnthropicConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int
	MaxRetries int
	Timeout    time.Duration
}

// Anthropic implements Client on top of the Messages API. The SDK client is
// built on the first call, so constructing an Anthropic never touches the
// network or requires credentials.
type Anthropic struct {
	cfg    AnthropicConfig
	once   sync.Once
	client anthropic.Client
}

// NewAnthropic creates an Anthropic backend.
func NewAnthropic(cfg AnthropicConfig) *Anthropic {
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-20250514"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	return &Anthropic{cfg: cfg}
}

func (a *Anthropic) sdk() anthropic.Client {
	a.once.Do(func() {
		opts := []option.RequestOption{
			option.WithAPIKey(a.cfg.APIKey),
			option.WithMaxRetries(a.cfg.MaxRetries),
		}
		if a.cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(a.cfg.BaseURL))
		}
		if a.cfg.Timeout > 0 {
			opts = append(opts, option.WithRequestTimeout(a.cfg.Timeout))
		}
		a.client = anthropic.NewClient(opts...)
	})
	return a.client
}

// Complete sends the messages and joins every text block of the reply.
func (a *Anthropic) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	if a.cfg.APIKey == "" {
		return "", ErrNoAPIKey
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.cfg.Model),
		MaxTokens:   int64(a.cfg.MaxTokens),
		Temperature: anthropic.Float(0),
		Messages:    make([]anthropic.MessageParam, 0, len(messages)),
	}
	if opts.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: opts.System}}
	}
	for _, m := range messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}

	client := a.sdk()
	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("calling anthropic: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}
