package graph

import (
	"context"
	"strings"
	"sync"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/llm"
)

type call struct {
	Messages []llm.Message
	Options  llm.Options
}

// scriptedClient answers with the first rule whose marker appears in the
// last user message.
type scriptedClient struct {
	mu    sync.Mutex
	calls []call
	rules []scriptRule
}

type scriptRule struct {
	marker  string
	respond func(ctx context.Context, prompt string) (string, error)
}

func (c *scriptedClient) on(marker string, respond func(ctx context.Context, prompt string) (string, error)) *scriptedClient {
	c.rules = append(c.rules, scriptRule{marker: marker, respond: respond})
	return c
}

func (c *scriptedClient) reply(marker, text string) *scriptedClient {
	return c.on(marker, func(context.Context, string) (string, error) { return text, nil })
}

func (c *scriptedClient) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, call{Messages: messages, Options: opts})
	rules := c.rules
	c.mu.Unlock()

	prompt := messages[len(messages)-1].Content
	for _, r := range rules {
		if strings.Contains(prompt, r.marker) {
			return r.respond(ctx, prompt)
		}
	}
	return "unscripted", nil
}

func (c *scriptedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func (c *scriptedClient) prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	for i, cl := range c.calls {
		out[i] = cl.Messages[len(cl.Messages)-1].Content
	}
	return out
}
