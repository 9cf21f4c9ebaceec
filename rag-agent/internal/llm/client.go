// Package llm provides the narrow completion interface used by the workflow
// nodes, plus the concrete completion backends.
package llm

import (
	"context"
	"errors"
)

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Options carries per-call settings.
type Options struct {
	System string
}

// Client issues one completion call and returns the concatenated text output.
// Implementations must be safe for concurrent use.
type Client interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

// ErrNoAPIKey is returned when a live call is attempted without credentials.
var ErrNoAPIKey = errors.New("llm: API key not configured")

// UserMessage is shorthand for a single user turn.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}
