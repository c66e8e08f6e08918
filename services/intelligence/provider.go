package ai

import (
	"context"
	"fmt"

	"agendapro/models"
)

// Provider generates assistant replies from a conversation.
type Provider interface {
	// Name identifies the provider in logs and /api/status.
	Name() string
	// Complete returns the whole reply at once.
	Complete(ctx context.Context, messages []models.ChatMessage) (string, error)
	// Stream forwards text deltas to onDelta as they arrive and returns the
	// accumulated text. When it fails part way, the text received so far is
	// returned together with the error.
	Stream(ctx context.Context, messages []models.ChatMessage, onDelta func(string)) (string, error)
}

// HTTPStatusError captures non-2xx upstream responses.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// splitSystem separates leading system messages from the conversation that follows.
func splitSystem(messages []models.ChatMessage) (system []string, rest []models.ChatMessage) {
	for _, m := range messages {
		if m.Role == models.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
