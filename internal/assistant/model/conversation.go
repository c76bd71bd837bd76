package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ConversationRepository stores the per-session transcript. Implementations
// must preserve append order; the dialogue controller is the only writer.
type ConversationRepository interface {
	// AddMessage appends a message to the session's transcript.
	AddMessage(ctx context.Context, sessionID string, message *schema.Message) error

	// LoadHistory retrieves the full transcript for a session.
	LoadHistory(ctx context.Context, sessionID string) (*ConversationHistory, error)

	// ClearHistory removes the session's transcript.
	ClearHistory(ctx context.Context, sessionID string) error

	// GetMessageCount returns the number of transcript messages.
	GetMessageCount(ctx context.Context, sessionID string) (int, error)
}

// ConversationHistory represents a loaded transcript.
type ConversationHistory struct {
	SessionID string
	Messages  []*schema.Message
}
