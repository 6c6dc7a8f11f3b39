package service

import (
	"context"

	"github.com/uxmentor/uxmentor-be/types"
)

// AIService is the chat-completion collaborator. The document pipeline only
// hands it a prompt string (with retrieved context already folded in) and
// the conversation so far.
type AIService interface {
	Chat(ctx context.Context, prompt string, messages []types.Message) (string, error)
	ChatStream(ctx context.Context, prompt string, messages []types.Message, handler types.StreamHandler) error
}
