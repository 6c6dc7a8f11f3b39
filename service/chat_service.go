package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uxmentor/uxmentor-be/types"
)

const defaultContextLimit = 5

// ChatService answers interview-practice questions with retrieval-augmented
// prompts: the latest user message is embedded, the closest chunks are
// retrieved, and the chat collaborator is invoked with both.
type ChatService struct {
	vector       *VectorService
	ai           AIService
	contextLimit int
}

func NewChatService(vector *VectorService, ai AIService, contextLimit int) *ChatService {
	if contextLimit <= 0 {
		contextLimit = defaultContextLimit
	}
	return &ChatService{
		vector:       vector,
		ai:           ai,
		contextLimit: contextLimit,
	}
}

// Ask answers the conversation's latest user message and returns the answer
// together with the supporting chunks.
func (s *ChatService) Ask(ctx context.Context, messages []types.Message) (string, []types.SearchResultItem, error) {
	prompt, sources, history, err := s.prepare(ctx, messages)
	if err != nil {
		return "", nil, err
	}
	answer, err := s.ai.Chat(ctx, prompt, history)
	if err != nil {
		return "", nil, err
	}
	return answer, sources, nil
}

// AskStream is Ask with the answer delivered incrementally through handler.
func (s *ChatService) AskStream(ctx context.Context, messages []types.Message, handler types.StreamHandler) ([]types.SearchResultItem, error) {
	prompt, sources, history, err := s.prepare(ctx, messages)
	if err != nil {
		return nil, err
	}
	if err := s.ai.ChatStream(ctx, prompt, history, handler); err != nil {
		return nil, err
	}
	return sources, nil
}

func (s *ChatService) prepare(ctx context.Context, messages []types.Message) (string, []types.SearchResultItem, []types.Message, error) {
	question, history := lastUserMessage(messages)
	if question == "" {
		return "", nil, nil, errors.New("no user message to answer")
	}

	sources, err := s.vector.SearchDocuments(ctx, question, s.contextLimit)
	if err != nil {
		return "", nil, nil, err
	}
	return buildPrompt(question, sources), sources, history, nil
}

// lastUserMessage returns the newest user message and the conversation
// before it.
func lastUserMessage(messages []types.Message) (string, []types.Message) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content, messages[:i]
		}
	}
	return "", nil
}

func buildPrompt(question string, sources []types.SearchResultItem) string {
	if len(sources) == 0 {
		return question
	}
	var sb strings.Builder
	sb.WriteString("Reference material:\n")
	for i, source := range sources {
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, source.Content)
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	return sb.String()
}
