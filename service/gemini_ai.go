package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/uxmentor/uxmentor-be/types"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiService implements AIService against the Gemini API. Multiple API
// keys can be supplied; on a failed call the service rotates to the next
// key and retries once.
type GeminiService struct {
	apiKeys    []string
	currentKey int
	client     *genai.Client
	model      *genai.GenerativeModel
	modelName  string
	mu         sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName string) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	service := &GeminiService{
		apiKeys:   apiKeys,
		modelName: modelName,
	}
	if err := service.initClient(); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *GeminiService) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	s.model = client.GenerativeModel(s.modelName)
	return nil
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.initClient()
}

func (s *GeminiService) Chat(ctx context.Context, prompt string, messages []types.Message) (string, error) {
	chat := s.startChat(messages)
	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		if err := s.rotateAPIKey(); err != nil {
			return "", err
		}
		chat = s.startChat(messages)
		resp, err = chat.SendMessage(ctx, genai.Text(prompt))
		if err != nil {
			return "", err
		}
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("no response generated")
	}

	content := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	return content, nil
}

func (s *GeminiService) ChatStream(ctx context.Context, prompt string, messages []types.Message, handler types.StreamHandler) error {
	chat := s.startChat(messages)
	iter := chat.SendMessageStream(ctx, genai.Text(prompt))

	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					handler(string(text))
				}
			}
		}
	}
}

func (s *GeminiService) startChat(messages []types.Message) *genai.ChatSession {
	history := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := msg.Role
		if role == "assistant" {
			role = "model"
		}
		history = append(history, &genai.Content{
			Parts: []genai.Part{genai.Text(msg.Content)},
			Role:  role,
		})
	}
	chat := s.model.StartChat()
	chat.History = history
	return chat
}
