package service

import (
	"context"
	"errors"
	"io"

	"github.com/sashabaranov/go-openai"
	"github.com/uxmentor/uxmentor-be/types"
)

var systemMessageInterviewCoach = openai.ChatCompletionMessage{
	Role: openai.ChatMessageRoleSystem,
	Content: "You are a UX interview coach. You help candidates practice user experience " +
		"interviews: portfolio reviews, design critiques, whiteboard challenges and " +
		"behavioral questions. Ground your answers in the reference material provided " +
		"with each question; if the material does not cover the topic, say so.",
}

// OpenAIService implements AIService against an OpenAI-compatible endpoint.
type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(baseURL, apiKey, model string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (s *OpenAIService) Chat(ctx context.Context, prompt string, messages []types.Message) (string, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Messages: s.buildMessages(prompt, messages),
			Model:    s.model,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *OpenAIService) ChatStream(ctx context.Context, prompt string, messages []types.Message, handler types.StreamHandler) error {
	stream, err := s.client.CreateChatCompletionStream(
		ctx,
		openai.ChatCompletionRequest{
			Messages: s.buildMessages(prompt, messages),
			Model:    s.model,
		},
	)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if len(resp.Choices) > 0 {
			handler(resp.Choices[0].Delta.Content)
		}
	}
}

func (s *OpenAIService) buildMessages(prompt string, messages []types.Message) []openai.ChatCompletionMessage {
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+2)
	openaiMessages = append(openaiMessages, systemMessageInterviewCoach)
	for _, msg := range messages {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
	return openaiMessages
}
