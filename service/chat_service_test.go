package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxmentor/uxmentor-be/database"
	"github.com/uxmentor/uxmentor-be/types"
)

// fakeAIService records the prompt it was given and replies with a fixed
// answer.
type fakeAIService struct {
	prompt  string
	history []types.Message
	answer  string
}

func (f *fakeAIService) Chat(ctx context.Context, prompt string, messages []types.Message) (string, error) {
	f.prompt = prompt
	f.history = messages
	return f.answer, nil
}

func (f *fakeAIService) ChatStream(ctx context.Context, prompt string, messages []types.Message, handler types.StreamHandler) error {
	f.prompt = prompt
	f.history = messages
	for _, r := range f.answer {
		handler(string(r))
	}
	return nil
}

func newTestChatService(store database.DocumentStore, ai AIService) *ChatService {
	embedding := newTestEmbeddingService(&fakeEmbeddingClient{}, store, 100)
	vector := NewVectorService(store, embedding, nil)
	return NewChatService(vector, ai, 2)
}

func TestChatAskBuildsRetrievalPrompt(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()

	// The fake embedding client keys vectors on text length, so a chunk
	// whose content length matches the question aligns with it exactly.
	question := "how do I prepare?"
	seedChunk(t, store, "c1", "portfolio talk tips!", []float32{float32(len(question)), 0, 0})

	ai := &fakeAIService{answer: "Practice out loud."}
	svc := newTestChatService(store, ai)

	answer, sources, err := svc.Ask(ctx, []types.Message{
		{Role: "assistant", Content: "Hi, ready when you are."},
		{Role: "user", Content: question},
	})
	require.NoError(t, err)

	assert.Equal(t, "Practice out loud.", answer)
	require.Len(t, sources, 1)
	assert.Equal(t, "portfolio talk tips!", sources[0].Content)

	assert.Contains(t, ai.prompt, "Reference material:")
	assert.Contains(t, ai.prompt, "[1] portfolio talk tips!")
	assert.Contains(t, ai.prompt, "Question: "+question)
	require.Len(t, ai.history, 1)
	assert.Equal(t, "assistant", ai.history[0].Role)
}

func TestChatAskWithoutSources(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	ai := &fakeAIService{answer: "Sure."}
	svc := newTestChatService(store, ai)

	_, sources, err := svc.Ask(ctx, []types.Message{{Role: "user", Content: "hello"}})
	require.NoError(t, err)
	assert.Empty(t, sources)
	assert.Equal(t, "hello", ai.prompt, "the bare question is used when nothing is retrieved")
}

func TestChatAskRequiresUserMessage(t *testing.T) {
	svc := newTestChatService(database.NewMemoryStore(), &fakeAIService{})

	_, _, err := svc.Ask(context.Background(), []types.Message{
		{Role: "assistant", Content: "anyone there?"},
	})
	assert.Error(t, err)
}

func TestChatAskStream(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	ai := &fakeAIService{answer: "ok"}
	svc := newTestChatService(store, ai)

	var streamed string
	sources, err := svc.AskStream(ctx, []types.Message{{Role: "user", Content: "hi"}}, func(delta string) {
		streamed += delta
	})
	require.NoError(t, err)
	assert.Empty(t, sources)
	assert.Equal(t, "ok", streamed)
}

func TestLastUserMessage(t *testing.T) {
	messages := []types.Message{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "reply"},
		{Role: "user", Content: "second"},
	}
	question, history := lastUserMessage(messages)
	assert.Equal(t, "second", question)
	assert.Len(t, history, 2)

	question, history = lastUserMessage(nil)
	assert.Empty(t, question)
	assert.Empty(t, history)
}
