package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/uxmentor/uxmentor-be/database"
	"github.com/uxmentor/uxmentor-be/types"
)

// EmbeddingClient is the slice of the OpenAI client the embedding service
// uses. *openai.Client satisfies it.
type EmbeddingClient interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// EmbeddingService converts text into fixed-length vectors via the OpenAI
// embeddings API and persists them onto chunks.
type EmbeddingService struct {
	client     EmbeddingClient
	store      database.DocumentStore
	model      string
	dimensions int
	batchSize  int
	batchDelay time.Duration
	logger     *slog.Logger
}

type EmbeddingServiceConfig struct {
	Model      string
	Dimensions int
	BatchSize  int
	BatchDelay time.Duration
	Logger     *slog.Logger
}

func NewEmbeddingService(client EmbeddingClient, store database.DocumentStore, cfg EmbeddingServiceConfig) *EmbeddingService {
	if cfg.Model == "" {
		cfg.Model = string(openai.SmallEmbedding3)
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = 1536
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchDelay <= 0 {
		cfg.BatchDelay = 100 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EmbeddingService{
		client:     client,
		store:      store,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		batchSize:  cfg.BatchSize,
		batchDelay: cfg.BatchDelay,
		logger:     logger,
	}
}

// Dimensions returns the vector length the configured model produces.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// EmbedQuery embeds a single query string. Provider errors are propagated,
// not retried.
func (s *EmbeddingService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds the given chunks in fixed-size batches, persisting each
// returned vector onto its chunk. A short pause between batches keeps the
// provider's rate limiter happy. A failed batch aborts the operation;
// vectors from earlier batches stay persisted.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, chunks []*types.DocumentChunk) error {
	total := len(chunks)
	for start := 0; start < total; start += s.batchSize {
		end := start + s.batchSize
		if end > total {
			end = total
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Content
		}
		vectors, err := s.embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed batch %d-%d: %w", start, end, err)
		}
		for i, chunk := range batch {
			if err := s.store.UpdateChunkEmbedding(ctx, chunk.ID, vectors[i]); err != nil {
				return fmt.Errorf("failed to save embedding for chunk %s: %w", chunk.ID, err)
			}
		}
		s.logger.Info("embedded batch", "from", start, "to", end, "total", total)

		if end < total {
			time.Sleep(s.batchDelay)
		}
	}
	return nil
}

func (s *EmbeddingService) embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      texts,
		Model:      openai.EmbeddingModel(s.model),
		Dimensions: s.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEmbeddingProvider, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs",
			types.ErrEmbeddingProvider, len(resp.Data), len(texts))
	}
	vectors := make([][]float32, len(resp.Data))
	for _, item := range resp.Data {
		if len(item.Embedding) != s.dimensions {
			return nil, fmt.Errorf("%w: got vector of length %d, want %d",
				types.ErrEmbeddingProvider, len(item.Embedding), s.dimensions)
		}
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}
