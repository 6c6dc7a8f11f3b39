package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/uxmentor/uxmentor-be/database"
	"github.com/uxmentor/uxmentor-be/types"
)

// VectorService ranks stored chunk embeddings against a query vector by
// cosine similarity. The scan is brute force: O(N*D) per query, which is
// fine at the corpus sizes this service holds.
type VectorService struct {
	store     database.DocumentStore
	embedding *EmbeddingService
	logger    *slog.Logger
}

func NewVectorService(store database.DocumentStore, embedding *EmbeddingService, logger *slog.Logger) *VectorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &VectorService{
		store:     store,
		embedding: embedding,
		logger:    logger,
	}
}

// Search scores every embedded chunk against queryVector and returns the
// top limit results in descending similarity order. A chunk whose stored
// vector fails to parse is skipped; a vector of the wrong length fails the
// whole search, since it signals mixed embedding models in storage.
func (s *VectorService) Search(ctx context.Context, queryVector []float32, limit int) ([]*types.SearchResult, error) {
	chunks, err := s.store.FindChunksWithEmbedding(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded chunks: %w", err)
	}

	results := make([]*types.SearchResult, 0, len(chunks))
	for _, chunk := range chunks {
		var vector []float32
		if err := json.Unmarshal([]byte(chunk.Embedding), &vector); err != nil {
			s.logger.Warn("skipping chunk with malformed embedding", "chunk", chunk.ID, "error", err)
			continue
		}
		similarity, err := CosineSimilarity(queryVector, vector)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", chunk.ID, err)
		}
		results = append(results, &types.SearchResult{
			Chunk:      chunk,
			Similarity: similarity,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// SearchDocuments embeds the query text and returns the top limit matches
// as consumer-facing items.
func (s *VectorService) SearchDocuments(ctx context.Context, query string, limit int) ([]types.SearchResultItem, error) {
	queryVector, err := s.embedding.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	results, err := s.Search(ctx, queryVector, limit)
	if err != nil {
		return nil, err
	}

	items := make([]types.SearchResultItem, len(results))
	for i, result := range results {
		items[i] = types.SearchResultItem{
			Content:    result.Chunk.Content,
			Source:     result.Chunk.Source,
			Similarity: result.Similarity,
			Page:       result.Chunk.Page,
			Section:    result.Chunk.Section,
		}
	}
	return items, nil
}

// CosineSimilarity returns dot(a,b) / (|a|*|b|), in [-1, 1]. Vectors of
// different lengths are an error; a zero vector scores 0, never NaN.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", types.ErrDimensionMismatch, len(a), len(b))
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
