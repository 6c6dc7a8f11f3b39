package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxmentor/uxmentor-be/database"
	"github.com/uxmentor/uxmentor-be/types"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score 1", func(t *testing.T) {
		got, err := CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got, 1e-9)
	})

	t.Run("opposite vectors score -1", func(t *testing.T) {
		got, err := CosineSimilarity([]float32{1, 0, 0}, []float32{-1, 0, 0})
		require.NoError(t, err)
		assert.InDelta(t, -1.0, got, 1e-9)
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		got, err := CosineSimilarity([]float32{1, 0, 0}, []float32{0, 1, 0})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, got, 1e-9)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := []float32{0.3, -0.5, 0.8}
		b := []float32{-0.1, 0.9, 0.2}
		ab, err := CosineSimilarity(a, b)
		require.NoError(t, err)
		ba, err := CosineSimilarity(b, a)
		require.NoError(t, err)
		assert.InDelta(t, ab, ba, 1e-12)
	})

	t.Run("zero vector scores 0", func(t *testing.T) {
		got, err := CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
		assert.ErrorIs(t, err, types.ErrDimensionMismatch)
	})
}

func seedChunk(t *testing.T, store database.DocumentStore, id, content string, vector []float32) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	err := store.InsertChunks(ctx, []*types.DocumentChunk{{
		ID:        id,
		Content:   content,
		Source:    "doc-1",
		CreatedAt: now,
		UpdatedAt: now,
	}})
	require.NoError(t, err)
	if vector != nil {
		require.NoError(t, store.UpdateChunkEmbedding(ctx, id, vector))
	}
}

func TestVectorSearchOrdering(t *testing.T) {
	store := database.NewMemoryStore()
	seedChunk(t, store, "c1", "matches exactly", []float32{1, 0, 0})
	seedChunk(t, store, "c2", "unrelated", []float32{0, 1, 0})
	seedChunk(t, store, "c3", "opposite", []float32{-1, 0, 0})

	svc := NewVectorService(store, nil, nil)
	results, err := svc.Search(context.Background(), []float32{1, 0, 0}, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "c1", results[0].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-9)
	assert.Equal(t, "c2", results[1].Chunk.ID)
	assert.InDelta(t, 0.0, results[1].Similarity, 1e-9)
	assert.Equal(t, "c3", results[2].Chunk.ID)
	assert.InDelta(t, -1.0, results[2].Similarity, 1e-9)
}

func TestVectorSearchLimit(t *testing.T) {
	store := database.NewMemoryStore()
	seedChunk(t, store, "c1", "a", []float32{1, 0, 0})
	seedChunk(t, store, "c2", "b", []float32{0.9, 0.1, 0})
	seedChunk(t, store, "c3", "c", []float32{0, 1, 0})

	svc := NewVectorService(store, nil, nil)
	results, err := svc.Search(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "c1", results[0].Chunk.ID)
	assert.Equal(t, "c2", results[1].Chunk.ID)
}

func TestVectorSearchSkipsUnembeddedChunks(t *testing.T) {
	store := database.NewMemoryStore()
	seedChunk(t, store, "c1", "embedded", []float32{1, 0, 0})
	seedChunk(t, store, "c2", "never embedded", nil)

	svc := NewVectorService(store, nil, nil)
	results, err := svc.Search(context.Background(), []float32{1, 0, 0}, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].Chunk.ID)
}

func TestVectorSearchSkipsMalformedEmbedding(t *testing.T) {
	store := database.NewMemoryStore()
	seedChunk(t, store, "c1", "good", []float32{1, 0, 0})

	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, store.InsertChunks(ctx, []*types.DocumentChunk{{
		ID:        "c2",
		Content:   "bad",
		Source:    "doc-1",
		Embedding: "{not json",
		CreatedAt: now,
		UpdatedAt: now,
	}}))

	svc := NewVectorService(store, nil, nil)
	results, err := svc.Search(ctx, []float32{1, 0, 0}, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].Chunk.ID)
}

func TestVectorSearchDimensionMismatchFails(t *testing.T) {
	store := database.NewMemoryStore()
	seedChunk(t, store, "c1", "short vector", []float32{1, 0})

	svc := NewVectorService(store, nil, nil)
	_, err := svc.Search(context.Background(), []float32{1, 0, 0}, 0)
	assert.ErrorIs(t, err, types.ErrDimensionMismatch)
}
