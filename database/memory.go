package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/uxmentor/uxmentor-be/types"
)

// MemoryStore is an in-memory DocumentStore for tests and local runs.
// Chunks are kept in insertion order, which fixes the tie-break order of
// similarity search results.
type MemoryStore struct {
	mu        sync.RWMutex
	documents map[string]*types.Document
	chunks    []*types.DocumentChunk
	chunkByID map[string]*types.DocumentChunk
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents: make(map[string]*types.Document),
		chunkByID: make(map[string]*types.DocumentChunk),
	}
}

func (s *MemoryStore) InsertDocument(ctx context.Context, doc *types.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; ok {
		return fmt.Errorf("document %s already exists", doc.ID)
	}
	copied := *doc
	s.documents[doc.ID] = &copied
	return nil
}

func (s *MemoryStore) UpdateDocument(ctx context.Context, doc *types.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; !ok {
		return types.ErrDocumentNotFound
	}
	doc.UpdatedAt = time.Now().UTC()
	copied := *doc
	s.documents[doc.ID] = &copied
	return nil
}

func (s *MemoryStore) FindDocumentByPath(ctx context.Context, path string) (*types.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.documents {
		if doc.FilePath == path {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, types.ErrDocumentNotFound
	}
	copied := *doc
	return &copied, nil
}

func (s *MemoryStore) ListDocuments(ctx context.Context) ([]*types.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]*types.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		copied := *doc
		docs = append(docs, &copied)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

func (s *MemoryStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return types.ErrDocumentNotFound
	}
	delete(s.documents, id)
	return nil
}

func (s *MemoryStore) InsertChunks(ctx context.Context, chunks []*types.DocumentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		if _, ok := s.chunkByID[chunk.ID]; ok {
			return fmt.Errorf("chunk %s already exists", chunk.ID)
		}
	}
	for _, chunk := range chunks {
		copied := *chunk
		s.chunks = append(s.chunks, &copied)
		s.chunkByID[chunk.ID] = &copied
	}
	return nil
}

func (s *MemoryStore) FindChunksBySource(ctx context.Context, source string) ([]*types.DocumentChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*types.DocumentChunk
	for _, chunk := range s.chunks {
		if chunk.Source == source {
			copied := *chunk
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ChunkIndex < result[j].ChunkIndex
	})
	return result, nil
}

func (s *MemoryStore) FindChunksWithEmbedding(ctx context.Context) ([]*types.DocumentChunk, error) {
	return s.filterChunks(func(c *types.DocumentChunk) bool { return c.HasEmbedding() })
}

func (s *MemoryStore) FindChunksWithoutEmbedding(ctx context.Context) ([]*types.DocumentChunk, error) {
	return s.filterChunks(func(c *types.DocumentChunk) bool { return !c.HasEmbedding() })
}

func (s *MemoryStore) UpdateChunkEmbedding(ctx context.Context, id string, embedding []float32) error {
	encoded, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	chunk, ok := s.chunkByID[id]
	if !ok {
		return fmt.Errorf("chunk %s not found", id)
	}
	chunk.Embedding = string(encoded)
	chunk.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) DeleteChunksBySource(ctx context.Context, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.chunks[:0]
	for _, chunk := range s.chunks {
		if chunk.Source == source {
			delete(s.chunkByID, chunk.ID)
			continue
		}
		kept = append(kept, chunk)
	}
	s.chunks = kept
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) filterChunks(keep func(*types.DocumentChunk) bool) ([]*types.DocumentChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*types.DocumentChunk
	for _, chunk := range s.chunks {
		if keep(chunk) {
			copied := *chunk
			result = append(result, &copied)
		}
	}
	return result, nil
}
