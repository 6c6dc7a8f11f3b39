package database

import (
	"context"

	"github.com/uxmentor/uxmentor-be/types"
)

// DocumentStore defines the persistence operations the document pipeline
// depends on. Implementations must return (nil, nil) from FindDocumentByPath
// when no record matches, and types.ErrDocumentNotFound from GetDocument.
type DocumentStore interface {
	// Document operations
	InsertDocument(ctx context.Context, doc *types.Document) error
	UpdateDocument(ctx context.Context, doc *types.Document) error
	FindDocumentByPath(ctx context.Context, path string) (*types.Document, error)
	GetDocument(ctx context.Context, id string) (*types.Document, error)
	ListDocuments(ctx context.Context) ([]*types.Document, error)
	DeleteDocument(ctx context.Context, id string) error

	// Chunk operations
	InsertChunks(ctx context.Context, chunks []*types.DocumentChunk) error
	FindChunksBySource(ctx context.Context, source string) ([]*types.DocumentChunk, error)
	FindChunksWithEmbedding(ctx context.Context) ([]*types.DocumentChunk, error)
	FindChunksWithoutEmbedding(ctx context.Context) ([]*types.DocumentChunk, error)
	UpdateChunkEmbedding(ctx context.Context, id string, embedding []float32) error
	DeleteChunksBySource(ctx context.Context, source string) error

	// Close releases the underlying connections.
	Close(ctx context.Context) error
}
