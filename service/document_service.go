package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uxmentor/uxmentor-be/database"
	"github.com/uxmentor/uxmentor-be/types"
)

var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// DocumentService drives the document lifecycle: extraction, chunking,
// chunk persistence and embedding backfill, tracking per-document status.
type DocumentService struct {
	store     database.DocumentStore
	extractor Extractor
	chunker   *ChunkService
	embedding *EmbeddingService
	logger    *slog.Logger
}

func NewDocumentService(
	store database.DocumentStore,
	extractor Extractor,
	chunker *ChunkService,
	embedding *EmbeddingService,
	logger *slog.Logger,
) *DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{
		store:     store,
		extractor: extractor,
		chunker:   chunker,
		embedding: embedding,
		logger:    logger,
	}
}

// ProcessDocument runs the full ingestion pipeline for the file at filePath:
// extract, normalize, chunk and persist. Chunks are stored without
// embeddings; BackfillEmbeddings attaches them later.
//
// Re-processing an already completed path returns the existing record
// unchanged, as does a path currently marked processing. The processing
// guard is a best-effort check, not a lock; truly concurrent calls for the
// same path can still race.
func (s *DocumentService) ProcessDocument(ctx context.Context, filePath, originalName string) (*types.Document, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if !s.extractor.SupportedExtension(ext) {
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, ext)
	}

	doc, err := s.store.FindDocumentByPath(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to look up document: %w", err)
	}
	if doc != nil {
		switch doc.Status {
		case types.DocumentStatusCompleted:
			s.logger.Info("document already processed", "path", filePath, "id", doc.ID)
			return doc, nil
		case types.DocumentStatusProcessing:
			s.logger.Info("document already being processed", "path", filePath, "id", doc.ID)
			return doc, nil
		}
	}

	if doc == nil {
		doc, err = s.createDocument(ctx, filePath, originalName, ext)
		if err != nil {
			return nil, err
		}
	} else {
		doc.Status = types.DocumentStatusProcessing
		doc.ErrorMessage = ""
		if err := s.store.UpdateDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("failed to mark document processing: %w", err)
		}
	}

	text, err := s.extractor.ExtractText(filePath)
	if err != nil {
		return nil, s.failDocument(ctx, doc, err)
	}
	text = s.chunker.NormalizeText(text)
	chunks := s.chunker.CreateChunks(text, doc.ID)

	if err := s.store.InsertChunks(ctx, chunks); err != nil {
		return nil, s.failDocument(ctx, doc, fmt.Errorf("failed to persist chunks: %w", err))
	}

	doc.Status = types.DocumentStatusCompleted
	doc.TotalChunks = len(chunks)
	doc.TotalTokens = 0
	for _, chunk := range chunks {
		doc.TotalTokens += chunk.TokenCount
	}
	if err := s.store.UpdateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to mark document completed: %w", err)
	}

	s.logger.Info("document processed", "id", doc.ID, "chunks", doc.TotalChunks, "tokens", doc.TotalTokens)
	return doc, nil
}

func (s *DocumentService) createDocument(ctx context.Context, filePath, originalName, ext string) (*types.Document, error) {
	var size int64
	if info, err := os.Stat(filePath); err == nil {
		size = info.Size()
	}
	now := time.Now().UTC()
	doc := &types.Document{
		ID:           uuid.NewString(),
		Filename:     filepath.Base(filePath),
		OriginalName: originalName,
		FilePath:     filePath,
		FileSize:     size,
		MimeType:     mimeTypes[ext],
		Status:       types.DocumentStatusProcessing,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.InsertDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}
	return doc, nil
}

// failDocument records the failure on the document and returns the original
// error for the caller.
func (s *DocumentService) failDocument(ctx context.Context, doc *types.Document, cause error) error {
	doc.Status = types.DocumentStatusFailed
	doc.ErrorMessage = cause.Error()
	if err := s.store.UpdateDocument(ctx, doc); err != nil {
		s.logger.Error("failed to record document failure", "id", doc.ID, "error", err)
	}
	return cause
}

// BackfillEmbeddings embeds every chunk still lacking a vector. Safe to
// re-run: chunks embedded by earlier, partially failed sweeps are not
// picked up again.
func (s *DocumentService) BackfillEmbeddings(ctx context.Context) (int, error) {
	chunks, err := s.store.FindChunksWithoutEmbedding(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending chunks: %w", err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	if err := s.embedding.EmbedBatch(ctx, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

func (s *DocumentService) GetDocuments(ctx context.Context) ([]*types.Document, error) {
	return s.store.ListDocuments(ctx)
}

func (s *DocumentService) GetDocument(ctx context.Context, id string) (*types.DocumentWithChunks, error) {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	chunks, err := s.store.FindChunksBySource(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}
	return &types.DocumentWithChunks{Document: doc, Chunks: chunks}, nil
}

// DeleteDocument removes a document and all its chunks. Chunks go first so
// a partial failure never leaves orphaned chunks behind a missing document.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.store.GetDocument(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteChunksBySource(ctx, id); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return s.store.DeleteDocument(ctx, id)
}

func (s *DocumentService) GetDocumentStats(ctx context.Context) (*types.DocumentStats, error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	stats := &types.DocumentStats{TotalDocuments: len(docs)}
	for _, doc := range docs {
		switch doc.Status {
		case types.DocumentStatusCompleted:
			stats.CompletedDocuments++
		case types.DocumentStatusFailed:
			stats.FailedDocuments++
		}
		stats.TotalChunks += doc.TotalChunks
		stats.TotalTokens += doc.TotalTokens
	}
	return stats, nil
}
