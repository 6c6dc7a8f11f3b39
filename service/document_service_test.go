package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxmentor/uxmentor-be/database"
	"github.com/uxmentor/uxmentor-be/types"
)

// stubExtractor returns canned text without touching the filesystem.
type stubExtractor struct {
	text  string
	err   error
	calls int
}

func (s *stubExtractor) ExtractText(filePath string) (string, error) {
	s.calls++
	return s.text, s.err
}

func (s *stubExtractor) SupportedExtension(ext string) bool {
	return ext == ".pdf" || ext == ".docx"
}

func newTestDocumentService(store database.DocumentStore, extractor Extractor) *DocumentService {
	chunker := NewChunkService(DefaultDocumentServiceConfig)
	embedding := newTestEmbeddingService(&fakeEmbeddingClient{}, store, 100)
	return NewDocumentService(store, extractor, chunker, embedding, nil)
}

func TestProcessDocument(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	extractor := &stubExtractor{text: "First sentence here. Second sentence follows."}
	svc := newTestDocumentService(store, extractor)

	doc, err := svc.ProcessDocument(ctx, "/uploads/guide_1.pdf", "guide.pdf")
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, types.DocumentStatusCompleted, doc.Status)
	assert.Equal(t, "guide.pdf", doc.OriginalName)
	assert.Equal(t, "guide_1.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.MimeType)
	assert.Equal(t, 1, doc.TotalChunks)
	assert.Positive(t, doc.TotalTokens)
	assert.Empty(t, doc.ErrorMessage)

	chunks, err := store.FindChunksBySource(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.False(t, chunks[0].HasEmbedding(), "chunks are stored without embeddings")
}

func TestProcessDocumentIdempotent(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	extractor := &stubExtractor{text: "Some content to chunk."}
	svc := newTestDocumentService(store, extractor)

	first, err := svc.ProcessDocument(ctx, "/uploads/guide_1.pdf", "guide.pdf")
	require.NoError(t, err)

	second, err := svc.ProcessDocument(ctx, "/uploads/guide_1.pdf", "guide.pdf")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, types.DocumentStatusCompleted, second.Status)
	assert.Equal(t, 1, extractor.calls, "completed documents are not re-extracted")

	chunks, err := store.FindChunksBySource(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, chunks, 1, "no duplicate chunks on re-process")
}

func TestProcessDocumentUnsupportedFormat(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := newTestDocumentService(store, &stubExtractor{})

	_, err := svc.ProcessDocument(ctx, "/uploads/notes.txt", "notes.txt")
	require.ErrorIs(t, err, types.ErrUnsupportedFormat)

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs, "rejected files leave no document record")
}

func TestProcessDocumentExtractionFailure(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	extractor := &stubExtractor{err: errors.New("corrupt file")}
	svc := newTestDocumentService(store, extractor)

	_, err := svc.ProcessDocument(ctx, "/uploads/broken_1.pdf", "broken.pdf")
	require.Error(t, err)

	doc, err := store.FindDocumentByPath(ctx, "/uploads/broken_1.pdf")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, types.DocumentStatusFailed, doc.Status)
	assert.Contains(t, doc.ErrorMessage, "corrupt file")
}

func TestProcessDocumentRetryAfterFailure(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	extractor := &stubExtractor{err: errors.New("corrupt file")}
	svc := newTestDocumentService(store, extractor)

	_, err := svc.ProcessDocument(ctx, "/uploads/flaky_1.pdf", "flaky.pdf")
	require.Error(t, err)

	extractor.err = nil
	extractor.text = "Recovered content after retry."
	doc, err := svc.ProcessDocument(ctx, "/uploads/flaky_1.pdf", "flaky.pdf")
	require.NoError(t, err)
	assert.Equal(t, types.DocumentStatusCompleted, doc.Status)
	assert.Empty(t, doc.ErrorMessage)
	assert.Equal(t, 1, doc.TotalChunks)
}

func TestDeleteDocumentCascades(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	extractor := &stubExtractor{text: "Content to delete later."}
	svc := newTestDocumentService(store, extractor)

	doc, err := svc.ProcessDocument(ctx, "/uploads/gone_1.pdf", "gone.pdf")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDocument(ctx, doc.ID))

	_, err = store.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, types.ErrDocumentNotFound)

	chunks, err := store.FindChunksBySource(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDeleteDocumentNotFound(t *testing.T) {
	store := database.NewMemoryStore()
	svc := newTestDocumentService(store, &stubExtractor{})

	err := svc.DeleteDocument(context.Background(), "missing-id")
	assert.ErrorIs(t, err, types.ErrDocumentNotFound)
}

func TestGetDocumentWithChunks(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	extractor := &stubExtractor{text: "Chunkable content goes here."}
	svc := newTestDocumentService(store, extractor)

	doc, err := svc.ProcessDocument(ctx, "/uploads/full_1.pdf", "full.pdf")
	require.NoError(t, err)

	got, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.Document.ID)
	assert.Len(t, got.Chunks, doc.TotalChunks)
}

func TestBackfillEmbeddings(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	extractor := &stubExtractor{text: "Content that needs embedding."}
	svc := newTestDocumentService(store, extractor)

	doc, err := svc.ProcessDocument(ctx, "/uploads/embed_1.pdf", "embed.pdf")
	require.NoError(t, err)

	count, err := svc.BackfillEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc.TotalChunks, count)

	pending, err := store.FindChunksWithoutEmbedding(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// A second sweep finds nothing left to embed.
	count, err = svc.BackfillEmbeddings(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetDocumentStats(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	extractor := &stubExtractor{text: "Stats content, one sentence."}
	svc := newTestDocumentService(store, extractor)

	okDoc, err := svc.ProcessDocument(ctx, "/uploads/ok_1.pdf", "ok.pdf")
	require.NoError(t, err)

	extractor.err = errors.New("bad file")
	_, err = svc.ProcessDocument(ctx, "/uploads/bad_1.pdf", "bad.pdf")
	require.Error(t, err)

	stats, err := svc.GetDocumentStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, 1, stats.CompletedDocuments)
	assert.Equal(t, 1, stats.FailedDocuments)
	assert.Equal(t, okDoc.TotalChunks, stats.TotalChunks)
	assert.Equal(t, okDoc.TotalTokens, stats.TotalTokens)
}
