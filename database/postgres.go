package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uxmentor/uxmentor-be/types"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id            TEXT PRIMARY KEY,
	filename      TEXT NOT NULL,
	original_name TEXT NOT NULL,
	file_path     TEXT NOT NULL UNIQUE,
	file_size     BIGINT NOT NULL DEFAULT 0,
	mime_type     TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	total_chunks  INT NOT NULL DEFAULT 0,
	total_tokens  INT NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS document_chunks (
	id          TEXT PRIMARY KEY,
	content     TEXT NOT NULL,
	source      TEXT NOT NULL REFERENCES documents(id),
	page        INT NOT NULL DEFAULT 0,
	section     TEXT NOT NULL DEFAULT '',
	chunk_index INT NOT NULL,
	token_count INT NOT NULL DEFAULT 0,
	embedding   TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_document_chunks_source ON document_chunks (source, chunk_index);
`

// PostgresStore is a DocumentStore backed by PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and bootstraps the schema.
func NewPostgresStore(ctx context.Context, uri string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) InsertDocument(ctx context.Context, doc *types.Document) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO documents (id, filename, original_name, file_path, file_size, mime_type,
			status, total_chunks, total_tokens, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		doc.ID, doc.Filename, doc.OriginalName, doc.FilePath, doc.FileSize, doc.MimeType,
		doc.Status, doc.TotalChunks, doc.TotalTokens, doc.ErrorMessage, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateDocument(ctx context.Context, doc *types.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx, `
		UPDATE documents SET filename = $2, original_name = $3, file_path = $4, file_size = $5,
			mime_type = $6, status = $7, total_chunks = $8, total_tokens = $9,
			error_message = $10, updated_at = $11
		WHERE id = $1`,
		doc.ID, doc.Filename, doc.OriginalName, doc.FilePath, doc.FileSize, doc.MimeType,
		doc.Status, doc.TotalChunks, doc.TotalTokens, doc.ErrorMessage, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindDocumentByPath(ctx context.Context, path string) (*types.Document, error) {
	doc, err := s.scanDocument(s.pool.QueryRow(ctx, selectDocuments+` WHERE file_path = $1`, path))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return doc, err
}

func (s *PostgresStore) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	doc, err := s.scanDocument(s.pool.QueryRow(ctx, selectDocuments+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.ErrDocumentNotFound
	}
	return doc, err
}

func (s *PostgresStore) ListDocuments(ctx context.Context) ([]*types.Document, error) {
	rows, err := s.pool.Query(ctx, selectDocuments+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*types.Document
	for rows.Next() {
		doc, err := s.scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrDocumentNotFound
	}
	return nil
}

func (s *PostgresStore) InsertChunks(ctx context.Context, chunks []*types.DocumentChunk) error {
	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		batch.Queue(`
			INSERT INTO document_chunks (id, content, source, page, section, chunk_index,
				token_count, embedding, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			chunk.ID, chunk.Content, chunk.Source, chunk.Page, chunk.Section, chunk.ChunkIndex,
			chunk.TokenCount, chunk.Embedding, chunk.CreatedAt, chunk.UpdatedAt)
	}
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range chunks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert chunks: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) FindChunksBySource(ctx context.Context, source string) ([]*types.DocumentChunk, error) {
	return s.queryChunks(ctx, selectChunks+` WHERE source = $1 ORDER BY chunk_index ASC`, source)
}

func (s *PostgresStore) FindChunksWithEmbedding(ctx context.Context) ([]*types.DocumentChunk, error) {
	return s.queryChunks(ctx, selectChunks+` WHERE embedding <> '' ORDER BY created_at ASC, chunk_index ASC`)
}

func (s *PostgresStore) FindChunksWithoutEmbedding(ctx context.Context) ([]*types.DocumentChunk, error) {
	return s.queryChunks(ctx, selectChunks+` WHERE embedding = '' ORDER BY created_at ASC, chunk_index ASC`)
}

func (s *PostgresStore) UpdateChunkEmbedding(ctx context.Context, id string, embedding []float32) error {
	encoded, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`UPDATE document_chunks SET embedding = $2, updated_at = NOW() WHERE id = $1`,
		id, string(encoded))
	if err != nil {
		return fmt.Errorf("failed to update chunk embedding: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteChunksBySource(ctx context.Context, source string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM document_chunks WHERE source = $1`, source)
	if err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}

const selectDocuments = `
	SELECT id, filename, original_name, file_path, file_size, mime_type, status,
		total_chunks, total_tokens, error_message, created_at, updated_at
	FROM documents`

const selectChunks = `
	SELECT id, content, source, page, section, chunk_index, token_count, embedding,
		created_at, updated_at
	FROM document_chunks`

func (s *PostgresStore) scanDocument(row pgx.Row) (*types.Document, error) {
	var doc types.Document
	err := row.Scan(&doc.ID, &doc.Filename, &doc.OriginalName, &doc.FilePath, &doc.FileSize,
		&doc.MimeType, &doc.Status, &doc.TotalChunks, &doc.TotalTokens, &doc.ErrorMessage,
		&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	return &doc, nil
}

func (s *PostgresStore) queryChunks(ctx context.Context, query string, args ...any) ([]*types.DocumentChunk, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []*types.DocumentChunk
	for rows.Next() {
		var chunk types.DocumentChunk
		if err := rows.Scan(&chunk.ID, &chunk.Content, &chunk.Source, &chunk.Page, &chunk.Section,
			&chunk.ChunkIndex, &chunk.TokenCount, &chunk.Embedding, &chunk.CreatedAt,
			&chunk.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, &chunk)
	}
	return chunks, rows.Err()
}
