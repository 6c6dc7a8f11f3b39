package types

import "time"

// DocumentStatus tracks a document through its processing lifecycle.
// Transitions are one-way: pending -> processing -> completed or failed.
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusCompleted  DocumentStatus = "completed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// Document represents an uploaded source file and its processing state.
type Document struct {
	ID           string         `json:"id" bson:"_id"`
	Filename     string         `json:"filename" bson:"filename"`
	OriginalName string         `json:"original_name" bson:"original_name"`
	FilePath     string         `json:"file_path" bson:"file_path"`
	FileSize     int64          `json:"file_size" bson:"file_size"`
	MimeType     string         `json:"mime_type" bson:"mime_type"`
	Status       DocumentStatus `json:"status" bson:"status"`
	TotalChunks  int            `json:"total_chunks" bson:"total_chunks"`
	TotalTokens  int            `json:"total_tokens" bson:"total_tokens"`
	ErrorMessage string         `json:"error_message,omitempty" bson:"error_message"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" bson:"updated_at"`
}

// DocumentChunk is a bounded slice of a document's extracted text, the unit
// of embedding and retrieval. Embedding holds a JSON-encoded float vector;
// the empty string means it has not been computed yet.
type DocumentChunk struct {
	ID         string    `json:"id" bson:"_id"`
	Content    string    `json:"content" bson:"content"`
	Source     string    `json:"source" bson:"source"`
	Page       int       `json:"page,omitempty" bson:"page"`
	Section    string    `json:"section,omitempty" bson:"section"`
	ChunkIndex int       `json:"chunk_index" bson:"chunk_index"`
	TokenCount int       `json:"token_count" bson:"token_count"`
	Embedding  string    `json:"-" bson:"embedding"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// HasEmbedding reports whether an embedding has been attached to the chunk.
func (c *DocumentChunk) HasEmbedding() bool {
	return c.Embedding != ""
}

// SearchResult pairs a chunk with its cosine similarity against a query.
// It is never persisted.
type SearchResult struct {
	Chunk      *DocumentChunk `json:"chunk"`
	Similarity float64        `json:"similarity"`
}

// DocumentWithChunks combines a document with its chunks in index order.
type DocumentWithChunks struct {
	Document *Document        `json:"document"`
	Chunks   []*DocumentChunk `json:"chunks"`
}

// DocumentStats summarises the state of the document corpus.
type DocumentStats struct {
	TotalDocuments     int `json:"total_documents"`
	CompletedDocuments int `json:"completed_documents"`
	FailedDocuments    int `json:"failed_documents"`
	TotalChunks        int `json:"total_chunks"`
	TotalTokens        int `json:"total_tokens"`
}

// DocumentServiceConfig contains chunking parameters for document processing.
type DocumentServiceConfig struct {
	MaxChunkSize int // Maximum size for text chunks
	OverlapSize  int // Size of overlap between chunks
}
