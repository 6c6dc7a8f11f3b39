package types

import "errors"

// Domain errors - used across all layers
var (
	// ErrUnsupportedFormat indicates a file extension no extractor handles
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtractionFailed indicates the underlying parser could not read the file
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrEmbeddingProvider indicates the embedding API call failed
	ErrEmbeddingProvider = errors.New("embedding provider error")

	// ErrDimensionMismatch indicates two vectors of different lengths were compared
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrDocumentNotFound indicates the requested document does not exist
	ErrDocumentNotFound = errors.New("document not found")
)
