package service

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uxmentor/uxmentor-be/types"
)

// charsPerToken is the heuristic ratio used to estimate token counts.
const charsPerToken = 0.75

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	blankLinesRe    = regexp.MustCompile(`\n{3,}`)
	charAllowlistRe = regexp.MustCompile(`[^\w\s.,!?;:()-]`)
	spacePunctRe    = regexp.MustCompile(`\s+([.,!?;:])`)
	sentenceEndRe   = regexp.MustCompile(`[.!?]+`)
)

// ChunkService splits normalized text into overlapping, bounded-size chunks
// aligned to sentence boundaries.
type ChunkService struct {
	maxChunkSize int // Maximum size of each text chunk
	overlapSize  int // Size of overlap between chunks
}

var DefaultDocumentServiceConfig = types.DocumentServiceConfig{
	MaxChunkSize: 1000,
	OverlapSize:  100,
}

// NewChunkService creates a chunk service with configurable chunk sizes.
func NewChunkService(config types.DocumentServiceConfig) *ChunkService {
	if config.MaxChunkSize <= 0 {
		config.MaxChunkSize = DefaultDocumentServiceConfig.MaxChunkSize
	}
	if config.OverlapSize <= 0 {
		config.OverlapSize = DefaultDocumentServiceConfig.OverlapSize
	}
	return &ChunkService{
		maxChunkSize: config.MaxChunkSize,
		overlapSize:  config.OverlapSize,
	}
}

// NormalizeText cleans extracted text: whitespace runs collapse to single
// spaces, blank-line runs collapse to paragraph breaks, characters outside
// the word/punctuation allowlist are stripped, and whitespace before
// sentence punctuation is removed.
func (s *ChunkService) NormalizeText(text string) string {
	cleaned := whitespaceRe.ReplaceAllString(text, " ")
	cleaned = blankLinesRe.ReplaceAllString(cleaned, "\n\n")
	cleaned = charAllowlistRe.ReplaceAllString(cleaned, "")
	cleaned = spacePunctRe.ReplaceAllString(cleaned, "$1")
	return strings.TrimSpace(cleaned)
}

// CreateChunks splits normalized text into chunks for the given document.
// Sentences accumulate into a buffer until adding one would push it past
// maxChunkSize; the buffer is then emitted and the next chunk starts with
// the last overlapSize characters of the emitted content. A single sentence
// longer than maxChunkSize is emitted whole.
func (s *ChunkService) CreateChunks(text, documentID string) []*types.DocumentChunk {
	var chunks []*types.DocumentChunk
	currentChunk := ""

	for _, sentence := range sentenceEndRe.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if currentChunk != "" && len(currentChunk)+len(sentence) > s.maxChunkSize {
			content := strings.TrimSpace(currentChunk)
			chunks = append(chunks, s.newChunk(content, documentID, len(chunks)))

			overlapStart := len(content) - s.overlapSize
			if overlapStart < 0 {
				overlapStart = 0
			}
			currentChunk = content[overlapStart:] + " " + sentence + ". "
		} else {
			currentChunk += sentence + ". "
		}
	}

	if strings.TrimSpace(currentChunk) != "" {
		chunks = append(chunks, s.newChunk(strings.TrimSpace(currentChunk), documentID, len(chunks)))
	}
	return chunks
}

func (s *ChunkService) newChunk(content, documentID string, index int) *types.DocumentChunk {
	now := time.Now().UTC()
	return &types.DocumentChunk{
		ID:         uuid.NewString(),
		Content:    content,
		Source:     documentID,
		ChunkIndex: index,
		TokenCount: EstimateTokens(content),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// EstimateTokens approximates the token count of a text at ~0.75 characters
// per token.
func EstimateTokens(text string) int {
	return int(math.Ceil(float64(len(text)) / charsPerToken))
}
