package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxmentor/uxmentor-be/types"
)

func TestNormalizeText(t *testing.T) {
	s := NewChunkService(DefaultDocumentServiceConfig)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses whitespace runs",
			input: "hello   world\t\tagain",
			want:  "hello world again",
		},
		{
			name:  "newlines collapse into the same run",
			input: "first\n\n\n\nsecond",
			want:  "first second",
		},
		{
			name:  "strips characters outside the allowlist",
			input: "cost: $50 @home #tag",
			want:  "cost: 50 home tag",
		},
		{
			name:  "removes space before punctuation",
			input: "a sentence . another one ,ok",
			want:  "a sentence. another one,ok",
		},
		{
			name:  "trims surrounding whitespace",
			input: "   padded   ",
			want:  "padded",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.NormalizeText(tt.input))
		})
	}
}

func TestCreateChunksSingleChunk(t *testing.T) {
	s := NewChunkService(DefaultDocumentServiceConfig)

	sentence := strings.Repeat("a", 49)
	text := sentence + ". " + sentence + ". " + sentence + "."

	chunks := s.CreateChunks(text, "doc-1")
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, "doc-1", chunks[0].Source)
	assert.Equal(t, sentence+". "+sentence+". "+sentence+".", chunks[0].Content)
	assert.False(t, chunks[0].HasEmbedding())
}

func TestCreateChunksOverlap(t *testing.T) {
	s := NewChunkService(types.DocumentServiceConfig{MaxChunkSize: 50, OverlapSize: 10})

	s1 := strings.Repeat("a", 30)
	s2 := strings.Repeat("b", 30)
	s3 := strings.Repeat("c", 30)
	text := s1 + ". " + s2 + ". " + s3 + "."

	chunks := s.CreateChunks(text, "doc-1")
	require.Len(t, chunks, 3)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, "doc-1", chunk.Source)
		assert.NotEmpty(t, chunk.ID)
	}

	// Each chunk after the first starts with the tail of its predecessor.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Content
		tail := prev[len(prev)-10:]
		assert.True(t, strings.HasPrefix(chunks[i].Content, tail+" "),
			"chunk %d should start with the last 10 chars of chunk %d", i, i-1)
	}
}

func TestCreateChunksOversizedSentence(t *testing.T) {
	s := NewChunkService(types.DocumentServiceConfig{MaxChunkSize: 50, OverlapSize: 10})

	long := strings.Repeat("x", 120)
	chunks := s.CreateChunks(long+".", "doc-1")
	require.Len(t, chunks, 1)
	assert.Equal(t, long+".", chunks[0].Content)
}

func TestCreateChunksEmptyInput(t *testing.T) {
	s := NewChunkService(DefaultDocumentServiceConfig)

	assert.Empty(t, s.CreateChunks("", "doc-1"))
	assert.Empty(t, s.CreateChunks("   ", "doc-1"))
}

func TestCreateChunksTokenCounts(t *testing.T) {
	s := NewChunkService(DefaultDocumentServiceConfig)

	chunks := s.CreateChunks("one sentence here.", "doc-1")
	require.Len(t, chunks, 1)
	assert.Equal(t, EstimateTokens(chunks[0].Content), chunks[0].TokenCount)
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 2, EstimateTokens("a"))
	assert.Equal(t, 4, EstimateTokens("abc"))
	assert.Equal(t, 8, EstimateTokens("abcdef"))
	assert.Equal(t, 1334, EstimateTokens(strings.Repeat("x", 1000)))
}

func TestChunkServiceDefaults(t *testing.T) {
	s := NewChunkService(types.DocumentServiceConfig{})
	assert.Equal(t, 1000, s.maxChunkSize)
	assert.Equal(t, 100, s.overlapSize)
}
