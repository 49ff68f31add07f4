package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_ShortTextSingleChunk(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.ChunkText("short resume text", 1000, 100)

	require.Len(t, chunks, 1)
	assert.Equal(t, "short resume text", chunks[0])
}

func TestChunkText_EmptyText(t *testing.T) {
	chunker := NewTextChunker()

	assert.Empty(t, chunker.ChunkText("", 1000, 100))
	assert.Empty(t, chunker.ChunkText("\n\n\n\n", 1000, 100))
}

func TestChunkText_SplitsOnParagraphs(t *testing.T) {
	chunker := NewTextChunker()
	text := strings.Repeat("alpha ", 30) + "\n\n" + strings.Repeat("beta ", 30)

	chunks := chunker.ChunkText(text, 200, 0)

	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0], "alpha")
	assert.Contains(t, chunks[1], "beta")
}

func TestChunkText_RespectsMaxSize(t *testing.T) {
	chunker := NewTextChunker()
	var paragraphs []string
	for i := 0; i < 20; i++ {
		paragraphs = append(paragraphs, strings.Repeat("word ", 20))
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := chunker.ChunkText(text, 300, 50)

	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 400)
	}
}

func TestChunkText_LongParagraphSplitsOnSentences(t *testing.T) {
	chunker := NewTextChunker()
	text := strings.TrimSpace(strings.Repeat("This sentence describes one project in detail. ", 20))

	chunks := chunker.ChunkText(text, 200, 0)

	assert.Greater(t, len(chunks), 1)
}
