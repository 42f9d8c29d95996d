package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"industry-rag/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseFile_Text(t *testing.T) {
	path := writeFile(t, "report.txt", "The robotics industry is growing quickly.")

	chunks, err := ParseFile(path, nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "The robotics industry is growing quickly.", chunks[0].Content)
	assert.Equal(t, 1, chunks[0].PageNumber)
}

func TestParseFile_EmptyText(t *testing.T) {
	path := writeFile(t, "empty.txt", "   \n\t")

	chunks, err := ParseFile(path, nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestParseFile_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "image.png", "not really an image")

	_, err := ParseFile(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestParseFile_Markdown(t *testing.T) {
	path := writeFile(t, "report.md", "# Robotics\n\nThe market **grows** fast.")

	chunks, err := ParseFile(path, nil)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[0].Content, "Robotics")
	assert.Contains(t, chunks[0].Content, "grows")
	assert.NotContains(t, chunks[0].Content, "<strong>")
	assert.NotContains(t, chunks[0].Content, "**")
}

func TestParseFile_ChunksLongContent(t *testing.T) {
	content := strings.Repeat("industry report sentence. ", 200)
	path := writeFile(t, "long.txt", content)

	cfg := config.DefaultConfig()
	cfg.RAG.ChunkSize = 500
	cfg.RAG.ChunkOverlap = 100

	chunks, err := ParseFile(path, cfg)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 500)
		assert.NotEmpty(t, strings.TrimSpace(chunk.Content))
	}
}

func TestParseToDocuments(t *testing.T) {
	path := writeFile(t, "report.txt", "The robotics industry is growing quickly.")

	docs, err := ParseToDocuments(path, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "report.txt", docs[0].Title)
	assert.Equal(t, "The robotics industry is growing quickly.", docs[0].Content)
	assert.Equal(t, "file://"+path+"#page=1", docs[0].URL)
}

func TestChunkContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		max     int
		overlap int
		want    int
	}{
		{"empty", "", 100, 10, 0},
		{"fits in one", "short text", 100, 10, 1},
		{"zero max", "anything", 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, chunkContent(tt.content, tt.max, tt.overlap), tt.want)
		})
	}
}
