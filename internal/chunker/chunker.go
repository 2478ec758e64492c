// ABOUTME: Chunker splits document text into overlapping word windows for embedding
// ABOUTME: Adjacent chunks share a configurable overlap to preserve boundary context
package chunker

import (
	"fmt"
	"strings"

	"github.com/slidekit/deckgen/internal/models"
)

// Chunker produces fixed-size word windows over document text
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// New creates a Chunker. Overlap must be strictly smaller than the chunk
// size, otherwise the sliding window would never advance.
func New(chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("chunk size must be >= 1, got %d", chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("chunk overlap must be >= 0, got %d", chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", chunkOverlap, chunkSize)
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// Split breaks text into overlapping word windows. Empty or whitespace-only
// input yields zero chunks.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	words := strings.Fields(text)
	step := c.chunkSize - c.chunkOverlap

	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// Process splits text and wraps each window in a Chunk carrying its position
// and the document metadata.
func (c *Chunker) Process(text string, meta models.ChunkMetadata) []models.Chunk {
	parts := c.Split(text)

	chunks := make([]models.Chunk, 0, len(parts))
	for i, part := range parts {
		chunks = append(chunks, models.Chunk{
			ChunkID:  i,
			Text:     part,
			Metadata: meta,
		})
	}
	return chunks
}
