// ABOUTME: Tests for the chunk indexer
// ABOUTME: Verifies lazy collection creation, fresh point ids, and payload shape
package index

import (
	"context"
	"errors"
	"testing"

	"github.com/slidekit/deckgen/internal/models"
)

// stubEmbedder returns a fixed-direction vector per text so ranking is deterministic
type stubEmbedder struct {
	dim     int
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	v := make([]float32, s.dim)
	v[0] = 1
	return v, nil
}

func (s *stubEmbedder) Dimension() int    { return s.dim }
func (s *stubEmbedder) ModelName() string { return "stub-model" }

func TestIndexer_Add(t *testing.T) {
	ix := NewIndexer(&stubEmbedder{dim: 3}, MemoryFactory)

	chunks := []models.Chunk{
		{ChunkID: 0, Text: "first chunk", Metadata: models.ChunkMetadata{Source: "doc.md"}},
		{ChunkID: 1, Text: "second chunk", Metadata: models.ChunkMetadata{Source: "doc.md"}},
	}
	if err := ix.Add(context.Background(), chunks); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	collection, err := ix.Collection()
	if err != nil {
		t.Fatalf("Collection() error = %v", err)
	}
	n, _ := collection.Count()
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}

	results, err := collection.Search([]float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for _, r := range results {
		if r.Point.Payload.FileName != "doc.md" {
			t.Errorf("payload file name = %q", r.Point.Payload.FileName)
		}
		if r.Point.Payload.Context == "" {
			t.Error("payload context is empty")
		}
		if r.Point.Payload.ID != r.Point.ID {
			t.Errorf("payload id %q != point id %q", r.Point.Payload.ID, r.Point.ID)
		}
	}
}

func TestIndexer_DoubleIndexingDoublesCount(t *testing.T) {
	ix := NewIndexer(&stubEmbedder{dim: 3}, MemoryFactory)

	chunks := []models.Chunk{
		{ChunkID: 0, Text: "same chunk id namespace", Metadata: models.ChunkMetadata{Source: "a.md"}},
	}
	if err := ix.Add(context.Background(), chunks); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := ix.Add(context.Background(), chunks); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// Point keys are fresh UUIDs, not chunk ids, so re-adding inserts
	collection, _ := ix.Collection()
	n, _ := collection.Count()
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestIndexer_EmptyChunks(t *testing.T) {
	ix := NewIndexer(&stubEmbedder{dim: 3}, MemoryFactory)

	if err := ix.Add(context.Background(), nil); err != nil {
		t.Errorf("Add(nil) error = %v", err)
	}
}

func TestIndexer_EmbedFailureAborts(t *testing.T) {
	wantErr := errors.New("embedding backend down")
	ix := NewIndexer(&stubEmbedder{dim: 3, err: wantErr}, MemoryFactory)

	err := ix.Add(context.Background(), []models.Chunk{{ChunkID: 0, Text: "x"}})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Add() error = %v, want wrapped %v", err, wantErr)
	}

	collection, _ := ix.Collection()
	n, _ := collection.Count()
	if n != 0 {
		t.Errorf("Count() = %d after failed add, want 0", n)
	}
}

func TestIndexer_UnknownDimension(t *testing.T) {
	ix := NewIndexer(&stubEmbedder{dim: 0}, MemoryFactory)

	if err := ix.Add(context.Background(), []models.Chunk{{ChunkID: 0, Text: "x"}}); err == nil {
		t.Error("Expected error when embedder dimension is unknown")
	}
}
