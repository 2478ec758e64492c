// ABOUTME: Indexer embeds chunks and loads them into a vector collection
// ABOUTME: Lazily creates the collection once the embedder's dimension is known
package index

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/slidekit/deckgen/internal/models"
	"github.com/slidekit/deckgen/internal/provider"
)

// CollectionFactory builds a collection for the given embedding space.
// Allows the caller to choose the in-memory or SQLite backend.
type CollectionFactory func(dimension int, embeddingModel string) (Collection, error)

// MemoryFactory builds in-memory collections
func MemoryFactory(dimension int, embeddingModel string) (Collection, error) {
	return NewMemoryCollection(dimension, embeddingModel)
}

// SQLiteFactory builds collections persisted at path
func SQLiteFactory(path string) CollectionFactory {
	return func(dimension int, embeddingModel string) (Collection, error) {
		return OpenSQLiteCollection(path, dimension, embeddingModel)
	}
}

// Indexer turns chunks into points keyed by fresh UUIDs. Chunk ids are not
// reused as point keys since multiple documents share the chunk id namespace.
type Indexer struct {
	embedder provider.Embedder
	factory  CollectionFactory

	mu         sync.Mutex
	collection Collection
}

// NewIndexer creates an Indexer; the collection is created on first Add
func NewIndexer(embedder provider.Embedder, factory CollectionFactory) *Indexer {
	return &Indexer{embedder: embedder, factory: factory}
}

// Add embeds every chunk and upserts all resulting points in one call, so a
// partially embedded batch never becomes searchable.
func (ix *Indexer) Add(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	collection, err := ix.ensureCollection()
	if err != nil {
		return err
	}

	points := make([]Point, 0, len(chunks))
	for _, chunk := range chunks {
		vector, err := ix.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", chunk.ChunkID, err)
		}

		id := uuid.New().String()
		points = append(points, Point{
			ID:     id,
			Vector: vector,
			Payload: Payload{
				Context:    chunk.Text,
				FileName:   chunk.Metadata.Source,
				ChunkIndex: chunk.ChunkID,
				ID:         id,
			},
		})
	}

	if err := collection.Upsert(points); err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	total, err := collection.Count()
	if err != nil {
		return err
	}
	log.Printf("[Indexer] Added %d chunks. Total points: %d", len(chunks), total)
	return nil
}

// Collection returns the underlying collection, creating it if needed
func (ix *Indexer) Collection() (Collection, error) {
	return ix.ensureCollection()
}

func (ix *Indexer) ensureCollection() (Collection, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.collection != nil {
		return ix.collection, nil
	}

	dim := ix.embedder.Dimension()
	if dim < 1 {
		return nil, fmt.Errorf("embedder dimension unknown; initialize the model service first")
	}

	collection, err := ix.factory(dim, ix.embedder.ModelName())
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	ix.collection = collection
	return collection, nil
}
