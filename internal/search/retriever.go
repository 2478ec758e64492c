// ABOUTME: Retriever embeds a query and runs top-K similarity search
// ABOUTME: Enforces embedding-model identity with the collection at construction
package search

import (
	"context"
	"fmt"

	"github.com/slidekit/deckgen/internal/index"
	"github.com/slidekit/deckgen/internal/models"
	"github.com/slidekit/deckgen/internal/provider"
)

// Retriever performs similarity search over an indexed collection
type Retriever struct {
	embedder   provider.Embedder
	collection index.Collection
}

// NewRetriever wires an embedder to a collection. The embedder must be the
// same model the collection was built with; mismatched embedding spaces
// produce meaningless scores, so this fails here rather than at query time.
func NewRetriever(embedder provider.Embedder, collection index.Collection) (*Retriever, error) {
	info := collection.Info()
	if embedder.ModelName() != info.EmbeddingModel {
		return nil, fmt.Errorf("embedding model mismatch: collection built with %q, retriever given %q",
			info.EmbeddingModel, embedder.ModelName())
	}
	return &Retriever{embedder: embedder, collection: collection}, nil
}

// Search returns up to topK candidates ordered descending by raw similarity.
// An empty collection yields an empty result, never an error.
func (r *Retriever) Search(ctx context.Context, query string, topK int) ([]models.RetrievalCandidate, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := r.collection.Search(vector, topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	candidates := make([]models.RetrievalCandidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, models.RetrievalCandidate{
			Text:  hit.Point.Payload.Context,
			Score: hit.Score,
			Metadata: models.CandidateMetadata{
				Source:  hit.Point.Payload.FileName,
				ChunkID: hit.Point.Payload.ChunkIndex,
			},
		})
	}
	return candidates, nil
}
