// ABOUTME: Reranker reorders retrieval candidates with a cross-encoder
// ABOUTME: Stable sort on the score alone; ties keep the retrieval order
package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/slidekit/deckgen/internal/models"
	"github.com/slidekit/deckgen/internal/provider"
)

// Reranker scores (query, candidate) pairs with a cross-encoder
type Reranker struct {
	crossEncoder provider.CrossEncoder
}

// NewReranker creates a Reranker over the given cross-encoder
func NewReranker(crossEncoder provider.CrossEncoder) *Reranker {
	return &Reranker{crossEncoder: crossEncoder}
}

// Rerank scores every candidate against the query and returns at most limit
// of them, descending by cross-encoder score. Candidates with empty text are
// scored against the empty string rather than skipped or rejected.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []models.RetrievalCandidate, limit int) ([]models.RerankedCandidate, error) {
	if limit < 1 {
		return nil, fmt.Errorf("rerank limit must be >= 1, got %d", limit)
	}

	reranked := make([]models.RerankedCandidate, 0, len(candidates))
	for _, cand := range candidates {
		score, err := r.crossEncoder.Score(ctx, query, cand.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to score candidate: %w", err)
		}
		reranked = append(reranked, models.RerankedCandidate{
			RetrievalCandidate: cand,
			RerankScore:        score,
		})
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].RerankScore > reranked[j].RerankScore
	})

	if len(reranked) > limit {
		reranked = reranked[:limit]
	}
	return reranked, nil
}
