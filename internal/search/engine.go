// ABOUTME: Engine composes wide retrieval with cross-encoder reranking
// ABOUTME: Callers needing just the raw candidate set use SearchRaw directly
package search

import (
	"context"

	"github.com/slidekit/deckgen/internal/index"
	"github.com/slidekit/deckgen/internal/models"
	"github.com/slidekit/deckgen/internal/provider"
)

// Engine runs the two-stage retrieve-then-rerank search
type Engine struct {
	retriever *Retriever
	reranker  *Reranker

	rawTopK     int
	rerankLimit int
}

// NewEngine creates an Engine with the default widths (raw top-K 30,
// reranked top-N 5) unless overridden.
func NewEngine(retriever *Retriever, reranker *Reranker, rawTopK, rerankLimit int) *Engine {
	if rawTopK < 1 {
		rawTopK = 30
	}
	if rerankLimit < 1 {
		rerankLimit = 5
	}
	return &Engine{
		retriever:   retriever,
		reranker:    reranker,
		rawTopK:     rawTopK,
		rerankLimit: rerankLimit,
	}
}

// Search retrieves a wide candidate set and reranks it down to the limit
func (e *Engine) Search(ctx context.Context, query string) ([]models.RerankedCandidate, error) {
	candidates, err := e.retriever.Search(ctx, query, e.rawTopK)
	if err != nil {
		return nil, err
	}
	return e.reranker.Rerank(ctx, query, candidates, e.rerankLimit)
}

// SearchRaw returns the wide candidate set without reranking
func (e *Engine) SearchRaw(ctx context.Context, query string, topK int) ([]models.RetrievalCandidate, error) {
	if topK < 1 {
		topK = e.rawTopK
	}
	return e.retriever.Search(ctx, query, topK)
}

// CollectionSource yields the collection to search. The indexer satisfies
// this, so searches can target a collection that ingestion creates later.
type CollectionSource interface {
	Collection() (index.Collection, error)
}

// LazyEngine binds the retrieval engine to its collection per search rather
// than at construction. Model-identity checking still runs on every bind.
type LazyEngine struct {
	embedder provider.Embedder
	reranker *Reranker
	source   CollectionSource

	rawTopK     int
	rerankLimit int
}

// NewLazyEngine creates a LazyEngine over a collection source
func NewLazyEngine(embedder provider.Embedder, crossEncoder provider.CrossEncoder, source CollectionSource, rawTopK, rerankLimit int) *LazyEngine {
	return &LazyEngine{
		embedder:    embedder,
		reranker:    NewReranker(crossEncoder),
		source:      source,
		rawTopK:     rawTopK,
		rerankLimit: rerankLimit,
	}
}

// Search binds to the current collection and runs the two-stage search
func (e *LazyEngine) Search(ctx context.Context, query string) ([]models.RerankedCandidate, error) {
	collection, err := e.source.Collection()
	if err != nil {
		return nil, err
	}
	retriever, err := NewRetriever(e.embedder, collection)
	if err != nil {
		return nil, err
	}
	return NewEngine(retriever, e.reranker, e.rawTopK, e.rerankLimit).Search(ctx, query)
}
