// ABOUTME: Interfaces for embedding and cross-encoder scoring backends
// ABOUTME: Consumed by the indexer, retriever, and reranker through small seams
package provider

import "context"

// Embedder converts text into a fixed-dimension vector. Dimension and
// ModelName are stable after construction; the index records the model name
// so mismatched embedding spaces are caught at wiring time.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	ModelName() string
}

// CrossEncoder scores the relevance of text to query. More expensive than
// embedding similarity; used to reorder a wide candidate set.
type CrossEncoder interface {
	Score(ctx context.Context, query, text string) (float64, error)
}
