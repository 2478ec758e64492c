// ABOUTME: Vector collection contract shared by the in-memory and SQLite backends
// ABOUTME: Append-only point storage with cosine similarity search
package index

import "math"

// upsertBatchSize bounds how many points each backend writes per step.
// Batch boundaries carry no semantic meaning; an Upsert is visible
// all-or-nothing regardless of how it is split internally.
const upsertBatchSize = 100

// Payload carries the original chunk alongside its vector
type Payload struct {
	Context    string `json:"context"`
	FileName   string `json:"file_name"`
	ChunkIndex int    `json:"chunk_index"`
	ID         string `json:"id"`
}

// Point is one indexed vector with its payload
type Point struct {
	ID      string
	Vector  []float32
	Payload Payload
}

// ScoredPoint is a search hit with its raw cosine similarity
type ScoredPoint struct {
	Point Point
	Score float64
}

// Info describes a collection's embedding space
type Info struct {
	Dimension      int
	EmbeddingModel string
}

// Collection stores vectors and serves similarity search. Points are never
// updated in place; corrections arrive as new insertions.
type Collection interface {
	// Upsert inserts points atomically: either every point becomes
	// searchable or none do.
	Upsert(points []Point) error
	// Search returns at most limit points ordered descending by cosine
	// similarity to vector. An empty collection returns an empty slice.
	Search(vector []float32, limit int) ([]ScoredPoint, error)
	Count() (int, error)
	Reset() error
	Info() Info
}

// cosineSimilarity over float32 vectors, accumulated in float64
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
