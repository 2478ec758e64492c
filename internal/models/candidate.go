// ABOUTME: Retrieval candidate types for vector search and cross-encoder reranking
// ABOUTME: Ephemeral per-query results, never persisted
package models

// CandidateMetadata carries provenance for a retrieved candidate
type CandidateMetadata struct {
	Source  string `json:"source,omitempty"`
	ChunkID int    `json:"chunk_id"`
}

// RetrievalCandidate is one scored hit from vector similarity search
type RetrievalCandidate struct {
	Text     string            `json:"text"`
	Score    float64           `json:"score"`
	Metadata CandidateMetadata `json:"metadata"`
}

// RerankedCandidate is a RetrievalCandidate with a cross-encoder relevance
// score attached. RerankScore is an opaque ranking key: it has no declared
// range and must never be compared across different cross-encoder models.
type RerankedCandidate struct {
	RetrievalCandidate
	RerankScore float64 `json:"rerank_score"`
}
