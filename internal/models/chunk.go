// ABOUTME: Chunk represents a bounded span of a source document's text
// ABOUTME: The unit of retrieval, produced by the chunker and owned by the indexer
package models

// ChunkMetadata carries provenance for a chunk
type ChunkMetadata struct {
	Source string `json:"source,omitempty"`
	DocID  int    `json:"doc_id,omitempty"`
}

// Chunk represents one overlapping word-window of a document.
// Immutable once created.
type Chunk struct {
	ChunkID  int           `json:"chunk_id"`
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}
