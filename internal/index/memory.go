// ABOUTME: In-memory vector collection with brute-force cosine search
// ABOUTME: Default backend; one collection per ingested document set
package index

import (
	"fmt"
	"sort"
	"sync"
)

// MemoryCollection keeps points in a slice guarded by an RWMutex
type MemoryCollection struct {
	mu     sync.RWMutex
	points []Point
	info   Info
}

// NewMemoryCollection creates an empty collection for the given embedding space
func NewMemoryCollection(dimension int, embeddingModel string) (*MemoryCollection, error) {
	if dimension < 1 {
		return nil, fmt.Errorf("collection dimension must be >= 1, got %d", dimension)
	}
	return &MemoryCollection{
		info: Info{Dimension: dimension, EmbeddingModel: embeddingModel},
	}, nil
}

// Upsert appends points under one lock so the batch becomes visible atomically
func (c *MemoryCollection) Upsert(points []Point) error {
	for _, p := range points {
		if len(p.Vector) != c.info.Dimension {
			return fmt.Errorf("point %s has dimension %d, collection expects %d", p.ID, len(p.Vector), c.info.Dimension)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for start := 0; start < len(points); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(points) {
			end = len(points)
		}
		c.points = append(c.points, points[start:end]...)
	}
	return nil
}

// Search scans every point and returns the top matches by cosine similarity
func (c *MemoryCollection) Search(vector []float32, limit int) ([]ScoredPoint, error) {
	if limit < 1 {
		return nil, fmt.Errorf("search limit must be >= 1, got %d", limit)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	results := make([]ScoredPoint, 0, len(c.points))
	for _, p := range c.points {
		results = append(results, ScoredPoint{
			Point: p,
			Score: cosineSimilarity(vector, p.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of stored points
func (c *MemoryCollection) Count() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.points), nil
}

// Reset drops every point, keeping the embedding space
func (c *MemoryCollection) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.points = nil
	return nil
}

// Info describes the collection's embedding space
func (c *MemoryCollection) Info() Info {
	return c.info
}
