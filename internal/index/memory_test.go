// ABOUTME: Tests for the in-memory vector collection
// ABOUTME: Verifies cosine ranking, atomic upserts, count, and reset
package index

import (
	"testing"
)

func mustMemory(t *testing.T, dim int) *MemoryCollection {
	t.Helper()
	c, err := NewMemoryCollection(dim, "test-model")
	if err != nil {
		t.Fatalf("NewMemoryCollection() error = %v", err)
	}
	return c
}

func TestNewMemoryCollection_InvalidDimension(t *testing.T) {
	if _, err := NewMemoryCollection(0, "m"); err == nil {
		t.Error("Expected error for dimension 0")
	}
}

func TestMemoryCollection_SearchEmpty(t *testing.T) {
	c := mustMemory(t, 3)

	results, err := c.Search([]float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search() on empty collection = %d results, want 0", len(results))
	}
}

func TestMemoryCollection_RankingOrder(t *testing.T) {
	c := mustMemory(t, 3)

	points := []Point{
		{ID: "orthogonal", Vector: []float32{0, 1, 0}, Payload: Payload{Context: "unrelated"}},
		{ID: "exact", Vector: []float32{1, 0, 0}, Payload: Payload{Context: "match"}},
		{ID: "close", Vector: []float32{0.9, 0.1, 0}, Payload: Payload{Context: "near"}},
	}
	if err := c.Upsert(points); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	results, err := c.Search([]float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Search() = %d results, want 3", len(results))
	}

	wantOrder := []string{"exact", "close", "orthogonal"}
	for i, want := range wantOrder {
		if results[i].Point.ID != want {
			t.Errorf("result %d = %s, want %s", i, results[i].Point.ID, want)
		}
	}

	// Scores descend
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores not descending at %d: %v > %v", i, results[i].Score, results[i-1].Score)
		}
	}
}

func TestMemoryCollection_SearchLimit(t *testing.T) {
	c := mustMemory(t, 2)

	var points []Point
	for i := 0; i < 10; i++ {
		points = append(points, Point{ID: string(rune('a' + i)), Vector: []float32{1, float32(i)}})
	}
	if err := c.Upsert(points); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	results, err := c.Search([]float32{1, 0}, 4)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 4 {
		t.Errorf("Search() = %d results, want 4", len(results))
	}
}

func TestMemoryCollection_DimensionMismatch(t *testing.T) {
	c := mustMemory(t, 3)

	err := c.Upsert([]Point{{ID: "bad", Vector: []float32{1, 0}}})
	if err == nil {
		t.Error("Expected error for mismatched vector dimension")
	}

	// Nothing from the failed batch is visible
	n, _ := c.Count()
	if n != 0 {
		t.Errorf("Count() = %d after failed upsert, want 0", n)
	}
}

func TestMemoryCollection_CountAndReset(t *testing.T) {
	c := mustMemory(t, 2)

	if err := c.Upsert([]Point{
		{ID: "a", Vector: []float32{1, 0}},
		{ID: "b", Vector: []float32{0, 1}},
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	n, err := c.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}

	if err := c.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	n, _ = c.Count()
	if n != 0 {
		t.Errorf("Count() after Reset = %d, want 0", n)
	}
}

func TestMemoryCollection_LargeBatch(t *testing.T) {
	c := mustMemory(t, 2)

	// More points than one internal batch
	var points []Point
	for i := 0; i < 250; i++ {
		points = append(points, Point{ID: string(rune(i)), Vector: []float32{1, 1}})
	}
	if err := c.Upsert(points); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	n, _ := c.Count()
	if n != 250 {
		t.Errorf("Count() = %d, want 250", n)
	}
}

func TestMemoryCollection_Info(t *testing.T) {
	c := mustMemory(t, 7)

	info := c.Info()
	if info.Dimension != 7 || info.EmbeddingModel != "test-model" {
		t.Errorf("Info() = %+v", info)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
