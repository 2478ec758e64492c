// ABOUTME: Tests for the SQLite-backed vector collection
// ABOUTME: Verifies persistence across reopen and embedding-space guarding
package index

import (
	"path/filepath"
	"testing"
)

func openTestCollection(t *testing.T, path string) *SQLiteCollection {
	t.Helper()
	c, err := OpenSQLiteCollection(path, 3, "test-model")
	if err != nil {
		t.Fatalf("OpenSQLiteCollection() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSQLiteCollection_RoundTrip(t *testing.T) {
	c := openTestCollection(t, filepath.Join(t.TempDir(), "vectors.db"))

	points := []Point{
		{ID: "p1", Vector: []float32{1, 0, 0}, Payload: Payload{Context: "alpha text", FileName: "doc.md", ChunkIndex: 0, ID: "p1"}},
		{ID: "p2", Vector: []float32{0, 1, 0}, Payload: Payload{Context: "beta text", FileName: "doc.md", ChunkIndex: 1, ID: "p2"}},
	}
	if err := c.Upsert(points); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	results, err := c.Search([]float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search() = %d results, want 2", len(results))
	}
	if results[0].Point.ID != "p1" {
		t.Errorf("top result = %s, want p1", results[0].Point.ID)
	}
	if results[0].Point.Payload.Context != "alpha text" {
		t.Errorf("payload context = %q", results[0].Point.Payload.Context)
	}
	if results[0].Point.Payload.ChunkIndex != 0 {
		t.Errorf("payload chunk index = %d", results[0].Point.Payload.ChunkIndex)
	}
}

func TestSQLiteCollection_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.db")

	c, err := OpenSQLiteCollection(path, 3, "test-model")
	if err != nil {
		t.Fatalf("OpenSQLiteCollection() error = %v", err)
	}
	if err := c.Upsert([]Point{{ID: "p1", Vector: []float32{1, 0, 0}}}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened := openTestCollection(t, path)
	n, err := reopened.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() after reopen = %d, want 1", n)
	}
}

func TestSQLiteCollection_RejectsMismatchedSpace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.db")

	c, err := OpenSQLiteCollection(path, 3, "model-a")
	if err != nil {
		t.Fatalf("OpenSQLiteCollection() error = %v", err)
	}
	_ = c.Close()

	if _, err := OpenSQLiteCollection(path, 3, "model-b"); err == nil {
		t.Error("Expected error reopening with different embedding model")
	}
	if _, err := OpenSQLiteCollection(path, 5, "model-a"); err == nil {
		t.Error("Expected error reopening with different dimension")
	}
}

func TestSQLiteCollection_Reset(t *testing.T) {
	c := openTestCollection(t, filepath.Join(t.TempDir(), "vectors.db"))

	if err := c.Upsert([]Point{{ID: "p1", Vector: []float32{1, 0, 0}}}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := c.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	n, _ := c.Count()
	if n != 0 {
		t.Errorf("Count() after Reset = %d, want 0", n)
	}
}

func TestSQLiteCollection_DimensionMismatch(t *testing.T) {
	c := openTestCollection(t, filepath.Join(t.TempDir(), "vectors.db"))

	if err := c.Upsert([]Point{{ID: "bad", Vector: []float32{1, 0}}}); err == nil {
		t.Error("Expected error for mismatched vector dimension")
	}
	n, _ := c.Count()
	if n != 0 {
		t.Errorf("Count() = %d after failed upsert, want 0", n)
	}
}
