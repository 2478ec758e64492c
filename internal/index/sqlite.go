// ABOUTME: SQLite-backed vector collection using modernc.org/sqlite
// ABOUTME: Vectors stored as JSON arrays; brute-force cosine scan on search
package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS collection_info (
	key TEXT PRIMARY KEY,
	dimension INTEGER NOT NULL,
	embedding_model TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS points (
	id TEXT PRIMARY KEY,
	vector TEXT NOT NULL,
	context TEXT NOT NULL,
	file_name TEXT NOT NULL,
	chunk_index INTEGER NOT NULL
);
`

// SQLiteCollection persists points in a single SQLite file. Search is a
// full scan with cosine scoring, sized for single-document collections
// rather than ANN workloads.
type SQLiteCollection struct {
	db   *sql.DB
	info Info
}

// OpenSQLiteCollection opens or creates the collection at path. Reopening
// an existing file with a different dimension or embedding model fails,
// preventing silently mixed embedding spaces.
func OpenSQLiteCollection(path string, dimension int, embeddingModel string) (*SQLiteCollection, error) {
	if dimension < 1 {
		return nil, fmt.Errorf("collection dimension must be >= 1, got %d", dimension)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	c := &SQLiteCollection{
		db:   db,
		info: Info{Dimension: dimension, EmbeddingModel: embeddingModel},
	}
	if err := c.checkInfo(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// checkInfo records the embedding space on first open and verifies it after
func (c *SQLiteCollection) checkInfo() error {
	var (
		dim   int
		model string
	)
	err := c.db.QueryRow(`SELECT dimension, embedding_model FROM collection_info WHERE key = 'default'`).Scan(&dim, &model)
	if err == sql.ErrNoRows {
		_, err = c.db.Exec(`INSERT INTO collection_info (key, dimension, embedding_model) VALUES ('default', ?, ?)`,
			c.info.Dimension, c.info.EmbeddingModel)
		return err
	}
	if err != nil {
		return err
	}
	if dim != c.info.Dimension || model != c.info.EmbeddingModel {
		return fmt.Errorf("collection was built with model %s (dim %d), requested %s (dim %d)",
			model, dim, c.info.EmbeddingModel, c.info.Dimension)
	}
	return nil
}

// Upsert writes all points inside one transaction
func (c *SQLiteCollection) Upsert(points []Point) error {
	for _, p := range points {
		if len(p.Vector) != c.info.Dimension {
			return fmt.Errorf("point %s has dimension %d, collection expects %d", p.ID, len(p.Vector), c.info.Dimension)
		}
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO points (id, vector, context, file_name, chunk_index)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			vector = excluded.vector,
			context = excluded.context,
			file_name = excluded.file_name,
			chunk_index = excluded.chunk_index
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for start := 0; start < len(points); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(points) {
			end = len(points)
		}
		for _, p := range points[start:end] {
			blob, err := json.Marshal(p.Vector)
			if err != nil {
				return fmt.Errorf("failed to encode vector: %w", err)
			}
			if _, err := stmt.Exec(p.ID, string(blob), p.Payload.Context, p.Payload.FileName, p.Payload.ChunkIndex); err != nil {
				return fmt.Errorf("failed to insert point %s: %w", p.ID, err)
			}
		}
	}

	return tx.Commit()
}

// Search scans every stored vector and returns the top matches
func (c *SQLiteCollection) Search(vector []float32, limit int) ([]ScoredPoint, error) {
	if limit < 1 {
		return nil, fmt.Errorf("search limit must be >= 1, got %d", limit)
	}

	rows, err := c.db.Query(`SELECT id, vector, context, file_name, chunk_index FROM points`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	results := make([]ScoredPoint, 0)
	for rows.Next() {
		var (
			p    Point
			blob string
		)
		if err := rows.Scan(&p.ID, &blob, &p.Payload.Context, &p.Payload.FileName, &p.Payload.ChunkIndex); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(blob), &p.Vector); err != nil {
			return nil, fmt.Errorf("failed to decode vector for point %s: %w", p.ID, err)
		}
		p.Payload.ID = p.ID

		results = append(results, ScoredPoint{
			Point: p,
			Score: cosineSimilarity(vector, p.Vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
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
func (c *SQLiteCollection) Count() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM points`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Reset drops every point, keeping the recorded embedding space
func (c *SQLiteCollection) Reset() error {
	_, err := c.db.Exec(`DELETE FROM points`)
	return err
}

// Info describes the collection's embedding space
func (c *SQLiteCollection) Info() Info {
	return c.info
}

// Close releases the underlying database handle
func (c *SQLiteCollection) Close() error {
	return c.db.Close()
}
