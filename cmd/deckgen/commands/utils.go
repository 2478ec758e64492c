// ABOUTME: Shared utility functions and service wiring for CLI commands
// ABOUTME: Consolidates duplicate code from generate, edit, and mcp commands
package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/slidekit/deckgen/internal/chunker"
	"github.com/slidekit/deckgen/internal/config"
	"github.com/slidekit/deckgen/internal/convert"
	"github.com/slidekit/deckgen/internal/gateway"
	"github.com/slidekit/deckgen/internal/index"
	"github.com/slidekit/deckgen/internal/models"
	"github.com/slidekit/deckgen/internal/pipeline"
	"github.com/slidekit/deckgen/internal/provider"
	"github.com/slidekit/deckgen/internal/search"
)

// services holds the wired pipeline dependencies for one CLI run
type services struct {
	cfg     *config.Config
	models  *provider.Models
	gw      gateway.Completer
	chunker *chunker.Chunker
	indexer *index.Indexer
	pipe    *pipeline.Pipeline
}

// initServices wires config, model providers, gateway, index, and pipeline.
// indexPath selects the SQLite collection; empty keeps everything in memory.
// The returned shutdown func releases the model session.
func initServices(ctx context.Context, indexPath string) (*services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	apiKey, err := config.ResolveAPIKey(cfg.APIKey)
	if err != nil {
		return nil, nil, err
	}
	gw, err := gateway.New(cfg.APIURL, apiKey, cfg.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("creating gateway: %w", err)
	}

	ch, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, nil, err
	}

	m := provider.NewModels(cfg)
	if err := m.Init(ctx); err != nil {
		return nil, nil, fmt.Errorf("initializing models: %w", err)
	}
	shutdown := func() {
		if err := m.Shutdown(); err != nil && !quiet {
			log.Printf("Warning: model shutdown: %v", err)
		}
	}

	factory := index.MemoryFactory
	if indexPath != "" {
		factory = index.SQLiteFactory(indexPath)
	}
	indexer := index.NewIndexer(m.Embedder(), factory)
	engine := search.NewLazyEngine(m.Embedder(), m.CrossEncoder(), indexer, cfg.RawTopK, cfg.RerankLimit)

	return &services{
		cfg:     cfg,
		models:  m,
		gw:      gw,
		chunker: ch,
		indexer: indexer,
		pipe:    pipeline.New(gw, engine, cfg),
	}, shutdown, nil
}

// ingestFile converts one document and indexes its chunks
func (s *services) ingestFile(ctx context.Context, path string, docID int) (int, error) {
	text, err := convert.ToText(path)
	if err != nil {
		return 0, err
	}
	chunks := s.chunker.Process(text, models.ChunkMetadata{
		Source: filepath.Base(path),
		DocID:  docID,
	})
	if len(chunks) == 0 {
		return 0, nil
	}
	if err := s.indexer.Add(ctx, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// parseParams parses repeated key=value flags into an action parameter map
func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}
		params[strings.TrimSpace(key)] = value
	}
	return params, nil
}

// readInput reads from a file, or from stdin when path is "-"
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
