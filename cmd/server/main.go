// ABOUTME: Main entry point for the deckgen MCP server with stdio transport
// ABOUTME: Initializes config, models, gateway, index, and MCP tools
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/slidekit/deckgen/internal/config"
	"github.com/slidekit/deckgen/internal/gateway"
	"github.com/slidekit/deckgen/internal/index"
	"github.com/slidekit/deckgen/internal/mcp"
	"github.com/slidekit/deckgen/internal/provider"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	apiKey, err := config.ResolveAPIKey(cfg.APIKey)
	if err != nil {
		log.Fatalf("Failed to resolve API key: %v", err)
	}
	gw, err := gateway.New(cfg.APIURL, apiKey, cfg.Timeout)
	if err != nil {
		log.Fatalf("Failed to create gateway: %v", err)
	}

	// Initialize embedding and cross-encoder models
	models := provider.NewModels(cfg)
	if err := models.Init(context.Background()); err != nil {
		log.Fatalf("Failed to initialize models: %v", err)
	}
	defer func() {
		if err := models.Shutdown(); err != nil {
			log.Printf("Warning: model shutdown: %v", err)
		}
	}()

	// INDEX_PATH selects the persistent SQLite collection
	factory := index.MemoryFactory
	if path := os.Getenv("INDEX_PATH"); path != "" {
		factory = index.SQLiteFactory(path)
	}
	indexer := index.NewIndexer(models.Embedder(), factory)

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Deckgen Presentation Generator",
		"0.1.0",
	)

	// Register MCP tools
	if _, err := mcp.RegisterTools(server, mcp.Deps{
		Config:       cfg,
		Gateway:      gw,
		Embedder:     models.Embedder(),
		CrossEncoder: models.CrossEncoder(),
		Indexer:      indexer,
	}); err != nil {
		log.Fatalf("Failed to register tools: %v", err)
	}

	// Start server with stdio transport
	log.Println("Deckgen MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
