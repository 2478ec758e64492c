// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to generate presentations via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/slidekit/deckgen/internal/mcp"
)

var mcpIndex string

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs deckgen as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to ingest documents and generate presentations
via stdio.

Configure in Claude Desktop's config file to enable the tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  deckgen mcp

  # Persist the knowledge base between sessions
  deckgen mcp --index deck.db

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "deckgen": {
  #       "command": "deckgen",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	cmd.Flags().StringVar(&mcpIndex, "index", "", "SQLite index path (default: in-memory)")

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, shutdown, err := initServices(ctx, mcpIndex)
	if err != nil {
		return err
	}
	defer shutdown()

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Deckgen Presentation Generator",
		versionInfo.Version,
	)

	// Register MCP tools
	if _, err := mcp.RegisterTools(server, mcp.Deps{
		Config:       svc.cfg,
		Gateway:      svc.gw,
		Embedder:     svc.models.Embedder(),
		CrossEncoder: svc.models.CrossEncoder(),
		Indexer:      svc.indexer,
	}); err != nil {
		return fmt.Errorf("registering tools: %w", err)
	}

	if !quiet {
		log.Println("Deckgen MCP server starting on stdio...")
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
