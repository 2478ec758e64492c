// ABOUTME: MCP tool definitions and registration for the deckgen server
// ABOUTME: Defines JSON schemas for the ingest, generate, and edit tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/slidekit/deckgen/internal/chunker"
	"github.com/slidekit/deckgen/internal/config"
	"github.com/slidekit/deckgen/internal/gateway"
	"github.com/slidekit/deckgen/internal/index"
	"github.com/slidekit/deckgen/internal/pipeline"
	"github.com/slidekit/deckgen/internal/provider"
	"github.com/slidekit/deckgen/internal/search"
)

// Deps carries the initialized services the tools operate on
type Deps struct {
	Config       *config.Config
	Gateway      gateway.Completer
	Embedder     provider.Embedder
	CrossEncoder provider.CrossEncoder
	Indexer      *index.Indexer
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, deps Deps) (*Handlers, error) {
	ch, err := chunker.New(deps.Config.ChunkSize, deps.Config.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	engine := search.NewLazyEngine(deps.Embedder, deps.CrossEncoder, deps.Indexer,
		deps.Config.RawTopK, deps.Config.RerankLimit)

	handlers := &Handlers{
		cfg:     deps.Config,
		chunker: ch,
		indexer: deps.Indexer,
		pipe:    pipeline.New(deps.Gateway, engine, deps.Config),
	}

	// 1. ingest_document - Load a document into the knowledge base
	server.AddTool(mcp.Tool{
		Name:        "ingest_document",
		Description: "Load a document (txt, md, or csv) into the knowledge base. The document is chunked, embedded, and made searchable for presentation generation.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to a .txt, .md, or .csv file to ingest",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Raw document text to ingest instead of a file",
				},
				"filename": map[string]interface{}{
					"type":        "string",
					"description": "Source name recorded for raw text (default: inline.txt)",
				},
			},
		},
	}, handlers.IngestDocument)

	// 2. generate_presentation - Run the full classify/plan/generate pipeline
	server.AddTool(mcp.Tool{
		Name:        "generate_presentation",
		Description: "Generate a complete slide deck from a user brief. Classifies the target audience, plans the slide structure, and generates every slide grounded on the ingested knowledge base.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_text": map[string]interface{}{
					"type":        "string",
					"description": "The user's brief describing the presentation to generate",
				},
				"project_context": map[string]interface{}{
					"type":        "string",
					"description": "Optional project context. Ingested into the knowledge base and passed to the planner.",
				},
			},
			Required: []string{"user_text"},
		},
	}, handlers.GeneratePresentation)

	// 3. edit_slide - Apply one edit action to one slide
	server.AddTool(mcp.Tool{
		Name:        "edit_slide",
		Description: "Apply one edit action to a single slide. Actions: polish, correct, translate, expand, shorten, simplify, specify, custom, replace_chart. Custom requires custom_prompt; replace_chart re-runs retrieval and chart synthesis.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"slide": map[string]interface{}{
					"type":        "object",
					"description": "The slide to edit (slide_id, title, content, used_facts)",
				},
				"action": map[string]interface{}{
					"type":        "string",
					"description": "Edit action to apply",
				},
				"params": map[string]interface{}{
					"type":        "object",
					"description": "Action parameters (e.g. target_language for translate, task for replace_chart)",
				},
				"custom_prompt": map[string]interface{}{
					"type":        "string",
					"description": "Free-form instruction, required for the custom action",
				},
			},
			Required: []string{"slide", "action"},
		},
	}, handlers.EditSlide)

	return handlers, nil
}
