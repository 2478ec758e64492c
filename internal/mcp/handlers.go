// ABOUTME: MCP tool handler implementations for the deckgen server
// ABOUTME: Ingestion, full-deck generation, and single-slide editing
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/slidekit/deckgen/internal/chunker"
	"github.com/slidekit/deckgen/internal/config"
	"github.com/slidekit/deckgen/internal/convert"
	"github.com/slidekit/deckgen/internal/index"
	"github.com/slidekit/deckgen/internal/models"
	"github.com/slidekit/deckgen/internal/pipeline"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	cfg     *config.Config
	chunker *chunker.Chunker
	indexer *index.Indexer
	pipe    *pipeline.Pipeline

	mu     sync.Mutex
	docSeq int // doc ids per ingested document
}

func (h *Handlers) nextDocID() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.docSeq++
	return h.docSeq
}

// ingest chunks and indexes one document, returning the chunk count
func (h *Handlers) ingest(ctx context.Context, text, source string) (int, error) {
	chunks := h.chunker.Process(text, models.ChunkMetadata{
		Source: source,
		DocID:  h.nextDocID(),
	})
	if len(chunks) == 0 {
		return 0, nil
	}
	if err := h.indexer.Add(ctx, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// IngestDocument handles the ingest_document tool
func (h *Handlers) IngestDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	text := request.GetString("text", "")

	var content, source string
	switch {
	case path != "":
		converted, err := convert.ToText(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read document: %v", err)), nil
		}
		content = converted
		source = filepath.Base(path)

	case text != "":
		source = request.GetString("filename", "inline.txt")
		converted, err := convert.TextFromBytes(source, []byte(text))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to convert document: %v", err)), nil
		}
		content = converted

	default:
		return mcp.NewToolResultError("either path or text is required"), nil
	}

	indexed, err := h.ingest(ctx, content, source)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("indexing failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"source":         source,
		"chunks_indexed": indexed,
	}
	if collection, err := h.indexer.Collection(); err == nil {
		if total, err := collection.Count(); err == nil {
			response["total_points"] = total
		}
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// GeneratePresentation handles the generate_presentation tool
func (h *Handlers) GeneratePresentation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userText, err := request.RequireString("user_text")
	if err != nil {
		return mcp.NewToolResultError("user_text argument is required and must be a string"), nil
	}
	projectContext := request.GetString("project_context", "")

	// Project context joins the knowledge base before generation starts
	if strings.TrimSpace(projectContext) != "" {
		if _, err := h.ingest(ctx, projectContext, "project_context"); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to index project context: %v", err)), nil
		}
	}

	classified, err := h.pipe.Classify(ctx, userText)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}

	structure, err := h.pipe.Plan(ctx, classified.Label, projectContext)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("planning failed: %v", err)), nil
	}

	stream := h.pipe.Generate(userText, structure)
	slides := make([]models.SlideContent, 0, len(structure))
	var markdown strings.Builder
	for {
		slide, ok := stream.Next(ctx)
		if !ok {
			break
		}
		slides = append(slides, slide)
		markdown.WriteString(pipeline.RenderMarkdown(slide))
	}

	meta := stream.Metadata()
	log.Printf("[MCP] Presentation generated: %d slides, %d facts", meta.SlidesGenerated, meta.TotalFactsUsed)

	response := map[string]interface{}{
		"audience":   string(classified.Label),
		"confidence": classified.Confidence,
		"slides":     slides,
		"markdown":   markdown.String(),
		"metadata":   meta,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// EditSlide handles the edit_slide tool
func (h *Handlers) EditSlide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := request.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError("action argument is required and must be a string"), nil
	}

	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("arguments must be an object"), nil
	}

	slideRaw, exists := args["slide"]
	if !exists {
		return mcp.NewToolResultError("slide argument is required"), nil
	}
	slideJSON, err := json.Marshal(slideRaw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("slide argument is not an object: %v", err)), nil
	}
	var slide models.SlideContent
	if err := json.Unmarshal(slideJSON, &slide); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("slide argument malformed: %v", err)), nil
	}

	var params map[string]any
	if raw, exists := args["params"]; exists {
		params, _ = raw.(map[string]any)
	}
	customPrompt := request.GetString("custom_prompt", "")

	result, err := h.pipe.Edit(ctx, slide, pipeline.EditAction(action), params, customPrompt)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("edit failed: %v", err)), nil
	}

	responseJSON, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
