// ABOUTME: CLI command to generate a full presentation from a brief
// ABOUTME: Ingests source documents and streams slides as they are generated
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/slidekit/deckgen/internal/models"
	"github.com/slidekit/deckgen/internal/pipeline"
)

var (
	generateFiles   []string
	generateBrief   string
	generateContext string
	generateIndex   string
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a presentation from a brief",
		Long: `Generate a presentation from a brief.

Ingests the given documents into the knowledge base, classifies the
target audience from the brief, plans the slide structure, and writes
every slide grounded on retrieved facts. Slides are streamed to stdout
as markdown while they are generated.

Examples:
  deckgen generate --file report.md --brief "Годовой отчёт для инвесторов"
  deckgen generate --file data.csv --file notes.txt --brief "Технический обзор" --format json
  deckgen generate --brief "Презентация" --context "выручка выросла на 12%"`,
		RunE: runGenerate,
	}

	cmd.Flags().StringArrayVar(&generateFiles, "file", nil, "Document to ingest (txt, md, or csv; repeatable)")
	cmd.Flags().StringVar(&generateBrief, "brief", "", "User brief describing the presentation (required)")
	cmd.Flags().StringVar(&generateContext, "context", "", "Inline project context text")
	cmd.Flags().StringVar(&generateIndex, "index", "", "SQLite index path (default: in-memory)")
	_ = cmd.MarkFlagRequired("brief")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	ctx := cmd.Context()
	svc, shutdown, err := initServices(ctx, generateIndex)
	if err != nil {
		return err
	}
	defer shutdown()

	// Ingest sources
	docID := 0
	for _, path := range generateFiles {
		docID++
		indexed, err := svc.ingestFile(ctx, path, docID)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "Ingested %s: %d chunks\n", path, indexed)
		}
	}
	if generateContext != "" {
		docID++
		chunks := svc.chunker.Process(generateContext, models.ChunkMetadata{
			Source: "project_context",
			DocID:  docID,
		})
		if len(chunks) > 0 {
			if err := svc.indexer.Add(ctx, chunks); err != nil {
				return fmt.Errorf("indexing project context: %w", err)
			}
		}
	}

	// Classify and plan
	classified, err := svc.pipe.Classify(ctx, generateBrief)
	if err != nil {
		return fmt.Errorf("classifying audience: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Audience: %s (confidence %.2f)\n", classified.Label, classified.Confidence)
	}

	structure, err := svc.pipe.Plan(ctx, classified.Label, generateContext)
	if err != nil {
		return fmt.Errorf("planning structure: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Planned %d slides\n", len(structure))
	}

	// Generate: markdown streams per slide, json collects the whole deck
	stream := svc.pipe.Generate(generateBrief, structure)
	var slides []models.SlideContent
	for {
		slide, ok := stream.Next(ctx)
		if !ok {
			break
		}
		if outputFormat == "json" {
			slides = append(slides, slide)
		} else {
			fmt.Fprint(cmd.OutOrStdout(), pipeline.RenderMarkdown(slide))
		}
	}

	meta := stream.Metadata()
	if outputFormat == "json" {
		deck := map[string]any{
			"audience":   classified.Label,
			"confidence": classified.Confidence,
			"slides":     slides,
			"metadata":   meta,
		}
		encoded, err := json.MarshalIndent(deck, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling deck: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", encoded)
	}

	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Done: %d slides, %d facts used, %d fallback\n",
			meta.SlidesGenerated, meta.TotalFactsUsed, meta.SlidesWithFallback)
	}
	return nil
}
