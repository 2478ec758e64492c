// ABOUTME: CLI command to apply one edit action to a single slide
// ABOUTME: Reads the slide JSON from a file or stdin, prints the edited slide
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
	editSlideFile string
	editAction    string
	editParams    []string
	editPrompt    string
	editIndex     string
)

// NewEditCmd creates the edit command
func NewEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a single slide",
		Long: `Edit a single slide with one constrained action.

The slide is read as JSON (slide_id, title, content, used_facts) from
--slide, or from stdin when --slide is "-". Supported actions: polish,
correct, translate, expand, shorten, simplify, specify, custom,
replace_chart. The custom action requires --prompt; replace_chart
re-runs retrieval and chart synthesis against the --index collection.

Examples:
  deckgen edit --slide slide.json --action polish
  deckgen edit --slide slide.json --action translate --param target_language=en
  cat slide.json | deckgen edit --slide - --action custom --prompt "Сократи до трёх тезисов"
  deckgen edit --slide slide.json --action replace_chart --index deck.db --param task="обновить данные"`,
		RunE: runEdit,
	}

	cmd.Flags().StringVar(&editSlideFile, "slide", "", "Slide JSON file, or - for stdin (required)")
	cmd.Flags().StringVar(&editAction, "action", "", "Edit action to apply (required)")
	cmd.Flags().StringArrayVar(&editParams, "param", nil, "Action parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&editPrompt, "prompt", "", "Free-form instruction for the custom action")
	cmd.Flags().StringVar(&editIndex, "index", "", "SQLite index path for replace_chart retrieval")
	_ = cmd.MarkFlagRequired("slide")
	_ = cmd.MarkFlagRequired("action")

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	raw, err := readInput(editSlideFile, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("reading slide: %w", err)
	}
	var slide models.SlideContent
	if err := json.Unmarshal(raw, &slide); err != nil {
		return fmt.Errorf("parsing slide JSON: %w", err)
	}

	params, err := parseParams(editParams)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, shutdown, err := initServices(ctx, editIndex)
	if err != nil {
		return err
	}
	defer shutdown()

	result, err := svc.pipe.Edit(ctx, slide, pipeline.EditAction(editAction), params, editPrompt)
	if err != nil {
		return fmt.Errorf("editing slide: %w", err)
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", encoded)

	if verbose && result.Explanation != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Explanation: %s\n", truncate(result.Explanation, 200))
	}
	return nil
}
