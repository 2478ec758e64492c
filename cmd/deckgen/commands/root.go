// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines the deckgen command tree and shared output settings
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
██████╗ ███████╗ ██████╗██╗  ██╗ ██████╗ ███████╗███╗   ██╗
██╔══██╗██╔════╝██╔════╝██║ ██╔╝██╔════╝ ██╔════╝████╗  ██║
██║  ██║█████╗  ██║     █████╔╝ ██║  ███╗█████╗  ██╔██╗ ██║
██║  ██║██╔══╝  ██║     ██╔═██╗ ██║   ██║██╔══╝  ██║╚██╗██║
██████╔╝███████╗╚██████╗██║  ██╗╚██████╔╝███████╗██║ ╚████║
╚═════╝ ╚══════╝ ╚═════╝╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═╝  ╚═══╝
`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deckgen",
		Short: "Retrieval-augmented presentation generator",
		Long: banner + `
Deckgen generates slide decks grounded on your documents.

Ingest txt, md, or csv sources, then generate a full presentation:
the target audience is classified from your brief, a slide structure
is planned for it, and every slide is written against the retrieved
facts. Individual slides can be rewritten with constrained edit
actions afterwards.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, markdown, json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewEditCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
