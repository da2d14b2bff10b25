package commands

import (
	"fmt"
	"io"

	"github.com/penwyp/go-run-history/internal/application/browse"
	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/presentation/display"
	"github.com/penwyp/go-run-history/internal/presentation/formatter"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a history entry in the results filter",
	Long: `Selects the entry shown at --index (counting from 1 in the displayed day
order) and prints the filter predicates it produces, the resulting filter
state and the navigation hash.

An incremental entry filters by run name, the outstanding detection statuses
(NEW, UNRESOLVED, REOPENED) and its detection date. A snapshot entry filters
by the tag "runName:versionTag".`,
	Args: cobra.NoArgs,
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().IntP("index", "i", 1,
		"Position of the entry in the displayed history")
	openCmd.Flags().Bool("json", false,
		"Print the selection as JSON")
}

func runOpen(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	index, _ := cmd.Flags().GetInt("index")
	asJSON, _ := cmd.Flags().GetBool("json")

	src, err := openSource(cfg, false)
	if err != nil {
		return err
	}
	defer closeSource(src)

	// The history itself is not printed; only fetch errors are shown.
	renderer := display.NewWriterRenderer(discardFormatter{}, false, io.Discard, cmd.ErrOrStderr())
	orch, err := browse.NewOrchestrator(cfg.browseConfig(), src, renderer)
	if err != nil {
		return err
	}
	if err := orch.Refresh(cmd.Context()); err != nil {
		return &renderedError{err: err}
	}

	sel, err := orch.SelectIndex(index)
	if err != nil {
		return fmt.Errorf("open entry %d: %w", index, err)
	}
	return formatter.NewFilterFormatter(asJSON).Format(cmd.OutOrStdout(), sel)
}

type discardFormatter struct{}

func (discardFormatter) Format(io.Writer, []history.DayBucket) error { return nil }
