package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/penwyp/go-run-history/internal/application/browse"
	"github.com/penwyp/go-run-history/internal/data/source"
	"github.com/penwyp/go-run-history/internal/data/watcher"
	"github.com/penwyp/go-run-history/internal/presentation/display"
	"github.com/penwyp/go-run-history/internal/presentation/interaction"
	"github.com/penwyp/go-run-history/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show run history and keep it up to date",
	Long: `Shows the run history full screen and refreshes it on a timer. With the
file source the history is also refreshed whenever the file changes.

Keys:
  r      refresh now
  o      toggle day order
  l      toggle full and minimal layout
  q/Esc  quit`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("layout", "full",
		"Screen layout (full, minimal)")
	watchCmd.Flags().Duration("refresh-interval", defaultRefreshInterval,
		"Refresh the history this often")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	src, err := openSource(cfg, false)
	if err != nil {
		return err
	}
	defer closeSource(src)

	interactive := isTerminal(cmd.OutOrStdout())
	terminal := display.NewTerminalDisplay(&display.DisplayConfig{
		Source: src.Name(),
		Layout: cfg.Layout,
		Out:    cmd.OutOrStdout(),
	})

	orch, err := browse.NewOrchestrator(cfg.browseConfig(), src, terminal)
	if err != nil {
		return err
	}

	var monitor browse.FileMonitor
	if cfg.Source == source.KindFile {
		fw, err := watcher.NewFileWatcher(cfg.File)
		if err != nil {
			util.LogWarnf("File watching disabled: %v", err)
		} else {
			defer fw.Close()
			monitor = fw
		}
	}

	var input browse.InputHandler
	if interactive {
		kr, err := interaction.NewKeyboardReader()
		if err != nil {
			util.LogWarnf("Keyboard input disabled: %v", err)
		} else {
			defer kr.Close()
			input = kr
		}
		terminal.EnterAlternateScreen()
		defer terminal.ExitAlternateScreen()
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return orch.Run(ctx, monitor, input)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
