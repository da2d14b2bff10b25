package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/penwyp/go-run-history/internal/server"
	"github.com/penwyp/go-run-history/internal/util"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the run history over HTTP",
	Long: `Serves the configured history source as a JSON API:

  GET  /api/history          records (run, limit, offset, sort, order)
  GET  /api/history/days     records grouped by day
  POST /api/history/select   filter state for one record
  GET  /healthz              liveness`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", defaultAddr,
		"Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	src, err := openSource(cfg, false)
	if err != nil {
		return err
	}
	defer closeSource(src)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(src, util.GetTimeProvider().Location())
	return srv.ListenAndServe(ctx, cfg.Addr)
}
