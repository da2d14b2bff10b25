package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-run-history/internal/application/browse"
	"github.com/penwyp/go-run-history/internal/data/source"
	"github.com/penwyp/go-run-history/internal/presentation/display"
	"github.com/penwyp/go-run-history/internal/presentation/formatter"
	"github.com/penwyp/go-run-history/internal/util"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-run-history [flags]",
	Short: "Browse analysis run history by day",
	Long: `go-run-history lists analysis runs grouped by calendar day and opens a
history entry in the results filter.

Incremental entries open the outstanding findings of their run detected at
that instant. Snapshot entries (with a version tag) open the findings of the
tagged snapshot.

Examples:
  go-run-history                                   # History from the local store
  go-run-history --source file --file runs.jsonl   # History from a file
  go-run-history --source http --url http://ci:8080
  go-run-history --run 42 --run 43 --output json   # Selected runs as JSON
  go-run-history open --index 3                    # Open the third entry
  go-run-history import runs.json                  # Load a file into the store
  go-run-history watch --source file --file runs.jsonl`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runList,
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.String("config", "",
		"Config file (default ~/.config/go-run-history/config.yml)")

	// History source
	pf.String("source", source.KindSQLite,
		"History source (sqlite, file, http)")
	pf.String("file", "",
		"History file for the file source (.json or .jsonl)")
	pf.String("url", "",
		"Base URL of the history service for the http source")
	pf.String("db", defaultDBPath,
		"SQLite database path")
	pf.String("cache-dir", defaultCacheDir,
		"Directory for cached history snapshots")
	pf.Bool("offline", false,
		"Serve the cached snapshot instead of contacting the source")

	// Selection
	pf.StringSlice("run", nil,
		"Run ids to include (repeatable or comma separated)")
	pf.Int("limit", 0,
		"Limit entry count (0 = unlimited)")
	pf.Int("offset", 0,
		"Skip this many entries")
	pf.String("sort", "",
		"Ask the source to sort entries by time or run-name")

	// Display
	pf.String("timezone", "Local",
		"Timezone for day labels (e.g., Europe/Berlin, UTC)")
	pf.String("order", "desc",
		"Day order (desc = most recent first, asc)")

	// System and debugging
	pf.Bool("debug", false,
		"Enable debug mode")
	pf.String("log-format", "text",
		"Log format (text, json)")

	rootCmd.Flags().StringP("output", "o", formatter.FormatTable,
		"Output format (table, json, csv)")
	rootCmd.Flags().Bool("summary", false,
		"Print a run summary after the history")
	rootCmd.Flags().Bool("reset-cache", false,
		"Clear cached snapshots before fetching")
}

// setup loads the configuration of cmd and initialises logging and the
// time provider.
func setup(cmd *cobra.Command) (appConfig, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath, cmd.Flags())
	if err != nil {
		return cfg, err
	}

	logFile := ""
	if !cfg.Debug {
		logFile = expandPath(defaultLogFile)
		if err := ensureDir(filepath.Dir(logFile)); err != nil {
			return cfg, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	if err := util.InitLogger(util.LoggerOptions{
		Level:   cfg.logLevel(),
		File:    logFile,
		Console: cfg.Debug,
		Format:  util.ParseLogFormat(cfg.LogFormat),
	}); err != nil {
		return cfg, fmt.Errorf("failed to initialise logging: %w", err)
	}
	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return cfg, err
	}

	if cfg.ConfigPath != "" {
		util.LogDebug("Loaded config", util.F("path", cfg.ConfigPath))
	}
	return cfg, nil
}

// openSource creates the configured history source, clearing snapshots
// first when reset is set.
func openSource(cfg appConfig, reset bool) (source.Source, error) {
	srcCfg := cfg.sourceConfig()
	if srcCfg.CacheDir != "" {
		if err := ensureDir(srcCfg.CacheDir); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		if reset {
			if err := clearCache(srcCfg.CacheDir); err != nil {
				return nil, fmt.Errorf("failed to clear cache: %w", err)
			}
			util.LogInfo("Cache cleared")
		}
	}
	src, err := source.New(srcCfg)
	if err != nil {
		return nil, err
	}
	util.LogDebug("Opened history source", util.F("source", src.Name()))
	return src, nil
}

func closeSource(src source.Source) {
	if cached, ok := src.(*source.CachedSource); ok {
		src = cached.Unwrap()
	}
	if c, ok := src.(io.Closer); ok {
		if err := c.Close(); err != nil {
			util.LogWarnf("Failed to close %s: %v", src.Name(), err)
		}
	}
}

func (c *appConfig) browseConfig() *browse.BrowseConfig {
	return &browse.BrowseConfig{
		Query:           c.historyQuery(),
		Timezone:        c.Timezone,
		Order:           c.Order,
		Layout:          c.Layout,
		RefreshInterval: c.RefreshInterval,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	f, err := formatter.New(cfg.Output)
	if err != nil {
		return err
	}
	reset, _ := cmd.Flags().GetBool("reset-cache")

	src, err := openSource(cfg, reset)
	if err != nil {
		return err
	}
	defer closeSource(src)

	renderer := display.NewWriterRenderer(f, cfg.Summary, cmd.OutOrStdout(), cmd.ErrOrStderr())
	orch, err := browse.NewOrchestrator(cfg.browseConfig(), src, renderer)
	if err != nil {
		return err
	}
	if err := orch.Refresh(cmd.Context()); err != nil {
		return &renderedError{err: err}
	}
	return renderer.Err()
}

// renderedError marks an error the renderer already showed to the user.
type renderedError struct {
	err error
}

func (e *renderedError) Error() string { return e.err.Error() }
func (e *renderedError) Unwrap() error { return e.err }

// Execute runs the root command and prints any error not yet shown.
func Execute() error {
	err := rootCmd.Execute()
	var rendered *renderedError
	if err != nil && !errors.As(err, &rendered) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), util.FormatErrorText("Error: "+err.Error()))
	}
	return err
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// clearCache removes snapshot files from cacheDir.
func clearCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			path := filepath.Join(cacheDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}
