package commands

import (
	"fmt"

	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/data/source"
	"github.com/penwyp/go-run-history/internal/util"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load run history from a JSON or JSONL file into the local store",
	Long: `Reads run history records from a .json array or a .jsonl file and appends
them to the SQLite store selected by --db.

Every timestamp is checked first; a file with a malformed time is rejected
as a whole.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	path := expandPath(args[0])
	records, err := source.ReadRecordsFile(path)
	if err != nil {
		return err
	}

	loc := util.GetTimeProvider().Location()
	for i, r := range records {
		if _, err := history.ParseRunTime(r.Time, loc); err != nil {
			return fmt.Errorf("record %d (run %q): %w", i+1, r.RunName, err)
		}
	}

	store, err := source.OpenSQLiteStore(expandPath(cfg.DBPath))
	if err != nil {
		return err
	}
	defer closeSource(store)

	n, err := store.Insert(cmd.Context(), records)
	if err != nil {
		return err
	}
	util.LogInfo("Imported run history", util.F("file", path), util.F("entries", n))
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into %s\n",
		util.FormatCount(n, "entry", "entries"), store.Name())
	return nil
}
