package formatter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/penwyp/go-run-history/internal/core/history"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, days []history.DayBucket) error {
	cw := csv.NewWriter(w)

	headers := []string{
		"Index", "Day", "Run ID", "Run Name", "Time", "User",
		"Version Tag", "Check Command", "Kind",
	}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, row := range Rows(days) {
		r := row.Record
		record := []string{
			fmt.Sprintf("%d", row.Index),
			row.Day,
			fmt.Sprintf("%d", r.RunID),
			r.RunName,
			r.Time,
			r.User,
			r.VersionTag,
			r.CheckCommand,
			entryKind(r),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
