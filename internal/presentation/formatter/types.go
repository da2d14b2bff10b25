// Package formatter renders grouped run history.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/core/model"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// Formatter writes day buckets in display order.
type Formatter interface {
	Format(w io.Writer, days []history.DayBucket) error
}

// New returns the formatter for an output format name.
func New(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", FormatTable:
		return NewTableFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatCSV:
		return NewCSVFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Row is one displayed history entry. Index counts from 1 across all days
// in display order.
type Row struct {
	Index  int
	Day    string
	Record model.RunHistoryRecord
}

// Rows flattens days into numbered rows.
func Rows(days []history.DayBucket) []Row {
	var rows []Row
	for _, day := range days {
		for _, r := range day.Records {
			rows = append(rows, Row{Index: len(rows) + 1, Day: day.Label, Record: r})
		}
	}
	return rows
}

// RecordAt returns the record shown at a 1-based display index.
func RecordAt(days []history.DayBucket, index int) (model.RunHistoryRecord, error) {
	rows := Rows(days)
	if index < 1 || index > len(rows) {
		return model.RunHistoryRecord{}, fmt.Errorf("index %d out of range (1-%d)", index, len(rows))
	}
	return rows[index-1].Record, nil
}

func entryKind(r model.RunHistoryRecord) string {
	if r.IsSnapshot() {
		return "snapshot"
	}
	return "incremental"
}
