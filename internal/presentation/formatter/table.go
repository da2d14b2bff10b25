package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/util"
)

// maxCommandWidth caps the check command column; longer commands are cut.
const maxCommandWidth = 48

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"#", "Day", "Time", "Run", "User", "Version", "Check Command"},
	}
}

func (f *TableFormatter) Format(w io.Writer, days []history.DayBucket) error {
	tw := &tableWriter{w: w}

	rowsByDay := make([][][]string, len(days))
	index := 0
	for i, day := range days {
		for j, r := range day.Records {
			index++
			label := ""
			if j == 0 {
				label = day.Label
			}
			rowsByDay[i] = append(rowsByDay[i], []string{
				fmt.Sprintf("%d", index),
				label,
				clockTime(r.Time),
				r.RunName,
				r.User,
				util.ValueOr(r.VersionTag, "-"),
				util.TruncateToWidth(util.OneLine(util.ValueOr(r.CheckCommand, "-")), maxCommandWidth),
			})
		}
	}

	total := []string{"", "Total", util.FormatCount(index, "entry", "entries"), "", "", "", ""}
	widths := f.calculateColumnWidths(rowsByDay, total)

	tw.border(widths, "top")
	tw.row(f.headers, widths)
	tw.border(widths, "middle")
	for i, rows := range rowsByDay {
		for _, row := range rows {
			tw.row(row, widths)
		}
		if i < len(rowsByDay)-1 {
			tw.border(widths, "middle")
		}
	}
	tw.border(widths, "middle")
	tw.row(total, widths)
	tw.border(widths, "bottom")

	return tw.err
}

// calculateColumnWidths sizes each column to its widest cell in display cells.
func (f *TableFormatter) calculateColumnWidths(rowsByDay [][][]string, total []string) []int {
	widths := make([]int, len(f.headers))
	fit := func(values []string) {
		for i, v := range values {
			if w := runewidth.StringWidth(v); w > widths[i] {
				widths[i] = w
			}
		}
	}

	fit(f.headers)
	for _, rows := range rowsByDay {
		for _, row := range rows {
			fit(row)
		}
	}
	fit(total)
	return widths
}

// clockTime shows only the time of day since the day column carries the date.
func clockTime(raw string) string {
	normalized := history.NormalizeRunTime(raw)
	if i := strings.IndexByte(normalized, 'T'); i >= 0 {
		return normalized[i+1:]
	}
	return raw
}

// tableWriter keeps the first write error so row printing stays linear.
type tableWriter struct {
	w   io.Writer
	err error
}

func (t *tableWriter) printf(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *tableWriter) border(widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	t.printf("%s\n", b.String())
}

func (t *tableWriter) row(values []string, widths []int) {
	var b strings.Builder
	b.WriteString("│")
	for i, value := range values {
		if i == 0 {
			// Index column is right-aligned
			b.WriteString(" " + runewidth.FillLeft(value, widths[i]) + " │")
		} else {
			b.WriteString(" " + runewidth.FillRight(value, widths[i]) + " │")
		}
	}
	t.printf("%s\n", b.String())
}
