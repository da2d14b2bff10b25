package formatter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/util"
)

// SummaryFormatter writes a short report of the displayed history.
type SummaryFormatter struct{}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

type runStats struct {
	name      string
	entries   int
	snapshots int
}

// Format writes totals and per-run counts of days.
func (f *SummaryFormatter) Format(w io.Writer, days []history.DayBucket) error {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("Run History Summary\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(days) == 0 {
		b.WriteString("No history to summarize\n\n")
		b.WriteString(strings.Repeat("=", 60) + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	first, last := days[0].Label, days[len(days)-1].Label
	if first == last {
		fmt.Fprintf(&b, "Days: %s\n\n", first)
	} else {
		fmt.Fprintf(&b, "Days: %s to %s\n\n", first, last)
	}

	stats := make(map[string]*runStats)
	users := make(map[string]struct{})
	var entries, snapshots int
	for _, day := range days {
		for _, r := range day.Records {
			entries++
			users[r.User] = struct{}{}
			s, ok := stats[r.RunName]
			if !ok {
				s = &runStats{name: r.RunName}
				stats[r.RunName] = s
			}
			s.entries++
			if r.IsSnapshot() {
				snapshots++
				s.snapshots++
			}
		}
	}

	b.WriteString("Totals:\n")
	fmt.Fprintf(&b, "  Entries:     %s\n", util.FormatNumber(entries))
	fmt.Fprintf(&b, "  Days:        %s\n", util.FormatNumber(len(days)))
	fmt.Fprintf(&b, "  Snapshots:   %s\n", util.FormatNumber(snapshots))
	fmt.Fprintf(&b, "  Incremental: %s\n", util.FormatNumber(entries-snapshots))
	fmt.Fprintf(&b, "  Users:       %s\n\n", util.FormatNumber(len(users)))

	runs := make([]*runStats, 0, len(stats))
	for _, s := range stats {
		runs = append(runs, s)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].entries != runs[j].entries {
			return runs[i].entries > runs[j].entries
		}
		return runs[i].name < runs[j].name
	})

	b.WriteString("Runs:\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, s := range runs {
		fmt.Fprintf(&b, "  %s: %s, %s\n", s.name,
			util.FormatCount(s.entries, "entry", "entries"),
			util.FormatCount(s.snapshots, "snapshot", "snapshots"))
	}
	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}
