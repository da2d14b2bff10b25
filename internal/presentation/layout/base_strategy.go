package layout

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/util"
)

// BaseStrategy provides common functionality for all layout strategies
type BaseStrategy struct{}

// BoxHeader creates a boxed header with the given title
func (b *BaseStrategy) BoxHeader(sizer *Sizer, title string, width int) string {
	inner := width - 2
	line := strings.Repeat("─", inner)
	return "┌" + line + "┐\n" +
		"│" + sizer.Center(title, inner) + "│\n" +
		"└" + line + "┘"
}

// FooterLine describes the data source and refresh time.
func (b *BaseStrategy) FooterLine(param LayoutParam) string {
	updated := "never"
	if !param.UpdatedAt.IsZero() {
		updated = util.GetTimeProvider().Format(param.UpdatedAt, "15:04:05")
	}
	return fmt.Sprintf("Source: %s | Updated: %s | r refresh, q quit",
		util.ValueOr(param.Source, "-"), updated)
}

// DaySummary is a one-line description of a day bucket.
func (b *BaseStrategy) DaySummary(day history.DayBucket) string {
	snapshots := 0
	for _, r := range day.Records {
		if r.IsSnapshot() {
			snapshots++
		}
	}
	return fmt.Sprintf("%s · %s (%s)", day.Label,
		util.FormatCount(len(day.Records), "entry", "entries"),
		util.FormatCount(snapshots, "snapshot", "snapshots"))
}
