package layout

import (
	"io"
	"strings"

	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/util"
)

// MinimalLayoutStrategy prints one line per day.
type MinimalLayoutStrategy struct {
	BaseStrategy
}

func (s *MinimalLayoutStrategy) GetName() string {
	return "Minimal"
}

func (s *MinimalLayoutStrategy) Render(w io.Writer, days []history.DayBucket, param LayoutParam) error {
	width := param.sizer().GetMaxWidth()

	var b strings.Builder
	for _, day := range days {
		b.WriteString(util.TruncateToWidth(s.DaySummary(day), width) + "\n")
	}
	if param.Status != "" {
		b.WriteString(util.FormatErrorText(param.Status) + "\n")
	}
	b.WriteString(util.TruncateToWidth(s.FooterLine(param), width) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}
