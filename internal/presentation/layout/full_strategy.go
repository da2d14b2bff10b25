package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/presentation/formatter"
	"github.com/penwyp/go-run-history/internal/util"
)

// FullLayoutStrategy shows a header, the full history table and a footer.
type FullLayoutStrategy struct {
	BaseStrategy
}

func (s *FullLayoutStrategy) GetName() string {
	return "Full"
}

func (s *FullLayoutStrategy) Render(w io.Writer, days []history.DayBucket, param LayoutParam) error {
	sizer := param.sizer()
	width := sizer.GetMaxWidth()

	var b strings.Builder
	b.WriteString(util.FormatHeaderTitle(s.BoxHeader(sizer, "RUN HISTORY", width)))
	b.WriteString("\n\n")

	if len(days) == 0 {
		b.WriteString("No run history yet.\n")
	} else if err := formatter.NewTableFormatter().Format(&b, days); err != nil {
		return err
	}

	b.WriteString("\n" + util.FormatSectionSeparator(width) + "\n")
	if param.Status != "" {
		b.WriteString(util.FormatErrorText(param.Status) + "\n")
	}
	b.WriteString(s.FooterLine(param) + "\n")

	_, err := fmt.Fprint(w, b.String())
	return err
}
