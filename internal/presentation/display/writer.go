package display

import (
	"fmt"
	"io"

	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/presentation/formatter"
	"github.com/penwyp/go-run-history/internal/util"
)

// WriterRenderer prints each fetched history once with a formatter. It is
// the renderer of the one-shot list command.
type WriterRenderer struct {
	formatter formatter.Formatter
	summary   bool
	out       io.Writer
	errOut    io.Writer
	lastErr   error
}

// NewWriterRenderer writes history to out and errors to errOut. With
// summary set a run summary follows the history.
func NewWriterRenderer(f formatter.Formatter, summary bool, out, errOut io.Writer) *WriterRenderer {
	return &WriterRenderer{formatter: f, summary: summary, out: out, errOut: errOut}
}

func (r *WriterRenderer) RenderHistory(days []history.DayBucket) {
	if err := r.formatter.Format(r.out, days); err != nil {
		r.lastErr = fmt.Errorf("write history: %w", err)
		return
	}
	if r.summary {
		fmt.Fprintln(r.out)
		if err := formatter.NewSummaryFormatter().Format(r.out, days); err != nil {
			r.lastErr = fmt.Errorf("write summary: %w", err)
		}
	}
}

func (r *WriterRenderer) RenderError(err error) {
	fmt.Fprintln(r.errOut, util.FormatErrorText("Error: "+err.Error()))
}

// Err returns the last output error.
func (r *WriterRenderer) Err() error {
	return r.lastErr
}
