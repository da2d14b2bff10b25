// Package layout arranges the history screen of the watch command.
package layout

import (
	"io"
	"time"

	"github.com/penwyp/go-run-history/internal/core/history"
)

// Layout styles
const (
	StyleFull    = "full"
	StyleMinimal = "minimal"
)

// LayoutParam carries screen details that are not part of the history.
type LayoutParam struct {
	Source    string
	UpdatedAt time.Time
	Status    string // last error or hint line, may be empty
	Sizer     *Sizer
}

func (p LayoutParam) sizer() *Sizer {
	if p.Sizer != nil {
		return p.Sizer
	}
	return sharedSizer
}

// LayoutStrategy renders the history screen.
type LayoutStrategy interface {
	Render(w io.Writer, days []history.DayBucket, param LayoutParam) error
	GetName() string
}

// GetLayoutStrategy returns the strategy for a style name, defaulting to
// the full layout.
func GetLayoutStrategy(style string) LayoutStrategy {
	strategies := map[string]LayoutStrategy{
		StyleFull:    &FullLayoutStrategy{},
		StyleMinimal: &MinimalLayoutStrategy{},
	}

	if strategy, exists := strategies[style]; exists {
		return strategy
	}
	return &FullLayoutStrategy{}
}
