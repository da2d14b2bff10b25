package browse

import (
	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/data/watcher"
	"github.com/penwyp/go-run-history/internal/presentation/interaction"
)

// Renderer shows the result of each history fetch.
type Renderer interface {
	// RenderHistory shows day buckets in display order
	RenderHistory(days []history.DayBucket)
	// RenderError reports a failed fetch; the previous history stays shown
	RenderError(err error)
}

// InputHandler processes keyboard and other input events
type InputHandler interface {
	// Events returns a channel of keyboard events
	Events() <-chan interaction.KeyEvent
	// Close cleans up input handler resources
	Close() error
}

// FileMonitor watches for file changes
type FileMonitor interface {
	// Events returns a channel of file change events
	Events() <-chan watcher.FileEvent
	// Close stops monitoring and cleans up resources
	Close() error
}

// DaySortStrategy orders day buckets for display
type DaySortStrategy interface {
	Sort(days *history.DayBuckets) []history.DayBucket
	Toggle()
}
