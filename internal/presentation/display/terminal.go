// Package display implements the renderers of the history screen.
package display

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/presentation/layout"
	"github.com/penwyp/go-run-history/internal/util"
)

// DisplayConfig configures the terminal display
type DisplayConfig struct {
	Source string
	Layout string // full, minimal
	Out    io.Writer
	Sizer  *layout.Sizer
}

// TerminalDisplay redraws the whole history screen on every render.
type TerminalDisplay struct {
	mu                sync.Mutex
	config            *DisplayConfig
	out               io.Writer
	layoutStyle       string
	inAlternateScreen bool

	lastDays   []history.DayBucket
	lastError  error
	lastUpdate time.Time
}

func NewTerminalDisplay(config *DisplayConfig) *TerminalDisplay {
	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	style := config.Layout
	if style == "" {
		style = layout.StyleFull
	}
	return &TerminalDisplay{
		config:      config,
		out:         out,
		layoutStyle: style,
	}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()
	if !td.inAlternateScreen {
		fmt.Fprint(td.out, "\033[?1049h")
		fmt.Fprint(td.out, util.HideCursor)
		fmt.Fprint(td.out, util.ClearScreen+util.MoveCursorHome)
		td.inAlternateScreen = true
	}
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()
	if td.inAlternateScreen {
		fmt.Fprint(td.out, util.ClearScreen+util.MoveCursorHome)
		fmt.Fprint(td.out, util.ShowCursor)
		fmt.Fprint(td.out, "\033[?1049l")
		td.inAlternateScreen = false
	}
}

// LayoutStyle returns the current layout style
func (td *TerminalDisplay) LayoutStyle() string {
	td.mu.Lock()
	defer td.mu.Unlock()
	return td.layoutStyle
}

// ToggleLayout switches between the full and minimal layouts.
func (td *TerminalDisplay) ToggleLayout() {
	td.mu.Lock()
	defer td.mu.Unlock()
	if td.layoutStyle == layout.StyleFull {
		td.layoutStyle = layout.StyleMinimal
	} else {
		td.layoutStyle = layout.StyleFull
	}
}

func (td *TerminalDisplay) RenderHistory(days []history.DayBucket) {
	td.mu.Lock()
	defer td.mu.Unlock()
	td.lastDays = days
	td.lastError = nil
	td.lastUpdate = time.Now()
	td.draw()
}

// RenderError keeps the last history on screen and adds the error line.
func (td *TerminalDisplay) RenderError(err error) {
	td.mu.Lock()
	defer td.mu.Unlock()
	td.lastError = err
	td.draw()
}

func (td *TerminalDisplay) draw() {
	param := layout.LayoutParam{
		Source:    td.config.Source,
		UpdatedAt: td.lastUpdate,
		Sizer:     td.config.Sizer,
	}
	if td.lastError != nil {
		param.Status = "Error: " + td.lastError.Error()
	}

	// Build the frame first so the screen is cleared only once it is ready.
	var frame bytes.Buffer
	if td.inAlternateScreen {
		frame.WriteString(util.ClearScreen + util.MoveCursorHome)
	}
	strategy := layout.GetLayoutStrategy(td.layoutStyle)
	if err := strategy.Render(&frame, td.lastDays, param); err != nil {
		util.LogErrorf("Failed to render %s layout: %v", strategy.GetName(), err)
		return
	}
	if _, err := td.out.Write(frame.Bytes()); err != nil {
		util.LogDebugf("Failed to write screen: %v", err)
	}
}
