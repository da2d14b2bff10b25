package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/penwyp/go-run-history/internal/util"
	"golang.org/x/term"
)

// Terminal width bounds used when sizing the screen.
const (
	DefaultWidth = 80
	MinWidth     = 60
	MaxWidth     = 160
)

// Package-level singleton Sizer instance
var sharedSizer = &Sizer{}

// Sizer measures the terminal and strings in display cells.
type Sizer struct {
	// width overrides the terminal size when non-zero
	width int
}

// NewFixedSizer returns a sizer that always reports width.
func NewFixedSizer(width int) *Sizer {
	return &Sizer{width: width}
}

// DisplayWidth is the width of s in terminal cells.
func (s Sizer) DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads a string to a specific display width
func (s Sizer) PadString(text string, width int, leftAlign bool) string {
	actualWidth := s.DisplayWidth(text)
	if actualWidth >= width {
		return text
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return text + padding
	}
	return padding + text
}

// Center centers text within width display cells.
func (s Sizer) Center(text string, width int) string {
	padding := width - s.DisplayWidth(text)
	if padding <= 0 {
		return text
	}
	left := padding / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", padding-left)
}

// GetMaxWidth returns the usable screen width.
func (s Sizer) GetMaxWidth() int {
	if s.width > 0 {
		return clampWidth(s.width)
	}

	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		termWidth = DefaultWidth
	}

	maxWidth := clampWidth(termWidth)
	util.LogDebugf("GetMaxWidth %d", maxWidth)
	return maxWidth
}

func clampWidth(w int) int {
	switch {
	case w < MinWidth:
		return MinWidth
	case w > MaxWidth:
		return MaxWidth
	default:
		return w
	}
}
