package e2e

import (
	"regexp"
	"strings"
)

var (
	ansiEscape  = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)
	clearScreen = "\x1b[2J"
)

// StripANSI removes all ANSI escape codes from a string
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// LastFrame returns the text drawn after the last screen clear, without
// escape codes. Output that never clears the screen is returned whole.
func LastFrame(output string) string {
	if i := strings.LastIndex(output, clearScreen); i >= 0 {
		output = output[i+len(clearScreen):]
	}
	return strings.ReplaceAll(StripANSI(output), "\r", "")
}

// FrameCount reports how many times the screen was cleared.
func FrameCount(output string) int {
	return strings.Count(output, clearScreen)
}
