package util

import (
	"fmt"
	"strings"
)

// FormatCount renders n with a singular or plural noun, e.g. "1 run", "3 runs".
func FormatCount(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// FormatNumber adds thousands separators: 1234567 -> "1,234,567".
func FormatNumber(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

// OneLine collapses whitespace so multi-line command lines fit one row.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ValueOr returns fallback when s is blank.
func ValueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
