// Package utils provides shared helpers for text, math, and logging.
package utils

import (
	"fmt"
	"unicode/utf8"
)

// Truncate returns s cut to maxLen runes with "..." appended when anything was cut.
// A maxLen of 0 or less returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}

// FormatBytes renders n in binary units (B, KiB, MiB, ...).
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
