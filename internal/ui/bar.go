package ui

import (
	"fmt"
	"strings"
)

// ProgressBar renders pct (0-100) as a fixed-width bar followed by the percentage.
func ProgressBar(pct, width int) string {
	if width < 1 {
		width = 1
	}
	pct = max(0, min(100, pct))
	filled := pct * width / 100
	bar := Success.Render(strings.Repeat("█", filled)) +
		Muted.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3d%%", bar, pct)
}
