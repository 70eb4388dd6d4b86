package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncate shortens s to maxWidth display cells, ending in an ellipsis when
// anything was cut. Uses go-runewidth to handle wide characters correctly.
func truncate(s string, maxWidth int) string {
	const suffix = "…"
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth-suffixWidth, "") + suffix
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// percent formats a [0,1] score as a whole percentage, right-aligned to
// four cells.
func percent(v float64) string {
	return runewidth.FillLeft(fmt.Sprintf("%d%%", int(math.Round(100*v))), 4)
}
