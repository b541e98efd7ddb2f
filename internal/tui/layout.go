package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/mathdrill/internal/session"
)

// center pads text on both sides to width display cells. Wider text is
// returned unchanged.
func center(text string, width int) string {
	w := runewidth.StringWidth(text)
	if w >= width {
		return text
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-w-left)
}

// stepDots renders one marker per chain step, filled up to the shown step.
func stepDots(r session.StepReveal, shown bool) string {
	if r.Count <= 0 {
		return ""
	}
	marks := make([]string, r.Count)
	for i := range marks {
		if shown && i <= r.Index {
			marks[i] = "●"
		} else {
			marks[i] = "○"
		}
	}
	return strings.Join(marks, " ")
}
