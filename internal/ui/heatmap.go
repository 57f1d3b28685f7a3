package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rnwolfe/habits/internal/calendar"
)

// Heatmap glyphs. They carry the meaning on their own when color is off.
const (
	GlyphDone    = "●"
	GlyphSkipped = "○"
	GlyphMissed  = "·"
)

var weekdayHeader = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// Heatmap renders a Monday-first grid for the month containing month.
// Days in done are filled, days in skipped are hollow, other elapsed days are
// dots and days after today are blank.
func Heatmap(month calendar.Day, done, skipped calendar.Set, today calendar.Day) string {
	start := month.StartOfMonth()
	end := month.EndOfMonth()

	var b strings.Builder
	b.WriteString(Title.Render(start.Format("January 2006")) + "\n")
	b.WriteString(Muted.Render(strings.Join(weekdayHeader, " ")) + "\n")

	todayStyle := lipgloss.NewStyle().Underline(true)
	lead := start.Sub(start.StartOfWeek())
	b.WriteString(strings.Repeat("   ", lead))

	col := lead
	for d := start; !d.After(end); d = d.AddDays(1) {
		var cell string
		switch {
		case d.After(today):
			cell = " "
		case done.Has(d):
			cell = Success.Render(GlyphDone)
		case skipped.Has(d):
			cell = Warning.Render(GlyphSkipped)
		default:
			cell = Muted.Render(GlyphMissed)
		}
		if d.Equal(today) {
			cell = todayStyle.Render(cell)
		}
		b.WriteString(" " + cell + " ")

		col++
		if col == 7 && !d.Equal(end) {
			b.WriteString("\n")
			col = 0
		}
	}
	b.WriteString("\n")
	return b.String()
}
