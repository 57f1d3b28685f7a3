package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// IsStdoutTTY returns true when stdout is connected to a terminal.
func IsStdoutTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Notes renders a habit description. Markdown is styled with glamour when
// stdout is a color terminal; otherwise the text is returned trimmed.
func Notes(md string) string {
	md = strings.TrimSpace(md)
	if md == "" || !IsStdoutTTY() || !ColorEnabled() {
		return md
	}
	return renderMarkdown(md, 80)
}

func renderMarkdown(md string, wrap int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
