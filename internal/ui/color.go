package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ConfigureColor drops all styling when noColor is set or NO_COLOR is present
// in the environment. Otherwise lipgloss keeps its detected profile.
func ConfigureColor(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// ColorEnabled reports whether styled output will carry color codes.
func ColorEnabled() bool {
	return lipgloss.ColorProfile() != termenv.Ascii
}
