package ui

import "github.com/charmbracelet/lipgloss"

// Palette. Gold marks levels and headings, green marks done days, amber
// marks skips and warnings.
var (
	Gold     = lipgloss.Color("#FFD700")
	Amber    = lipgloss.Color("#FFBF00")
	Emerald  = lipgloss.Color("#50C878")
	Ruby     = lipgloss.Color("#E0115F")
	Sapphire = lipgloss.Color("#0F52BA")
	Dim      = lipgloss.Color("#666666")
	Bright   = lipgloss.Color("#FFFFFF")

	Title   = lipgloss.NewStyle().Bold(true).Foreground(Gold)
	Success = lipgloss.NewStyle().Foreground(Emerald)
	Error   = lipgloss.NewStyle().Foreground(Ruby)
	Warning = lipgloss.NewStyle().Foreground(Amber)
	// Info styles planned days and neutral notices.
	Info   = lipgloss.NewStyle().Foreground(Sapphire)
	Muted  = lipgloss.NewStyle().Foreground(Dim)
	Accent = lipgloss.NewStyle().Foreground(Gold).Bold(true)

	KeyStyle   = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	ValueStyle = lipgloss.NewStyle().Foreground(Bright)
)

const (
	IconHabit   = "🌱"
	IconDone    = "✅"
	IconSkip    = "⏭ "
	IconPlan    = "🗓 "
	IconStar    = "⭐"
	IconFire    = "🔥"
	IconTimer   = "⏱ "
	IconKey     = "🔑"
	IconArchive = "📦"
	IconWarn    = "⚠️ "
	IconError   = "✗ "
	IconOk      = "✓ "
	IconArrow   = "→"
	IconDot     = "·"
)
