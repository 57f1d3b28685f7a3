package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rnwolfe/habits/internal/ui"
)

// Choice is one selectable row in a Picker.
type Choice struct {
	ID     string
	Label  string // matched against the query
	Detail string // optional secondary text
}

type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
	Delete key.Binding
}

func defaultPickerKeys() pickerKeyMap {
	return pickerKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
		Delete: key.NewBinding(key.WithKeys("backspace")),
	}
}

// Picker is a fuzzy-search list selector.
type Picker struct {
	title   string
	choices []Choice
	keys    pickerKeyMap

	filtered []scored
	query    string
	cursor   int
	offset   int
	chosen   *Choice
	canceled bool

	maxRows    int
	termHeight int
}

type scored struct {
	choice Choice
	score  int
}

// NewPicker creates a Picker over choices.
func NewPicker(title string, choices []Choice) *Picker {
	p := &Picker{
		title:      title,
		choices:    choices,
		keys:       defaultPickerKeys(),
		maxRows:    10,
		termHeight: 24,
	}
	p.applyFilter()
	return p
}

// Pick shows a picker and returns the chosen entry, or nil if the user canceled.
func Pick(title string, choices []Choice) (*Choice, error) {
	prog := tea.NewProgram(NewPicker(title, choices), tea.WithAltScreen())
	m, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	p := m.(*Picker)
	if p.canceled {
		return nil, nil
	}
	return p.chosen, nil
}

func (p *Picker) Init() tea.Cmd {
	return nil
}

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.termHeight = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Cancel):
			p.canceled = true
			return p, tea.Quit
		case key.Matches(msg, p.keys.Select):
			if len(p.filtered) > 0 {
				c := p.filtered[p.cursor].choice
				p.chosen = &c
			}
			return p, tea.Quit
		case key.Matches(msg, p.keys.Up):
			if p.cursor > 0 {
				p.cursor--
				p.offset = min(p.offset, p.cursor)
			}
		case key.Matches(msg, p.keys.Down):
			if p.cursor < len(p.filtered)-1 {
				p.cursor++
				if rows := p.rows(); p.cursor >= p.offset+rows {
					p.offset = p.cursor - rows + 1
				}
			}
		case key.Matches(msg, p.keys.Delete):
			if r := []rune(p.query); len(r) > 0 {
				p.query = string(r[:len(r)-1])
				p.applyFilter()
			}
		case msg.Type == tea.KeySpace:
			p.query += " "
			p.applyFilter()
		case msg.Type == tea.KeyRunes:
			p.query += string(msg.Runes)
			p.applyFilter()
		}
	}
	return p, nil
}

func (p *Picker) View() string {
	var b strings.Builder
	if p.title != "" {
		b.WriteString("  " + ui.Title.Render(p.title) + "\n\n")
	}
	prompt := lipgloss.NewStyle().Foreground(ui.Gold).Bold(true).Render("> ")
	b.WriteString("  " + prompt + p.query + "\n\n")

	if len(p.filtered) == 0 {
		b.WriteString("  " + ui.Muted.Render("No matches") + "\n")
	}
	end := min(len(p.filtered), p.offset+p.rows())
	for i := p.offset; i < end; i++ {
		b.WriteString(p.renderChoice(p.filtered[i].choice, i == p.cursor) + "\n")
	}

	b.WriteString("\n" + ui.Muted.Render(fmt.Sprintf("  %d/%d %s enter select %s esc cancel",
		len(p.filtered), len(p.choices), ui.IconDot, ui.IconDot)) + "\n")
	return b.String()
}

func (p *Picker) rows() int {
	return max(3, min(p.maxRows, p.termHeight-6))
}

func (p *Picker) applyFilter() {
	p.filtered = p.filtered[:0]
	for _, c := range p.choices {
		if ok, sc := FuzzyMatch(p.query, c.Label); ok {
			p.filtered = append(p.filtered, scored{choice: c, score: sc})
		}
	}
	sort.SliceStable(p.filtered, func(i, j int) bool {
		return p.filtered[i].score > p.filtered[j].score
	})
	p.cursor = 0
	p.offset = 0
}

func (p *Picker) renderChoice(c Choice, selected bool) string {
	pointer := "  "
	label := c.Label
	if selected {
		pointer = ui.Accent.Render(ui.IconArrow + " ")
		label = lipgloss.NewStyle().Foreground(ui.Gold).Bold(true).Render(label)
	}
	if c.Detail != "" {
		label += "  " + ui.Muted.Render(c.Detail)
	}
	return "  " + pointer + label
}
