package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/stopwatch"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rnwolfe/habits/internal/ui"
)

// TimerResult is returned when a timer session ends.
type TimerResult struct {
	Elapsed   time.Duration
	Completed bool // a pomodoro ran to zero
	Canceled  bool // the user ended the session
}

type timerKeyMap struct {
	Pause key.Binding
	Quit  key.Binding
}

func (k timerKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Pause, k.Quit} }

func (k timerKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func defaultTimerKeys() timerKeyMap {
	return timerKeyMap{
		Pause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "pause"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "end session"),
		),
	}
}

// TimerModel is a full-screen Bubbletea model for a timed habit session.
// A positive duration makes it a pomodoro countdown; zero makes it a stopwatch.
type TimerModel struct {
	duration time.Duration
	label    string

	countdown timer.Model
	watch     stopwatch.Model
	keys      timerKeyMap
	help      help.Model

	width     int
	height    int
	paused    bool
	quitting  bool
	completed bool
	canceled  bool
}

// NewTimerModel creates a TimerModel.
func NewTimerModel(duration time.Duration, label string) *TimerModel {
	if duration < 0 {
		duration = 0
	}
	return &TimerModel{
		duration:  duration,
		label:     label,
		countdown: timer.NewWithInterval(duration, time.Second),
		watch:     stopwatch.NewWithInterval(time.Second),
		keys:      defaultTimerKeys(),
		help:      help.New(),
		width:     80,
		height:    24,
	}
}

// RunTimer launches the full-screen timer.
func RunTimer(duration time.Duration, label string) (TimerResult, error) {
	m := NewTimerModel(duration, label)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	result, err := prog.Run()
	if err != nil {
		return TimerResult{}, fmt.Errorf("timer tui: %w", err)
	}
	return result.(*TimerModel).Result(), nil
}

// Stopwatch reports whether the model counts up.
func (m *TimerModel) Stopwatch() bool {
	return m.duration == 0
}

// Elapsed is the time spent in the session so far.
func (m *TimerModel) Elapsed() time.Duration {
	if m.Stopwatch() {
		return m.watch.Elapsed()
	}
	if m.completed {
		return m.duration
	}
	return max(0, m.duration-m.countdown.Timeout)
}

// Result summarizes the session.
func (m *TimerModel) Result() TimerResult {
	return TimerResult{
		Elapsed:   m.Elapsed().Round(time.Second),
		Completed: m.completed,
		Canceled:  m.canceled,
	}
}

func (m *TimerModel) Init() tea.Cmd {
	if m.Stopwatch() {
		return m.watch.Init()
	}
	return m.countdown.Init()
}

func (m *TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case timer.TimeoutMsg:
		if msg.ID != m.countdown.ID() || m.Stopwatch() {
			return m, nil
		}
		m.completed = true
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.canceled = true
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			if m.Stopwatch() {
				return m, m.watch.Toggle()
			}
			return m, m.countdown.Toggle()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.Stopwatch() {
		m.watch, cmd = m.watch.Update(msg)
	} else {
		m.countdown, cmd = m.countdown.Update(msg)
	}
	return m, cmd
}

func (m *TimerModel) View() string {
	var b strings.Builder
	center := lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center)

	contentLines := 10
	topPad := max(0, (m.height-contentLines)/2)
	b.WriteString(strings.Repeat("\n", topPad))

	mode := "Pomodoro"
	if m.Stopwatch() {
		mode = "Stopwatch"
	}
	b.WriteString(center.Bold(true).Foreground(ui.Gold).Render(fmt.Sprintf("%s %s", ui.IconTimer, mode)) + "\n\n")
	b.WriteString(center.Foreground(ui.Dim).Render("Habit: "+m.label) + "\n\n")

	elapsed := m.Elapsed()
	shown := elapsed
	timerStyle := center.Bold(true).Foreground(ui.Gold)
	if !m.Stopwatch() {
		remaining := max(0, m.duration-elapsed)
		shown = remaining
		if remaining <= 5*time.Minute && remaining > 0 {
			timerStyle = timerStyle.Foreground(ui.Amber)
		}
		if remaining <= time.Minute && remaining > 0 {
			timerStyle = timerStyle.Foreground(ui.Ruby)
		}
	}
	b.WriteString(timerStyle.Render(Clock(shown)) + "\n\n")

	if !m.Stopwatch() {
		barWidth := max(10, min(60, m.width-8))
		pct := int(float64(elapsed) / float64(m.duration) * 100)
		b.WriteString(center.Render(ui.ProgressBar(pct, barWidth)) + "\n\n")
	}

	status := fmt.Sprintf("%s elapsed", elapsed.Round(time.Second))
	if m.paused {
		status += " " + ui.IconDot + " paused"
	}
	b.WriteString(center.Foreground(ui.Dim).Render(status) + "\n\n")

	if m.completed {
		b.WriteString(center.Foreground(ui.Emerald).Render("Session complete!") + "\n")
	} else {
		b.WriteString(center.Render(m.help.View(m.keys)) + "\n")
	}
	return b.String()
}

// Clock formats d as MM:SS, or H:MM:SS past an hour.
func Clock(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, secs)
	}
	return fmt.Sprintf("%02d:%02d", mins, secs)
}
