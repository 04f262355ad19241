package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SplashModel is the TUI model for the startup splash screen
type SplashModel struct {
	width  int
	height int
	done   bool
}

type splashTimeoutMsg struct{}

func waitForTimeout() tea.Cmd {
	return tea.Tick(1500*time.Millisecond, func(t time.Time) tea.Msg {
		return splashTimeoutMsg{}
	})
}

func (m SplashModel) Init() tea.Cmd {
	return waitForTimeout()
}

func (m SplashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		m.done = true
		return m, tea.Quit
	case splashTimeoutMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SplashModel) View() string {
	if m.done {
		return ""
	}

	layout := NewLayout(m.width)

	title := AccentStyle.Render("nlbshelf")
	sub := RenderHint("NLB physical-copy availability checker")

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(centerLine(title, layout.InnerWidth, len("nlbshelf")))
	b.WriteString("\n")
	b.WriteString(centerLine(sub, layout.InnerWidth, len("NLB physical-copy availability checker")))
	b.WriteString("\n\n")

	return BorderStyle.Width(layout.InnerWidth).Render(b.String())
}

func centerLine(rendered string, width, plainLen int) string {
	padding := (width - plainLen) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat(" ", padding) + rendered
}

// ShowSplash displays the splash screen briefly on startup
func ShowSplash() {
	model := SplashModel{width: DefaultWidth, height: 30}

	p := tea.NewProgram(model, tea.WithAltScreen())
	p.Run()

	// Clear screen before continuing
	fmt.Print("\033[2J\033[H")
}
