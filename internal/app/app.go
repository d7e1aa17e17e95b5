// Package app hosts the root Bubble Tea model for `casedrill play`.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sabta/casedrill/internal/router"
	"github.com/sabta/casedrill/internal/screen"
	"github.com/sabta/casedrill/internal/screens/home"
	"github.com/sabta/casedrill/internal/stats"
	"github.com/sabta/casedrill/internal/ui/layout"
)

// Options configures the TUI. It is passed through to the home screen.
type Options = home.Options

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	stats  *stats.Aggregator
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	if opts.Stats == nil {
		opts.Stats = stats.NewAggregator()
	}
	return AppModel{
		router: router.New(home.New(opts)),
		stats:  opts.Stats,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.activeHandlesEsc() {
				if m.router.Depth() > 1 {
					return m, func() tea.Msg { return router.PopScreenMsg{} }
				}
				return m, nil
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) activeHandlesEsc() bool {
	h, ok := m.router.Active().(screen.EscHandler)
	return ok && h.HandlesEsc()
}

// status summarizes accuracy across every category drilled this run.
func (m AppModel) status() string {
	attempted, correct := 0, 0
	for _, row := range m.stats.Snapshot() {
		attempted += row.Attempted
		correct += row.Correct
	}
	if attempted == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d · %d%%", correct, attempted, stats.Accuracy(correct, attempted))
}

func (m AppModel) hints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)
	footer := layout.RenderFooter(m.hints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
