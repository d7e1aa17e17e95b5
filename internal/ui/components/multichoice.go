package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sabta/casedrill/internal/ui/theme"
)

// MultiChoice picks one of a few fixed answers, e.g. True / False /
// Cannot Say. Number keys choose directly.
type MultiChoice struct {
	Options  []string
	Selected int
	chosen   int
}

// NewMultiChoice creates a picker over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options, chosen: -1}
}

// Update handles navigation. Enter or a number key records a choice.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k", "left", "h":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j", "right", "l":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.chosen = m.Selected
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Options) {
			m.Selected = n - 1
			m.chosen = m.Selected
		}
	}
	return m, nil
}

// Chosen returns the picked option, if any.
func (m MultiChoice) Chosen() (string, bool) {
	if m.chosen < 0 {
		return "", false
	}
	return m.Options[m.chosen], true
}

// View renders the options on one line.
func (m MultiChoice) View() string {
	parts := make([]string, len(m.Options))
	for i, opt := range m.Options {
		label := fmt.Sprintf("%d) %s", i+1, opt)
		if i == m.Selected {
			parts[i] = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Highlight).
				Bold(true).
				Padding(0, 1).
				Render(label)
		} else {
			parts[i] = lipgloss.NewStyle().
				Foreground(theme.Text).
				Padding(0, 1).
				Render(label)
		}
	}
	return strings.Join(parts, "  ")
}
