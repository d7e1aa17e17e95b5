package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/sabta/casedrill/internal/ui/theme"
)

// buttonWidth is the fixed width of menu buttons.
const buttonWidth = 24

// ContentWidth returns the inner width shared by every boxed section so
// they line up. limit caps it on wide terminals.
func ContentWidth(frameWidth, limit int) int {
	// frame border (2) + inner padding (4)
	return min(max(20, frameWidth-6), limit)
}

// Frame wraps content in a double border and centers it in the given area.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded box at content width cw.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// StatusBox renders a one-line summary in a double border at width cw.
func StatusBox(text string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Frame).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

// Button renders a bordered menu button.
func Button(label string, selected, disabled bool) string {
	style := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	switch {
	case disabled:
		return style.Foreground(theme.TextDim).BorderForeground(theme.Border).Render(label)
	case selected:
		return style.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.Highlight).
			BorderForeground(theme.Highlight).
			Render("▸ " + label)
	default:
		return style.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
	}
}

// ButtonColumn stacks the menu as buttons, or as plain lines when compact
// so small terminals do not overflow.
func ButtonColumn(m Menu, cw int, compact bool) string {
	var rows []string
	for i, item := range m.Items {
		selected := i == m.Selected
		if !compact {
			rows = append(rows, Button(item.Label, selected, item.Disabled))
			continue
		}
		switch {
		case item.Disabled:
			rows = append(rows, lipgloss.NewStyle().Foreground(theme.TextDim).Render("   "+item.Label))
		case selected:
			rows = append(rows, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Highlight).
				Bold(true).
				Render(" ▸ "+item.Label+" "))
		default:
			rows = append(rows, theme.Unselected.Render("   "+item.Label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}
