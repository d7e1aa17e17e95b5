package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/router"
	"github.com/sabta/casedrill/internal/screen"
	"github.com/sabta/casedrill/internal/screens/drillsetup"
	"github.com/sabta/casedrill/internal/screens/history"
	"github.com/sabta/casedrill/internal/screens/sparring"
	statsscreen "github.com/sabta/casedrill/internal/screens/stats"
	sparr "github.com/sabta/casedrill/internal/sparring"
	"github.com/sabta/casedrill/internal/stats"
	"github.com/sabta/casedrill/internal/store"
	"github.com/sabta/casedrill/internal/ui/components"
	"github.com/sabta/casedrill/internal/ui/layout"
	"github.com/sabta/casedrill/internal/ui/theme"
)

const titleArt = `  ___   _   ___ ___ ___  ___ ___ _    _
 / __| /_\ / __| __|   \| _ \_ _| |  | |
| (__ / _ \\__ \ _|| |) |   /| || |__| |__
 \___/_/ \_\___/___|___/|_|_\___|____|____|`

const titleCompact = "C A S E D R I L L"

// Options are the services reachable from the home menu. Repo and Coach
// may be nil.
type Options struct {
	Source drillgen.Source
	Stats  *stats.Aggregator
	Repo   store.EventRepo
	Coach  *sparr.Coach
}

// HomeScreen is the main menu.
type HomeScreen struct {
	opts Options
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}

	items := []components.MenuItem{
		{Label: "START DRILL", Action: push(func() screen.Screen {
			return drillsetup.New(opts.Source, opts.Stats, opts.Repo)
		})},
		{Label: "SPARRING", Action: push(func() screen.Screen {
			return sparring.New(opts.Coach, opts.Repo)
		})},
		{Label: "STATS", Action: push(func() screen.Screen {
			return statsscreen.New(opts.Stats, opts.Repo)
		})},
		{Label: "HISTORY", Disabled: opts.Repo == nil, Action: push(func() screen.Screen {
			return history.New(opts.Repo)
		})},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{opts: opts, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and gaps
	compact := layout.IsCompactHeight(height+8) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width, 60)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	sections = append(sections, components.StatusBox(h.statusLine(compact), cw))
	if h.opts.Coach == nil {
		sections = append(sections, theme.Centered(lipgloss.NewStyle().Foreground(theme.Accent), cw,
			"AI feedback is off: set an API key (see casedrill --help)"))
	}
	sections = append(sections, components.ButtonColumn(h.menu, cw, compact))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// statusLine summarizes this process's drills.
func (h *HomeScreen) statusLine(compact bool) string {
	var attempted, correct, categories int
	for _, row := range h.opts.Stats.Snapshot() {
		attempted += row.Attempted
		correct += row.Correct
		if row.Attempted > 0 {
			categories++
		}
	}
	accuracy := stats.Accuracy(correct, attempted)

	answered := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	acc := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	if compact {
		return fmt.Sprintf("%s %s", answered.Render(fmt.Sprintf("%d answered", attempted)),
			acc.Render(fmt.Sprintf("%d%%", accuracy)))
	}
	return fmt.Sprintf("%s  %s  %s",
		answered.Render(fmt.Sprintf("%d ANSWERED", attempted)),
		acc.Render(fmt.Sprintf("%d%% ACCURACY", accuracy)),
		dim.Render(fmt.Sprintf("%d CATEGORIES", categories)),
	)
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	if compact {
		return theme.Centered(lipgloss.NewStyle(), cw, style.Render(titleCompact))
	}
	return theme.Centered(lipgloss.NewStyle(), cw, style.Render(titleArt))
}
