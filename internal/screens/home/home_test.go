package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/router"
	"github.com/sabta/casedrill/internal/screens/drillsetup"
	"github.com/sabta/casedrill/internal/screens/sparring"
	"github.com/sabta/casedrill/internal/stats"
)

func newHome() *HomeScreen {
	return New(Options{Source: drillgen.NewSeeded(1), Stats: stats.NewAggregator()})
}

func press(h *HomeScreen, code rune) tea.Cmd {
	_, cmd := h.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func TestHome_StartDrillPushesSetup(t *testing.T) {
	h := newHome()
	cmd := press(h, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected push")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("got %T, want PushScreenMsg", cmd())
	}
	if _, ok := msg.Screen.(*drillsetup.SetupScreen); !ok {
		t.Errorf("pushed %T, want drill setup", msg.Screen)
	}
}

func TestHome_SparringPushesSparring(t *testing.T) {
	h := newHome()
	press(h, tea.KeyDown)
	cmd := press(h, tea.KeyEnter)
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := msg.Screen.(*sparring.SparringScreen); !ok {
		t.Errorf("pushed %T, want sparring", msg.Screen)
	}
}

func TestHome_HistoryDisabledWithoutStore(t *testing.T) {
	h := newHome()
	for range 3 {
		press(h, tea.KeyDown)
	}
	if got := h.menu.Items[h.menu.Selected].Label; got != "QUIT" {
		t.Errorf("selected %q, want QUIT (HISTORY skipped)", got)
	}
}

func TestHome_StatusLine(t *testing.T) {
	agg := stats.NewAggregator()
	if err := agg.Merge(drillgen.CategoryChart, 10, 7); err != nil {
		t.Fatal(err)
	}
	h := New(Options{Source: drillgen.NewSeeded(1), Stats: agg})
	line := h.statusLine(false)
	for _, want := range []string{"10 ANSWERED", "70% ACCURACY", "1 CATEGORIES"} {
		if !strings.Contains(line, want) {
			t.Errorf("status %q missing %q", line, want)
		}
	}
}

func TestHome_CoachBanner(t *testing.T) {
	if !strings.Contains(newHome().View(100, 40), "AI feedback is off") {
		t.Error("expected banner without a coach")
	}
}
