package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/router"
	"github.com/sabta/casedrill/internal/screen"
	"github.com/sabta/casedrill/internal/stats"
	"github.com/sabta/casedrill/internal/ui/layout"
)

type stubScreen struct {
	escs   int
	handle bool
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		s.escs++
	}
	return s, nil
}
func (s *stubScreen) View(int, int) string { return "stub" }
func (s *stubScreen) Title() string        { return "Stub" }
func (s *stubScreen) HandlesEsc() bool     { return s.handle }
func (s *stubScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "X", Description: "Stub action"}}
}

func newModel() AppModel {
	return newAppModel(Options{Source: drillgen.NewSeeded(1)})
}

func esc() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEscape} }

func TestEscPopsScreensWithoutHandler(t *testing.T) {
	m := newModel()
	m.router.Push(&stubScreen{})

	_, cmd := m.Update(esc())
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestEscForwardedToHandler(t *testing.T) {
	m := newModel()
	s := &stubScreen{handle: true}
	m.router.Push(s)

	m.Update(esc())
	if s.escs != 1 {
		t.Errorf("screen saw %d escs, want 1", s.escs)
	}
	if m.router.Depth() != 2 {
		t.Error("app should not pop a screen that handles esc")
	}
}

func TestEscAtRootIsIgnored(t *testing.T) {
	m := newModel()
	if _, cmd := m.Update(esc()); cmd != nil {
		t.Error("esc at the root should do nothing")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newModel()
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestStatusReflectsStats(t *testing.T) {
	agg := stats.NewAggregator()
	m := newAppModel(Options{Source: drillgen.NewSeeded(1), Stats: agg})
	if m.status() != "" {
		t.Errorf("status = %q, want empty", m.status())
	}
	if err := agg.Merge(drillgen.CategoryBasicMath, 4, 3); err != nil {
		t.Fatal(err)
	}
	if got := m.status(); got != "3/4 · 75%" {
		t.Errorf("status = %q", got)
	}
}

func TestHintsFromActiveScreen(t *testing.T) {
	m := newModel()
	m.router.Push(&stubScreen{})

	hints := m.hints()
	if len(hints) != 2 || hints[0].Description != "Stub action" || hints[1].Key != "Ctrl+C" {
		t.Errorf("hints = %+v", hints)
	}
}
