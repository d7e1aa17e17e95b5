package stats

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/router"
	"github.com/sabta/casedrill/internal/stats"
	"github.com/sabta/casedrill/internal/store"
)

// totalsRepo serves canned category totals.
type totalsRepo struct {
	store.EventRepo
	totals []store.CategoryTotal
	err    error
}

func (r *totalsRepo) CategoryTotals(context.Context) ([]store.CategoryTotal, error) {
	return r.totals, r.err
}

func TestStatsScreen_SessionRows(t *testing.T) {
	agg := stats.NewAggregator()
	if err := agg.Merge(drillgen.CategoryBasicMath, 4, 3); err != nil {
		t.Fatal(err)
	}

	s := New(agg, nil)
	if cmd := s.Init(); cmd != nil {
		t.Error("expected no load without a store")
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "75%") || !strings.Contains(view, "3/4") {
		t.Errorf("missing Basic Math row:\n%s", view)
	}
	if strings.Contains(view, "All time") {
		t.Error("all-time section shown without a store")
	}
}

func TestStatsScreen_AllTime(t *testing.T) {
	repo := &totalsRepo{totals: []store.CategoryTotal{
		{Category: "Chart Analysis", Drills: 2, Attempted: 20, Correct: 15},
	}}
	s := New(stats.NewAggregator(), repo)

	if !strings.Contains(s.View(100, 30), "Loading...") {
		t.Error("expected loading state")
	}
	s.Update(s.Init()())

	view := s.View(100, 30)
	if !strings.Contains(view, "2 drills") || !strings.Contains(view, "75%") {
		t.Errorf("missing all-time row:\n%s", view)
	}
}

func TestStatsScreen_LoadError(t *testing.T) {
	s := New(stats.NewAggregator(), &totalsRepo{err: errors.New("disk gone")})
	s.Update(s.Init()())
	if !strings.Contains(s.View(100, 30), "disk gone") {
		t.Error("expected error in view")
	}
}

func TestStatsScreen_EscPops(t *testing.T) {
	s := New(stats.NewAggregator(), nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
