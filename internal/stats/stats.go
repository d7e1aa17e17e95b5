// Package stats accumulates lifetime drill counts per category.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/sabta/casedrill/internal/drillgen"
)

// ErrInvalidCounts is returned when a merge would break attempted >= correct >= 0.
var ErrInvalidCounts = errors.New("invalid counts")

// Row is one category line of a snapshot.
type Row struct {
	Category  drillgen.Category `json:"category"`
	Attempted int               `json:"attempted"`
	Correct   int               `json:"correct"`
	Accuracy  int               `json:"accuracy"`
}

type counts struct {
	attempted int
	correct   int
}

// Aggregator holds per-category totals for the life of the process. It is
// safe for concurrent use.
type Aggregator struct {
	mu     sync.Mutex
	order  []drillgen.Category
	totals map[drillgen.Category]*counts
}

// NewAggregator creates an Aggregator seeded with every known category so
// snapshots list them even before the first drill.
func NewAggregator() *Aggregator {
	a := &Aggregator{totals: make(map[drillgen.Category]*counts)}
	for _, c := range drillgen.Categories() {
		a.order = append(a.order, c)
		a.totals[c] = &counts{}
	}
	return a
}

// Merge adds a finished drill's counts to c.
func (a *Aggregator) Merge(c drillgen.Category, attempted, correct int) error {
	if attempted < 0 || correct < 0 || correct > attempted {
		return fmt.Errorf("merge %s %d/%d: %w", c, correct, attempted, ErrInvalidCounts)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	t, ok := a.totals[c]
	if !ok {
		t = &counts{}
		a.totals[c] = t
		a.order = append(a.order, c)
	}
	t.attempted += attempted
	t.correct += correct
	return nil
}

// Snapshot returns one row per category in display order.
func (a *Aggregator) Snapshot() []Row {
	a.mu.Lock()
	defer a.mu.Unlock()

	rows := make([]Row, 0, len(a.order))
	for _, c := range a.order {
		t := a.totals[c]
		rows = append(rows, Row{
			Category:  c,
			Attempted: t.attempted,
			Correct:   t.correct,
			Accuracy:  Accuracy(t.correct, t.attempted),
		})
	}
	return rows
}

// Get returns the row for a single category.
func (a *Aggregator) Get(c drillgen.Category) Row {
	a.mu.Lock()
	defer a.mu.Unlock()

	row := Row{Category: c}
	if t, ok := a.totals[c]; ok {
		row.Attempted, row.Correct = t.attempted, t.correct
		row.Accuracy = Accuracy(t.correct, t.attempted)
	}
	return row
}

// Accuracy returns correct/attempted as a whole percentage, rounding half
// to even. Zero attempts give 0.
func Accuracy(correct, attempted int) int {
	if attempted <= 0 {
		return 0
	}
	return int(math.RoundToEven(float64(correct) / float64(attempted) * 100))
}
