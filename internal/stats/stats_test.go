package stats

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabta/casedrill/internal/drillgen"
)

func TestSnapshot_ListsEveryCategory(t *testing.T) {
	a := NewAggregator()
	rows := a.Snapshot()
	require.Len(t, rows, len(drillgen.Categories()))
	for i, c := range drillgen.Categories() {
		assert.Equal(t, c, rows[i].Category)
		assert.Zero(t, rows[i].Attempted)
		assert.Zero(t, rows[i].Accuracy)
	}
}

func TestMerge_Accumulates(t *testing.T) {
	a := NewAggregator()
	require.NoError(t, a.Merge(drillgen.CategoryBasicMath, 4, 3))
	require.NoError(t, a.Merge(drillgen.CategoryBasicMath, 6, 3))

	row := a.Get(drillgen.CategoryBasicMath)
	assert.Equal(t, 10, row.Attempted)
	assert.Equal(t, 6, row.Correct)
	assert.Equal(t, 60, row.Accuracy)

	assert.Zero(t, a.Get(drillgen.CategoryVerbal).Attempted)
}

func TestMerge_RejectsInvalidCounts(t *testing.T) {
	a := NewAggregator()
	for _, tc := range [][2]int{{-1, 0}, {1, 2}, {3, -1}} {
		err := a.Merge(drillgen.CategoryLogical, tc[0], tc[1])
		assert.True(t, errors.Is(err, ErrInvalidCounts), "merge %v", tc)
	}
	assert.Zero(t, a.Get(drillgen.CategoryLogical).Attempted)
}

func TestMerge_Concurrent(t *testing.T) {
	a := NewAggregator()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = a.Merge(drillgen.CategoryChart, 2, 1)
		}()
	}
	wg.Wait()

	row := a.Get(drillgen.CategoryChart)
	assert.Equal(t, 100, row.Attempted)
	assert.Equal(t, 50, row.Correct)
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		correct, attempted, want int
	}{
		{0, 0, 0},
		{3, 4, 75},
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 12}, // 12.5 rounds to even
		{3, 8, 38}, // 37.5 rounds to even
		{5, 5, 100},
	}
	for _, tc := range tests {
		if got := Accuracy(tc.correct, tc.attempted); got != tc.want {
			t.Errorf("Accuracy(%d, %d) = %d, want %d", tc.correct, tc.attempted, got, tc.want)
		}
	}
}
