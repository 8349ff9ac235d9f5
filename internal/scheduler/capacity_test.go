package scheduler

import (
	"math/rand"
	"testing"

	"github.com/njovanovic/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subs(minutes ...int) []domain.Subtopic {
	out := make([]domain.Subtopic, len(minutes))
	for i, m := range minutes {
		out[i] = domain.Subtopic{SubIdx: i, Minutes: m}
	}
	return out
}

// GreedyFill must stop at the first subtopic that would overflow, even when
// a later, smaller subtopic would still fit. Predictable order wins over
// packing density.
func TestGreedyFillStopsAtFirstOverflow(t *testing.T) {
	picked := GreedyFill(subs(30, 50, 10), 45)
	require.Len(t, picked, 1)
	assert.Equal(t, 0, picked[0].SubIdx)
}

func TestGreedyFillTakesAllWhenBudgetAllows(t *testing.T) {
	picked := GreedyFill(subs(10, 10, 10), 30)
	assert.Len(t, picked, 3)
	assert.Equal(t, 30, Minutes(picked))
}

func TestGreedyFillEmptyBudget(t *testing.T) {
	assert.Empty(t, GreedyFill(subs(10), 0))
	assert.Empty(t, GreedyFill(nil, 100))
}

func TestGreedyFillExactFit(t *testing.T) {
	picked := GreedyFill(subs(20, 25), 45)
	assert.Len(t, picked, 2)
}

func TestFits(t *testing.T) {
	assert.True(t, Fits(domain.Subtopic{Minutes: 10}, 10))
	assert.False(t, Fits(domain.Subtopic{Minutes: 11}, 10))
}

// For any subtopic list and budget, the picked set is a prefix of the input,
// its total never exceeds the budget, and the first unpicked subtopic (if any)
// would not have fit in the remaining budget.
func TestGreedyFillProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		n := rng.Intn(8)
		minutes := make([]int, n)
		for j := range minutes {
			minutes[j] = 5 + rng.Intn(56)
		}
		budget := rng.Intn(121)

		picked := GreedyFill(subs(minutes...), budget)

		require.LessOrEqual(t, Minutes(picked), budget)
		for j, s := range picked {
			require.Equal(t, j, s.SubIdx, "picked set must be a prefix")
		}
		if len(picked) < n {
			next := minutes[len(picked)]
			require.Greater(t, Minutes(picked)+next, budget)
		}
	}
}
