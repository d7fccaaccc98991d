package transport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/matzehuels/potentials/pkg/errors"
)

func twoByTwoSolver(plan Plan) *Solver {
	s := NewSolver(Problem{
		Costs:  [][]int64{{1, 2}, {3, 1}},
		Supply: []int64{1, 1},
		Demand: []int64{1, 1},
	}, nil)
	s.plan = plan
	return s
}

func TestFindCycleCloses(t *testing.T) {
	s := twoByTwoSolver(Plan{
		{Allocated(1), Allocated(1)},
		{Empty, Allocated(1)},
	})

	cycle, err := s.findCycle(Cell{Row: 1, Col: 0})
	require.NoError(t, err)
	assert.Equal(t, []Cell{{1, 0}, {0, 0}, {0, 1}, {1, 1}}, cycle)
}

func TestFindCycleNoCycle(t *testing.T) {
	// The two basic cells share neither a row nor a column with each other,
	// so no path through (0,1) can return to it.
	s := twoByTwoSolver(Plan{
		{Allocated(1), Empty},
		{Empty, Allocated(1)},
	})

	cycle, err := s.findCycle(Cell{Row: 0, Col: 1})
	require.Error(t, err)
	assert.Nil(t, cycle)
	assert.True(t, errors.Is(err, ErrInternal))
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "no improvement cycle closes at (0,1)")
}

func TestRebuildEmptiesFirstZeroOnly(t *testing.T) {
	s := twoByTwoSolver(Plan{
		{Allocated(1), Allocated(1)},
		{Empty, Allocated(1)},
	})

	theta := s.rebuild([]Cell{{1, 0}, {0, 0}, {0, 1}, {1, 1}})
	assert.Equal(t, int64(1), theta)
	assert.Equal(t, Plan{
		{Empty, Allocated(2)},
		{Allocated(1), Allocated(0)},
	}, s.plan)
	assert.Equal(t, int64(2*2+3*1+1*0), s.totalCost)
}
