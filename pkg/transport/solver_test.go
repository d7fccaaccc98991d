package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/matzehuels/potentials/pkg/errors"
)

// recorder keeps every callback for inspection.
type recorder struct {
	kinds     []string
	snapshots []Snapshot

	balancedColumn bool
	prevSupply     int64
	prevDemand     int64

	potentials [][2][]int64
	reduced    []Matrix
	sums       []Matrix
	cycles     [][]Cell
	previous   []Plan
	rebuilt    []Snapshot
	final      *Snapshot
}

func (r *recorder) add(kind string, s Snapshot) {
	r.kinds = append(r.kinds, kind)
	r.snapshots = append(r.snapshots, s)
}

func (r *recorder) OnStart(p Problem) {
	r.kinds = append(r.kinds, "start")
}

func (r *recorder) OnBalanced(s Snapshot, addedColumn bool, supply, demand int64) {
	r.add("balanced", s)
	r.balancedColumn, r.prevSupply, r.prevDemand = addedColumn, supply, demand
}

func (r *recorder) OnInitialPlanBuilt(s Snapshot) { r.add("initial", s) }
func (r *recorder) OnDegenerateFix(s Snapshot)    { r.add("fix", s) }

func (r *recorder) OnPotentialsComputed(s Snapshot, u, v []int64) {
	r.add("potentials", s)
	r.potentials = append(r.potentials, [2][]int64{u, v})
}

func (r *recorder) OnReducedCosts(s Snapshot, sums, reduced Matrix) {
	r.add("reduced", s)
	r.sums = append(r.sums, sums)
	r.reduced = append(r.reduced, reduced)
}

func (r *recorder) OnPlanRebuilt(s Snapshot, cycle []Cell, previous Plan, u, v []int64) {
	r.add("rebuilt", s)
	r.cycles = append(r.cycles, cycle)
	r.previous = append(r.previous, previous)
	r.rebuilt = append(r.rebuilt, s)
}

func (r *recorder) OnOptimalSolutionFound(s Snapshot) {
	r.add("optimal", s)
	r.final = &s
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, k := range r.kinds {
		if k == kind {
			n++
		}
	}
	return n
}

func classicProblem() Problem {
	return Problem{
		Costs:  [][]int64{{3, 3, 1}, {9, 2, 2}, {5, 7, 6}},
		Supply: []int64{40, 60, 50},
		Demand: []int64{30, 30, 40},
	}
}

func solveRecorded(t *testing.T, p Problem, opts ...Option) *recorder {
	t.Helper()
	rec := &recorder{}
	require.NoError(t, NewSolver(p, rec, opts...).Solve())
	return rec
}

func TestSolveClassicScenario(t *testing.T) {
	rec := solveRecorded(t, classicProblem())

	assert.Equal(t, []string{
		"start", "balanced", "initial",
		"potentials", "reduced", "rebuilt",
		"potentials", "reduced", "rebuilt",
		"potentials", "reduced", "rebuilt",
		"potentials", "reduced", "rebuilt",
		"potentials", "reduced", "optimal",
	}, rec.kinds)

	// Supply 150 exceeds demand 100, so a slack column absorbs 50.
	assert.True(t, rec.balancedColumn)
	assert.Equal(t, int64(150), rec.prevSupply)
	assert.Equal(t, int64(100), rec.prevDemand)

	initial := rec.snapshots[1]
	assert.Equal(t, int64(370), initial.TotalCost)
	assert.Equal(t, Plan{
		{Empty, Empty, Empty, Allocated(40)},
		{Empty, Allocated(30), Allocated(20), Allocated(10)},
		{Allocated(30), Empty, Allocated(20), Empty},
	}, initial.Plan)

	require.NotNil(t, rec.final)
	assert.Equal(t, int64(220), rec.final.TotalCost)
	assert.Equal(t, 1, rec.count("optimal"))

	var costs []int64
	for _, s := range rec.rebuilt {
		costs = append(costs, s.TotalCost)
	}
	assert.Equal(t, []int64{350, 250, 250, 220}, costs)

	assert.Equal(t, []Cell{{0, 2}, {1, 2}, {1, 3}, {0, 3}}, rec.cycles[0])
	assert.Equal(t, []int64{1, 1, 5}, rec.potentials[0][0])
	assert.Equal(t, []int64{0, 1, 1, -1}, rec.potentials[0][1])
}

func TestSolveTwoZerosTieBreak(t *testing.T) {
	rec := solveRecorded(t, classicProblem())
	require.GreaterOrEqual(t, len(rec.rebuilt), 2)

	// The second rebuild empties (0,3) and (2,2) at once: only the first
	// "-" position leaves the basis.
	assert.Equal(t, []Cell{{2, 3}, {0, 3}, {0, 2}, {2, 2}}, rec.cycles[1])
	plan := rec.rebuilt[1].Plan
	assert.Equal(t, Empty, plan[0][3])
	assert.Equal(t, Allocated(0), plan[2][2])
	assert.Len(t, plan.BasicCells(), 6)
}

func TestSolveDegenerate(t *testing.T) {
	p := Problem{
		Costs:  [][]int64{{1, 5}, {5, 1}},
		Supply: []int64{10, 20},
		Demand: []int64{10, 20},
	}
	rec := solveRecorded(t, p)

	assert.Equal(t, []string{"start", "initial", "fix", "potentials", "reduced", "optimal"}, rec.kinds)
	assert.Equal(t, 1, rec.count("fix"))

	fixed := rec.snapshots[1].Plan
	assert.Equal(t, Allocated(0), fixed[0][1])
	assert.Len(t, fixed.BasicCells(), 3)
	assert.Equal(t, int64(30), rec.snapshots[1].TotalCost)

	assert.Equal(t, []int64{1, -3}, rec.potentials[0][0])
	assert.Equal(t, []int64{0, 4}, rec.potentials[0][1])
	assert.Equal(t, Matrix{{0, 0}, {8, 0}}, rec.reduced[0])
	assert.Equal(t, int64(30), rec.final.TotalCost)
}

func TestSolveBalancedProblemIsNotExtended(t *testing.T) {
	p := Problem{
		Costs:  [][]int64{{4, 8, 8}, {16, 24, 16}, {8, 16, 24}},
		Supply: []int64{76, 82, 77},
		Demand: []int64{72, 102, 61},
	}
	rec := solveRecorded(t, p)

	assert.Zero(t, rec.count("balanced"))
	for _, s := range rec.snapshots {
		assert.Equal(t, Matrix(p.Costs), s.Costs)
	}
}

func TestSolveSlackRow(t *testing.T) {
	p := Problem{
		Costs:  [][]int64{{2, 4}, {3, 1}},
		Supply: []int64{10, 10},
		Demand: []int64{15, 15},
	}
	rec := solveRecorded(t, p)

	assert.False(t, rec.balancedColumn)
	balanced := rec.snapshots[0]
	assert.Equal(t, Matrix{{2, 4}, {3, 1}, {0, 0}}, balanced.Costs)
	assert.Equal(t, []int64{10, 10, 10}, balanced.Supply)
	assert.Nil(t, balanced.Plan)
}

// Properties that must hold at every reporting point for a set of problems.
func TestSolveInvariants(t *testing.T) {
	problems := map[string]Problem{
		"classic":    classicProblem(),
		"degenerate": {Costs: [][]int64{{1, 5}, {5, 1}}, Supply: []int64{10, 20}, Demand: []int64{10, 20}},
		"rectangular": {
			Costs:  [][]int64{{7, 8, 1, 2}, {4, 5, 9, 8}, {9, 2, 3, 6}},
			Supply: []int64{160, 370, 270},
			Demand: []int64{120, 50, 190, 110},
		},
		"textbook": {
			Costs:  [][]int64{{2, 3, 11, 7}, {1, 0, 6, 1}, {5, 8, 15, 9}},
			Supply: []int64{6, 1, 10},
			Demand: []int64{7, 5, 3, 2},
		},
		"excess demand": {
			Costs:  [][]int64{{5, 3, 6}, {4, 2, 7}},
			Supply: []int64{30, 40},
			Demand: []int64{20, 35, 45},
		},
		"single cell": {Costs: [][]int64{{9}}, Supply: []int64{5}, Demand: []int64{5}},
	}

	for name, p := range problems {
		t.Run(name, func(t *testing.T) {
			rec := solveRecorded(t, p)

			for i, s := range rec.snapshots {
				if s.Plan == nil {
					continue
				}
				assert.Equal(t, s.Supply, s.Plan.RowSums(), "row sums at event %d (%s)", i, rec.kinds[i+1])
				assert.Equal(t, s.Demand, s.Plan.ColSums(), "column sums at event %d (%s)", i, rec.kinds[i+1])
				assert.Equal(t, s.Plan.Cost(s.Costs), s.TotalCost, "cost at event %d (%s)", i, rec.kinds[i+1])
			}

			for k, s := range rec.rebuilt {
				before := rec.previous[k].Cost(s.Costs)
				assert.LessOrEqual(t, s.TotalCost, before, "rebuild %d increased cost", k)
			}

			require.NotNil(t, rec.final)
			last := rec.reduced[len(rec.reduced)-1]
			for _, row := range last {
				for _, r := range row {
					assert.GreaterOrEqual(t, r, int64(0))
				}
			}
			assert.Equal(t, "optimal", rec.kinds[len(rec.kinds)-1])
		})
	}
}

func TestSolveFirstPass(t *testing.T) {
	rec := solveRecorded(t, classicProblem())

	seenRebuild := false
	for i, kind := range rec.kinds[1:] {
		s := rec.snapshots[i]
		if !seenRebuild {
			assert.True(t, s.FirstPass, "event %s", kind)
		} else {
			assert.False(t, s.FirstPass, "event %s", kind)
		}
		if kind == "rebuilt" {
			seenRebuild = true
		}
	}
}

func TestSolveInvalidProblem(t *testing.T) {
	tests := []struct {
		name string
		p    Problem
	}{
		{"empty", Problem{}},
		{"empty row", Problem{Costs: [][]int64{{}}, Supply: []int64{1}, Demand: nil}},
		{"ragged", Problem{Costs: [][]int64{{1, 2}, {3}}, Supply: []int64{1, 1}, Demand: []int64{1, 1}}},
		{"supply length", Problem{Costs: [][]int64{{1, 2}}, Supply: []int64{1, 1}, Demand: []int64{1, 1}}},
		{"demand length", Problem{Costs: [][]int64{{1, 2}}, Supply: []int64{2}, Demand: []int64{2}}},
		{"negative cost", Problem{Costs: [][]int64{{-1}}, Supply: []int64{1}, Demand: []int64{1}}},
		{"negative supply", Problem{Costs: [][]int64{{1}}, Supply: []int64{-1}, Demand: []int64{1}}},
		{"negative demand", Problem{Costs: [][]int64{{1}}, Supply: []int64{1}, Demand: []int64{-1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			err := NewSolver(tt.p, rec).Solve()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidProblem)
			assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidProblem))
			assert.Empty(t, rec.kinds, "no callback before validation")
		})
	}
}

func TestSolveIterationLimit(t *testing.T) {
	rec := &recorder{}
	err := NewSolver(classicProblem(), rec, WithMaxIterations(2)).Solve()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIterationLimit)
	assert.Equal(t, apperrors.ErrCodeIterationLimit, apperrors.GetCode(err))
	assert.Equal(t, 2, rec.count("rebuilt"))
	assert.Zero(t, rec.count("optimal"))
}

func TestSnapshotIsolation(t *testing.T) {
	rec := solveRecorded(t, classicProblem())
	want := rec.snapshots[2].Clone()

	// Mutating one delivered snapshot must not leak into others.
	rec.snapshots[2].Plan[0][0] = Allocated(999)
	rec.snapshots[2].Costs[0][0] = 999
	rec.snapshots[2].Supply[0] = 999

	assert.Equal(t, Empty, rec.snapshots[3].Plan[0][0])
	assert.Equal(t, int64(3), rec.snapshots[3].Costs[0][0])
	assert.NotEqual(t, want.Plan, rec.snapshots[2].Plan)
	assert.Equal(t, Empty, want.Plan[0][0])
}

func TestSolverReusable(t *testing.T) {
	s := NewSolver(classicProblem(), nil)
	require.NoError(t, s.Solve())
	first := s.Iterations()
	require.NoError(t, s.Solve())
	assert.Equal(t, first, s.Iterations())
	assert.Equal(t, 4, first)
}

func TestSolveConvenience(t *testing.T) {
	rec := &recorder{}
	final, err := Solve(classicProblem(), rec)
	require.NoError(t, err)
	assert.Equal(t, int64(220), final.TotalCost)
	assert.Equal(t, rec.final.Plan, final.Plan)
}

func TestMultiObserverOrder(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	_, err := Solve(classicProblem(), MultiObserver{a, b})
	require.NoError(t, err)
	assert.Equal(t, a.kinds, b.kinds)

	a.final.Plan[0][0] = Allocated(1)
	assert.NotEqual(t, a.final.Plan, b.final.Plan)
}

func TestSolveSkipsNilObservers(t *testing.T) {
	rec := &recorder{}
	final, err := Solve(classicProblem(), nil, rec, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(220), final.TotalCost)
	assert.NotEmpty(t, rec.kinds)
}
