package transport

// Snapshot is an immutable deep copy of the solver state taken at a
// reporting point. Later solver progress never changes a snapshot that has
// already been handed out.
type Snapshot struct {
	// Problem is the original, unbalanced input.
	Problem Problem `json:"problem"`

	// FirstPass is true until the first improvement iteration completes.
	// Sinks use it to print introductory text only once.
	FirstPass bool `json:"first_pass"`

	// Costs, Supply and Demand describe the closed problem the solver
	// actually works on (with the slack row or column, if any).
	Costs  Matrix  `json:"costs"`
	Supply []int64 `json:"supply"`
	Demand []int64 `json:"demand"`

	// Plan is nil until the initial plan has been built.
	Plan Plan `json:"plan,omitempty"`

	// TotalCost is the cost of Plan under Costs, or 0 without a plan.
	TotalCost int64 `json:"total_cost"`
}

// Observer receives the stages of a solve in order. Calls are made inline
// from [Solver.Solve]; the solver waits for each to return. All slices and
// matrices passed in are copies owned by the observer.
type Observer interface {
	// OnStart is called first with the original problem.
	OnStart(p Problem)

	// OnBalanced is called when total supply differs from total demand,
	// after a slack column (addedColumn) or row was appended.
	OnBalanced(s Snapshot, addedColumn bool, totalSupply, totalDemand int64)

	// OnInitialPlanBuilt is called after the minimum-element heuristic.
	OnInitialPlanBuilt(s Snapshot)

	// OnDegenerateFix is called when zero-quantity basic cells had to be
	// added before the potentials could be resolved.
	OnDegenerateFix(s Snapshot)

	// OnPotentialsComputed is called with the row (u) and column (v) potentials.
	OnPotentialsComputed(s Snapshot, u, v []int64)

	// OnReducedCosts is called every iteration with u[i]+v[j] and
	// cost[i][j]-(u[i]+v[j]).
	OnReducedCosts(s Snapshot, sums, reduced Matrix)

	// OnPlanRebuilt is called after shifting θ around cycle. The snapshot
	// holds the new plan; previous holds the plan the cycle was found on.
	OnPlanRebuilt(s Snapshot, cycle []Cell, previous Plan, u, v []int64)

	// OnOptimalSolutionFound is called exactly once, last.
	OnOptimalSolutionFound(s Snapshot)
}

// NopObserver implements [Observer] with no-ops. Embed it to implement only
// some callbacks.
type NopObserver struct{}

func (NopObserver) OnStart(Problem)                                        {}
func (NopObserver) OnBalanced(Snapshot, bool, int64, int64)                {}
func (NopObserver) OnInitialPlanBuilt(Snapshot)                            {}
func (NopObserver) OnDegenerateFix(Snapshot)                               {}
func (NopObserver) OnPotentialsComputed(Snapshot, []int64, []int64)        {}
func (NopObserver) OnReducedCosts(Snapshot, Matrix, Matrix)                {}
func (NopObserver) OnPlanRebuilt(Snapshot, []Cell, Plan, []int64, []int64) {}
func (NopObserver) OnOptimalSolutionFound(Snapshot)                        {}

// MultiObserver forwards every callback to each observer in order. Each
// observer receives its own copy of the payload.
type MultiObserver []Observer

func (m MultiObserver) OnStart(p Problem) {
	for _, o := range m {
		o.OnStart(p.Clone())
	}
}

func (m MultiObserver) OnBalanced(s Snapshot, addedColumn bool, totalSupply, totalDemand int64) {
	for _, o := range m {
		o.OnBalanced(s.Clone(), addedColumn, totalSupply, totalDemand)
	}
}

func (m MultiObserver) OnInitialPlanBuilt(s Snapshot) {
	for _, o := range m {
		o.OnInitialPlanBuilt(s.Clone())
	}
}

func (m MultiObserver) OnDegenerateFix(s Snapshot) {
	for _, o := range m {
		o.OnDegenerateFix(s.Clone())
	}
}

func (m MultiObserver) OnPotentialsComputed(s Snapshot, u, v []int64) {
	for _, o := range m {
		o.OnPotentialsComputed(s.Clone(), cloneVector(u), cloneVector(v))
	}
}

func (m MultiObserver) OnReducedCosts(s Snapshot, sums, reduced Matrix) {
	for _, o := range m {
		o.OnReducedCosts(s.Clone(), sums.Clone(), reduced.Clone())
	}
}

func (m MultiObserver) OnPlanRebuilt(s Snapshot, cycle []Cell, previous Plan, u, v []int64) {
	for _, o := range m {
		o.OnPlanRebuilt(s.Clone(), cloneCells(cycle), previous.Clone(), cloneVector(u), cloneVector(v))
	}
}

func (m MultiObserver) OnOptimalSolutionFound(s Snapshot) {
	for _, o := range m {
		o.OnOptimalSolutionFound(s.Clone())
	}
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Problem:   s.Problem.Clone(),
		FirstPass: s.FirstPass,
		Costs:     s.Costs.Clone(),
		Supply:    cloneVector(s.Supply),
		Demand:    cloneVector(s.Demand),
		Plan:      s.Plan.Clone(),
		TotalCost: s.TotalCost,
	}
}

func cloneCells(cells []Cell) []Cell {
	if cells == nil {
		return nil
	}
	out := make([]Cell, len(cells))
	copy(out, cells)
	return out
}

var (
	_ Observer = NopObserver{}
	_ Observer = MultiObserver(nil)
)
