package transport

import (
	"github.com/charmbracelet/log"
)

// Solver runs the method of potentials on one [Problem] and reports every
// stage to an [Observer].
type Solver struct {
	problem       Problem
	observer      Observer
	maxIterations int
	logger        *log.Logger

	// Working state of the closed problem. Reset on every call to Solve.
	costs      Matrix
	supply     []int64
	demand     []int64
	plan       Plan
	totalCost  int64
	firstPass  bool
	iterations int
}

// NewSolver returns a solver for p. A nil observer is replaced by
// [NopObserver]. The problem is copied; later changes to p have no effect.
func NewSolver(p Problem, obs Observer, opts ...Option) *Solver {
	if obs == nil {
		obs = NopObserver{}
	}
	s := &Solver{
		problem:  p.Clone(),
		observer: obs,
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve runs the solver to completion. On success the last callback made was
// OnOptimalSolutionFound. Invalid input fails before any callback.
func (s *Solver) Solve() error {
	if err := s.problem.Validate(); err != nil {
		return err
	}
	s.reset()

	s.observer.OnStart(s.problem.Clone())
	if !s.problem.Balanced() {
		s.balance()
	}
	s.buildInitialPlan()

	for {
		u, v, err := s.computePotentials()
		if err != nil {
			return err
		}

		sums, reduced := s.reducedCosts(u, v)
		s.observer.OnReducedCosts(s.snapshot(), sums, reduced)

		entering, ok := firstNegative(reduced)
		if !ok {
			s.logger.Debug("plan is optimal", "iterations", s.iterations, "cost", s.totalCost)
			s.observer.OnOptimalSolutionFound(s.snapshot())
			return nil
		}
		if s.maxIterations > 0 && s.iterations >= s.maxIterations {
			return iterationLimit(s.maxIterations)
		}

		cycle, err := s.findCycle(entering)
		if err != nil {
			return err
		}
		previous := s.plan.Clone()
		theta := s.rebuild(cycle)
		s.iterations++
		s.logger.Debug("plan rebuilt",
			"iteration", s.iterations,
			"entering", entering,
			"cycle", len(cycle),
			"theta", theta,
			"cost", s.totalCost)
		s.observer.OnPlanRebuilt(s.snapshot(), cloneCells(cycle), previous, cloneVector(u), cloneVector(v))

		s.firstPass = false
	}
}

// Iterations returns the number of plan rebuilds performed by the last Solve.
func (s *Solver) Iterations() int { return s.iterations }

// Solve is a convenience wrapper that solves p, drives obs in order and
// returns the snapshot reported as optimal. Nil observers are skipped.
func Solve(p Problem, obs ...Observer) (Snapshot, error) {
	var final finalObserver
	observers := make(MultiObserver, 0, len(obs)+1)
	for _, o := range obs {
		if o != nil {
			observers = append(observers, o)
		}
	}
	observers = append(observers, &final)
	if err := NewSolver(p, observers).Solve(); err != nil {
		return Snapshot{}, err
	}
	return final.snapshot, nil
}

type finalObserver struct {
	NopObserver
	snapshot Snapshot
}

func (f *finalObserver) OnOptimalSolutionFound(s Snapshot) { f.snapshot = s }

func (s *Solver) reset() {
	s.costs = Matrix(s.problem.Costs).Clone()
	s.supply = cloneVector(s.problem.Supply)
	s.demand = cloneVector(s.problem.Demand)
	s.plan = nil
	s.totalCost = 0
	s.firstPass = true
	s.iterations = 0
}

// balance closes an open problem with a zero-cost slack column (excess
// supply) or slack row (excess demand).
func (s *Solver) balance() {
	totalSupply, totalDemand := sum(s.supply), sum(s.demand)
	addedColumn := totalSupply > totalDemand
	if addedColumn {
		s.demand = append(s.demand, totalSupply-totalDemand)
		for i := range s.costs {
			s.costs[i] = append(s.costs[i], 0)
		}
	} else {
		s.supply = append(s.supply, totalDemand-totalSupply)
		s.costs = append(s.costs, make([]int64, len(s.demand)))
	}
	s.logger.Debug("problem closed", "added_column", addedColumn, "supply", totalSupply, "demand", totalDemand)
	s.observer.OnBalanced(s.snapshot(), addedColumn, totalSupply, totalDemand)
}

func (s *Solver) snapshot() Snapshot {
	return Snapshot{
		Problem:   s.problem.Clone(),
		FirstPass: s.firstPass,
		Costs:     s.costs.Clone(),
		Supply:    cloneVector(s.supply),
		Demand:    cloneVector(s.demand),
		Plan:      s.plan.Clone(),
		TotalCost: s.totalCost,
	}
}
