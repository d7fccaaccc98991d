package transport

import (
	"cmp"
	"slices"
)

// buildInitialPlan fills the plan with the minimum-element heuristic: cells
// are visited by ascending cost (row-major among equal costs) and each takes
// as much as its row and column still have. Cells of an exhausted row or
// column stay Empty.
func (s *Solver) buildInitialPlan() {
	rows, cols := len(s.costs), len(s.costs[0])
	remSupply := cloneVector(s.supply)
	remDemand := cloneVector(s.demand)
	plan := NewPlan(rows, cols)

	for _, c := range s.cellsByCost() {
		if q := min(remSupply[c.Row], remDemand[c.Col]); q > 0 {
			plan[c.Row][c.Col] = Allocated(q)
			remSupply[c.Row] -= q
			remDemand[c.Col] -= q
		}
		if sum(remSupply) == 0 && sum(remDemand) == 0 {
			break
		}
	}

	s.plan = plan
	s.totalCost = plan.Cost(s.costs)
	s.logger.Debug("initial plan built", "basic", len(plan.BasicCells()), "cost", s.totalCost)
	s.observer.OnInitialPlanBuilt(s.snapshot())
}

func (s *Solver) cellsByCost() []Cell {
	cells := make([]Cell, 0, len(s.costs)*len(s.costs[0]))
	for i, row := range s.costs {
		for j := range row {
			cells = append(cells, Cell{Row: i, Col: j})
		}
	}
	slices.SortStableFunc(cells, func(a, b Cell) int {
		return cmp.Compare(s.costs[a.Row][a.Col], s.costs[b.Row][b.Col])
	})
	return cells
}
