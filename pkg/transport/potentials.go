package transport

// computePotentials solves u[i]+v[j] = cost[i][j] over the basic cells,
// anchored at u[0] = 1. When propagation stalls on a degenerate plan, the
// first Empty cell (row-major) with exactly one known potential is made
// basic with a zero quantity and propagation resumes.
func (s *Solver) computePotentials() (u, v []int64, err error) {
	rows, cols := len(s.costs), len(s.costs[0])
	u, v = make([]int64, rows), make([]int64, cols)
	knownU, knownV := make([]bool, rows), make([]bool, cols)
	u[0], knownU[0] = 1, true
	unknown := rows + cols - 1

	plan := s.plan.Clone()
	var fixes []Cell
	for unknown > 0 {
		changed := false
		for i := range plan {
			for j, q := range plan[i] {
				if !q.IsAllocated() {
					continue
				}
				if knownU[i] && !knownV[j] {
					v[j], knownV[j] = s.costs[i][j]-u[i], true
					unknown--
					changed = true
				}
				if !knownU[i] && knownV[j] {
					u[i], knownU[i] = s.costs[i][j]-v[j], true
					unknown--
					changed = true
				}
			}
		}
		if changed {
			continue
		}
		fix, ok := repairCell(plan, knownU, knownV)
		if !ok {
			return nil, nil, internal("potentials cannot be resolved: no repair cell")
		}
		plan[fix.Row][fix.Col] = Allocated(0)
		fixes = append(fixes, fix)
	}

	if len(fixes) > 0 {
		s.plan = plan
		s.totalCost = plan.Cost(s.costs)
		s.logger.Debug("degenerate plan repaired", "cells", fixes)
		s.observer.OnDegenerateFix(s.snapshot())
	}
	s.observer.OnPotentialsComputed(s.snapshot(), cloneVector(u), cloneVector(v))
	return u, v, nil
}

func repairCell(plan Plan, knownU, knownV []bool) (Cell, bool) {
	for i := range plan {
		for j, q := range plan[i] {
			if !q.IsAllocated() && knownU[i] != knownV[j] {
				return Cell{Row: i, Col: j}, true
			}
		}
	}
	return Cell{}, false
}

// reducedCosts returns the potential sums u[i]+v[j] and the reduced costs
// cost[i][j]-(u[i]+v[j]).
func (s *Solver) reducedCosts(u, v []int64) (sums, reduced Matrix) {
	rows, cols := len(s.costs), len(s.costs[0])
	sums, reduced = NewMatrix(rows, cols), NewMatrix(rows, cols)
	for i := range s.costs {
		for j, c := range s.costs[i] {
			sums[i][j] = u[i] + v[j]
			reduced[i][j] = c - sums[i][j]
		}
	}
	return sums, reduced
}

// firstNegative returns the first cell in row-major order with a negative
// reduced cost.
func firstNegative(reduced Matrix) (Cell, bool) {
	for i, row := range reduced {
		for j, r := range row {
			if r < 0 {
				return Cell{Row: i, Col: j}, true
			}
		}
	}
	return Cell{}, false
}
