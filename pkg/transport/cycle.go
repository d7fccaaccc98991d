package transport

import (
	"math"
	"slices"
)

// findCycle returns a closed path that starts at the entering cell and
// alternates between column and row moves through basic cells. The path
// has even length; position 0 is the entering cell. The first cycle found
// by depth-first search wins, trying column neighbours before row
// neighbours.
func (s *Solver) findCycle(entering Cell) ([]Cell, error) {
	var first []Cell
	for i := range s.plan {
		if i != entering.Row && s.plan[i][entering.Col].IsAllocated() {
			first = append(first, Cell{Row: i, Col: entering.Col})
		}
	}
	for j := range s.plan[entering.Row] {
		if j != entering.Col && s.plan[entering.Row][j].IsAllocated() {
			first = append(first, Cell{Row: entering.Row, Col: j})
		}
	}
	for _, next := range first {
		if cycle := s.searchCycle(entering, entering, next, []Cell{entering}); cycle != nil {
			return cycle, nil
		}
	}
	return nil, internal("no improvement cycle closes at (%d,%d)", entering.Row, entering.Col)
}

// searchCycle extends path with to, having arrived from from. A row move
// must be followed by a column move and vice versa.
func (s *Solver) searchCycle(start, from, to Cell, path []Cell) []Cell {
	if to == start {
		if len(path)%2 == 0 {
			return path
		}
		return nil
	}
	path = append(path, to)

	var next []Cell
	if to.Row == from.Row {
		for i := range s.plan {
			next = append(next, Cell{Row: i, Col: to.Col})
		}
	} else {
		for j := range s.plan[to.Row] {
			next = append(next, Cell{Row: to.Row, Col: j})
		}
	}

	for _, c := range next {
		if c == to {
			continue
		}
		if c != start && (!s.plan.At(c).IsAllocated() || slices.Contains(path, c)) {
			continue
		}
		if cycle := s.searchCycle(start, to, c, slices.Clone(path)); cycle != nil {
			return cycle
		}
	}
	return nil
}

// rebuild shifts θ around cycle: even positions gain θ, odd positions lose
// it. Only the first odd cell that drops to zero leaves the basis; any later
// zero stays as an explicit Allocated(0). Returns θ.
func (s *Solver) rebuild(cycle []Cell) int64 {
	theta := int64(math.MaxInt64)
	for k := 1; k < len(cycle); k += 2 {
		theta = min(theta, s.plan.At(cycle[k]).Value())
	}

	next := s.plan.Clone()
	emptied := false
	for k, c := range cycle {
		q := next[c.Row][c.Col].Value()
		if k%2 == 0 {
			next[c.Row][c.Col] = Allocated(q + theta)
			continue
		}
		q -= theta
		if q == 0 && !emptied {
			next[c.Row][c.Col] = Empty
			emptied = true
			continue
		}
		next[c.Row][c.Col] = Allocated(q)
	}

	s.plan = next
	s.totalCost = next.Cost(s.costs)
	return theta
}
