// Package transport solves the classic transportation problem with the
// minimum-element heuristic followed by the method of potentials (MODI).
//
// # Overview
//
// A [Problem] ships goods from sources with fixed supply to destinations
// with fixed demand at minimum total cost. [Solver] owns the whole iterative
// solve loop:
//
//  1. Balance: if total supply differs from total demand, a zero-cost slack
//     column (excess supply) or slack row (excess demand) is appended.
//  2. Initial plan: cells are visited in ascending cost order (stable,
//     row-major tie-break) and each receives as much as its row and column
//     still allow.
//  3. Potentials: u[i]+v[j] = cost[i][j] is solved on every basic cell by
//     propagation from u[0] = 1. When the basic cells do not span all rows
//     and columns (a degenerate plan) a non-basic cell is made basic with a
//     zero quantity and propagation resumes.
//  4. Optimality: reduced costs cost[i][j]-(u[i]+v[j]) are computed; the plan
//     is optimal when none is negative.
//  5. Improvement: the first negative cell in row-major order enters the
//     basis. A closed alternating cycle through basic cells is found by
//     depth-first search and θ, the smallest quantity on a "-" position, is
//     shifted around it.
//
// Steps 3 to 5 repeat until the plan is optimal.
//
// # Basic Usage
//
//	p := transport.Problem{
//	    Costs:  [][]int64{{3, 3, 1}, {9, 2, 2}, {5, 7, 6}},
//	    Supply: []int64{40, 60, 50},
//	    Demand: []int64{30, 30, 40},
//	}
//	final, err := transport.Solve(p)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(final.TotalCost)
//
// # Observers
//
// The solver reports each stage through the [Observer] interface instead of
// returning intermediate results. Every payload is an independent deep copy
// of the working state, so an observer may keep or mutate what it receives.
// Report sinks (LaTeX documents, log output, recorded traces) live in other
// packages and implement [Observer]; embed [NopObserver] to implement only
// the callbacks you need, and use [MultiObserver] to drive several sinks
// from one run.
//
// # Not Allocated vs Zero
//
// A plan cell is a [Quantity]: either Allocated(n), which makes it a basic
// cell even when n == 0, or Empty. The distinction matters for degenerate
// plans, where explicit zeros keep the basis large enough for potentials to
// propagate.
//
// # Errors
//
// [Solver.Solve] fails with [ErrInvalidProblem] before any callback when the
// input is malformed, with [ErrInternal] if the cycle search cannot close a
// cycle (an invariant violation), and with [ErrIterationLimit] when a limit
// set by [WithMaxIterations] is exceeded. The returned errors carry codes
// from the errors package.
//
// # Concurrency
//
// A Solver is not safe for concurrent use; each call to Solve starts over
// from the problem. Solve runs synchronously in the calling goroutine and
// calls observers inline; it cannot be cancelled. Impose timeouts around the call or with
// [WithMaxIterations].
package transport
