package transport

import (
	"errors"

	apperrors "github.com/matzehuels/potentials/pkg/errors"
)

var (
	// ErrInvalidProblem is returned by [Problem.Validate] and [Solver.Solve]
	// when the cost matrix is empty or ragged, when supply or demand do not
	// match its dimensions, or when an entry is negative.
	ErrInvalidProblem = errors.New("invalid transportation problem")

	// ErrInternal is returned by [Solver.Solve] when no improvement cycle
	// closes for a cell with negative reduced cost. It indicates a broken
	// solver invariant and is never recovered.
	ErrInternal = errors.New("internal solver error")

	// ErrIterationLimit is returned by [Solver.Solve] when the number of plan
	// rebuilds exceeds the limit set with [WithMaxIterations].
	ErrIterationLimit = errors.New("iteration limit exceeded")
)

// Problem is the immutable input of a transportation problem.
//
// Costs[i][j] is the unit cost of shipping from source i to destination j.
// Supply has one entry per source (row) and Demand one per destination
// (column). Totals need not match; the solver closes an open problem.
type Problem struct {
	Costs  [][]int64 `json:"costs" toml:"costs"`
	Supply []int64   `json:"supply" toml:"supply"`
	Demand []int64   `json:"demand" toml:"demand"`
}

// Rows returns the number of sources.
func (p Problem) Rows() int { return len(p.Costs) }

// Cols returns the number of destinations, or 0 for an empty matrix.
func (p Problem) Cols() int {
	if len(p.Costs) == 0 {
		return 0
	}
	return len(p.Costs[0])
}

// TotalSupply returns the sum of all supplies.
func (p Problem) TotalSupply() int64 { return sum(p.Supply) }

// TotalDemand returns the sum of all demands.
func (p Problem) TotalDemand() int64 { return sum(p.Demand) }

// Balanced reports whether total supply equals total demand.
func (p Problem) Balanced() bool { return p.TotalSupply() == p.TotalDemand() }

// Validate checks the shape and sign of the problem data.
// The returned error wraps [ErrInvalidProblem] and carries the
// INVALID_PROBLEM code.
func (p Problem) Validate() error {
	if len(p.Costs) == 0 || len(p.Costs[0]) == 0 {
		return invalid("costs matrix must not be empty")
	}
	width := len(p.Costs[0])
	for i, row := range p.Costs {
		if len(row) != width {
			return invalid("costs row %d has %d entries, want %d", i, len(row), width)
		}
		for j, c := range row {
			if c < 0 {
				return invalid("cost at (%d,%d) is negative: %d", i, j, c)
			}
		}
	}
	if len(p.Supply) != len(p.Costs) {
		return invalid("supply has %d entries, want %d (one per cost row)", len(p.Supply), len(p.Costs))
	}
	if len(p.Demand) != width {
		return invalid("demand has %d entries, want %d (one per cost column)", len(p.Demand), width)
	}
	for i, s := range p.Supply {
		if s < 0 {
			return invalid("supply %d is negative: %d", i, s)
		}
	}
	for j, d := range p.Demand {
		if d < 0 {
			return invalid("demand %d is negative: %d", j, d)
		}
	}
	return nil
}

// Clone returns a deep copy of p.
func (p Problem) Clone() Problem {
	return Problem{
		Costs:  Matrix(p.Costs).Clone(),
		Supply: cloneVector(p.Supply),
		Demand: cloneVector(p.Demand),
	}
}

func invalid(format string, args ...any) error {
	return apperrors.Wrap(apperrors.ErrCodeInvalidProblem, ErrInvalidProblem, format, args...)
}

func internal(format string, args ...any) error {
	return apperrors.Wrap(apperrors.ErrCodeInternal, ErrInternal, format, args...)
}

func iterationLimit(limit int) error {
	return apperrors.Wrap(apperrors.ErrCodeIterationLimit, ErrIterationLimit,
		"plan not optimal after %d rebuilds", limit)
}

func sum(xs []int64) int64 {
	var total int64
	for _, x := range xs {
		total += x
	}
	return total
}

func cloneVector(xs []int64) []int64 {
	if xs == nil {
		return nil
	}
	out := make([]int64, len(xs))
	copy(out, xs)
	return out
}
