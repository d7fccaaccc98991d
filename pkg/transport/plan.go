package transport

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Quantity is the content of one plan cell: either an allocated amount
// (which makes the cell basic, even when the amount is zero) or Empty.
//
// The zero value is Empty.
type Quantity struct {
	n         int64
	allocated bool
}

// Empty is the not-allocated cell.
var Empty = Quantity{}

// Allocated returns a basic cell carrying n units.
func Allocated(n int64) Quantity { return Quantity{n: n, allocated: true} }

// IsAllocated reports whether the cell is basic.
func (q Quantity) IsAllocated() bool { return q.allocated }

// Value returns the shipped amount, treating Empty as 0.
func (q Quantity) Value() int64 {
	if !q.allocated {
		return 0
	}
	return q.n
}

// String renders the quantity the way reports show it: "-" for Empty.
func (q Quantity) String() string {
	if !q.allocated {
		return "-"
	}
	return strconv.FormatInt(q.n, 10)
}

// MarshalJSON encodes Empty as null and Allocated(n) as n.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.allocated {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, q.n, 10), nil
}

// UnmarshalJSON decodes null as Empty and a number as Allocated.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*q = Empty
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*q = Allocated(n)
	return nil
}

// Cell addresses a plan cell by source row and destination column.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Matrix is a rectangular integer matrix (costs, potential sums, reduced costs).
type Matrix [][]int64

// NewMatrix returns a zeroed rows×cols matrix.
func NewMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]int64, cols)
	}
	return m
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = cloneVector(row)
	}
	return out
}

// Plan is the shipping plan: one [Quantity] per cell.
type Plan [][]Quantity

// NewPlan returns a rows×cols plan with every cell Empty.
func NewPlan(rows, cols int) Plan {
	p := make(Plan, rows)
	for i := range p {
		p[i] = make([]Quantity, cols)
	}
	return p
}

// Clone returns a deep copy of p.
func (p Plan) Clone() Plan {
	if p == nil {
		return nil
	}
	out := make(Plan, len(p))
	for i, row := range p {
		out[i] = make([]Quantity, len(row))
		copy(out[i], row)
	}
	return out
}

// At returns the quantity in cell c.
func (p Plan) At(c Cell) Quantity { return p[c.Row][c.Col] }

// BasicCells returns the allocated cells in row-major order.
func (p Plan) BasicCells() []Cell {
	var cells []Cell
	for i, row := range p {
		for j, q := range row {
			if q.IsAllocated() {
				cells = append(cells, Cell{Row: i, Col: j})
			}
		}
	}
	return cells
}

// RowSums returns, per row, the sum of allocated quantities.
func (p Plan) RowSums() []int64 {
	sums := make([]int64, len(p))
	for i, row := range p {
		for _, q := range row {
			sums[i] += q.Value()
		}
	}
	return sums
}

// ColSums returns, per column, the sum of allocated quantities.
func (p Plan) ColSums() []int64 {
	if len(p) == 0 {
		return nil
	}
	sums := make([]int64, len(p[0]))
	for _, row := range p {
		for j, q := range row {
			sums[j] += q.Value()
		}
	}
	return sums
}

// Cost returns the total shipping cost of p under costs.
func (p Plan) Cost(costs Matrix) int64 {
	var total int64
	for i, row := range p {
		for j, q := range row {
			total += q.Value() * costs[i][j]
		}
	}
	return total
}
