// Package logsink reports solver progress through a structured logger.
package logsink

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/potentials/pkg/transport"
)

// Sink is a [transport.Observer] that logs one line per stage. Iteration
// detail (potentials, reduced costs) is logged at debug level.
type Sink struct {
	logger    *log.Logger
	iteration int
}

// New returns a sink writing to l. A nil logger uses log.Default().
func New(l *log.Logger) *Sink {
	if l == nil {
		l = log.Default()
	}
	return &Sink{logger: l}
}

func (s *Sink) OnStart(p transport.Problem) {
	s.iteration = 0
	s.logger.Info("solving transportation problem",
		"sources", p.Rows(),
		"destinations", p.Cols(),
		"supply", p.TotalSupply(),
		"demand", p.TotalDemand())
}

func (s *Sink) OnBalanced(_ transport.Snapshot, addedColumn bool, totalSupply, totalDemand int64) {
	slack := "row"
	if addedColumn {
		slack = "column"
	}
	s.logger.Info("closed open problem", "slack", slack, "supply", totalSupply, "demand", totalDemand)
}

func (s *Sink) OnInitialPlanBuilt(snap transport.Snapshot) {
	s.logger.Info("initial plan built",
		"basic", len(snap.Plan.BasicCells()),
		"cost", snap.TotalCost)
}

func (s *Sink) OnDegenerateFix(snap transport.Snapshot) {
	s.logger.Warn("degenerate plan repaired", "basic", len(snap.Plan.BasicCells()))
}

func (s *Sink) OnPotentialsComputed(_ transport.Snapshot, u, v []int64) {
	s.logger.Debug("potentials computed", "iteration", s.iteration, "u", u, "v", v)
}

func (s *Sink) OnReducedCosts(_ transport.Snapshot, _, reduced transport.Matrix) {
	negative := 0
	for _, row := range reduced {
		for _, r := range row {
			if r < 0 {
				negative++
			}
		}
	}
	s.logger.Debug("reduced costs", "iteration", s.iteration, "negative", negative)
}

func (s *Sink) OnPlanRebuilt(snap transport.Snapshot, cycle []transport.Cell, previous transport.Plan, _, _ []int64) {
	s.iteration++
	var theta int64
	if len(cycle) > 0 {
		theta = snap.Plan.At(cycle[0]).Value() - previous.At(cycle[0]).Value()
	}
	s.logger.Info("plan rebuilt",
		"iteration", s.iteration,
		"entering", cellString(cycle),
		"cycle", len(cycle),
		"theta", theta,
		"cost", snap.TotalCost)
}

func (s *Sink) OnOptimalSolutionFound(snap transport.Snapshot) {
	s.logger.Info("optimal plan found", "iterations", s.iteration, "cost", snap.TotalCost)
}

func cellString(cycle []transport.Cell) string {
	if len(cycle) == 0 {
		return ""
	}
	return fmt.Sprintf("(%d,%d)", cycle[0].Row, cycle[0].Col)
}

var _ transport.Observer = (*Sink)(nil)
