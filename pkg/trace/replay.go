package trace

import (
	"fmt"

	"github.com/matzehuels/potentials/pkg/transport"
)

// Replay calls obs once per recorded event, in order, with the same
// payloads the solver produced. Each payload is a fresh copy.
func Replay(t *Trace, obs transport.Observer) error {
	for i, e := range t.Events {
		if err := ReplayEvent(t, i, obs); err != nil {
			return fmt.Errorf("event %d (%s): %w", i, e.Kind, err)
		}
	}
	return nil
}

// ReplayEvent delivers the single event at index i to obs.
func ReplayEvent(t *Trace, i int, obs transport.Observer) error {
	if i < 0 || i >= len(t.Events) {
		return fmt.Errorf("%w: event index %d out of range", ErrCorrupt, i)
	}
	e := t.Events[i]
	if e.Kind == KindStart {
		obs.OnStart(t.Problem.Clone())
		return nil
	}
	if e.Snapshot == nil {
		return fmt.Errorf("%w: event without snapshot", ErrCorrupt)
	}
	s := e.Snapshot.Clone()

	switch e.Kind {
	case KindBalanced:
		obs.OnBalanced(s, e.AddedColumn, e.TotalSupply, e.TotalDemand)
	case KindInitialPlan:
		obs.OnInitialPlanBuilt(s)
	case KindDegenerateFix:
		obs.OnDegenerateFix(s)
	case KindPotentials:
		obs.OnPotentialsComputed(s, clone(e.U), clone(e.V))
	case KindReducedCosts:
		obs.OnReducedCosts(s, e.Sums.Clone(), e.Reduced.Clone())
	case KindPlanRebuilt:
		cycle := append([]transport.Cell(nil), e.Cycle...)
		obs.OnPlanRebuilt(s, cycle, e.Previous.Clone(), clone(e.U), clone(e.V))
	case KindOptimalSolution:
		obs.OnOptimalSolutionFound(s)
	default:
		return fmt.Errorf("%w: unknown event kind %q", ErrCorrupt, e.Kind)
	}
	return nil
}

func clone(xs []int64) []int64 {
	if xs == nil {
		return nil
	}
	return append([]int64(nil), xs...)
}
