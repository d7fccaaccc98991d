// Package trace records a solve as an ordered list of observer events.
//
// A [Trace] is the unit that gets cached, stored and replayed: sinks never
// need to re-run the solver once a trace exists. [Recorder] builds a trace
// while a solver runs; [Replay] drives any [transport.Observer] from one.
//
//	rec := trace.NewRecorder()
//	if err := transport.NewSolver(p, rec).Solve(); err != nil {
//	    return err
//	}
//	t := rec.Trace()
//	data, _ := trace.Marshal(t)
package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/potentials/pkg/transport"
)

// ErrCorrupt is returned when a trace cannot be decoded or replayed.
var ErrCorrupt = errors.New("corrupt trace")

// Kind identifies the observer callback an [Event] was recorded from.
type Kind string

const (
	KindStart           Kind = "start"
	KindBalanced        Kind = "balanced"
	KindInitialPlan     Kind = "initial_plan"
	KindDegenerateFix   Kind = "degenerate_fix"
	KindPotentials      Kind = "potentials"
	KindReducedCosts    Kind = "reduced_costs"
	KindPlanRebuilt     Kind = "plan_rebuilt"
	KindOptimalSolution Kind = "optimal"
)

// Event is one recorded callback. Only the fields used by Kind are set.
type Event struct {
	Kind     Kind                `json:"kind"`
	Snapshot *transport.Snapshot `json:"snapshot,omitempty"`

	// KindBalanced
	AddedColumn bool  `json:"added_column,omitempty"`
	TotalSupply int64 `json:"total_supply,omitempty"`
	TotalDemand int64 `json:"total_demand,omitempty"`

	// KindPotentials, KindPlanRebuilt
	U []int64 `json:"u,omitempty"`
	V []int64 `json:"v,omitempty"`

	// KindReducedCosts
	Sums    transport.Matrix `json:"sums,omitempty"`
	Reduced transport.Matrix `json:"reduced,omitempty"`

	// KindPlanRebuilt
	Cycle    []transport.Cell `json:"cycle,omitempty"`
	Previous transport.Plan   `json:"previous,omitempty"`
}

// Trace is a complete recorded solve.
type Trace struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Problem   transport.Problem `json:"problem"`
	Events    []Event           `json:"events"`
}

// Final returns the snapshot reported as optimal, if the trace has one.
func (t *Trace) Final() (transport.Snapshot, bool) {
	for i := len(t.Events) - 1; i >= 0; i-- {
		if e := t.Events[i]; e.Kind == KindOptimalSolution && e.Snapshot != nil {
			return e.Snapshot.Clone(), true
		}
	}
	return transport.Snapshot{}, false
}

// Iterations returns the number of plan rebuilds in the trace.
func (t *Trace) Iterations() int { return t.Count(KindPlanRebuilt) }

// Count returns the number of events of the given kind.
func (t *Trace) Count(kind Kind) int {
	n := 0
	for _, e := range t.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Marshal encodes t as JSON.
func Marshal(t *Trace) ([]byte, error) {
	return json.Marshal(t)
}

// Unmarshal decodes a trace produced by [Marshal].
func Unmarshal(data []byte) (*Trace, error) {
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(t.Events) == 0 || t.Events[0].Kind != KindStart {
		return nil, fmt.Errorf("%w: missing start event", ErrCorrupt)
	}
	return &t, nil
}

// Recorder is a [transport.Observer] that records every callback.
// It is not safe for concurrent use.
type Recorder struct {
	problem transport.Problem
	events  []Event
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Trace returns the events recorded so far under a new run id.
func (r *Recorder) Trace() *Trace {
	events := make([]Event, len(r.events))
	copy(events, r.events)
	return &Trace{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Problem:   r.problem.Clone(),
		Events:    events,
	}
}

func (r *Recorder) add(e Event) { r.events = append(r.events, e) }

func (r *Recorder) OnStart(p transport.Problem) {
	r.problem = p
	r.events = r.events[:0]
	r.add(Event{Kind: KindStart})
}

func (r *Recorder) OnBalanced(s transport.Snapshot, addedColumn bool, totalSupply, totalDemand int64) {
	r.add(Event{Kind: KindBalanced, Snapshot: &s, AddedColumn: addedColumn, TotalSupply: totalSupply, TotalDemand: totalDemand})
}

func (r *Recorder) OnInitialPlanBuilt(s transport.Snapshot) {
	r.add(Event{Kind: KindInitialPlan, Snapshot: &s})
}

func (r *Recorder) OnDegenerateFix(s transport.Snapshot) {
	r.add(Event{Kind: KindDegenerateFix, Snapshot: &s})
}

func (r *Recorder) OnPotentialsComputed(s transport.Snapshot, u, v []int64) {
	r.add(Event{Kind: KindPotentials, Snapshot: &s, U: u, V: v})
}

func (r *Recorder) OnReducedCosts(s transport.Snapshot, sums, reduced transport.Matrix) {
	r.add(Event{Kind: KindReducedCosts, Snapshot: &s, Sums: sums, Reduced: reduced})
}

func (r *Recorder) OnPlanRebuilt(s transport.Snapshot, cycle []transport.Cell, previous transport.Plan, u, v []int64) {
	r.add(Event{Kind: KindPlanRebuilt, Snapshot: &s, Cycle: cycle, Previous: previous, U: u, V: v})
}

func (r *Recorder) OnOptimalSolutionFound(s transport.Snapshot) {
	r.add(Event{Kind: KindOptimalSolution, Snapshot: &s})
}

var _ transport.Observer = (*Recorder)(nil)
