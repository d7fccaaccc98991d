// Package store keeps a history of completed solves.
//
// A [Record] summarises one run: the problem, the optimal plan and how the
// solver got there. [MemoryStore] serves tests and one-shot CLI runs; the
// mongostore subpackage persists records in MongoDB.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/potentials/pkg/transport"
)

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("run not found")

// Record is one completed solve.
type Record struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	Problem    transport.Problem `json:"problem"`
	Plan       transport.Plan    `json:"plan"`
	TotalCost  int64             `json:"total_cost"`
	Iterations int               `json:"iterations"`
	// MaxIterations is the rebuild limit the run was solved with. Artifacts
	// for the run are rendered under the same limit.
	MaxIterations int `json:"max_iterations,omitempty"`
	// TraceKey is the cache key of the recorded trace, if it was cached.
	TraceKey string `json:"trace_key,omitempty"`
}

// Store persists records.
type Store interface {
	Save(ctx context.Context, r Record) error
	Get(ctx context.Context, id string) (Record, error)
	// List returns up to limit records, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}
