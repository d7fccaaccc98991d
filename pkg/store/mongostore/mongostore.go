// Package mongostore is a [store.Store] backed by MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/potentials/pkg/store"
	"github.com/matzehuels/potentials/pkg/transport"
)

// Collection is the collection runs are stored in.
const Collection = "runs"

// collection is the subset of *mongo.Collection the store uses.
type collection interface {
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Store persists run records in one MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   collection
}

// Connect opens a client for uri and uses database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(Collection),
	}, nil
}

// document is the stored form of a record. Empty plan cells are null.
type document struct {
	ID            string     `bson:"_id"`
	CreatedAt     time.Time  `bson:"created_at"`
	Costs         [][]int64  `bson:"costs"`
	Supply        []int64    `bson:"supply"`
	Demand        []int64    `bson:"demand"`
	Plan          [][]*int64 `bson:"plan"`
	TotalCost     int64      `bson:"total_cost"`
	Iterations    int        `bson:"iterations"`
	MaxIterations int        `bson:"max_iterations,omitempty"`
	TraceKey      string     `bson:"trace_key,omitempty"`
}

func toDocument(r store.Record) document {
	plan := make([][]*int64, len(r.Plan))
	for i, row := range r.Plan {
		plan[i] = make([]*int64, len(row))
		for j, q := range row {
			if q.IsAllocated() {
				n := q.Value()
				plan[i][j] = &n
			}
		}
	}
	return document{
		ID:            r.ID,
		CreatedAt:     r.CreatedAt,
		Costs:         r.Problem.Costs,
		Supply:        r.Problem.Supply,
		Demand:        r.Problem.Demand,
		Plan:          plan,
		TotalCost:     r.TotalCost,
		Iterations:    r.Iterations,
		MaxIterations: r.MaxIterations,
		TraceKey:      r.TraceKey,
	}
}

func (d document) record() store.Record {
	plan := transport.NewPlan(len(d.Plan), 0)
	for i, row := range d.Plan {
		plan[i] = make([]transport.Quantity, len(row))
		for j, n := range row {
			if n != nil {
				plan[i][j] = transport.Allocated(*n)
			}
		}
	}
	return store.Record{
		ID:            d.ID,
		CreatedAt:     d.CreatedAt.UTC(),
		Problem:       transport.Problem{Costs: d.Costs, Supply: d.Supply, Demand: d.Demand},
		Plan:          plan,
		TotalCost:     d.TotalCost,
		Iterations:    d.Iterations,
		MaxIterations: d.MaxIterations,
		TraceKey:      d.TraceKey,
	}
}

// Save implements [store.Store] as an upsert on the run id.
func (s *Store) Save(ctx context.Context, r store.Record) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, toDocument(r), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save run %s: %w", r.ID, err)
	}
	return nil
}

// Get implements [store.Store].
func (s *Store) Get(ctx context.Context, id string) (store.Record, error) {
	var d document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.Record{}, store.ErrNotFound
	}
	if err != nil {
		return store.Record{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return d.record(), nil
}

// List implements [store.Store].
func (s *Store) List(ctx context.Context, limit int) ([]store.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	out := make([]store.Record, len(docs))
	for i, d := range docs {
		out[i] = d.record()
	}
	return out, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ store.Store = (*Store)(nil)
