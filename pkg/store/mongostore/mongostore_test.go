package mongostore

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/potentials/pkg/store"
	"github.com/matzehuels/potentials/pkg/transport"
)

// fakeCollection keeps documents in memory and answers through the
// driver's own result types.
type fakeCollection struct {
	docs map[string]document
}

func (f *fakeCollection) ReplaceOne(ctx context.Context, filter any, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	d := replacement.(document)
	f.docs[d.ID] = d
	return &mongo.UpdateResult{UpsertedCount: 1}, nil
}

func (f *fakeCollection) FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult {
	id := filter.(bson.M)["_id"].(string)
	d, ok := f.docs[id]
	if !ok {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(d, nil, nil)
}

func (f *fakeCollection) Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	var docs []document
	for _, d := range f.docs {
		docs = append(docs, d)
	}
	slices.SortFunc(docs, func(a, b document) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if len(opts) > 0 && opts[0].Limit != nil && int(*opts[0].Limit) < len(docs) {
		docs = docs[:*opts[0].Limit]
	}
	out := make([]any, len(docs))
	for i, d := range docs {
		out[i] = d
	}
	return mongo.NewCursorFromDocuments(out, nil, nil)
}

func newTestStore() *Store {
	return &Store{coll: &fakeCollection{docs: map[string]document{}}}
}

func testRecord(id string, at time.Time) store.Record {
	return store.Record{
		ID:        id,
		CreatedAt: at,
		Problem: transport.Problem{
			Costs:  [][]int64{{1, 5}, {5, 1}},
			Supply: []int64{10, 20},
			Demand: []int64{10, 20},
		},
		Plan: transport.Plan{
			{transport.Allocated(10), transport.Allocated(0)},
			{transport.Empty, transport.Allocated(20)},
		},
		TotalCost:     30,
		Iterations:    0,
		MaxIterations: 50,
		TraceKey:      "trace:abc",
	}
}

func TestSaveGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	defer s.Close()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := s.Save(ctx, testRecord("run-1", at)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TotalCost != 30 || got.MaxIterations != 50 || got.TraceKey != "trace:abc" || !got.CreatedAt.Equal(at) {
		t.Errorf("Get = %+v", got)
	}
	if got.Plan[1][0].IsAllocated() {
		t.Error("empty cell should survive the round trip as Empty")
	}
	if q := got.Plan[0][1]; !q.IsAllocated() || q.Value() != 0 {
		t.Errorf("zero basic cell = %v, want Allocated(0)", q)
	}
	if got.Problem.Costs[1][0] != 5 {
		t.Errorf("costs = %v", got.Problem.Costs)
	}
}

func TestGetMissing(t *testing.T) {
	_, err := newTestStore().Get(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want store.ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := s.Save(ctx, testRecord(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "c" || list[1].ID != "b" {
		t.Errorf("List(2) returned %d records starting %v", len(list), list)
	}
}
