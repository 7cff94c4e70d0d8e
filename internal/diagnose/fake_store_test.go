package diagnose

import (
	"context"
	"fmt"
	"sort"

	"github.com/Rana718/docprobe/internal/database/mongodb"
	"go.mongodb.org/mongo-driver/bson"
)

// fakeStore is an in-memory Store keyed by database then collection.
// Filters match top-level fields by equality; sorting supports one string key.
type fakeStore struct {
	db   string
	data map[string]map[string][]bson.D

	insertErr error
	listErr   error
	countErr  map[string]error
	findErr   map[string]error
	unacked   bool
	nextID    int
}

func newFakeStore(db string) *fakeStore {
	return &fakeStore{
		db:       db,
		data:     map[string]map[string][]bson.D{},
		countErr: map[string]error{},
		findErr:  map[string]error{},
	}
}

func (f *fakeStore) seed(db, coll string, docs ...bson.D) {
	if f.data[db] == nil {
		f.data[db] = map[string][]bson.D{}
	}
	f.data[db][coll] = append(f.data[db][coll], docs...)
}

func (f *fakeStore) DatabaseName() string    { return f.db }
func (f *fakeStore) UseDatabase(name string) { f.db = name }

func (f *fakeStore) ListCollectionNames(ctx context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var names []string
	for name := range f.data[f.db] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeStore) CountDocuments(ctx context.Context, coll string, filter bson.M) (int64, error) {
	if err := f.countErr[coll]; err != nil {
		return 0, err
	}
	var n int64
	for _, doc := range f.data[f.db][coll] {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) FindDocuments(ctx context.Context, coll string, opts mongodb.FindOptions) ([]bson.D, error) {
	if err := f.findErr[coll]; err != nil {
		return nil, err
	}
	var out []bson.D
	for _, doc := range f.data[f.db][coll] {
		if matches(doc, opts.Filter) {
			out = append(out, doc)
		}
	}
	if len(opts.Sort) == 1 {
		key, dir := opts.Sort[0].Key, opts.Sort[0].Value
		sort.SliceStable(out, func(i, j int) bool {
			a, b := fmt.Sprint(out[i].Map()[key]), fmt.Sprint(out[j].Map()[key])
			if dir == -1 {
				return a > b
			}
			return a < b
		})
	}
	if opts.Limit > 0 && int64(len(out)) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *fakeStore) InsertDocument(ctx context.Context, coll string, document interface{}) (mongodb.InsertResult, error) {
	if f.insertErr != nil {
		return mongodb.InsertResult{}, f.insertErr
	}

	raw, err := bson.Marshal(document)
	if err != nil {
		return mongodb.InsertResult{}, err
	}
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return mongodb.InsertResult{}, err
	}

	f.nextID++
	id := fmt.Sprintf("id-%d", f.nextID)
	doc = append(bson.D{{Key: "_id", Value: id}}, doc...)
	f.seed(f.db, coll, doc)

	if f.unacked {
		return mongodb.InsertResult{}, nil
	}
	return mongodb.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func matches(doc bson.D, filter bson.M) bool {
	m := doc.Map()
	for k, v := range filter {
		if m[k] != v {
			return false
		}
	}
	return true
}
