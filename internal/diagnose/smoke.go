package diagnose

import (
	"context"
	"fmt"

	"github.com/Rana718/docprobe/internal/logger"
	"github.com/Rana718/docprobe/internal/printer"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type SmokeOptions struct {
	// Collection receives the test document.
	Collection string
	// Shadow is the similarly-named collection that must stay untouched.
	Shadow   string
	Document interface{}
	// SkipInsert reports without writing.
	SkipInsert bool
	// Assert counts both collections before the insert and checks that only
	// Collection grew by exactly one.
	Assert bool
}

type SmokeReport struct {
	Database  string
	Before    []string
	After     []string
	Insert    InsertOutcome
	Counts    map[string]int64
	Documents map[string][]bson.D

	// Set only with SmokeOptions.Assert.
	CountsBefore map[string]int64
	collection   string
	shadow       string
}

// Landed reports whether the insert grew the target collection by exactly one
// and left the shadow collection alone. It is meaningful only for runs made
// with Assert.
func (r *SmokeReport) Landed() bool {
	if r.CountsBefore == nil || !r.Insert.Succeeded() {
		return false
	}
	return r.Counts[r.collection] == r.CountsBefore[r.collection]+1 &&
		r.Counts[r.shadow] == r.CountsBefore[r.shadow]
}

// Delta is the change in a collection's count over the run. It is zero for
// runs made without Assert.
func (r *SmokeReport) Delta(collection string) int64 {
	if r.CountsBefore == nil {
		return 0
	}
	return r.Counts[collection] - r.CountsBefore[collection]
}

// Smoke inserts one document and reports collection names, counts and
// contents. Only the insert is guarded: its failure is printed and the run
// continues. Any other failure stops the run.
func (r *Runner) Smoke(ctx context.Context, opts SmokeOptions) (*SmokeReport, error) {
	rep := &SmokeReport{
		Counts:     make(map[string]int64, 2),
		Documents:  make(map[string][]bson.D, 2),
		collection: opts.Collection,
		shadow:     opts.Shadow,
	}
	log := logger.L().With(zap.String("collection", opts.Collection), zap.String("shadow", opts.Shadow))

	r.out.Println("Starting test insertion...")

	rep.Database = r.store.DatabaseName()
	r.out.Println("Database:", rep.Database)

	names, err := r.store.ListCollectionNames(ctx)
	if err != nil {
		return rep, err
	}
	rep.Before = names
	r.out.Println("Available collections before:", printer.Names(names))

	if opts.Assert {
		rep.CountsBefore = make(map[string]int64, 2)
		for _, coll := range []string{opts.Collection, opts.Shadow} {
			n, err := r.store.CountDocuments(ctx, coll, bson.M{})
			if err != nil {
				return rep, err
			}
			rep.CountsBefore[coll] = n
		}
	}

	if opts.SkipInsert {
		r.out.Info("Insert skipped (dry run)")
	} else {
		rep.Insert = r.insert(ctx, opts.Collection, opts.Document)
		log.Debug("insert attempted", zap.Bool("acknowledged", rep.Insert.Result.Acknowledged), zap.Error(rep.Insert.Err))
	}

	names, err = r.store.ListCollectionNames(ctx)
	if err != nil {
		return rep, err
	}
	rep.After = names
	r.out.Println("Available collections after:", printer.Names(names))

	for _, coll := range []string{opts.Collection, opts.Shadow} {
		n, err := r.store.CountDocuments(ctx, coll, bson.M{})
		if err != nil {
			return rep, err
		}
		rep.Counts[coll] = n
		r.out.Println(fmt.Sprintf("Documents in %s:", coll), n)
	}

	for _, coll := range []string{opts.Collection, opts.Shadow} {
		docs, err := r.store.FindDocuments(ctx, coll, findAll)
		if err != nil {
			return rep, err
		}
		rep.Documents[coll] = docs
		r.out.Heading("All documents in %s:", coll)
		if err := r.printDocuments(docs); err != nil {
			return rep, err
		}
	}

	if opts.Assert {
		if rep.Landed() {
			r.out.Success("Write landed in %s: yes", opts.Collection)
		} else {
			r.out.Error("Write landed in %s: no", opts.Collection)
		}
	}

	return rep, nil
}

func (r *Runner) insert(ctx context.Context, collection string, doc interface{}) InsertOutcome {
	out := InsertOutcome{Attempted: true}

	res, err := r.store.InsertDocument(ctx, collection, doc)
	if err != nil {
		out.Err = err
		r.out.Error("Insert error: %v", err)
		return out
	}

	out.Result = res
	r.out.Println("Insert result:", insertResultJSON(res))
	if res.Acknowledged {
		r.out.Success("Insert successful: %v", res.Acknowledged)
	} else {
		r.out.Error("Insert successful: %v", res.Acknowledged)
	}
	return out
}
