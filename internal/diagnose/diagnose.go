// Package diagnose runs the write-placement diagnostics against a document
// store: the smoke insert-and-report run and the broader data-state check.
package diagnose

import (
	"context"

	"github.com/Rana718/docprobe/internal/database/mongodb"
	"github.com/Rana718/docprobe/internal/printer"
	"go.mongodb.org/mongo-driver/bson"
)

// Store is the subset of the database adapter the diagnostics need.
type Store interface {
	DatabaseName() string
	UseDatabase(name string)
	ListCollectionNames(ctx context.Context) ([]string, error)
	CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error)
	FindDocuments(ctx context.Context, collection string, opts mongodb.FindOptions) ([]bson.D, error)
	InsertDocument(ctx context.Context, collection string, document interface{}) (mongodb.InsertResult, error)
}

var findAll = mongodb.FindOptions{}

type Runner struct {
	store Store
	out   *printer.Printer
}

func NewRunner(store Store, out *printer.Printer) *Runner {
	return &Runner{store: store, out: out}
}

// InsertOutcome records the single guarded insert.
type InsertOutcome struct {
	Attempted bool
	Result    mongodb.InsertResult
	Err       error
}

func (o InsertOutcome) Succeeded() bool {
	return o.Attempted && o.Err == nil && o.Result.Acknowledged
}

func (r *Runner) printDocuments(docs []bson.D) error {
	for _, doc := range docs {
		if err := r.out.Document(doc); err != nil {
			return err
		}
	}
	return nil
}

// insertResultJSON renders an insert acknowledgement as the shell would
// stringify it.
func insertResultJSON(res mongodb.InsertResult) string {
	doc := bson.D{
		{Key: "acknowledged", Value: res.Acknowledged},
		{Key: "insertedId", Value: res.InsertedID},
	}
	b, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return printer.FormatValue(res)
	}
	return string(b)
}
