package diagnose

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rana718/docprobe/internal/database/mongodb"
	"github.com/Rana718/docprobe/internal/filestore"
	"github.com/Rana718/docprobe/internal/logger"
	"github.com/Rana718/docprobe/internal/registration"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const DefaultRecentLimit = 3

type VerifyOptions struct {
	Files            *filestore.Store
	Database         string
	Collection       string
	LegacyDatabase   string
	LegacyCollection string
	RecentLimit      int64
	// Register, when set, is inserted into Collection and looked up by email.
	Register *registration.Record
}

// CollectionState holds the counts taken for one collection.
type CollectionState struct {
	Database      string
	Collection    string
	Total         int64
	Registrations int64
	Recent        []bson.D
	Err           error
}

type VerifyReport struct {
	Files        []filestore.FileStatus
	Legacy       CollectionState
	Primary      CollectionState
	Registration *InsertOutcome
	Found        []bson.D
	LookupErr    error
}

// Err joins every section failure.
func (r *VerifyReport) Err() error {
	var errs []error
	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	if r.Legacy.Err != nil {
		errs = append(errs, fmt.Errorf("legacy collection: %w", r.Legacy.Err))
	}
	if r.Primary.Err != nil {
		errs = append(errs, fmt.Errorf("primary collection: %w", r.Primary.Err))
	}
	if r.Registration != nil && r.Registration.Err != nil {
		errs = append(errs, fmt.Errorf("test registration: %w", r.Registration.Err))
	}
	if r.LookupErr != nil {
		errs = append(errs, fmt.Errorf("registration lookup: %w", r.LookupErr))
	}
	return errors.Join(errs...)
}

var registrationFilter = bson.M{"type": registration.TypeUserRegistration}

// Verify inspects local file storage, the legacy collection and the primary
// collection, and optionally stores a test registration. A failing section
// is reported and the remaining sections still run.
func (r *Runner) Verify(ctx context.Context, opts VerifyOptions) *VerifyReport {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	rep := &VerifyReport{}

	original := r.store.DatabaseName()
	defer r.store.UseDatabase(original)

	r.out.Heading("=== Data State Verification ===")

	r.out.Heading("\n--- Local File Status ---")
	if opts.Files != nil {
		for _, name := range []string{filestore.UsersFile, filestore.CurrentUserFile} {
			st := opts.Files.Stat(name)
			rep.Files = append(rep.Files, st)
			r.out.Println(st.String())
		}
	}

	r.out.Heading("\n--- Old MongoDB Collection (%s.%s) ---", opts.LegacyDatabase, opts.LegacyCollection)
	rep.Legacy = r.collectionState(ctx, opts.LegacyDatabase, opts.LegacyCollection, 0)

	r.out.Heading("\n--- New MongoDB Collection (%s.%s) ---", opts.Database, opts.Collection)
	rep.Primary = r.collectionState(ctx, opts.Database, opts.Collection, opts.RecentLimit)

	if opts.Register != nil {
		r.out.Heading("\n--- Testing User Registration ---")
		r.store.UseDatabase(opts.Database)
		r.verifyRegistration(ctx, opts.Collection, *opts.Register, rep)
	}

	r.out.Heading("\n=== Verification Complete ===")
	return rep
}

func (r *Runner) collectionState(ctx context.Context, database, collection string, recent int64) CollectionState {
	st := CollectionState{Database: database, Collection: collection}
	r.store.UseDatabase(database)
	r.out.Println("Database exists:", database)

	st.Total, st.Err = r.store.CountDocuments(ctx, collection, bson.M{})
	if st.Err != nil {
		r.out.Error("Failed to count documents in %s: %v", collection, st.Err)
		return st
	}
	r.out.Println(fmt.Sprintf("Total documents in %s:", collection), st.Total)

	st.Registrations, st.Err = r.store.CountDocuments(ctx, collection, registrationFilter)
	if st.Err != nil {
		r.out.Error("Failed to count registrations in %s: %v", collection, st.Err)
		return st
	}
	r.out.Println(fmt.Sprintf("User registrations in %s:", collection), st.Registrations)

	if recent <= 0 {
		return st
	}

	st.Recent, st.Err = r.store.FindDocuments(ctx, collection, mongodb.FindOptions{
		Filter: registrationFilter,
		Sort:   bson.D{{Key: "registeredAt", Value: -1}},
		Limit:  recent,
	})
	if st.Err != nil {
		r.out.Error("Failed to load recent registrations: %v", st.Err)
		return st
	}
	r.out.Println("Recent registrations:")
	if err := r.printDocuments(st.Recent); err != nil {
		st.Err = err
	}
	return st
}

func (r *Runner) verifyRegistration(ctx context.Context, collection string, rec registration.Record, rep *VerifyReport) {
	outcome := r.insertQuiet(ctx, collection, rec)
	rep.Registration = &outcome

	if !outcome.Succeeded() {
		if outcome.Err != nil {
			r.out.Error("❌ User registration test failed: %v", outcome.Err)
		} else {
			r.out.Error("❌ User registration test failed: write not acknowledged")
		}
		return
	}
	r.out.Success("✅ User registration test successful")

	rep.Found, rep.LookupErr = r.store.FindDocuments(ctx, collection, mongodb.FindOptions{
		Filter: bson.M{"email": rec.Email},
	})
	if rep.LookupErr != nil {
		r.out.Error("Failed to look up %s: %v", rec.Email, rep.LookupErr)
		return
	}
	r.out.Println("Latest registration:")
	if err := r.printDocuments(rep.Found); err != nil {
		rep.LookupErr = err
	}
}

func (r *Runner) insertQuiet(ctx context.Context, collection string, doc interface{}) InsertOutcome {
	res, err := r.store.InsertDocument(ctx, collection, doc)
	if err != nil {
		logger.L().Warn("test registration failed", zap.String("collection", collection), zap.Error(err))
	}
	return InsertOutcome{Attempted: true, Result: res, Err: err}
}
