package diagnose

import (
	"context"
	"fmt"

	"github.com/Rana718/docprobe/internal/filestore"
	"github.com/Rana718/docprobe/internal/logger"
	"github.com/Rana718/docprobe/internal/registration"
	"go.uber.org/zap"
)

type RegisterOptions struct {
	Files      *filestore.Store
	Collection string
	Record     registration.Record
	// Hash replaces the password with its bcrypt hash before anything is stored.
	Hash bool
}

type RegisterReport struct {
	Record registration.Record
	// Mongo is nil when the runner has no store.
	Mongo *InsertOutcome
}

// StoredInMongo reports whether the record reached the database.
func (r *RegisterReport) StoredInMongo() bool {
	return r.Mongo != nil && r.Mongo.Succeeded()
}

// Register stores a registration in the primary collection when the runner
// has a store, and always in the file store. A failed database write falls
// back to the files; a duplicate email in the files is an error.
func (r *Runner) Register(ctx context.Context, opts RegisterOptions) (*RegisterReport, error) {
	if err := opts.Files.Init(); err != nil {
		return nil, err
	}

	candidate := filestore.User{Email: opts.Record.Email, Password: opts.Record.Password, Name: opts.Record.Name}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	existing, err := opts.Files.FindUser(opts.Record.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%s: %w", opts.Record.Email, filestore.ErrUserExists)
	}

	rec := opts.Record
	if opts.Hash {
		if rec, err = rec.WithHashedPassword(); err != nil {
			return nil, err
		}
	}
	rep := &RegisterReport{Record: rec}

	if r.store == nil {
		r.out.Info("MongoDB unreachable, using file storage")
	} else {
		outcome := r.insert(ctx, opts.Collection, rec)
		rep.Mongo = &outcome
		if outcome.Succeeded() {
			r.out.Success("✅ Registered %s in %s.%s", rec.Email, r.store.DatabaseName(), opts.Collection)
		} else {
			r.out.Info("Falling back to file storage")
			logger.L().Warn("registration fell back to file storage", zap.String("email", rec.Email))
		}
	}

	user := filestore.User{Email: rec.Email, Password: rec.Password, Name: rec.Name}
	if err := opts.Files.AddUser(user); err != nil {
		return rep, fmt.Errorf("failed to save user: %w", err)
	}
	if err := opts.Files.SaveCurrentUser(&user); err != nil {
		return rep, err
	}
	r.out.Success("✅ Saved %s to %s", rec.Email, opts.Files.Stat(filestore.UsersFile).Path)

	return rep, nil
}
