package diagnose

import (
	"context"
	"errors"

	"github.com/Rana718/docprobe/internal/database/mongodb"
	"github.com/Rana718/docprobe/internal/filestore"
	"github.com/Rana718/docprobe/internal/logger"
	"github.com/Rana718/docprobe/internal/registration"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginOptions struct {
	Files      *filestore.Store
	Collection string
	Email      string
	Password   string
}

// Login looks the user up in the primary collection, then in the file
// store, and records the current user on success.
func (r *Runner) Login(ctx context.Context, opts LoginOptions) (*filestore.User, error) {
	user, err := r.lookupUser(ctx, opts.Collection, opts.Email)
	if err != nil {
		logger.L().Warn("database lookup failed, using file storage", zap.Error(err))
	}
	if user == nil {
		if user, err = opts.Files.FindUser(opts.Email); err != nil {
			return nil, err
		}
	}

	if user == nil || !registration.PasswordMatches(user.Password, opts.Password) {
		return nil, ErrInvalidCredentials
	}

	current := &filestore.User{Email: user.Email, Name: user.Name}
	if err := opts.Files.Init(); err != nil {
		return nil, err
	}
	if err := opts.Files.SaveCurrentUser(current); err != nil {
		return nil, err
	}
	r.out.Success("✅ Logged in as %s <%s>", current.Name, current.Email)
	return current, nil
}

func (r *Runner) lookupUser(ctx context.Context, collection, email string) (*filestore.User, error) {
	if r.store == nil {
		return nil, nil
	}
	docs, err := r.store.FindDocuments(ctx, collection, mongodb.FindOptions{
		Filter: bson.M{"email": email},
		Limit:  1,
	})
	if err != nil || len(docs) == 0 {
		return nil, err
	}

	var rec registration.Record
	raw, err := bson.Marshal(docs[0])
	if err != nil {
		return nil, err
	}
	if err := bson.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &filestore.User{Email: rec.Email, Password: rec.Password, Name: rec.Name}, nil
}
