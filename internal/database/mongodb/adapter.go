package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rana718/docprobe/internal/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var ErrNotConnected = errors.New("database not connected")

// InsertResult mirrors the acknowledgement returned by insertOne.
type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

// FindOptions limits and orders a find.
type FindOptions struct {
	Filter bson.M
	Sort   bson.D
	Limit  int64
	Skip   int64
}

type Adapter struct {
	client   *mongo.Client
	database *mongo.Database
	dbName   string
}

func New() *Adapter {
	return &Adapter{}
}

// Connect dials url and selects dbName. An empty dbName falls back to the
// database named in the URL path and then to "test", as the shell does.
func (a *Adapter) Connect(ctx context.Context, url, dbName string) error {
	clientOpts := options.Client().ApplyURI(url)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	if dbName == "" {
		dbName = DatabaseFromURL(url)
	}
	if dbName == "" {
		dbName = "test"
	}

	a.client = client
	a.UseDatabase(dbName)

	logger.L().Debug("connected to MongoDB", zap.String("database", dbName))
	return nil
}

func (a *Adapter) Close(ctx context.Context) error {
	if a.client != nil {
		return a.client.Disconnect(ctx)
	}
	return nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	if a.client == nil {
		return ErrNotConnected
	}
	return a.client.Ping(ctx, nil)
}

// UseDatabase switches the selected database, like `use <name>`.
func (a *Adapter) UseDatabase(name string) {
	if a.client == nil {
		return
	}
	a.database = a.client.Database(name)
	a.dbName = name
}

func (a *Adapter) DatabaseName() string {
	return a.dbName
}

func (a *Adapter) ListDatabaseNames(ctx context.Context) ([]string, error) {
	if a.client == nil {
		return nil, ErrNotConnected
	}
	names, err := a.client.ListDatabaseNames(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	return names, nil
}

func (a *Adapter) ListCollectionNames(ctx context.Context) ([]string, error) {
	if a.database == nil {
		return nil, ErrNotConnected
	}

	names, err := a.database.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	logger.L().Debug("listed collections", zap.String("database", a.dbName), zap.Int("count", len(names)))
	return names, nil
}

func (a *Adapter) CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error) {
	if a.database == nil {
		return 0, ErrNotConnected
	}
	if filter == nil {
		filter = bson.M{}
	}

	count, err := a.database.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents in %s: %w", collection, err)
	}
	return count, nil
}

// FindDocuments returns matching documents in natural order unless a sort is
// given. Field order is preserved.
func (a *Adapter) FindDocuments(ctx context.Context, collection string, opts FindOptions) ([]bson.D, error) {
	if a.database == nil {
		return nil, ErrNotConnected
	}

	filter := opts.Filter
	if filter == nil {
		filter = bson.M{}
	}

	findOpts := options.Find()
	if len(opts.Sort) > 0 {
		findOpts.SetSort(opts.Sort)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}

	cursor, err := a.database.Collection(collection).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find documents in %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.D
	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document from %s: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error on %s: %w", collection, err)
	}
	return docs, nil
}

func (a *Adapter) InsertDocument(ctx context.Context, collection string, document interface{}) (InsertResult, error) {
	if a.database == nil {
		return InsertResult{}, ErrNotConnected
	}

	res, err := a.database.Collection(collection).InsertOne(ctx, document)
	if errors.Is(err, mongo.ErrUnacknowledgedWrite) {
		return InsertResult{Acknowledged: false}, nil
	}
	if err != nil {
		logger.L().Warn("insert failed", zap.String("collection", collection), zap.Error(err))
		return InsertResult{}, err
	}

	logger.L().Debug("inserted document", zap.String("collection", collection), zap.Any("id", res.InsertedID))
	return InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}
