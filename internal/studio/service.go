package studio

import (
	"context"
	"fmt"
	"math"

	"github.com/Rana718/docprobe/internal/database/mongodb"
	"github.com/Rana718/docprobe/internal/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500

	// MaxPage keeps the skip well inside int64.
	MaxPage = math.MaxInt32
)

// Store is the read side of the MongoDB adapter.
type Store interface {
	DatabaseName() string
	ListCollectionNames(ctx context.Context) ([]string, error)
	CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error)
	FindDocuments(ctx context.Context, collection string, opts mongodb.FindOptions) ([]bson.D, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) DatabaseName() string {
	return s.store.DatabaseName()
}

// GetCollections lists collections with their document counts. A failed
// count reports zero rather than dropping the collection.
func (s *Service) GetCollections(ctx context.Context) ([]CollectionInfo, error) {
	names, err := s.store.ListCollectionNames(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]CollectionInfo, 0, len(names))
	for _, name := range names {
		count, err := s.store.CountDocuments(ctx, name, bson.M{})
		if err != nil {
			logger.L().Warn("count failed", zap.String("collection", name), zap.Error(err))
			count = 0
		}
		result = append(result, CollectionInfo{Name: name, DocumentCount: count})
	}
	return result, nil
}

// GetDocuments returns one page of a collection in insertion order.
func (s *Service) GetDocuments(ctx context.Context, collection string, page, limit int) (*DocumentResult, error) {
	page, limit = normalizePage(page, limit)

	docs, err := s.store.FindDocuments(ctx, collection, mongodb.FindOptions{
		Skip:  int64(page-1) * int64(limit),
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}

	total, err := s.store.CountDocuments(ctx, collection, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", collection, err)
	}

	rows := make([]map[string]interface{}, 0, len(docs))
	fields := map[string]string{}
	for _, doc := range docs {
		for _, elem := range doc {
			if _, ok := fields[elem.Key]; !ok {
				fields[elem.Key] = mongodb.InferType(elem.Value)
			}
		}
		rows = append(rows, mongodb.ConvertDocument(doc))
	}

	return &DocumentResult{
		Documents:  rows,
		Fields:     fields,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}, nil
}

func (s *Service) CountDocuments(ctx context.Context, collection string) (int64, error) {
	return s.store.CountDocuments(ctx, collection, bson.M{})
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
