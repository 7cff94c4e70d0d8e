package studio

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net"
	"net/http/httptest"
	"testing"

	"github.com/Rana718/docprobe/internal/database/mongodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type memStore struct {
	colls    map[string][]bson.D
	order    []string
	listErr  error
	countErr map[string]error
}

func newMemStore() *memStore {
	return &memStore{colls: map[string][]bson.D{}, countErr: map[string]error{}}
}

func (m *memStore) add(name string, n int) {
	m.order = append(m.order, name)
	for i := 0; i < n; i++ {
		m.colls[name] = append(m.colls[name], bson.D{{Key: "_id", Value: int32(i)}, {Key: "n", Value: int32(i)}})
	}
}

func (m *memStore) DatabaseName() string { return "userdetail" }

func (m *memStore) ListCollectionNames(ctx context.Context) ([]string, error) {
	return m.order, m.listErr
}

func (m *memStore) CountDocuments(ctx context.Context, coll string, filter bson.M) (int64, error) {
	if err := m.countErr[coll]; err != nil {
		return 0, err
	}
	return int64(len(m.colls[coll])), nil
}

func (m *memStore) FindDocuments(ctx context.Context, coll string, opts mongodb.FindOptions) ([]bson.D, error) {
	docs := m.colls[coll]
	if opts.Skip >= int64(len(docs)) {
		return nil, nil
	}
	docs = docs[opts.Skip:]
	if opts.Limit > 0 && int64(len(docs)) > opts.Limit {
		docs = docs[:opts.Limit]
	}
	return docs, nil
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func get[T any](t *testing.T, s *Server, path string) (int, envelope[T]) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out envelope[T]
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	s := NewServer(newMemStore(), 0)
	status, res := get[Health](t, s, "/api/health")
	assert.Equal(t, 200, status)
	assert.True(t, res.Success)
	assert.Equal(t, Health{Status: "ok", Database: "userdetail"}, res.Data)
}

func TestCollections(t *testing.T) {
	store := newMemStore()
	store.add("userdetail", 3)
	store.add("userdetails", 1)
	store.countErr["userdetails"] = errors.New("unauthorized")

	status, res := get[[]CollectionInfo](t, NewServer(store, 0), "/api/collections")
	assert.Equal(t, 200, status)
	assert.Equal(t, []CollectionInfo{
		{Name: "userdetail", DocumentCount: 3},
		{Name: "userdetails", DocumentCount: 0},
	}, res.Data)
}

func TestCollectionsError(t *testing.T) {
	store := newMemStore()
	store.listErr = errors.New("server selection timeout")

	status, res := get[any](t, NewServer(store, 0), "/api/collections")
	assert.Equal(t, 500, status)
	assert.False(t, res.Success)
	assert.Equal(t, "server selection timeout", res.Message)
}

func TestDocumentsPagination(t *testing.T) {
	store := newMemStore()
	store.add("userdetail", 7)
	s := NewServer(store, 0)

	status, res := get[DocumentResult](t, s, "/api/collections/userdetail/documents?page=2&limit=3")
	assert.Equal(t, 200, status)
	assert.Equal(t, int64(7), res.Data.TotalCount)
	assert.Equal(t, 2, res.Data.Page)
	require.Len(t, res.Data.Documents, 3)
	assert.EqualValues(t, 3, res.Data.Documents[0]["n"])
	assert.Equal(t, map[string]string{"_id": "int", "n": "int"}, res.Data.Fields)

	_, res = get[DocumentResult](t, s, "/api/collections/userdetail/documents")
	assert.Equal(t, DefaultLimit, res.Data.Limit)
	assert.Len(t, res.Data.Documents, 7)

	_, res = get[DocumentResult](t, s, "/api/collections/userdetail/documents?limit=10000")
	assert.Equal(t, MaxLimit, res.Data.Limit)
}

func TestDocumentsHugePage(t *testing.T) {
	store := newMemStore()
	store.add("userdetail", 3)

	status, res := get[DocumentResult](t, NewServer(store, 0), "/api/collections/userdetail/documents?page=9223372036854775807&limit=500")
	assert.Equal(t, 200, status)
	assert.Equal(t, MaxPage, res.Data.Page)
	assert.Empty(t, res.Data.Documents, "past the end, not page 1")
}

func TestNormalizePage(t *testing.T) {
	page, limit := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultLimit, limit)

	page, limit = normalizePage(math.MaxInt, MaxLimit+1)
	assert.Equal(t, MaxPage, page)
	assert.Equal(t, MaxLimit, limit)
}

func TestDocumentsBadQuery(t *testing.T) {
	status, res := get[any](t, NewServer(newMemStore(), 0), "/api/collections/userdetail/documents?page=abc")
	assert.Equal(t, 400, status)
	assert.Equal(t, "invalid page", res.Message)
}

func TestCount(t *testing.T) {
	store := newMemStore()
	store.add("userdetails", 2)

	status, res := get[map[string]any](t, NewServer(store, 0), "/api/collections/userdetails/count")
	assert.Equal(t, 200, status)
	assert.Equal(t, "userdetails", res.Data["collection"])
	assert.EqualValues(t, 2, res.Data["count"])
}

func TestFindAvailablePort(t *testing.T) {
	ln, err := net.Listen("tcp4", ":0")
	require.NoError(t, err)
	defer ln.Close()
	busy := ln.Addr().(*net.TCPAddr).Port

	assert.NotEqual(t, busy, FindAvailablePort(busy))
}
