package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rana718/docprobe/internal/database/mongodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/yaml.v3"
)

type fakeSource map[string][]bson.D

func (f fakeSource) FindDocuments(ctx context.Context, collection string, opts mongodb.FindOptions) ([]bson.D, error) {
	docs, ok := f[collection]
	if !ok {
		return nil, errors.New("ns not found")
	}
	return docs, nil
}

func fixedNow(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2025, 10, 8, 19, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
}

func sampleSource() fakeSource {
	return fakeSource{
		"userdetail": {
			{{Key: "_id", Value: "1"}, {Key: "email", Value: "a@b.c"}, {Key: "name", Value: "Ann"}},
			{{Key: "_id", Value: "2"}, {Key: "email", Value: "d@e.f"}, {Key: "tags", Value: bson.A{"x"}}},
		},
		"userdetails": {},
	}
}

func TestExportJSON(t *testing.T) {
	fixedNow(t)
	dir := t.TempDir()

	path, err := PerformExport(context.Background(), sampleSource(), "userdetail", []string{"userdetail", "userdetails"}, dir, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export_2025-10-08_19-00-00.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var data Data
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Equal(t, "userdetail", data.Database)
	assert.Len(t, data.Collections["userdetail"], 2)
	assert.Empty(t, data.Collections["userdetails"])
}

func TestExportYAML(t *testing.T) {
	fixedNow(t)
	dir := t.TempDir()

	path, err := PerformExport(context.Background(), sampleSource(), "userdetail", []string{"userdetail"}, dir, FormatYAML)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var data Data
	require.NoError(t, yaml.Unmarshal(raw, &data))
	require.Len(t, data.Collections["userdetail"], 2)
	assert.Equal(t, "a@b.c", data.Collections["userdetail"][0]["email"])
}

func TestExportCSV(t *testing.T) {
	fixedNow(t)
	dir := t.TempDir()

	path, err := PerformExport(context.Background(), sampleSource(), "userdetail", []string{"userdetail", "userdetails"}, dir, FormatCSV)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(path, "userdetail.csv"))
	require.NoError(t, err)
	assert.Equal(t, "_id,email,name,tags\n1,a@b.c,Ann,\n2,d@e.f,,\"[\"\"x\"\"]\"\n", string(raw))

	_, err = os.Stat(filepath.Join(path, "userdetails.csv"))
	assert.True(t, os.IsNotExist(err), "empty collections are skipped")
}

func TestExportSQLite(t *testing.T) {
	fixedNow(t)
	dir := t.TempDir()

	path, err := PerformExport(context.Background(), sampleSource(), "userdetail", []string{"userdetail"}, dir, FormatSQLite)
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "userdetail"`).Scan(&count))
	assert.Equal(t, 2, count)

	var name sql.NullString
	require.NoError(t, db.QueryRow(`SELECT name FROM "userdetail" WHERE email = ?`, "d@e.f").Scan(&name))
	assert.False(t, name.Valid)
}

func TestExportNothing(t *testing.T) {
	path, err := PerformExport(context.Background(), sampleSource(), "userdetail", nil, t.TempDir(), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestExportErrors(t *testing.T) {
	_, err := PerformExport(context.Background(), sampleSource(), "userdetail", []string{"missing"}, t.TempDir(), FormatJSON)
	assert.ErrorContains(t, err, "missing")

	_, err = PerformExport(context.Background(), sampleSource(), "userdetail", []string{"userdetail"}, t.TempDir(), "xml")
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestExportCSVKeepsFilesInside(t *testing.T) {
	fixedNow(t)
	dir := t.TempDir()
	src := fakeSource{"../evil": {{{Key: "_id", Value: "1"}}}}

	path, err := PerformExport(context.Background(), src, "userdetail", []string{"../evil"}, dir, FormatCSV)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(path, ".._evil.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "evil.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"userdetail": "userdetail",
		"a/b":        "a_b",
		`a\b`:        "a_b",
		"..":         "_..",
		"":           "_",
		"x:y*z?":     "x_y_z_",
	}
	for in, want := range tests {
		assert.Equal(t, want, fileName(in), in)
	}
}

func TestExportSQLiteCreateFailure(t *testing.T) {
	fixedNow(t)
	src := fakeSource{"userdetail": {{{Key: "A", Value: "1"}, {Key: "a", Value: "2"}}}}

	_, err := PerformExport(context.Background(), src, "userdetail", []string{"userdetail"}, t.TempDir(), FormatSQLite)
	assert.ErrorContains(t, err, "failed to create table userdetail")
}

type flakyExec struct {
	calls int
}

func (f *flakyExec) Exec(query string, args ...interface{}) (sql.Result, error) {
	f.calls++
	if f.calls%2 == 0 {
		return nil, errors.New("constraint failed")
	}
	return nil, nil
}

func TestInsertRowsReportsFailures(t *testing.T) {
	rows := []map[string]interface{}{{"a": 1}, {"a": 2}, {"a": 3}, {"a": 4}}

	db := &flakyExec{}
	err := insertRows(db, "INSERT", []string{"a"}, rows)
	require.Error(t, err)
	assert.Equal(t, 4, db.calls, "every row is attempted")
	assert.EqualError(t, err, "2 of 4 rows not inserted: constraint failed")

	assert.NoError(t, insertRows(&flakyExec{}, "INSERT", []string{"a"}, rows[:1]))
}
