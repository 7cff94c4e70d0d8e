package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Rana718/docprobe/internal/database/mongodb"
	"github.com/Rana718/docprobe/internal/logger"
	_ "github.com/mattn/go-sqlite3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON   = "json"
	FormatCSV    = "csv"
	FormatYAML   = "yaml"
	FormatSQLite = "sqlite"
)

// Source reads documents from a collection.
type Source interface {
	FindDocuments(ctx context.Context, collection string, opts mongodb.FindOptions) ([]bson.D, error)
}

// Data is the exported snapshot.
type Data struct {
	Timestamp   string                              `json:"timestamp" yaml:"timestamp"`
	Version     string                              `json:"version" yaml:"version"`
	Database    string                              `json:"database" yaml:"database"`
	Collections map[string][]map[string]interface{} `json:"collections" yaml:"collections"`
}

// now is replaced in tests.
var now = time.Now

// PerformExport fetches every collection concurrently and writes them in
// format under exportPath. It returns the written path, or "" when there is
// nothing to export.
func PerformExport(ctx context.Context, src Source, database string, collections []string, exportPath, format string) (string, error) {
	if len(collections) == 0 {
		logger.L().Info("no collections to export")
		return "", nil
	}

	data := Data{
		Timestamp:   now().Format("2006-01-02 15:04:05"),
		Version:     "1.0",
		Database:    database,
		Collections: make(map[string][]map[string]interface{}, len(collections)),
	}

	type collResult struct {
		name string
		docs []bson.D
		err  error
	}

	results := make(chan collResult, len(collections))
	var wg sync.WaitGroup

	for _, name := range collections {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			docs, err := src.FindDocuments(ctx, name, mongodb.FindOptions{})
			results <- collResult{name, docs, err}
		}(name)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to read collection %s: %w", res.name, res.err)
			}
			continue
		}
		rows := make([]map[string]interface{}, 0, len(res.docs))
		for _, doc := range res.docs {
			rows = append(rows, mongodb.ConvertDocument(doc))
		}
		data.Collections[res.name] = rows
	}
	if firstErr != nil {
		return "", firstErr
	}

	if err := os.MkdirAll(exportPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	base := filepath.Join(exportPath, fmt.Sprintf("export_%s", now().Format("2006-01-02_15-04-05")))
	logger.L().Debug("exporting", zap.String("format", format), zap.Int("collections", len(collections)))

	switch format {
	case FormatCSV:
		return exportToCSV(data, base+"_csv")
	case FormatYAML:
		return exportToYAML(data, base+".yaml")
	case FormatSQLite:
		return exportToSQLite(data, base+".db")
	case FormatJSON, "":
		return exportToJSON(data, base+".json")
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func exportToJSON(data Data, filePath string) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filePath, nil
}

func exportToYAML(data Data, filePath string) (string, error) {
	yamlData, err := yaml.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := os.WriteFile(filePath, yamlData, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filePath, nil
}

func exportToCSV(data Data, dirPath string) (string, error) {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create CSV directory: %w", err)
	}

	for name, rows := range data.Collections {
		if len(rows) == 0 {
			continue
		}
		if err := writeCSV(filepath.Join(dirPath, fileName(name)+".csv"), rows); err != nil {
			return "", fmt.Errorf("failed to write CSV for %s: %w", name, err)
		}
	}
	return dirPath, nil
}

func writeCSV(path string, rows []map[string]interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	headers := columnsOf(rows)
	w := csv.NewWriter(file)
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		values := make([]string, len(headers))
		for i, h := range headers {
			values[i] = cellValue(row[h])
		}
		if err := w.Write(values); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func exportToSQLite(data Data, filePath string) (string, error) {
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create SQLite database: %w", err)
	}
	defer db.Close()

	names := make([]string, 0, len(data.Collections))
	for name := range data.Collections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rows := data.Collections[name]
		if len(rows) == 0 {
			continue
		}

		columns := columnsOf(rows)
		quoted := make([]string, len(columns))
		for i, c := range columns {
			quoted[i] = quoteIdent(c)
		}

		defs := make([]string, len(quoted))
		for i, q := range quoted {
			defs[i] = q + " TEXT"
		}
		createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
		if _, err := db.Exec(createSQL); err != nil {
			return "", fmt.Errorf("failed to create table %s: %w", name, err)
		}

		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
		insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(name), strings.Join(quoted, ", "), placeholders)

		if err := insertRows(db, insertSQL, columns, rows); err != nil {
			return "", fmt.Errorf("failed to export %s: %w", name, err)
		}
	}

	return filePath, nil
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// insertRows writes every row and fails if any insert did.
func insertRows(db execer, insertSQL string, columns []string, rows []map[string]interface{}) error {
	var failed int
	var firstErr error
	for _, row := range rows {
		values := make([]interface{}, len(columns))
		for i, c := range columns {
			if v, ok := row[c]; ok && v != nil {
				values[i] = cellValue(v)
			}
		}
		if _, err := db.Exec(insertSQL, values...); err != nil {
			logger.L().Warn("failed to insert row", zap.Error(err))
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d rows not inserted: %w", failed, len(rows), firstErr)
	}
	return nil
}

// columnsOf returns the sorted union of keys across rows.
func columnsOf(rows []map[string]interface{}) []string {
	seen := map[string]struct{}{}
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// cellValue flattens nested values to JSON so they fit a single cell.
func cellValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", val)
	}
}

var unsafeFileChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_", "\x00", "_",
)

// fileName turns a collection name into a name that stays inside the export
// directory.
func fileName(collection string) string {
	name := unsafeFileChars.Replace(collection)
	if name == "" || strings.Trim(name, ".") == "" {
		name = "_" + name
	}
	return name
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
