package mongodb

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// ParseFilter decodes a relaxed extended JSON filter. Blank input is {}.
func ParseFilter(s string) (bson.M, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return bson.M{}, nil
	}

	var filter bson.M
	if err := bson.UnmarshalExtJSON([]byte(s), false, &filter); err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", s, err)
	}
	return filter, nil
}

// DatabaseFromURL returns the database named in the connection string path,
// ignoring "admin". It returns "" when none is named or the URL is invalid.
func DatabaseFromURL(url string) string {
	cs, err := connstring.Parse(url)
	if err != nil {
		return ""
	}
	if cs.Database == "admin" {
		return ""
	}
	return cs.Database
}

// ConvertDocument flattens a decoded document into plain Go values suitable
// for JSON, YAML, CSV and SQLite output.
func ConvertDocument(doc bson.D) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for _, elem := range doc {
		out[elem.Key] = ConvertBSONValue(elem.Value)
	}
	return out
}

// ConvertBSONValue converts BSON values to standard Go types.
func ConvertBSONValue(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.M:
		result := make(map[string]interface{}, len(val))
		for k, v := range val {
			result[k] = ConvertBSONValue(v)
		}
		return result
	case bson.D:
		return ConvertDocument(val)
	case bson.A:
		result := make([]interface{}, len(val))
		for i, v := range val {
			result[i] = ConvertBSONValue(v)
		}
		return result
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339Nano)
	case primitive.Decimal128:
		return val.String()
	case primitive.Binary:
		return fmt.Sprintf("Binary(%d, %x)", val.Subtype, val.Data)
	default:
		return v
	}
}

// InferType names the BSON type of a decoded value.
func InferType(value interface{}) string {
	switch value.(type) {
	case string:
		return "string"
	case int32, int64, int:
		return "int"
	case float64, float32:
		return "double"
	case bool:
		return "bool"
	case bson.D, bson.M, map[string]interface{}:
		return "object"
	case bson.A, []interface{}:
		return "array"
	case primitive.ObjectID:
		return "objectId"
	case primitive.DateTime, time.Time:
		return "date"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", value)
	}
}
