package printer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFormatDocument(t *testing.T) {
	oid, err := primitive.ObjectIDFromHex("6526f3a1c2b5e4d3a1b2c3d4")
	require.NoError(t, err)

	doc := bson.D{
		{Key: "_id", Value: oid},
		{Key: "type", Value: "user_registration"},
		{Key: "name", Value: "Test User"},
	}

	out, err := FormatDocument(doc, false)
	require.NoError(t, err)

	want := `{
  "_id": {
    "$oid": "6526f3a1c2b5e4d3a1b2c3d4"
  },
  "type": "user_registration",
  "name": "Test User"
}
`
	assert.Equal(t, want, string(out))
}

func TestFormatDocumentKeepsFieldOrder(t *testing.T) {
	doc := bson.D{{Key: "z", Value: 1}, {Key: "a", Value: 2}}

	out, err := FormatDocument(doc, false)
	require.NoError(t, err)
	assert.Less(t, bytes.Index(out, []byte(`"z"`)), bytes.Index(out, []byte(`"a"`)))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "[]", Names(nil))
	assert.Equal(t, "[ 'userdetail', 'userdetails' ]", Names([]string{"userdetail", "userdetails"}))
}

func TestPrinterWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithColor(&buf, false)

	p.Heading("All documents in %s:", "userdetail")
	p.Success("Insert successful: %v", true)
	p.Error("Insert error: %s", "boom")
	p.Line("Documents in userdetail", 2)

	assert.Equal(t, "All documents in userdetail:\nInsert successful: true\nInsert error: boom\nDocuments in userdetail: 2\n", buf.String())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, `{"a":1}`, FormatValue(map[string]int{"a": 1}))
	assert.Equal(t, "true", FormatValue(true))
}
