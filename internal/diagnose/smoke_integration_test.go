//go:build integration

package diagnose

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Rana718/docprobe/internal/database/mongodb"
	"github.com/Rana718/docprobe/internal/printer"
	"github.com/Rana718/docprobe/internal/registration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSmokeAgainstMongo(t *testing.T) {
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:6")
	require.NoError(t, err, "failed to start mongo container")
	defer func() { _ = testcontainers.TerminateContainer(container) }()

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	adapter := mongodb.New()
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	require.NoError(t, adapter.Connect(connectCtx, uri, "userdetail"))
	defer adapter.Close(ctx)

	_, err = adapter.InsertDocument(ctx, "userdetails", bson.M{"email": "old@example.com"})
	require.NoError(t, err)

	var buf bytes.Buffer
	rep, err := NewRunner(adapter, printer.NewWithColor(&buf, false)).Smoke(ctx, SmokeOptions{
		Collection: "userdetail",
		Shadow:     "userdetails",
		Document:   registration.TestRecord(),
		Assert:     true,
	})
	require.NoError(t, err, buf.String())

	assert.True(t, rep.Landed(), buf.String())
	assert.Equal(t, int64(1), rep.Delta("userdetail"))
	assert.Zero(t, rep.Delta("userdetails"))
	assert.Equal(t, int64(1), rep.Counts["userdetails"])
	assert.Contains(t, rep.After, "userdetail")

	require.Len(t, rep.Documents["userdetail"], 1)
	assert.Equal(t, "test@example.com", mongodb.ConvertDocument(rep.Documents["userdetail"][0])["email"])
}
