//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"courtbook/pkg/client"
	"courtbook/pkg/config"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTestMongoURI = "mongodb://localhost:27017"
	testDatabaseName    = "courtbook_test"
	connectionTimeout   = 5 * time.Second
)

// newTestRepository connects to MONGO_URI and skips the test when no server
// answers. The Courts collection is dropped before and after the test.
func newTestRepository(t *testing.T) *mongoCourtRepository {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = defaultTestMongoURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
	if err := c.Ping(ctx, nil); err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}

	cfg := &config.Config{
		Log:               logger.Discard(),
		MongoDatabaseName: testDatabaseName,
		ReadTimeout:       connectionTimeout,
		WriteTimeout:      connectionTimeout,
		Client:            &client.Client{Mongo: &client.MongoClient{Client: c}},
	}
	repo := NewMongoCourtRepository(cfg)

	drop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()
		if err := repo.collection.Drop(ctx); err != nil {
			t.Logf("warning: failed to drop %s: %v", CollectionName, err)
		}
	}
	drop()
	t.Cleanup(func() {
		drop()
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()
		if err := c.Disconnect(ctx); err != nil {
			t.Logf("warning: failed to disconnect from MongoDB: %v", err)
		}
	})
	return repo
}

func TestMongoCourtRepository_StaleWriteLoses(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, model.Court{ID: "C1", Category: model.CategorySingles, Status: model.CourtUnavailable, Version: 2}))
	require.NoError(t, repo.Save(ctx, model.Court{ID: "C1", Category: model.CategorySingles, Status: model.CourtAvailable, Version: 1}))
	require.NoError(t, repo.Save(ctx, model.Court{ID: "C1", Category: model.CategorySingles, Status: model.CourtAvailable, Version: 2}))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, model.CourtUnavailable, loaded[0].Status)
	require.EqualValues(t, 2, loaded[0].Version)
}

func TestMongoCourtRepository_LoadAllInFirstSaveOrder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, model.Court{ID: "C9", Category: model.CategoryDoubles, Status: model.CourtAvailable, Version: 1}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.OnCourtChanged(ctx, model.Court{ID: "C1", Category: model.CategorySingles, Status: model.CourtAvailable, Version: 1}))
	require.NoError(t, repo.Save(ctx, model.Court{ID: "C9", Category: model.CategoryDoubles, Status: model.CourtUnavailable, Version: 2}))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, "C9", loaded[0].ID)
	require.Equal(t, model.CourtUnavailable, loaded[0].Status)
	require.Equal(t, "C1", loaded[1].ID)
}
