package db

import (
	"context"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

// testDatabase connects to MONGO_URI and returns a scratch database, skipping
// the test when no server is reachable.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	if os.Getenv("MONGO_URI") == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	name := os.Getenv("MONGO_DB")
	if name == "" {
		name = "test_yatra"
	}
	return client.Database(name)
}

func freshCollection(t *testing.T, name string) *mongo.Collection {
	t.Helper()
	c := testDatabase(t).Collection(name)
	_ = c.Drop(context.Background())
	t.Cleanup(func() { _ = c.Drop(context.Background()) })
	return c
}
