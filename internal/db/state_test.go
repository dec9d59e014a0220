package db

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/yatra-planner/internal/planner"
)

// exerciseStateStore checks the Load/Save contract shared by every backend.
func exerciseStateStore(t *testing.T, s planner.Storage) {
	t.Helper()
	ctx := context.Background()

	_, found, err := s.Load(ctx, "yatra:plan:u1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Save(ctx, "yatra:plan:u1", `{"version":2,"items":[]}`))
	require.NoError(t, s.Save(ctx, "yatra:plan:u1", `{"version":2,"items":[{"destination":{"id":"puri"}}]}`))
	require.NoError(t, s.Save(ctx, "yatra:plan:u2", `[]`))

	v, found, err := s.Load(ctx, "yatra:plan:u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"version":2,"items":[{"destination":{"id":"puri"}}]}`, v)

	v, found, err = s.Load(ctx, "yatra:plan:u2")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, v)
}

func TestRedisStateStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	exerciseStateStore(t, &RedisStateStore{Client: client})
	assert.True(t, mr.Exists("yatra:plan:u1"))
}

func TestRedisStateStore_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	s := &RedisStateStore{Client: client}
	_, _, err = s.Load(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, s.Save(context.Background(), "k", "v"))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisClient(context.Background(), addr)
	assert.Error(t, err)
}

func TestSQLStateStore_SQLite(t *testing.T) {
	db, err := OpenSQL(DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, InitStateSchema(context.Background(), db))
	require.NoError(t, InitStateSchema(context.Background(), db))

	exerciseStateStore(t, &SQLStateStore{DB: db, Driver: DriverSQLite})
}

func TestInitStateSchema_NilDB(t *testing.T) {
	assert.Error(t, InitStateSchema(context.Background(), nil))
}

func TestSQLStateStore_Rebind(t *testing.T) {
	pg := &SQLStateStore{Driver: DriverPostgres}
	assert.Equal(t, "VALUES ($1, $2)", pg.rebind("VALUES (?, ?)"))

	lite := &SQLStateStore{Driver: DriverSQLite}
	assert.Equal(t, "VALUES (?, ?)", lite.rebind("VALUES (?, ?)"))
}

func TestMongoStateStore(t *testing.T) {
	exerciseStateStore(t, &MongoStateStore{Collection: freshCollection(t, "plan_state")})
}

func TestMongoStateStore_NilCollection(t *testing.T) {
	s := &MongoStateStore{}
	_, _, err := s.Load(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, s.Save(context.Background(), "k", "v"))
}
