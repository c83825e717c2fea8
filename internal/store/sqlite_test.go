package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleResult() model.DiscoveryResult {
	r := model.EmptyDiscoveryResult()
	r.Management[model.BucketExecutive] = model.LeaderEntry{Name: "John Smith", Designation: "CEO"}
	r.LeadershipFound = true
	r.Leaders = []model.LeaderRef{{Name: "John Smith", Role: "CEO"}}
	r.Email = "info@example.com"
	return r
}

func TestSQLiteStore_SetGet(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "example.com", sampleResult(), time.Hour))

	cached, err := s.Get(ctx, "example.com")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "example.com", cached.Host)
	assert.True(t, cached.Result.LeadershipFound)
	assert.Equal(t, "John Smith", cached.Result.Management[model.BucketExecutive].Name)
	assert.Equal(t, "info@example.com", cached.Result.Email)
}

func TestSQLiteStore_GetMiss(t *testing.T) {
	s := newTestSQLite(t)

	cached, err := s.Get(context.Background(), "nothere.com")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestSQLiteStore_ExpiredRowIsAMiss(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "example.com", sampleResult(), -time.Minute))

	cached, err := s.Get(ctx, "example.com")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "example.com", model.EmptyDiscoveryResult(), time.Hour))
	require.NoError(t, s.Set(ctx, "example.com", sampleResult(), time.Hour))

	cached, err := s.Get(ctx, "example.com")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.True(t, cached.Result.LeadershipFound)
}

func TestSQLiteStore_DeleteExpired(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "stale.com", sampleResult(), -time.Minute))
	require.NoError(t, s.Set(ctx, "fresh.com", sampleResult(), time.Hour))

	n, err := s.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cached, err := s.Get(ctx, "fresh.com")
	require.NoError(t, err)
	assert.NotNil(t, cached)
}
