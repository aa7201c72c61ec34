package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninjasql/ninjasql/internal/testutil"
)

func setupTestStore(t *testing.T) (*SQLiteStore, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC))
	store := NewSQLiteStore(testutil.NewTestLogger(t), clock)
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate())
	return store, clock
}

func sampleRun(hashes ...string) *Run {
	names := []string{"ddl_staging_STG_a", "scd2_new_insert_PERS_STG_a", "scd2_updated_insert_PERS_STG_a"}
	run := &Run{BatchDate: "2024-01-31", Dialect: "duckdb", Strategy: "templated"}
	for i, h := range hashes {
		run.Artifacts = append(run.Artifacts, ArtifactRecord{Name: names[i], Kind: "k", Unit: "a", Position: i, Hash: h})
	}
	return run
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(nil, nil)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	require.NoError(t, store.Close())
}

func TestSQLiteStore_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	store := NewSQLiteStore(nil, nil)
	require.NoError(t, store.Open(path))
	require.NoError(t, store.Migrate())
	_, err := store.RecordRun(context.Background(), sampleRun("h1"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened := NewSQLiteStore(nil, nil)
	require.NoError(t, reopened.Open(path))
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.Migrate(), "migrations are idempotent")

	latest, err := reopened.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ddl_staging_STG_a": "h1"}, latest.Hashes())
}

func TestSQLiteStore_RecordAndGet(t *testing.T) {
	store, clock := setupTestStore(t)
	ctx := context.Background()

	run, err := store.RecordRun(ctx, sampleRun("h1", "h2"))
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.True(t, clock.Now().Equal(run.StartedAt))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.True(t, run.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, "duckdb", got.Dialect)
	assert.Equal(t, "templated", got.Strategy)
	assert.Equal(t, "2024-01-31", got.BatchDate)
	require.Len(t, got.Artifacts, 2)
	assert.Equal(t, "ddl_staging_STG_a", got.Artifacts[0].Name)
	assert.Equal(t, "h2", got.Artifacts[1].Hash)

	_, err = store.GetRun(ctx, "missing")
	assert.ErrorContains(t, err, "run not found")
}

func TestSQLiteStore_LatestAndList(t *testing.T) {
	store, clock := setupTestStore(t)
	ctx := context.Background()

	_, err := store.LatestRun(ctx)
	require.ErrorIs(t, err, ErrNoRuns)

	first, err := store.RecordRun(ctx, sampleRun("h1"))
	require.NoError(t, err)
	clock.Advance(time.Hour)
	second, err := store.RecordRun(ctx, sampleRun("h1", "h2"))
	require.NoError(t, err)

	latest, err := store.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Len(t, latest.Artifacts, 2)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)
	assert.Equal(t, len(first.Artifacts), runs[1].ArtifactCount)
	assert.Empty(t, runs[0].Artifacts)

	runs, err = store.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLiteStore_DuplicateArtifactRollsBack(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	run := sampleRun("h1")
	run.Artifacts = append(run.Artifacts, run.Artifacts[0])
	_, err := store.RecordRun(ctx, run)
	require.Error(t, err)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil, nil)
	ctx := context.Background()

	_, err := store.RecordRun(ctx, &Run{})
	assert.ErrorIs(t, err, errNotOpened)
	_, err = store.LatestRun(ctx)
	assert.ErrorIs(t, err, errNotOpened)
	assert.ErrorIs(t, store.Migrate(), errNotOpened)
	assert.NoError(t, store.Close())
}

func TestCompare(t *testing.T) {
	previous := map[string]string{"a": "1", "b": "2", "c": "3"}
	current := map[string]string{"a": "1", "b": "20", "d": "4"}

	d := Compare(previous, current)
	assert.Equal(t, []string{"d"}, d.Added)
	assert.Equal(t, []string{"b"}, d.Changed)
	assert.Equal(t, []string{"a"}, d.Unchanged)
	assert.Equal(t, []string{"c"}, d.Removed)
	assert.True(t, d.HasChanges())

	assert.False(t, Compare(current, current).HasChanges())
	assert.Equal(t, []string{"a", "b", "d"}, Compare(nil, current).Added)
}
