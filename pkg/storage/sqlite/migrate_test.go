package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigration_FreshDatabase(t *testing.T) {
	ctx := context.Background()
	store := initSqlite(t, ctx)

	sqliteStore := store.(*SQLite)
	version, dirty, err := sqliteStore.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	best, err := store.GetQualityProfile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Best", best.Label)
	require.Len(t, best.Items, 3)
	assert.Equal(t, "2160p", best.Items[0].Quality)
	assert.True(t, best.Items[0].Finish)
	assert.False(t, best.Items[1].Finish)
	assert.Equal(t, int32(3), best.Items[1].WaitFor)

	hd, err := store.GetQualityProfile(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "HD", hd.Label)
	item, ok := hd.Item("720p")
	require.True(t, ok)
	assert.True(t, item.Finish)
}

func TestMigration_NotRunYet(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer store.Close()

	version, dirty, err := store.(*SQLite).GetMigrationVersion()
	assert.Error(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)
}

func TestMigration_Idempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.RunMigrations(ctx))
	require.NoError(t, store.Close())

	store, err = New(ctx, path)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.RunMigrations(ctx))

	version, _, err := store.(*SQLite).GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}

func TestMigration_DefaultProfilesPreserveEdits(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.RunMigrations(ctx))

	db := store.(*SQLite).db
	_, err = db.ExecContext(ctx, `UPDATE "quality_profile_item" SET "wait_for" = 10 WHERE "profile_id" = 1 AND "quality" = '1080p'`)
	require.NoError(t, err)

	// a forced re-run of the seed must not reset edited items
	m, err := newMigrate(db)
	require.NoError(t, err)
	require.NoError(t, m.Force(1))
	require.NoError(t, m.Up())

	best, err := store.GetQualityProfile(ctx, 1)
	require.NoError(t, err)
	item, ok := best.Item("1080p")
	require.True(t, ok)
	assert.Equal(t, int32(10), item.WaitFor)

	require.NoError(t, store.Close())
}

func TestMigration_Down(t *testing.T) {
	ctx := context.Background()
	store := initSqlite(t, ctx)
	db := store.(*SQLite).db

	m, err := newMigrate(db)
	require.NoError(t, err)
	require.NoError(t, m.Steps(-1))

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "quality_profile"`).Scan(&count))
	assert.Zero(t, count)

	require.NoError(t, m.Steps(-1))

	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "release"`).Scan(&count)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, sql.ErrNoRows)
}
