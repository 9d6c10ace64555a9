package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/kasuboski/snatcher/pkg/machine"
	"github.com/kasuboski/snatcher/pkg/storage"
	"github.com/kasuboski/snatcher/pkg/storage/sqlite/schema/gen/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestMedia(t *testing.T, ctx context.Context, store storage.Storage, identifier string) int64 {
	t.Helper()
	id, err := store.CreateMedia(ctx, model.Media{Identifier: identifier, Title: "Movie " + identifier})
	require.NoError(t, err)
	return id
}

func TestReleaseStorage(t *testing.T) {
	ctx := context.Background()
	store := initSqlite(t, ctx)
	mediaID := createTestMedia(t, ctx, store, "tt0133093")

	info, err := storage.ReleaseInfo{storage.InfoName: "The.Matrix.1999.1080p", storage.InfoScore: "40"}.Encode()
	require.NoError(t, err)

	release := storage.Release{
		Release: model.Release{
			MediaID:    int32(mediaID),
			Identifier: "abc123",
			Quality:    "1080p",
			Info:       info,
		},
	}

	id, err := store.CreateRelease(ctx, release, storage.ReleaseStatusAvailable)
	require.NoError(t, err)
	assert.NotZero(t, id)

	t.Run("duplicate identifier", func(t *testing.T) {
		_, err := store.CreateRelease(ctx, release, storage.ReleaseStatusAvailable)
		assert.Error(t, err)
	})

	t.Run("invalid initial status", func(t *testing.T) {
		release := release
		release.Identifier = "other"
		_, err := store.CreateRelease(ctx, release, storage.ReleaseStatusSeeding)
		assert.ErrorIs(t, err, machine.ErrInvalidTransition)
	})

	got, err := store.GetRelease(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, storage.ReleaseStatusAvailable, got.Status)
	assert.Equal(t, "abc123", got.Identifier)

	parsed, err := got.ParsedInfo()
	require.NoError(t, err)
	assert.Equal(t, "The.Matrix.1999.1080p", parsed.Name())
	assert.Equal(t, float64(40), parsed.Score())

	byIdentifier, err := store.GetReleaseByIdentifier(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, got.ID, byIdentifier.ID)

	_, err = store.GetReleaseByIdentifier(ctx, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	err = store.UpdateReleaseStatus(ctx, id, storage.ReleaseStatusSnatched, at)
	require.NoError(t, err)

	got, err = store.GetRelease(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, storage.ReleaseStatusSnatched, got.Status)
	assert.True(t, at.Equal(got.LastEdit), "last edit %v", got.LastEdit)

	err = store.UpdateReleaseStatus(ctx, id, storage.ReleaseStatusAvailable, at)
	assert.ErrorIs(t, err, machine.ErrInvalidTransition)

	inFlight, err := store.ListReleasesByStatus(ctx, storage.InFlightStatuses...)
	require.NoError(t, err)
	require.Len(t, inFlight, 1)
	assert.Equal(t, got.ID, inFlight[0].ID)

	available, err := store.ListReleasesByStatus(ctx, storage.ReleaseStatusAvailable)
	require.NoError(t, err)
	assert.Empty(t, available)

	none, err := store.ListReleasesByStatus(ctx)
	require.NoError(t, err)
	assert.Empty(t, none)

	transitions, err := store.ListReleaseTransitions(ctx, id)
	require.NoError(t, err)
	require.Len(t, transitions, 2)
	assert.Equal(t, string(storage.ReleaseStatusAvailable), transitions[0].ToState)
	assert.False(t, transitions[0].MostRecent)
	assert.Equal(t, int32(1), transitions[0].SortKey)
	assert.Equal(t, string(storage.ReleaseStatusSnatched), transitions[1].ToState)
	assert.True(t, transitions[1].MostRecent)
	assert.Equal(t, int32(2), transitions[1].SortKey)

	files, err := storage.EncodeFiles([]string{"/downloads/matrix/matrix.mkv"})
	require.NoError(t, err)
	got.Files = files
	got.Quality = "720p"
	got.LastEdit = time.Time{}
	err = store.UpdateRelease(ctx, got.Release)
	require.NoError(t, err)

	got, err = store.GetRelease(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "720p", got.Quality)
	assert.Equal(t, storage.ReleaseStatusSnatched, got.Status)
	fileList, err := got.FileList()
	require.NoError(t, err)
	assert.Equal(t, []string{"/downloads/matrix/matrix.mkv"}, fileList)

	err = store.UpdateRelease(ctx, model.Release{ID: 9999})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	byMedia, err := store.ListReleasesByMedia(ctx, mediaID)
	require.NoError(t, err)
	assert.Len(t, byMedia, 1)

	err = store.DeleteRelease(ctx, id)
	require.NoError(t, err)

	_, err = store.GetRelease(ctx, id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	transitions, err = store.ListReleaseTransitions(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, transitions)
}

func TestDeleteMediaCascadesReleases(t *testing.T) {
	ctx := context.Background()
	store := initSqlite(t, ctx)
	mediaID := createTestMedia(t, ctx, store, "tt0000001")

	id, err := store.CreateRelease(ctx, storage.Release{
		Release: model.Release{MediaID: int32(mediaID), Identifier: "cascade"},
	}, storage.ReleaseStatusAvailable)
	require.NoError(t, err)

	err = store.DeleteMedia(ctx, mediaID)
	require.NoError(t, err)

	_, err = store.GetRelease(ctx, id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreateReleaseRequiresMedia(t *testing.T) {
	ctx := context.Background()
	store := initSqlite(t, ctx)

	_, err := store.CreateRelease(ctx, storage.Release{
		Release: model.Release{MediaID: 404, Identifier: "orphan"},
	}, storage.ReleaseStatusAvailable)
	assert.Error(t, err)
}
