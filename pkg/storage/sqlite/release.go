package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/go-jet/jet/v2/sqlite"
	"github.com/kasuboski/snatcher/pkg/storage"
	"github.com/kasuboski/snatcher/pkg/storage/sqlite/schema/gen/model"
	"github.com/kasuboski/snatcher/pkg/storage/sqlite/schema/gen/table"
)

// CreateRelease stores a release and its initial transition
func (s *SQLite) CreateRelease(ctx context.Context, release storage.Release, initialStatus storage.ReleaseStatus) (int64, error) {
	release.Status = storage.ReleaseStatusNew
	if err := release.Machine().ToState(initialStatus); err != nil {
		return 0, err
	}

	if release.LastEdit.IsZero() {
		release.LastEdit = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	columns := table.Release.MutableColumns
	if release.ID != 0 {
		columns = table.Release.AllColumns
	}

	result, err := table.Release.
		INSERT(columns).
		MODEL(release.Release).
		ExecContext(ctx, tx)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	inserted, err := result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	transition := storage.ReleaseTransition{
		ReleaseID:  int32(inserted),
		ToState:    string(initialStatus),
		MostRecent: true,
		SortKey:    1,
	}

	_, err = table.ReleaseTransition.
		INSERT(table.ReleaseTransition.AllColumns.
			Except(table.ReleaseTransition.ID, table.ReleaseTransition.CreatedAt, table.ReleaseTransition.UpdatedAt)).
		MODEL(transition).
		ExecContext(ctx, tx)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return inserted, nil
}

func releaseSelect(where sqlite.BoolExpression) sqlite.SelectStatement {
	return sqlite.
		SELECT(
			table.Release.AllColumns,
			table.ReleaseTransition.ToState).
		FROM(
			table.Release.INNER_JOIN(
				table.ReleaseTransition,
				table.Release.ID.EQ(table.ReleaseTransition.ReleaseID))).
		WHERE(
			table.ReleaseTransition.MostRecent.EQ(sqlite.Bool(true)).
				AND(where))
}

// GetRelease gets a release with its current status
func (s *SQLite) GetRelease(ctx context.Context, id int64) (*storage.Release, error) {
	release := new(storage.Release)
	err := releaseSelect(table.Release.ID.EQ(sqlite.Int64(id))).QueryContext(ctx, s.db, release)
	if err != nil {
		return nil, notFound(err)
	}

	return release, nil
}

// GetReleaseByIdentifier gets a release by its dedupe identifier
func (s *SQLite) GetReleaseByIdentifier(ctx context.Context, identifier string) (*storage.Release, error) {
	release := new(storage.Release)
	err := releaseSelect(table.Release.Identifier.EQ(sqlite.String(identifier))).QueryContext(ctx, s.db, release)
	if err != nil {
		return nil, notFound(err)
	}

	return release, nil
}

// ListReleasesByMedia lists every release owned by a media item
func (s *SQLite) ListReleasesByMedia(ctx context.Context, mediaID int64) ([]*storage.Release, error) {
	stmt := releaseSelect(table.Release.MediaID.EQ(sqlite.Int64(mediaID))).
		ORDER_BY(table.Release.ID.ASC())

	releases := make([]*storage.Release, 0)
	err := stmt.QueryContext(ctx, s.db, &releases)
	return releases, err
}

// ListReleasesByStatus lists releases currently in any of the given statuses, oldest first
func (s *SQLite) ListReleasesByStatus(ctx context.Context, statuses ...storage.ReleaseStatus) ([]*storage.Release, error) {
	releases := make([]*storage.Release, 0)
	if len(statuses) == 0 {
		return releases, nil
	}

	states := make([]sqlite.Expression, len(statuses))
	for i, status := range statuses {
		states[i] = sqlite.String(string(status))
	}

	stmt := releaseSelect(table.ReleaseTransition.ToState.IN(states...)).
		ORDER_BY(table.Release.ID.ASC())

	err := stmt.QueryContext(ctx, s.db, &releases)
	return releases, err
}

// ListReleaseTransitions returns the status history of a release, oldest first
func (s *SQLite) ListReleaseTransitions(ctx context.Context, id int64) ([]*storage.ReleaseTransition, error) {
	stmt := table.ReleaseTransition.
		SELECT(table.ReleaseTransition.AllColumns).
		FROM(table.ReleaseTransition).
		WHERE(table.ReleaseTransition.ReleaseID.EQ(sqlite.Int64(id))).
		ORDER_BY(table.ReleaseTransition.SortKey.ASC())

	transitions := make([]*storage.ReleaseTransition, 0)
	err := stmt.QueryContext(ctx, s.db, &transitions)
	return transitions, err
}

// UpdateRelease updates the quality, info, files and last edit of a release. Status is not touched.
func (s *SQLite) UpdateRelease(ctx context.Context, release model.Release) error {
	if release.LastEdit.IsZero() {
		release.LastEdit = time.Now().UTC()
	}

	stmt := table.Release.
		UPDATE(
			table.Release.Quality,
			table.Release.Info,
			table.Release.Files,
			table.Release.LastEdit).
		MODEL(release).
		WHERE(table.Release.ID.EQ(sqlite.Int32(release.ID)))

	result, err := s.handleStatement(ctx, stmt)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// UpdateReleaseStatus records a new status transition and stamps the release last edit with at
func (s *SQLite) UpdateReleaseStatus(ctx context.Context, id int64, status storage.ReleaseStatus, at time.Time) error {
	release, err := s.GetRelease(ctx, id)
	if err != nil {
		return err
	}

	if err := release.Machine().ToState(status); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	previousTransitionStmt := table.ReleaseTransition.
		UPDATE().
		SET(
			table.ReleaseTransition.MostRecent.SET(sqlite.Bool(false)),
			table.ReleaseTransition.UpdatedAt.SET(timestamp(at))).
		WHERE(
			table.ReleaseTransition.ReleaseID.EQ(sqlite.Int64(id)).
				AND(table.ReleaseTransition.MostRecent.EQ(sqlite.Bool(true)))).
		RETURNING(table.ReleaseTransition.AllColumns)

	var previousTransition storage.ReleaseTransition
	err = previousTransitionStmt.QueryContext(ctx, tx, &previousTransition)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to close previous transition: %w", err)
	}

	transition := storage.ReleaseTransition{
		ReleaseID:  int32(id),
		ToState:    string(status),
		MostRecent: true,
		SortKey:    previousTransition.SortKey + 1,
	}

	_, err = table.ReleaseTransition.
		INSERT(table.ReleaseTransition.AllColumns.
			Except(table.ReleaseTransition.ID, table.ReleaseTransition.CreatedAt, table.ReleaseTransition.UpdatedAt)).
		MODEL(transition).
		ExecContext(ctx, tx)
	if err != nil {
		tx.Rollback()
		return err
	}

	_, err = table.Release.
		UPDATE().
		SET(table.Release.LastEdit.SET(timestamp(at))).
		WHERE(table.Release.ID.EQ(sqlite.Int64(id))).
		ExecContext(ctx, tx)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// DeleteRelease removes a release and its transitions
func (s *SQLite) DeleteRelease(ctx context.Context, id int64) error {
	stmt := table.Release.DELETE().WHERE(table.Release.ID.EQ(sqlite.Int64(id)))
	_, err := s.handleDelete(ctx, stmt)
	return err
}
