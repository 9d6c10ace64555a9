package sqlite

import (
	"context"
	"time"

	"github.com/go-jet/jet/v2/sqlite"
	"github.com/kasuboski/snatcher/pkg/storage"
	"github.com/kasuboski/snatcher/pkg/storage/sqlite/schema/gen/model"
	"github.com/kasuboski/snatcher/pkg/storage/sqlite/schema/gen/table"
)

// CreateMedia stores a wanted media item. New media are active unless a status is given.
func (s *SQLite) CreateMedia(ctx context.Context, media model.Media) (int64, error) {
	if media.Status == "" {
		media.Status = string(storage.MediaStatusActive)
	}
	if media.LastEdit.IsZero() {
		media.LastEdit = time.Now().UTC()
	}

	columns := table.Media.MutableColumns
	if media.ID != 0 {
		columns = table.Media.AllColumns
	}

	stmt := table.Media.INSERT(columns).MODEL(media)
	result, err := s.handleInsert(ctx, stmt)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

func (s *SQLite) GetMedia(ctx context.Context, id int64) (*model.Media, error) {
	return s.getMedia(ctx, table.Media.ID.EQ(sqlite.Int64(id)))
}

func (s *SQLite) GetMediaByIdentifier(ctx context.Context, identifier string) (*model.Media, error) {
	return s.getMedia(ctx, table.Media.Identifier.EQ(sqlite.String(identifier)))
}

func (s *SQLite) getMedia(ctx context.Context, where sqlite.BoolExpression) (*model.Media, error) {
	stmt := table.Media.
		SELECT(table.Media.AllColumns).
		FROM(table.Media).
		WHERE(where)

	media := new(model.Media)
	err := stmt.QueryContext(ctx, s.db, media)
	if err != nil {
		return nil, notFound(err)
	}

	return media, nil
}

// ListMediaByStatus lists media with the given status ordered by id
func (s *SQLite) ListMediaByStatus(ctx context.Context, status storage.MediaStatus) ([]*model.Media, error) {
	stmt := table.Media.
		SELECT(table.Media.AllColumns).
		FROM(table.Media).
		WHERE(table.Media.Status.EQ(sqlite.String(string(status)))).
		ORDER_BY(table.Media.ID.ASC())

	media := make([]*model.Media, 0)
	err := stmt.QueryContext(ctx, s.db, &media)
	return media, err
}

// UpdateMediaStatus sets the media status and stamps its last edit
func (s *SQLite) UpdateMediaStatus(ctx context.Context, id int64, status storage.MediaStatus) error {
	stmt := table.Media.
		UPDATE().
		SET(
			table.Media.Status.SET(sqlite.String(string(status))),
			table.Media.LastEdit.SET(timestamp(time.Now()))).
		WHERE(table.Media.ID.EQ(sqlite.Int64(id)))

	_, err := s.handleStatement(ctx, stmt)
	return err
}

// DeleteMedia removes a media item and, through the foreign key, its releases
func (s *SQLite) DeleteMedia(ctx context.Context, id int64) error {
	stmt := table.Media.DELETE().WHERE(table.Media.ID.EQ(sqlite.Int64(id)))
	_, err := s.handleDelete(ctx, stmt)
	return err
}
