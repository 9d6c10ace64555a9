package sqlite

import (
	"context"

	"github.com/go-jet/jet/v2/sqlite"
	"github.com/kasuboski/snatcher/pkg/storage"
	"github.com/kasuboski/snatcher/pkg/storage/sqlite/schema/gen/model"
	"github.com/kasuboski/snatcher/pkg/storage/sqlite/schema/gen/table"
)

func (s *SQLite) CreateQualityProfile(ctx context.Context, profile model.QualityProfile) (int64, error) {
	columns := table.QualityProfile.MutableColumns
	if profile.ID != 0 {
		columns = table.QualityProfile.AllColumns
	}

	stmt := table.QualityProfile.INSERT(columns).MODEL(profile)
	result, err := s.handleInsert(ctx, stmt)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

func (s *SQLite) CreateQualityProfileItem(ctx context.Context, item model.QualityProfileItem) (int64, error) {
	columns := table.QualityProfileItem.MutableColumns
	if item.ID != 0 {
		columns = table.QualityProfileItem.AllColumns
	}

	stmt := table.QualityProfileItem.INSERT(columns).MODEL(item)
	result, err := s.handleInsert(ctx, stmt)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// GetQualityProfile gets a quality profile and its items in sort order
func (s *SQLite) GetQualityProfile(ctx context.Context, id int64) (storage.QualityProfile, error) {
	stmt := sqlite.
		SELECT(
			table.QualityProfile.AllColumns,
			table.QualityProfileItem.AllColumns,
		).
		FROM(
			table.QualityProfile.LEFT_JOIN(
				table.QualityProfileItem, table.QualityProfileItem.ProfileID.EQ(table.QualityProfile.ID)),
		).
		WHERE(table.QualityProfile.ID.EQ(sqlite.Int64(id))).
		ORDER_BY(table.QualityProfileItem.SortOrder.ASC(), table.QualityProfileItem.ID.ASC())

	var result storage.QualityProfile
	err := stmt.QueryContext(ctx, s.db, &result)
	if err != nil {
		return result, notFound(err)
	}

	return result, nil
}
