package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/deppfellow/gastro-routes/internal/model"
	"github.com/deppfellow/gastro-routes/internal/sqlerr"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const activitiesTable = "activities"

var activityColumns = []string{
	"id", "name", "description", "duration", "cost", "location",
	"city", "state", "image_url", "activity_type", "is_active",
}

const returningActivity = "RETURNING id, name, description, duration, cost, location, city, state, image_url, activity_type, is_active"

type ActivityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a model.Activity) (*model.Activity, error) {
	query, args, err := psql.Insert(activitiesTable).
		Columns("name", "description", "duration", "cost", "location", "city", "state", "image_url", "activity_type", "is_active").
		Values(a.Name, a.Description, a.Duration, a.Cost, a.Location, a.City, a.State, a.ImageURL, a.ActivityType, a.IsActive).
		Suffix(returningActivity).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build insert activity")
	}

	var activity model.Activity
	if err := r.db.GetContext(ctx, &activity, query, args...); err != nil {
		return nil, errors.Wrap(err, "insert activity")
	}

	return &activity, nil
}

func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*model.Activity, error) {
	query, args, err := psql.Select(activityColumns...).
		From(activitiesTable).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build get activity")
	}

	var activity model.Activity
	if err := r.db.GetContext(ctx, &activity, query, args...); err != nil {
		return nil, wrapNoRows(err, "get activity", activitiesTable)
	}

	return &activity, nil
}

// List returns activities ordered by id. City matches as a case
// insensitive substring.
func (r *ActivityRepository) List(ctx context.Context, f model.ActivityFilter) ([]model.Activity, error) {
	b := psql.Select(activityColumns...).From(activitiesTable).OrderBy("id")

	if f.City != "" {
		b = b.Where(squirrel.ILike{"city": "%" + f.City + "%"})
	}

	switch f.Status {
	case model.ActivityStatusActive:
		b = b.Where("is_active = ?", true)
	case model.ActivityStatusInactive:
		b = b.Where("is_active = ?", false)
	}

	query, args, err := page(b, f.Skip, f.Limit).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list activities")
	}

	activities := []model.Activity{}
	if err := r.db.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, errors.Wrap(err, "list activities")
	}

	return activities, nil
}

// Update writes the given columns and returns the stored row. With no
// columns nothing is written.
func (r *ActivityRepository) Update(ctx context.Context, id int64, columns map[string]any) (*model.Activity, error) {
	if len(columns) == 0 {
		return r.GetByID(ctx, id)
	}

	query, args, err := psql.Update(activitiesTable).
		SetMap(columns).
		Where("id = ?", id).
		Suffix(returningActivity).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build update activity")
	}

	var activity model.Activity
	if err := r.db.GetContext(ctx, &activity, query, args...); err != nil {
		return nil, wrapNoRows(err, "update activity", activitiesTable)
	}

	return &activity, nil
}

// ToggleActive flips is_active in place and returns the new value.
func (r *ActivityRepository) ToggleActive(ctx context.Context, id int64) (bool, error) {
	query, args, err := psql.Update(activitiesTable).
		Set("is_active", squirrel.Expr("NOT is_active")).
		Where("id = ?", id).
		Suffix("RETURNING is_active").
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "build toggle activity")
	}

	var active bool
	if err := r.db.GetContext(ctx, &active, query, args...); err != nil {
		return false, wrapNoRows(err, "toggle activity", activitiesTable)
	}

	return active, nil
}

// Delete removes an activity. Deleting can only trip a foreign key from the
// referencing side, so a violation is marked as a restricted delete.
func (r *ActivityRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete(activitiesTable).Where("id = ?", id).ToSql()
	if err != nil {
		return errors.Wrap(err, "build delete activity")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(sqlerr.Restricted(err, activitiesTable), "delete activity")
	}

	return expectAffected(res, "delete activity", activitiesTable)
}
