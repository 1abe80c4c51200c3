package repository

import (
	"context"

	"github.com/deppfellow/gastro-routes/internal/model"
	"github.com/deppfellow/gastro-routes/internal/sqlerr"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const usersTable = "users"

var userColumns = []string{"id", "email", "name", "hashed_password", "is_active", "created_at"}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. A duplicate email surfaces as the users_email_key
// unique violation.
func (r *UserRepository) Create(ctx context.Context, u model.NewUser) (*model.User, error) {
	query, args, err := psql.Insert(usersTable).
		Columns("email", "name", "hashed_password").
		Values(u.Email, u.Name, u.HashedPassword).
		Suffix("RETURNING id, email, name, hashed_password, is_active, created_at").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build insert user")
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		return nil, errors.Wrap(err, "insert user")
	}

	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getBy(ctx, "id", id, "get user")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, "email", email, "get user by email")
}

func (r *UserRepository) getBy(ctx context.Context, column string, value any, op string) (*model.User, error) {
	query, args, err := psql.Select(userColumns...).
		From(usersTable).
		Where(map[string]any{column: value}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build "+op)
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		return nil, wrapNoRows(err, op, usersTable)
	}

	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]model.User, error) {
	query, args, err := page(psql.Select(userColumns...).From(usersTable).OrderBy("id"), skip, limit).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list users")
	}

	users := []model.User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, errors.Wrap(err, "list users")
	}

	return users, nil
}

// Delete removes a user that owns no appointments.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete(usersTable).Where("id = ?", id).ToSql()
	if err != nil {
		return errors.Wrap(err, "build delete user")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(sqlerr.Restricted(err, usersTable), "delete user")
	}

	return expectAffected(res, "delete user", usersTable)
}
