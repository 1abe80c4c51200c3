package repository

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/deppfellow/gastro-routes/internal/errs"
	"github.com/deppfellow/gastro-routes/internal/model"
	"github.com/deppfellow/gastro-routes/internal/sqlerr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	userRowColumns        = []string{"id", "email", "name", "hashed_password", "is_active", "created_at"}
	activityRowColumns    = []string{"id", "name", "description", "duration", "cost", "location", "city", "state", "image_url", "activity_type", "is_active"}
	appointmentRowColumns = []string{"id", "user_id", "activity_id", "appointment_date", "status", "notes", "created_at", "updated_at"}
)

func newMock(t *testing.T) (*Repositories, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepositoriesWithDB(sqlx.NewDb(db, "postgres")), mock
}

func TestUserRepository(t *testing.T) {
	repos, mock := newMock(t)
	ctx := context.Background()
	now := time.Now()

	t.Run("Create", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users \(email,name,hashed_password\) VALUES \(\$1,\$2,\$3\) RETURNING`).
			WithArgs("ana@example.mx", "Ana", "hash").
			WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(1, "ana@example.mx", "Ana", "hash", true, now))

		user, err := repos.Users.Create(ctx, model.NewUser{Email: "ana@example.mx", Name: "Ana", HashedPassword: "hash"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.True(t, user.IsActive)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetByEmailMissing", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs("nobody@example.mx").
			WillReturnRows(sqlmock.NewRows(userRowColumns))

		_, err := repos.Users.GetByEmail(ctx, "nobody@example.mx")
		require.ErrorIs(t, err, sql.ErrNoRows)
		assert.Contains(t, err.Error(), "table:users")

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListPaged", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users ORDER BY id LIMIT 2 OFFSET 1`).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(2, "b@example.mx", "B", "h", true, now).
				AddRow(3, "c@example.mx", "C", "h", true, now))

		users, err := repos.Users.List(ctx, 1, 2)
		require.NoError(t, err)
		assert.Len(t, users, 2)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repos.Users.Delete(ctx, 42)
		require.ErrorIs(t, err, sql.ErrNoRows)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteWithAppointments", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs(int64(3)).
			WillReturnError(&pgconn.PgError{Code: "23503", TableName: "appointments", ConstraintName: "appointments_user_id_fkey"})

		err := repos.Users.Delete(ctx, 3)
		require.True(t, sqlerr.IsRestrictViolation(err))

		var httpErr *errs.HTTPError
		require.ErrorAs(t, sqlerr.HandleError(err), &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Status)
		assert.Equal(t, "USER_IN_USE", httpErr.Code)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestActivityRepository(t *testing.T) {
	repos, mock := newMock(t)
	ctx := context.Background()

	t.Run("ListFiltersCityAndStatus", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM activities WHERE city ILIKE \$1 AND is_active = \$2 ORDER BY id LIMIT 100`).
			WithArgs("%tequis%", true).
			WillReturnRows(sqlmock.NewRows(activityRowColumns).
				AddRow(1, "Ruta del Queso", "Cata", "3 horas", 450.0, "Centro", "Tequisquiapan", "Querétaro", nil, "Tour Gastronómico", true))

		activities, err := repos.Activities.List(ctx, model.ActivityFilter{Limit: 100, City: "tequis", Status: model.ActivityStatusActive})
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Nil(t, activities[0].ImageURL)
		assert.Equal(t, 450.0, activities[0].Cost)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListEmptyIsNotNil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM activities WHERE is_active = \$1 ORDER BY id`).
			WithArgs(false).
			WillReturnRows(sqlmock.NewRows(activityRowColumns))

		activities, err := repos.Activities.List(ctx, model.ActivityFilter{Status: model.ActivityStatusInactive})
		require.NoError(t, err)
		assert.NotNil(t, activities)
		assert.Empty(t, activities)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateWritesOnlyGivenColumns", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE activities SET cost = \$1, image_url = \$2 WHERE id = \$3 RETURNING`).
			WithArgs(120.0, nil, int64(7)).
			WillReturnRows(sqlmock.NewRows(activityRowColumns).
				AddRow(7, "Ruta", "Desc", "2 horas", 120.0, "Centro", "Querétaro", "Querétaro", nil, "Tour Gastronómico", true))

		activity, err := repos.Activities.Update(ctx, 7, map[string]any{"cost": 120.0, "image_url": nil})
		require.NoError(t, err)
		assert.Equal(t, 120.0, activity.Cost)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateWithoutColumnsReads", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM activities WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(activityRowColumns).
				AddRow(7, "Ruta", "Desc", "2 horas", 80.0, "Centro", "Querétaro", "Querétaro", nil, "Tour Gastronómico", true))

		activity, err := repos.Activities.Update(ctx, 7, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, 80.0, activity.Cost)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteReferencedOnLocalizedServer", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM activities WHERE id = \$1`).
			WithArgs(int64(5)).
			WillReturnError(&pgconn.PgError{
				Code:           "23503",
				Message:        `update o delete en «activities» viola la llave foránea «appointments_activity_id_fkey» en la tabla «appointments»`,
				TableName:      "appointments",
				ConstraintName: "appointments_activity_id_fkey",
			})

		err := repos.Activities.Delete(ctx, 5)
		require.True(t, sqlerr.IsRestrictViolation(err))

		var httpErr *errs.HTTPError
		require.ErrorAs(t, sqlerr.HandleError(err), &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Status)
		assert.Equal(t, "ACTIVITY_IN_USE", httpErr.Code)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ToggleActive", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE activities SET is_active = NOT is_active WHERE id = \$1 RETURNING is_active`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"is_active"}).AddRow(false))

		active, err := repos.Activities.ToggleActive(ctx, 7)
		require.NoError(t, err)
		assert.False(t, active)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ToggleMissingIsNotFound", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE activities SET is_active = NOT is_active`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"is_active"}))

		_, err := repos.Activities.ToggleActive(ctx, 99)
		require.Error(t, err)
		assert.Contains(t, sqlerr.HandleError(err).Error(), "Activity not found")

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAppointmentRepository(t *testing.T) {
	repos, mock := newMock(t)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("CreateIsScheduled", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO appointments \(user_id,activity_id,appointment_date,status,notes\)`).
			WithArgs(int64(1), int64(2), sqlmock.AnyArg(), "scheduled", nil).
			WillReturnRows(sqlmock.NewRows(appointmentRowColumns).AddRow(10, 1, 2, now, "scheduled", nil, now, now))

		appointment, err := repos.Appointments.Create(ctx, model.NewAppointment{UserID: 1, ActivityID: 2, AppointmentDate: now})
		require.NoError(t, err)
		assert.Equal(t, model.AppointmentScheduled, appointment.Status)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListJoinsActivityAndUser", func(t *testing.T) {
		columns := append(append([]string{}, appointmentRowColumns...),
			"activity.id", "activity.name", "activity.description", "activity.duration", "activity.cost",
			"activity.location", "activity.city", "activity.state", "activity.image_url",
			"activity.activity_type", "activity.is_active",
			"user.id", "user.email", "user.name", "user.is_active", "user.created_at",
		)

		mock.ExpectQuery(`SELECT .* FROM appointments ap JOIN activities ac ON ac.id = ap.activity_id JOIN users u ON u.id = ap.user_id WHERE ap.user_id = \$1 AND ap.status = \$2 ORDER BY ap.id`).
			WithArgs(int64(1), "scheduled").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				10, 1, 2, now, "scheduled", "sin gluten", now, now,
				2, "Ruta del Vino", "Cata", "4 horas", 900.0, "Viñedo", "Ezequiel Montes", "Querétaro", nil, "Tour Gastronómico", true,
				1, "ana@example.mx", "Ana", true, now,
			))

		appointments, err := repos.Appointments.List(ctx, model.AppointmentFilter{UserID: 1, Status: model.AppointmentScheduled})
		require.NoError(t, err)
		require.Len(t, appointments, 1)
		assert.Equal(t, "Ruta del Vino", appointments[0].Activity.Name)
		assert.Equal(t, "Ana", appointments[0].User.Name)
		require.NotNil(t, appointments[0].Notes)
		assert.Equal(t, "sin gluten", *appointments[0].Notes)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateStampsUpdatedAt", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE appointments SET notes = \$1, updated_at = now\(\) WHERE id = \$2 RETURNING`).
			WithArgs(nil, int64(10)).
			WillReturnRows(sqlmock.NewRows(appointmentRowColumns).AddRow(10, 1, 2, now, "scheduled", nil, now, now))

		appointment, err := repos.Appointments.Update(ctx, 10, map[string]any{"notes": nil}, "")
		require.NoError(t, err)
		assert.Nil(t, appointment.Notes)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GuardedUpdateDetectsRace", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE appointments SET status = \$1, updated_at = now\(\) WHERE id = \$2 AND status = \$3`).
			WithArgs("completed", int64(10), "scheduled").
			WillReturnRows(sqlmock.NewRows(appointmentRowColumns))
		mock.ExpectQuery(`SELECT .* FROM appointments WHERE id = \$1`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows(appointmentRowColumns).AddRow(10, 1, 2, now, "cancelled", nil, now, now))

		_, err := repos.Appointments.Update(ctx, 10, map[string]any{"status": "completed"}, model.AppointmentScheduled)
		require.ErrorIs(t, err, ErrStatusChanged)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetDetailedMissing", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM appointments ap .* WHERE ap.id = \$1`).
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		_, err := repos.Appointments.GetDetailed(ctx, 404)
		require.ErrorIs(t, err, sql.ErrNoRows)
		assert.Contains(t, sqlerr.HandleError(err).Error(), "Appointment not found")

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
