package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/deppfellow/gastro-routes/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const appointmentsTable = "appointments"

// ErrStatusChanged is returned by a guarded Update when the stored status
// no longer matches the one the caller read.
var ErrStatusChanged = errors.New("appointment status changed concurrently")

var appointmentColumns = []string{
	"id", "user_id", "activity_id", "appointment_date", "status", "notes", "created_at", "updated_at",
}

const returningAppointment = "RETURNING id, user_id, activity_id, appointment_date, status, notes, created_at, updated_at"

// detailColumns selects an appointment with its activity and user in one
// row. Aliases follow the sqlx "<field>.<column>" convention so the row
// scans into model.AppointmentWithDetails.
var detailColumns = []string{
	"ap.id", "ap.user_id", "ap.activity_id", "ap.appointment_date",
	"ap.status", "ap.notes", "ap.created_at", "ap.updated_at",
	`ac.id AS "activity.id"`,
	`ac.name AS "activity.name"`,
	`ac.description AS "activity.description"`,
	`ac.duration AS "activity.duration"`,
	`ac.cost AS "activity.cost"`,
	`ac.location AS "activity.location"`,
	`ac.city AS "activity.city"`,
	`ac.state AS "activity.state"`,
	`ac.image_url AS "activity.image_url"`,
	`ac.activity_type AS "activity.activity_type"`,
	`ac.is_active AS "activity.is_active"`,
	`u.id AS "user.id"`,
	`u.email AS "user.email"`,
	`u.name AS "user.name"`,
	`u.is_active AS "user.is_active"`,
	`u.created_at AS "user.created_at"`,
}

type AppointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func detailed() squirrel.SelectBuilder {
	return psql.Select(detailColumns...).
		From("appointments ap").
		Join("activities ac ON ac.id = ap.activity_id").
		Join("users u ON u.id = ap.user_id")
}

// Create books an appointment in the scheduled state. A missing user or
// activity surfaces as a foreign key violation.
func (r *AppointmentRepository) Create(ctx context.Context, a model.NewAppointment) (*model.Appointment, error) {
	query, args, err := psql.Insert(appointmentsTable).
		Columns("user_id", "activity_id", "appointment_date", "status", "notes").
		Values(a.UserID, a.ActivityID, a.AppointmentDate, string(model.AppointmentScheduled), a.Notes).
		Suffix(returningAppointment).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build insert appointment")
	}

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, args...); err != nil {
		return nil, errors.Wrap(err, "insert appointment")
	}

	return &appointment, nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query, args, err := psql.Select(appointmentColumns...).
		From(appointmentsTable).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build get appointment")
	}

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, args...); err != nil {
		return nil, wrapNoRows(err, "get appointment", appointmentsTable)
	}

	return &appointment, nil
}

// GetDetailed returns the appointment joined with its activity and user.
func (r *AppointmentRepository) GetDetailed(ctx context.Context, id int64) (*model.AppointmentWithDetails, error) {
	query, args, err := detailed().Where("ap.id = ?", id).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build get appointment details")
	}

	var appointment model.AppointmentWithDetails
	if err := r.db.GetContext(ctx, &appointment, query, args...); err != nil {
		return nil, wrapNoRows(err, "get appointment details", appointmentsTable)
	}

	return &appointment, nil
}

// List returns joined appointments ordered by id. A zero limit returns
// every matching row.
func (r *AppointmentRepository) List(ctx context.Context, f model.AppointmentFilter) ([]model.AppointmentWithDetails, error) {
	b := detailed().OrderBy("ap.id")

	if f.UserID > 0 {
		b = b.Where("ap.user_id = ?", f.UserID)
	}
	if f.ActivityID > 0 {
		b = b.Where("ap.activity_id = ?", f.ActivityID)
	}
	if f.Status != "" {
		b = b.Where("ap.status = ?", string(f.Status))
	}

	query, args, err := page(b, f.Skip, f.Limit).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list appointments")
	}

	appointments := []model.AppointmentWithDetails{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, errors.Wrap(err, "list appointments")
	}

	return appointments, nil
}

// ListByUser returns the plain appointments of a user.
func (r *AppointmentRepository) ListByUser(ctx context.Context, userID int64) ([]model.Appointment, error) {
	query, args, err := psql.Select(appointmentColumns...).
		From(appointmentsTable).
		Where("user_id = ?", userID).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list user appointments")
	}

	appointments := []model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, errors.Wrap(err, "list user appointments")
	}

	return appointments, nil
}

// Update writes the given columns and stamps updated_at. When fromStatus
// is set the write only happens if the stored status still equals it,
// otherwise ErrStatusChanged is returned.
func (r *AppointmentRepository) Update(ctx context.Context, id int64, columns map[string]any, fromStatus model.AppointmentStatus) (*model.Appointment, error) {
	if len(columns) == 0 {
		return r.GetByID(ctx, id)
	}

	b := psql.Update(appointmentsTable).
		SetMap(columns).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", id)
	if fromStatus != "" {
		b = b.Where("status = ?", string(fromStatus))
	}

	query, args, err := b.Suffix(returningAppointment).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build update appointment")
	}

	var appointment model.Appointment
	err = r.db.GetContext(ctx, &appointment, query, args...)
	if fromStatus != "" && errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusChanged
	}
	if err != nil {
		return nil, wrapNoRows(err, "update appointment", appointmentsTable)
	}

	return &appointment, nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete(appointmentsTable).Where("id = ?", id).ToSql()
	if err != nil {
		return errors.Wrap(err, "build delete appointment")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "delete appointment")
	}

	return expectAffected(res, "delete appointment", appointmentsTable)
}
