package model

import (
	"time"

	"github.com/deppfellow/gastro-routes/internal/lib/utils"
	"github.com/deppfellow/gastro-routes/internal/validation"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// appointmentTransitions lists the states each status may move to.
// Completed and cancelled are terminal.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentScheduled: {AppointmentCompleted, AppointmentCancelled},
}

func init() {
	validation.RegisterOptional(utils.Optional[AppointmentStatus]{})
}

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an appointment in status s may be moved
// to next. Staying in the same status is always allowed.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is a booking of an activity by a user.
type Appointment struct {
	ID              int64             `db:"id" json:"id"`
	UserID          int64             `db:"user_id" json:"user_id"`
	ActivityID      int64             `db:"activity_id" json:"activity_id"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Notes           *string           `db:"notes" json:"notes"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// AppointmentWithDetails embeds the booked activity and the booking user.
type AppointmentWithDetails struct {
	Appointment
	Activity Activity `db:"activity" json:"activity"`
	User     User     `db:"user" json:"user"`
}

// NewAppointment is what the repository inserts. Status is always
// scheduled on creation.
type NewAppointment struct {
	UserID          int64
	ActivityID      int64
	AppointmentDate time.Time
	Notes           *string
}

// CreateAppointmentRequest books an activity. user_id is read from the
// query string; a status in the body is ignored.
type CreateAppointmentRequest struct {
	UserID          int64     `query:"user_id" json:"-" validate:"required,gt=0"`
	ActivityID      int64     `json:"activity_id" validate:"required,gt=0"`
	AppointmentDate time.Time `json:"appointment_date" validate:"required"`
	Notes           *string   `json:"notes" validate:"omitempty,max=1000"`
}

func (r *CreateAppointmentRequest) Validate() error {
	return validation.Struct(r)
}

func (r *CreateAppointmentRequest) ToNewAppointment() NewAppointment {
	return NewAppointment{
		UserID:          r.UserID,
		ActivityID:      r.ActivityID,
		AppointmentDate: r.AppointmentDate.UTC(),
		Notes:           r.Notes,
	}
}

type ListAppointmentsRequest struct {
	Pagination
	UserID     int64             `query:"user_id" validate:"gte=0"`
	ActivityID int64             `query:"activity_id" validate:"gte=0"`
	Status     AppointmentStatus `query:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
}

func (r *ListAppointmentsRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return r.validatePage()
}

// AppointmentFilter is what the repository understands. Zero values mean
// "no filter".
type AppointmentFilter struct {
	Skip       int
	Limit      int
	UserID     int64
	ActivityID int64
	Status     AppointmentStatus
}

func (r *ListAppointmentsRequest) Filter() AppointmentFilter {
	return AppointmentFilter{
		Skip:       r.Skip,
		Limit:      r.PageLimit(),
		UserID:     r.UserID,
		ActivityID: r.ActivityID,
		Status:     r.Status,
	}
}

// AppointmentIDRequest addresses a single appointment by path id.
type AppointmentIDRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,gt=0"`
}

func (r *AppointmentIDRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateAppointmentRequest is a partial update. notes may be null.
type UpdateAppointmentRequest struct {
	ID              int64                             `param:"id" json:"-" validate:"required,gt=0"`
	AppointmentDate utils.Optional[time.Time]         `json:"appointment_date"`
	Status          utils.Optional[AppointmentStatus] `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	Notes           utils.Optional[string]            `json:"notes" validate:"omitempty,max=1000"`
}

func (r *UpdateAppointmentRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	var errs validation.CustomValidationErrors
	if r.AppointmentDate.Null {
		errs = append(errs, validation.CustomValidationError{Field: "appointment_date", Message: "cannot be null"})
	}
	if r.Status.Null {
		errs = append(errs, validation.CustomValidationError{Field: "status", Message: "cannot be null"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AppointmentChanges holds the columns an update will write.
type AppointmentChanges struct {
	AppointmentDate utils.Optional[time.Time]
	Status          utils.Optional[AppointmentStatus]
	Notes           utils.Optional[string]
}

func (r *UpdateAppointmentRequest) Changes() AppointmentChanges {
	c := AppointmentChanges{
		AppointmentDate: r.AppointmentDate,
		Status:          r.Status,
		Notes:           r.Notes,
	}
	if c.AppointmentDate.Present() {
		c.AppointmentDate.Value = c.AppointmentDate.Value.UTC()
	}
	return c
}

// Empty reports whether nothing was sent.
func (c AppointmentChanges) Empty() bool {
	return !c.AppointmentDate.Set && !c.Status.Set && !c.Notes.Set
}

// Columns maps the set fields to column values; a null note is written as
// NULL. updated_at is stamped by the repository.
func (c AppointmentChanges) Columns() map[string]any {
	cols := map[string]any{}
	if c.AppointmentDate.Present() {
		cols["appointment_date"] = c.AppointmentDate.Value
	}
	if c.Status.Present() {
		cols["status"] = string(c.Status.Value)
	}
	if c.Notes.Set {
		if c.Notes.Null {
			cols["notes"] = nil
		} else {
			cols["notes"] = c.Notes.Value
		}
	}
	return cols
}

// Apply returns a copy of a with the changes written over it.
func (c AppointmentChanges) Apply(a Appointment) Appointment {
	if c.AppointmentDate.Present() {
		a.AppointmentDate = c.AppointmentDate.Value
	}
	if c.Status.Present() {
		a.Status = c.Status.Value
	}
	if c.Notes.Set {
		a.Notes = c.Notes.Ptr()
	}
	return a
}
