// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"context"

	"github.com/deppfellow/gastro-routes/internal/model"
)

// UserRepository is the storage the user service needs.
type UserRepository interface {
	Create(ctx context.Context, u model.NewUser) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, skip, limit int) ([]model.User, error)
	Delete(ctx context.Context, id int64) error
}

// ActivityRepository is the storage the activity service needs.
type ActivityRepository interface {
	Create(ctx context.Context, a model.Activity) (*model.Activity, error)
	GetByID(ctx context.Context, id int64) (*model.Activity, error)
	List(ctx context.Context, f model.ActivityFilter) ([]model.Activity, error)
	Update(ctx context.Context, id int64, columns map[string]any) (*model.Activity, error)
	ToggleActive(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// AppointmentRepository is the storage the appointment service needs.
type AppointmentRepository interface {
	Create(ctx context.Context, a model.NewAppointment) (*model.Appointment, error)
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	GetDetailed(ctx context.Context, id int64) (*model.AppointmentWithDetails, error)
	List(ctx context.Context, f model.AppointmentFilter) ([]model.AppointmentWithDetails, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Appointment, error)
	Update(ctx context.Context, id int64, columns map[string]any, fromStatus model.AppointmentStatus) (*model.Appointment, error)
	Delete(ctx context.Context, id int64) error
}
