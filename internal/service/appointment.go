package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/gastro-routes/internal/errs"
	"github.com/deppfellow/gastro-routes/internal/model"
	"github.com/deppfellow/gastro-routes/internal/repository"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var codeInvalidTransition = "APPOINTMENT_INVALID_TRANSITION"

type AppointmentService struct {
	appointments AppointmentRepository
}

func NewAppointmentService(appointments AppointmentRepository) *AppointmentService {
	return &AppointmentService{appointments: appointments}
}

// Create books an appointment. It always starts scheduled.
func (s *AppointmentService) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.appointments.Create(ctx, req.ToNewAppointment())
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int64("appointment_id", appointment.ID).
		Int64("user_id", appointment.UserID).
		Int64("activity_id", appointment.ActivityID).
		Msg("appointment booked")

	return appointment, nil
}

func (s *AppointmentService) List(ctx context.Context, req *model.ListAppointmentsRequest) ([]model.AppointmentWithDetails, error) {
	return s.appointments.List(ctx, req.Filter())
}

func (s *AppointmentService) Get(ctx context.Context, id int64) (*model.AppointmentWithDetails, error) {
	return s.appointments.GetDetailed(ctx, id)
}

// Update applies a partial update. Nothing is written for an empty
// request, so updated_at keeps its value. Status moves must follow the
// transition table; completed and cancelled are final.
func (s *AppointmentService) Update(ctx context.Context, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	changes := req.Changes()

	current, err := s.appointments.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return current, nil
	}

	var fromStatus model.AppointmentStatus
	if changes.Status.Present() {
		next := changes.Status.Value
		if !current.Status.CanTransitionTo(next) {
			return nil, transitionError(current.Status, next)
		}
		if next != current.Status {
			fromStatus = current.Status
		}
	}

	updated, err := s.appointments.Update(ctx, req.ID, changes.Columns(), fromStatus)
	if errors.Is(err, repository.ErrStatusChanged) {
		return nil, errs.NewConflictError("Appointment status was changed by another request", true, &codeInvalidTransition, nil)
	}
	if err != nil {
		return nil, err
	}

	if fromStatus != "" {
		zerolog.Ctx(ctx).Info().
			Int64("appointment_id", updated.ID).
			Str("from", string(fromStatus)).
			Str("to", string(updated.Status)).
			Msg("appointment status changed")
	}

	return updated, nil
}

func transitionError(from, to model.AppointmentStatus) *errs.HTTPError {
	return errs.NewConflictError(
		fmt.Sprintf("Cannot change appointment status from %s to %s", from, to),
		true, &codeInvalidTransition, nil,
	)
}

func (s *AppointmentService) Delete(ctx context.Context, id int64) (*model.MessageResponse, error) {
	if err := s.appointments.Delete(ctx, id); err != nil {
		return nil, err
	}
	return &model.MessageResponse{Message: "Appointment deleted successfully"}, nil
}

// History lists every appointment of a user, whatever its status.
func (s *AppointmentService) History(ctx context.Context, userID int64) ([]model.AppointmentWithDetails, error) {
	appointments, err := s.appointments.List(ctx, model.AppointmentFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	if appointments == nil {
		appointments = []model.AppointmentWithDetails{}
	}
	return appointments, nil
}

// Calendar lists every appointment for the calendar page.
func (s *AppointmentService) Calendar(ctx context.Context) ([]model.AppointmentWithDetails, error) {
	return s.appointments.List(ctx, model.AppointmentFilter{})
}
