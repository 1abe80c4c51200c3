package service

import (
	"context"
	"database/sql"

	"github.com/deppfellow/gastro-routes/internal/errs"
	"github.com/deppfellow/gastro-routes/internal/model"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgLoginSuccessful    = "Login successful"
	msgInvalidCredentials = "Incorrect email or password"
)

type UserService struct {
	users        UserRepository
	appointments AppointmentRepository
}

func NewUserService(users UserRepository, appointments AppointmentRepository) *UserService {
	return &UserService{users: users, appointments: appointments}
}

// Register stores a new user with a bcrypt hash of the password. A taken
// email is reported by the users_email_key constraint.
func (s *UserService) Register(ctx context.Context, req *model.RegisterUserRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, errs.NewBadRequestError("Password is too long", true, nil,
			[]errs.FieldError{{Field: "password", Error: "must not exceed 72 bytes"}}, nil)
	}
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user, err := s.users.Create(ctx, model.NewUser{
		Email:          req.Email,
		Name:           req.Name,
		HashedPassword: string(hash),
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Int64("user_id", user.ID).Msg("user registered")

	return user, nil
}

// Login checks credentials. Unknown emails and wrong passwords get the
// same answer.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewUnauthorizedError(msgInvalidCredentials, true)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		zerolog.Ctx(ctx).Debug().Int64("user_id", user.ID).Msg("password mismatch")
		return nil, errs.NewUnauthorizedError(msgInvalidCredentials, true)
	}

	return &model.LoginResponse{Message: msgLoginSuccessful, UserID: user.ID}, nil
}

func (s *UserService) List(ctx context.Context, req *model.ListUsersRequest) ([]model.User, error) {
	return s.users.List(ctx, req.Skip, req.PageLimit())
}

// Get returns the user with all of its appointments.
func (s *UserService) Get(ctx context.Context, id int64) (*model.UserWithAppointments, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointments.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointments == nil {
		appointments = []model.Appointment{}
	}

	return &model.UserWithAppointments{User: *user, Appointments: appointments}, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) (*model.MessageResponse, error) {
	if err := s.users.Delete(ctx, id); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Int64("user_id", id).Msg("user deleted")

	return &model.MessageResponse{Message: "User deleted successfully"}, nil
}
