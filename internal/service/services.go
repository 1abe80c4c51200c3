package service

import (
	"github.com/deppfellow/gastro-routes/internal/repository"
	"github.com/deppfellow/gastro-routes/internal/server"
)

type Services struct {
	Users        *UserService
	Activities   *ActivityService
	Appointments *AppointmentService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return New(repos.Users, repos.Activities, repos.Appointments), nil
}

// New wires the services over any storage implementation.
func New(users UserRepository, activities ActivityRepository, appointments AppointmentRepository) *Services {
	return &Services{
		Users:        NewUserService(users, appointments),
		Activities:   NewActivityService(activities),
		Appointments: NewAppointmentService(appointments),
	}
}
