package repository

import (
	"github.com/deppfellow/gastro-routes/internal/server"
	"github.com/jmoiron/sqlx"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users        *UserRepository
	Activities   *ActivityRepository
	Appointments *AppointmentRepository
}

// NewRepositories builds every repository on the server's database handle.
func NewRepositories(s *server.Server) *Repositories {
	return NewRepositoriesWithDB(s.DB.DB)
}

// NewRepositoriesWithDB is NewRepositories for a bare sqlx handle.
func NewRepositoriesWithDB(db *sqlx.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db),
		Activities:   NewActivityRepository(db),
		Appointments: NewAppointmentRepository(db),
	}
}
