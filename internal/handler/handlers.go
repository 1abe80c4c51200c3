package handler

import (
	"github.com/deppfellow/gastro-routes/internal/server"
	"github.com/deppfellow/gastro-routes/internal/service"
)

// Handlers groups all HTTP handlers so the router receives one value.
type Handlers struct {
	Health      *HealthHandler
	OpenAPI     *OpenAPIHandler
	User        *UserHandler
	Activity    *ActivityHandler
	Appointment *AppointmentHandler
	Page        *PageHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(s),
		OpenAPI:     NewOpenAPIHandler(s),
		User:        NewUserHandler(s, services.Users),
		Activity:    NewActivityHandler(s, services.Activities),
		Appointment: NewAppointmentHandler(s, services.Appointments),
		Page:        NewPageHandler(s, services.Activities, services.Appointments),
	}
}
