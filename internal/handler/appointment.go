package handler

import (
	"net/http"

	"github.com/deppfellow/gastro-routes/internal/model"
	"github.com/deppfellow/gastro-routes/internal/server"
	"github.com/deppfellow/gastro-routes/internal/service"
	"github.com/labstack/echo/v4"
)

type AppointmentHandler struct {
	Handler
	appointments *service.AppointmentService
}

func NewAppointmentHandler(s *server.Server, appointments *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		Handler:      NewHandler(s),
		appointments: appointments,
	}
}

// Create books an appointment for the user named by the user_id query
// parameter.
func (h *AppointmentHandler) Create(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
		return h.appointments.Create(c.Request().Context(), req)
	}, http.StatusCreated)(c)
}

func (h *AppointmentHandler) List(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.ListAppointmentsRequest) ([]model.AppointmentWithDetails, error) {
		return h.appointments.List(c.Request().Context(), req)
	}, http.StatusOK)(c)
}

func (h *AppointmentHandler) Get(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.AppointmentIDRequest) (*model.AppointmentWithDetails, error) {
		return h.appointments.Get(c.Request().Context(), req.ID)
	}, http.StatusOK)(c)
}

func (h *AppointmentHandler) Update(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
		return h.appointments.Update(c.Request().Context(), req)
	}, http.StatusOK)(c)
}

func (h *AppointmentHandler) Delete(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.AppointmentIDRequest) (*model.MessageResponse, error) {
		return h.appointments.Delete(c.Request().Context(), req.ID)
	}, http.StatusOK)(c)
}

// History lists every appointment of the user in the path.
func (h *AppointmentHandler) History(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.UserIDRequest) ([]model.AppointmentWithDetails, error) {
		return h.appointments.History(c.Request().Context(), req.ID)
	}, http.StatusOK)(c)
}
