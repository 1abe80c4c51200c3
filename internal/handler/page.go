package handler

import (
	"github.com/deppfellow/gastro-routes/internal/model"
	"github.com/deppfellow/gastro-routes/internal/server"
	"github.com/deppfellow/gastro-routes/internal/service"
	"github.com/labstack/echo/v4"
)

// PageData is what every page template receives.
type PageData struct {
	Title        string
	Activities   []model.Activity
	Appointments []model.AppointmentWithDetails
}

// pageRequest is used by pages that take no input.
type pageRequest struct{}

func (r *pageRequest) Validate() error {
	return nil
}

// PageHandler renders the server side pages. The pages read straight from
// the services; anything interactive goes through the JSON API.
type PageHandler struct {
	Handler
	activities   *service.ActivityService
	appointments *service.AppointmentService
}

func NewPageHandler(s *server.Server, activities *service.ActivityService, appointments *service.AppointmentService) *PageHandler {
	return &PageHandler{
		Handler:      NewHandler(s),
		activities:   activities,
		appointments: appointments,
	}
}

// Home shows a preview of the active activities.
func (h *PageHandler) Home(c echo.Context) error {
	return HandlePage(h.Handler, func(c echo.Context, _ *pageRequest) (*PageData, error) {
		activities, err := h.activities.Active(c.Request().Context(), service.HomePreviewSize)
		if err != nil {
			return nil, err
		}
		return &PageData{Title: "Rutas Gastronómicas", Activities: activities}, nil
	}, "index.html")(c)
}

func (h *PageHandler) Activities(c echo.Context) error {
	return HandlePage(h.Handler, func(c echo.Context, _ *pageRequest) (*PageData, error) {
		activities, err := h.activities.Active(c.Request().Context(), 0)
		if err != nil {
			return nil, err
		}
		return &PageData{Title: "Actividades", Activities: activities}, nil
	}, "activities.html")(c)
}

// ManageActivities lists every activity, active or not.
func (h *PageHandler) ManageActivities(c echo.Context) error {
	return HandlePage(h.Handler, func(c echo.Context, _ *pageRequest) (*PageData, error) {
		activities, err := h.activities.All(c.Request().Context())
		if err != nil {
			return nil, err
		}
		return &PageData{Title: "Administrar actividades", Activities: activities}, nil
	}, "manage_activities.html")(c)
}

func (h *PageHandler) Calendar(c echo.Context) error {
	return HandlePage(h.Handler, func(c echo.Context, _ *pageRequest) (*PageData, error) {
		appointments, err := h.appointments.Calendar(c.Request().Context())
		if err != nil {
			return nil, err
		}
		return &PageData{Title: "Calendario", Appointments: appointments}, nil
	}, "appointments.html")(c)
}

func (h *PageHandler) Dashboard(c echo.Context) error {
	return h.static(c, "dashboard.html", "Mi panel")
}

func (h *PageHandler) Login(c echo.Context) error {
	return h.static(c, "login.html", "Iniciar sesión")
}

func (h *PageHandler) Register(c echo.Context) error {
	return h.static(c, "register.html", "Crear cuenta")
}

func (h *PageHandler) static(c echo.Context, template, title string) error {
	return HandlePage(h.Handler, func(c echo.Context, _ *pageRequest) (*PageData, error) {
		return &PageData{Title: title}, nil
	}, template)(c)
}
