package handler

import (
	"net/http"

	"github.com/deppfellow/gastro-routes/internal/model"
	"github.com/deppfellow/gastro-routes/internal/server"
	"github.com/deppfellow/gastro-routes/internal/service"
	"github.com/labstack/echo/v4"
)

type ActivityHandler struct {
	Handler
	activities *service.ActivityService
}

func NewActivityHandler(s *server.Server, activities *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		Handler:    NewHandler(s),
		activities: activities,
	}
}

func (h *ActivityHandler) Create(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.CreateActivityRequest) (*model.Activity, error) {
		return h.activities.Create(c.Request().Context(), req)
	}, http.StatusCreated)(c)
}

func (h *ActivityHandler) List(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.ListActivitiesRequest) ([]model.Activity, error) {
		return h.activities.List(c.Request().Context(), req)
	}, http.StatusOK)(c)
}

func (h *ActivityHandler) Get(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.ActivityIDRequest) (*model.Activity, error) {
		return h.activities.Get(c.Request().Context(), req.ID)
	}, http.StatusOK)(c)
}

// Update serves both PUT and PATCH; either way only the fields present in
// the body are written.
func (h *ActivityHandler) Update(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.UpdateActivityRequest) (*model.Activity, error) {
		return h.activities.Update(c.Request().Context(), req)
	}, http.StatusOK)(c)
}

func (h *ActivityHandler) ToggleStatus(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.ActivityIDRequest) (*model.ToggleActivityResponse, error) {
		return h.activities.ToggleActive(c.Request().Context(), req.ID)
	}, http.StatusOK)(c)
}

func (h *ActivityHandler) Delete(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.ActivityIDRequest) (*model.MessageResponse, error) {
		return h.activities.Delete(c.Request().Context(), req.ID)
	}, http.StatusOK)(c)
}
