package handler

import (
	"net/http"

	"github.com/deppfellow/gastro-routes/internal/model"
	"github.com/deppfellow/gastro-routes/internal/server"
	"github.com/deppfellow/gastro-routes/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

func (h *UserHandler) Register(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.RegisterUserRequest) (*model.User, error) {
		return h.users.Register(c.Request().Context(), req)
	}, http.StatusCreated)(c)
}

func (h *UserHandler) Login(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
		return h.users.Login(c.Request().Context(), req)
	}, http.StatusOK)(c)
}

func (h *UserHandler) List(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.ListUsersRequest) ([]model.User, error) {
		return h.users.List(c.Request().Context(), req)
	}, http.StatusOK)(c)
}

func (h *UserHandler) Get(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.UserIDRequest) (*model.UserWithAppointments, error) {
		return h.users.Get(c.Request().Context(), req.ID)
	}, http.StatusOK)(c)
}

func (h *UserHandler) Delete(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.UserIDRequest) (*model.MessageResponse, error) {
		return h.users.Delete(c.Request().Context(), req.ID)
	}, http.StatusOK)(c)
}
