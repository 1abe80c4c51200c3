// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the route groups, mapping
// specific paths to their corresponding handlers
package router

import (
	"fmt"

	"github.com/deppfellow/gastro-routes/internal/handler"
	"github.com/deppfellow/gastro-routes/internal/middleware"
	"github.com/deppfellow/gastro-routes/internal/server"
	"github.com/deppfellow/gastro-routes/internal/web"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// NewRouter builds the echo instance with all middleware and routes.
func NewRouter(s *server.Server, h *handler.Handlers) (*echo.Echo, error) {
	middlewares := middleware.NewMiddlewares(s)

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("loading page templates: %w", err)
	}

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.Renderer = renderer
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// "/activities/" and "/activities" reach the same handler.
	router.Pre(echomw.RemoveTrailingSlash())

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerPageRoutes(router, h)
	registerUserRoutes(router, h)
	registerActivityRoutes(router, h)
	registerAppointmentRoutes(router, h)

	return router, nil
}

func registerUserRoutes(r *echo.Echo, h *handler.Handlers) {
	users := r.Group("/users")
	users.POST("/register", h.User.Register)
	users.POST("/login", h.User.Login)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.Get)
	users.DELETE("/:id", h.User.Delete)
}

func registerActivityRoutes(r *echo.Echo, h *handler.Handlers) {
	activities := r.Group("/activities")
	activities.POST("", h.Activity.Create)
	activities.GET("", h.Activity.List)
	activities.GET("/:id", h.Activity.Get)
	activities.PUT("/:id", h.Activity.Update)
	activities.PATCH("/:id", h.Activity.Update)
	activities.PATCH("/:id/toggle-status", h.Activity.ToggleStatus)
	activities.DELETE("/:id", h.Activity.Delete)
}

func registerAppointmentRoutes(r *echo.Echo, h *handler.Handlers) {
	appointments := r.Group("/appointments")
	appointments.POST("", h.Appointment.Create)
	appointments.GET("", h.Appointment.List)
	appointments.GET("/:id", h.Appointment.Get)
	appointments.PUT("/:id", h.Appointment.Update)
	appointments.DELETE("/:id", h.Appointment.Delete)
	appointments.GET("/user/:id/history", h.Appointment.History)
}

func registerPageRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.Page.Home)
	r.GET("/dashboard", h.Page.Dashboard)
	r.GET("/admin/activities", h.Page.ManageActivities)
	r.GET("/activities/view/all", h.Page.Activities)
	r.GET("/appointments/view/calendar", h.Page.Calendar)
	r.GET("/users/auth/login", h.Page.Login)
	r.GET("/users/auth/register", h.Page.Register)
}
