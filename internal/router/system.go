package router

import (
	"github.com/deppfellow/gastro-routes/internal/handler"
	"github.com/deppfellow/gastro-routes/internal/web"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints that are not part of the
// booking API: health, docs and static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", web.Static())

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
