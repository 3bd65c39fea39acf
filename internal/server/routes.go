package server

import (
	"net/http"

	"estoque/internal/config"
	"estoque/internal/middleware"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	guard := middleware.AuthJWT(cfg)

	h.Auth.RegisterRoutes(e)
	h.Maquina.RegisterRoutes(e, guard)
	h.Dashboard.RegisterRoutes(e)
	h.Export.RegisterRoutes(e, guard)
	h.Audit.RegisterRoutes(e, guard)
}
