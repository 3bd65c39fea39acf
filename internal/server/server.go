package server

import (
	"estoque/internal/config"
	"estoque/internal/handler"
	"estoque/internal/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handlers agrupa tudo que o servidor expõe.
type Handlers struct {
	Auth      *handler.AuthHandler
	Maquina   *handler.MaquinaHandler
	Dashboard *handler.DashboardHandler
	Export    *handler.ExportHandler
	Audit     *handler.AuditHandler
}

func Start(addr string, cfg config.Config, log *zap.Logger, h Handlers) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLogger(log))

	RegisterRoutes(e, cfg, h)

	return e.Start(addr)
}
