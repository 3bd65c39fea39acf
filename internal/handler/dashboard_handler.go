package handler

import (
	"net/http"
	"strconv"

	"estoque/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Rotas do dashboard (estatísticas e próximos eventos).
type DashboardHandler struct {
	uc *usecase.EstoqueUsecase
}

// DI
func NewDashboardHandler(uc *usecase.EstoqueUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/dashboard/estatisticas", h.estatisticas)
	e.GET("/dashboard/eventos", h.eventos)
}

func (h *DashboardHandler) estatisticas(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Estatisticas(c.Request().Context()))
}

func (h *DashboardHandler) eventos(c echo.Context) error {
	// limit（default 5）
	limit := 5
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	return c.JSON(http.StatusOK, h.uc.ProximosEventos(c.Request().Context(), limit))
}
