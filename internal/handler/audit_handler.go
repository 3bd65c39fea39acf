package handler

import (
	"net/http"
	"strconv"

	"estoque/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Consulta do log de auditoria das mutações do estoque.
type AuditHandler struct {
	uc *usecase.EstoqueUsecase
}

// DI
func NewAuditHandler(uc *usecase.EstoqueUsecase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

func (h *AuditHandler) RegisterRoutes(e *echo.Echo, guard echo.MiddlewareFunc) {
	e.GET("/audit-logs", h.list, guard)
}

func (h *AuditHandler) list(c echo.Context) error {
	var resourceID int64
	if v := c.QueryParam("resource_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resource_id"})
		}
		resourceID = id
	}

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil || o < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		offset = o
	}

	from, err := parseDate(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
	}
	to, err := parseDate(c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
	}

	logs, err := h.uc.ListAuditLogs(c.Request().Context(), usecase.ListAuditLogsInput{
		Actor:      c.QueryParam("actor"),
		Action:     c.QueryParam("action"),
		ResourceID: resourceID,
		From:       from,
		To:         to,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, logs)
}
