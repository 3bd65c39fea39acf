package handler

import (
	"fmt"
	"net/http"

	"estoque/internal/usecase"

	"github.com/labstack/echo/v4"
)

const exportFileBase = "estoque-poloar"

// Download do estoque em XLSX ou CSV.
type ExportHandler struct {
	estoque *usecase.EstoqueUsecase
	export  *usecase.ExportUsecase
}

// DI
func NewExportHandler(estoque *usecase.EstoqueUsecase, export *usecase.ExportUsecase) *ExportHandler {
	return &ExportHandler{estoque: estoque, export: export}
}

func (h *ExportHandler) RegisterRoutes(e *echo.Echo, guard echo.MiddlewareFunc) {
	e.GET("/estoque/export", h.download, guard)
}

func (h *ExportHandler) download(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "csv" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid format"})
	}

	dataInicio, err := parseDate(c.QueryParam("data_inicio"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid data_inicio"})
	}
	dataFim, err := parseDate(c.QueryParam("data_fim"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid data_fim"})
	}

	maquinas := h.estoque.ListAll(c.Request().Context())
	maquinas = h.export.FilterForExport(maquinas, usecase.ExportFilter{
		Status:     c.QueryParam("status"),
		DataInicio: dataInicio,
		DataFim:    dataFim,
		IncluirObs: c.QueryParam("incluir_obs") != "false",
	})

	// sem dados não geramos arquivo
	if len(maquinas) == 0 {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "no data to export"})
	}

	if format == "csv" {
		semicolon := c.QueryParam("delimiter") == "semicolon"
		b, err := h.export.ToCSV(maquinas, semicolon)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "export error"})
		}
		setAttachment(c, exportFileBase+".csv")
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", b)
	}

	b, err := h.export.ToXLSX(maquinas)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "export error"})
	}
	setAttachment(c, exportFileBase+".xlsx")
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
}

func setAttachment(c echo.Context, filename string) {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, filename))
}
