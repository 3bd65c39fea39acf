package handler

import (
	"net/http"
	"strconv"
	"time"

	"estoque/internal/domain/model"
	"estoque/internal/middleware"
	"estoque/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// Operador autenticado, vazio nas rotas públicas.
func actorFrom(c echo.Context) string {
	if v, ok := c.Get(middleware.CtxOperatorKey).(string); ok {
		return v
	}
	return ""
}

// Rotas de CRUD do estoque.
type MaquinaHandler struct {
	uc *usecase.EstoqueUsecase
}

// DI
func NewMaquinaHandler(uc *usecase.EstoqueUsecase) *MaquinaHandler {
	return &MaquinaHandler{uc: uc}
}

func (h *MaquinaHandler) RegisterRoutes(e *echo.Echo, guard echo.MiddlewareFunc) {
	e.GET("/estoque", h.list)
	e.GET("/estoque/all", h.listAll)
	e.GET("/estoque/:id", h.detail)
	e.GET("/consultores", h.consultores)

	e.POST("/estoque", h.create, guard)
	e.PUT("/estoque/:id", h.update, guard)
	e.DELETE("/estoque/:id", h.remove, guard)
}

func (h *MaquinaHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// limit（default 10）
	limit := usecase.DefaultLimit
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.ListFiltered(c.Request().Context(), usecase.ListMaquinasInput{
		Search:    c.QueryParam("search"),
		Status:    c.QueryParam("status"),
		Consultor: c.QueryParam("consultor"),
		SortBy:    c.QueryParam("sort"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *MaquinaHandler) listAll(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.ListAll(c.Request().Context()))
}

func (h *MaquinaHandler) detail(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	m, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, m)
}

func (h *MaquinaHandler) consultores(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.ListConsultores(c.Request().Context()))
}

// Corpo de criação/edição. Datas em ISO (2006-01-02), vazias viram nil.
type maquinaRequest struct {
	Modelo           string `json:"modelo"`
	Quantidade       int    `json:"quantidade"`
	Codigo           string `json:"codigo"`
	Consultor        string `json:"consultor"`
	Cliente          string `json:"cliente"`
	Contato          string `json:"contato"`
	DataEntrega      string `json:"data_entrega"`
	QuemRecebeu      string `json:"quem_recebeu"`
	PrevisaoRetirada string `json:"previsao_retirada"`
	DataSaida        string `json:"data_saida"`
	QuemEntregou     string `json:"quem_entregou"`
	Status           string `json:"status"`
	Obs              string `json:"obs"`
}

func (r maquinaRequest) toInput() (usecase.MaquinaInput, error) {
	dataEntrega, err := parseDate(r.DataEntrega)
	if err != nil {
		return usecase.MaquinaInput{}, err
	}
	previsao, err := parseDate(r.PrevisaoRetirada)
	if err != nil {
		return usecase.MaquinaInput{}, err
	}
	dataSaida, err := parseDate(r.DataSaida)
	if err != nil {
		return usecase.MaquinaInput{}, err
	}

	return usecase.MaquinaInput{
		Modelo:           r.Modelo,
		Quantidade:       r.Quantidade,
		Codigo:           r.Codigo,
		Consultor:        r.Consultor,
		Cliente:          r.Cliente,
		Contato:          r.Contato,
		DataEntrega:      dataEntrega,
		QuemRecebeu:      r.QuemRecebeu,
		PrevisaoRetirada: previsao,
		DataSaida:        dataSaida,
		QuemEntregou:     r.QuemEntregou,
		Status:           model.Status(r.Status),
		Obs:              r.Obs,
	}, nil
}

func (h *MaquinaHandler) create(c echo.Context) error {
	var req maquinaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
	}

	id, err := h.uc.Create(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

func (h *MaquinaHandler) update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req maquinaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in, err := req.toInput()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
	}

	if err := h.uc.Update(c.Request().Context(), actorFrom(c), id, in); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *MaquinaHandler) remove(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), actorFrom(c), id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
