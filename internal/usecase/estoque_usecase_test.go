package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"estoque/internal/domain/model"
	repo "estoque/internal/repository"
	"estoque/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type MaquinaRepoMock struct{ mock.Mock }

func (m *MaquinaRepoMock) ListAll(ctx context.Context) ([]model.Maquina, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Maquina)
	return items, args.Error(1)
}

func (m *MaquinaRepoMock) List(ctx context.Context, q repo.MaquinaListQuery) ([]model.Maquina, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Maquina)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MaquinaRepoMock) FindByID(ctx context.Context, id int64) (model.Maquina, error) {
	args := m.Called(ctx, id)
	maq, _ := args.Get(0).(model.Maquina)
	return maq, args.Error(1)
}

func (m *MaquinaRepoMock) Create(ctx context.Context, maq model.Maquina) (model.Maquina, error) {
	args := m.Called(ctx, maq)
	created, _ := args.Get(0).(model.Maquina)
	return created, args.Error(1)
}

func (m *MaquinaRepoMock) Update(ctx context.Context, maq model.Maquina) error {
	args := m.Called(ctx, maq)
	return args.Error(0)
}

func (m *MaquinaRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MaquinaRepoMock) ListConsultores(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *MaquinaRepoMock) ListStatusQuantidade(ctx context.Context) ([]repo.StatusQuantidade, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]repo.StatusQuantidade)
	return rows, args.Error(1)
}

func (m *MaquinaRepoMock) ListProximos(ctx context.Context, today time.Time, limit int) ([]model.Maquina, error) {
	args := m.Called(ctx, today, limit)
	items, _ := args.Get(0).([]model.Maquina)
	return items, args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func date(y int, mo time.Month, d int) *time.Time {
	t := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newUsecase(mRepo *MaquinaRepoMock, aRepo *AuditRepoMock, now time.Time) *usecase.EstoqueUsecase {
	return usecase.NewEstoqueUsecase(mRepo, aRepo, &fixedClock{t: now}, nil)
}

func assertErrContains(t *testing.T, err error, want string) {
	t.Helper()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), want)
}

// =====================
// ListFiltered
// =====================

func TestEstoqueUsecase_ListFiltered_Defaults(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	expected := repo.MaquinaListQuery{SortBy: "data_entrega", Page: 1, Limit: 10}
	mRepo.On("List", mock.Anything, expected).Return([]model.Maquina{}, int64(0), nil)

	out, err := uc.ListFiltered(context.Background(), usecase.ListMaquinasInput{})
	assert.NoError(t, err)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 10, out.Limit)

	mRepo.AssertExpectations(t)
}

func TestEstoqueUsecase_ListFiltered_InvalidPage(t *testing.T) {
	uc := newUsecase(new(MaquinaRepoMock), new(AuditRepoMock), time.Now())

	_, err := uc.ListFiltered(context.Background(), usecase.ListMaquinasInput{Page: -1, Limit: 10})
	assertErrContains(t, err, "invalid page")
}

func TestEstoqueUsecase_ListFiltered_InvalidLimit(t *testing.T) {
	uc := newUsecase(new(MaquinaRepoMock), new(AuditRepoMock), time.Now())

	_, err := uc.ListFiltered(context.Background(), usecase.ListMaquinasInput{Page: 1, Limit: 101})
	assertErrContains(t, err, "invalid limit")
}

func TestEstoqueUsecase_ListFiltered_InvalidSort(t *testing.T) {
	uc := newUsecase(new(MaquinaRepoMock), new(AuditRepoMock), time.Now())

	_, err := uc.ListFiltered(context.Background(), usecase.ListMaquinasInput{SortBy: "id; drop table"})
	assertErrContains(t, err, "invalid sort")
}

func TestEstoqueUsecase_ListFiltered_InvalidStatus(t *testing.T) {
	uc := newUsecase(new(MaquinaRepoMock), new(AuditRepoMock), time.Now())

	_, err := uc.ListFiltered(context.Background(), usecase.ListMaquinasInput{Status: "Quebrado"})
	assertErrContains(t, err, "invalid status")
}

func TestEstoqueUsecase_ListFiltered_Success(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	q := repo.MaquinaListQuery{
		Search:    "X200",
		Status:    "Em estoque",
		Consultor: "Ana",
		SortBy:    "modelo",
		Page:      2,
		Limit:     20,
	}
	items := []model.Maquina{{ID: 7, Modelo: "X200", Codigo: "X200-A"}}
	mRepo.On("List", mock.Anything, q).Return(items, int64(41), nil)

	out, err := uc.ListFiltered(context.Background(), usecase.ListMaquinasInput{
		Search:    " X200 ",
		Status:    "Em estoque",
		Consultor: "Ana",
		SortBy:    "modelo",
		Page:      2,
		Limit:     20,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(41), out.Total)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, 2, out.Page)

	mRepo.AssertExpectations(t)
}

func TestEstoqueUsecase_ListFiltered_StoreErrorDegradesToEmpty(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	mRepo.On("List", mock.Anything, mock.Anything).Return(nil, int64(0), errors.New("connection refused"))

	out, err := uc.ListFiltered(context.Background(), usecase.ListMaquinasInput{})
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Equal(t, int64(0), out.Total)
}

func TestEstoqueUsecase_ListAll_StoreErrorDegradesToEmpty(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	mRepo.On("ListAll", mock.Anything).Return(nil, errors.New("boom"))

	out := uc.ListAll(context.Background())
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

// =====================
// GetByID
// =====================

func TestEstoqueUsecase_GetByID_NotFound(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	mRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Maquina{}, repo.ErrNotFound)

	_, err := uc.GetByID(context.Background(), 99)
	assertErrContains(t, err, "not found")
}

func TestEstoqueUsecase_GetByID_StoreErrorIsNotNotFound(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	mRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Maquina{}, errors.New("timeout"))

	_, err := uc.GetByID(context.Background(), 1)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 500, he.Status)
}

func TestEstoqueUsecase_GetByID_Success(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	mRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Maquina{ID: 1, Modelo: "Split 9000"}, nil)

	m, err := uc.GetByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), m.ID)

	mRepo.AssertExpectations(t)
}

// =====================
// Create / Update / Delete
// =====================

func TestEstoqueUsecase_Create_Validation(t *testing.T) {
	uc := newUsecase(new(MaquinaRepoMock), new(AuditRepoMock), time.Now())

	_, err := uc.Create(context.Background(), "op", usecase.MaquinaInput{Modelo: " ", Status: model.StatusEmEstoque})
	assertErrContains(t, err, "modelo required")

	_, err = uc.Create(context.Background(), "op", usecase.MaquinaInput{Modelo: "X", Status: "Qualquer"})
	assertErrContains(t, err, "invalid status")

	_, err = uc.Create(context.Background(), "op", usecase.MaquinaInput{Modelo: "X", Quantidade: -1, Status: model.StatusEmEstoque})
	assertErrContains(t, err, "quantidade")
}

func TestEstoqueUsecase_Create_Success_DefaultsQuantidade(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	aRepo := new(AuditRepoMock)
	uc := newUsecase(mRepo, aRepo, time.Now())

	mRepo.On("Create", mock.Anything, mock.MatchedBy(func(m model.Maquina) bool {
		return m.Modelo == "Split 9000" && m.Quantidade == 1 && m.Status == model.StatusEmEstoque
	})).Return(model.Maquina{ID: 42, Modelo: "Split 9000", Quantidade: 1, Status: model.StatusEmEstoque}, nil)

	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionCreate && l.ResourceID == 42 && l.Actor == "op" && l.BeforeJSON == ""
	})).Return(nil)

	id, err := uc.Create(context.Background(), "op", usecase.MaquinaInput{
		Modelo: " Split 9000 ",
		Status: model.StatusEmEstoque,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	mRepo.AssertExpectations(t)
	aRepo.AssertExpectations(t)
}

func TestEstoqueUsecase_Create_StoreErrorSurfacesMessage(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	mRepo.On("Create", mock.Anything, mock.Anything).Return(model.Maquina{}, errors.New("duplicate key value"))

	_, err := uc.Create(context.Background(), "op", usecase.MaquinaInput{Modelo: "X", Status: model.StatusPendente})
	assertErrContains(t, err, "duplicate key value")
}

func TestEstoqueUsecase_Update_NotFound(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	mRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Maquina{}, repo.ErrNotFound)

	err := uc.Update(context.Background(), "op", 5, usecase.MaquinaInput{Modelo: "X", Status: model.StatusEntregue})
	assertErrContains(t, err, "not found")
}

func TestEstoqueUsecase_Update_Success(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	aRepo := new(AuditRepoMock)
	uc := newUsecase(mRepo, aRepo, time.Now())

	before := model.Maquina{ID: 5, Modelo: "Velho", Quantidade: 1, Status: model.StatusEmEstoque}
	mRepo.On("FindByID", mock.Anything, int64(5)).Return(before, nil)
	mRepo.On("Update", mock.Anything, mock.MatchedBy(func(m model.Maquina) bool {
		return m.ID == 5 && m.Modelo == "Novo" && m.Status == model.StatusEntregue
	})).Return(nil)
	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdate && l.ResourceID == 5 && l.BeforeJSON != "" && l.AfterJSON != ""
	})).Return(nil)

	err := uc.Update(context.Background(), "op", 5, usecase.MaquinaInput{Modelo: "Novo", Status: model.StatusEntregue})
	assert.NoError(t, err)

	mRepo.AssertExpectations(t)
	aRepo.AssertExpectations(t)
}

func TestEstoqueUsecase_Delete_NotFoundReportsFailure(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	mRepo.On("FindByID", mock.Anything, int64(123)).Return(model.Maquina{}, repo.ErrNotFound)

	err := uc.Delete(context.Background(), "op", 123)
	assertErrContains(t, err, "not found")
}

func TestEstoqueUsecase_Delete_Success(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	aRepo := new(AuditRepoMock)
	uc := newUsecase(mRepo, aRepo, time.Now())

	mRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Maquina{ID: 3, Modelo: "X"}, nil)
	mRepo.On("Delete", mock.Anything, int64(3)).Return(nil)
	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDelete && l.ResourceID == 3 && l.AfterJSON == ""
	})).Return(nil)

	err := uc.Delete(context.Background(), "op", 3)
	assert.NoError(t, err)

	mRepo.AssertExpectations(t)
}

// =====================
// Estatísticas
// =====================

func TestEstoqueUsecase_Estatisticas_SumsQuantidades(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	mRepo.On("ListStatusQuantidade", mock.Anything).Return([]repo.StatusQuantidade{
		{Status: model.StatusEmEstoque, Quantidade: 3},
		{Status: model.StatusPendente, Quantidade: 2},
	}, nil)

	out := uc.Estatisticas(context.Background())
	assert.Equal(t, 3, out.TotalEmEstoque)
	assert.Equal(t, 2, out.TotalPendente)
	assert.Equal(t, 5, out.TotalMaquinas)
}

func TestEstoqueUsecase_Estatisticas_MissingQuantidadeCountsAsOne(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	mRepo.On("ListStatusQuantidade", mock.Anything).Return([]repo.StatusQuantidade{
		{Status: model.StatusEmEstoque, Quantidade: 0},
		{Status: model.StatusEntregue, Quantidade: 4},
	}, nil)

	out := uc.Estatisticas(context.Background())
	assert.Equal(t, 1, out.TotalEmEstoque)
	assert.Equal(t, 0, out.TotalPendente)
	assert.Equal(t, 5, out.TotalMaquinas)
}

func TestEstoqueUsecase_Estatisticas_StoreErrorDegradesToZero(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	mRepo.On("ListStatusQuantidade", mock.Anything).Return(nil, errors.New("boom"))

	out := uc.Estatisticas(context.Background())
	assert.Equal(t, usecase.EstatisticasOutput{}, out)
}

// =====================
// Próximos eventos
// =====================

func TestClassifyEvento(t *testing.T) {
	retirada := date(2026, time.September, 10)
	entrega := date(2026, time.September, 20)

	tipo, data := usecase.ClassifyEvento(model.Maquina{PrevisaoRetirada: retirada})
	assert.Equal(t, usecase.TipoRetirada, tipo)
	assert.Equal(t, retirada, data)

	tipo, data = usecase.ClassifyEvento(model.Maquina{PrevisaoRetirada: retirada, DataEntrega: entrega})
	assert.Equal(t, usecase.TipoRetirada, tipo)
	assert.Equal(t, retirada, data)

	tipo, data = usecase.ClassifyEvento(model.Maquina{PrevisaoRetirada: entrega, DataEntrega: retirada})
	assert.Equal(t, usecase.TipoEntrega, tipo)
	assert.Equal(t, retirada, data)

	tipo, data = usecase.ClassifyEvento(model.Maquina{DataEntrega: entrega})
	assert.Equal(t, usecase.TipoEntrega, tipo)
	assert.Equal(t, entrega, data)
}

func TestEstoqueUsecase_ProximosEventos_DefaultLimitAndToday(t *testing.T) {
	now := time.Date(2026, time.September, 1, 15, 30, 0, 0, time.UTC)
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), now)

	maquinas := []model.Maquina{
		{ID: 1, Modelo: "A", PrevisaoRetirada: date(2026, time.September, 5)},
		{ID: 2, Modelo: "B", DataEntrega: date(2026, time.September, 3)},
	}
	mRepo.On("ListProximos", mock.Anything, now, 5).Return(maquinas, nil)

	eventos := uc.ProximosEventos(context.Background(), 0)
	assert.Equal(t, 2, len(eventos))
	assert.Equal(t, usecase.TipoRetirada, eventos[0].Tipo)
	assert.Equal(t, usecase.TipoEntrega, eventos[1].Tipo)

	mRepo.AssertExpectations(t)
}

func TestEstoqueUsecase_ProximosEventos_StoreErrorDegradesToEmpty(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	mRepo.On("ListProximos", mock.Anything, mock.Anything, 5).Return(nil, errors.New("boom"))

	eventos := uc.ProximosEventos(context.Background(), 5)
	assert.NotNil(t, eventos)
	assert.Empty(t, eventos)
}

// =====================
// Auditoria
// =====================

func TestEstoqueUsecase_ListAuditLogs_InvalidAction(t *testing.T) {
	uc := newUsecase(new(MaquinaRepoMock), new(AuditRepoMock), time.Now())

	_, err := uc.ListAuditLogs(context.Background(), usecase.ListAuditLogsInput{Action: "TRUNCATE"})
	assertErrContains(t, err, "invalid action")
}

func TestEstoqueUsecase_ListAuditLogs_MapsFilter(t *testing.T) {
	aRepo := new(AuditRepoMock)
	uc := newUsecase(new(MaquinaRepoMock), aRepo, time.Now())

	from := date(2026, time.August, 1)
	entries := []model.AuditLog{{ID: 1, Action: model.AuditActionUpdate, ResourceID: 7}}

	aRepo.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
		return f.Actor != nil && *f.Actor == "op" &&
			f.Action != nil && *f.Action == model.AuditActionUpdate &&
			f.ResourceID != nil && *f.ResourceID == 7 &&
			f.CreatedFrom != nil && f.CreatedFrom.Equal(*from) &&
			f.CreatedTo == nil &&
			f.Limit == 20 && f.Offset == 0
	})).Return(entries, nil)

	logs, err := uc.ListAuditLogs(context.Background(), usecase.ListAuditLogsInput{
		Actor:      "op",
		Action:     "UPDATE",
		ResourceID: 7,
		From:       from,
		Limit:      20,
	})
	assert.NoError(t, err)
	assert.Equal(t, entries, logs)

	aRepo.AssertExpectations(t)
}

func TestEstoqueUsecase_ListAuditLogs_StoreError(t *testing.T) {
	aRepo := new(AuditRepoMock)
	uc := newUsecase(new(MaquinaRepoMock), aRepo, time.Now())

	aRepo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := uc.ListAuditLogs(context.Background(), usecase.ListAuditLogsInput{})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 500, he.Status)
}

// =====================
// Consultores
// =====================

func TestEstoqueUsecase_ListConsultores(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	mRepo.On("ListConsultores", mock.Anything).Return([]string{"Ana", "Bruno"}, nil)

	assert.Equal(t, []string{"Ana", "Bruno"}, uc.ListConsultores(context.Background()))
}

func TestEstoqueUsecase_ListConsultores_StoreErrorDegradesToEmpty(t *testing.T) {
	mRepo := new(MaquinaRepoMock)
	uc := newUsecase(mRepo, new(AuditRepoMock), time.Now())

	mRepo.On("ListConsultores", mock.Anything).Return(nil, errors.New("boom"))

	out := uc.ListConsultores(context.Background())
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
