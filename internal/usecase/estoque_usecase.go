package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"estoque/internal/domain/model"
	repo "estoque/internal/repository"

	"go.uber.org/zap"
)

// Clock abstrai o "hoje" para os eventos do dashboard.
type Clock interface {
	Now() time.Time
}

// Campos aceitos em sort na listagem filtrada.
var sortableFields = map[string]bool{
	"modelo":            true,
	"cliente":           true,
	"codigo":            true,
	"consultor":         true,
	"status":            true,
	"data_entrega":      true,
	"previsao_retirada": true,
	"data_saida":        true,
	"created_at":        true,
}

const (
	DefaultSortBy = "data_entrega"
	DefaultLimit  = 10
)

type EstoqueUsecase struct {
	maquinaRepo repo.MaquinaRepository
	auditRepo   repo.AuditLogRepository
	clock       Clock
	log         *zap.Logger
}

// DI
func NewEstoqueUsecase(
	maquinaRepo repo.MaquinaRepository,
	auditRepo repo.AuditLogRepository,
	clock Clock,
	log *zap.Logger,
) *EstoqueUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &EstoqueUsecase{
		maquinaRepo: maquinaRepo,
		auditRepo:   auditRepo,
		clock:       clock,
		log:         log,
	}
}

// Critérios da listagem filtrada (GET /estoque).
type ListMaquinasInput struct {
	Search    string
	Status    string
	Consultor string
	SortBy    string
	Page      int
	Limit     int
}

type MaquinaListOutput struct {
	Items []model.Maquina `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ListAll devolve todas as máquinas (created_at desc). Falha de store
// degrada para lista vazia, com log, para a tabela continuar renderizável.
func (u *EstoqueUsecase) ListAll(ctx context.Context) []model.Maquina {
	maquinas, err := u.maquinaRepo.ListAll(ctx)
	if err != nil {
		u.log.Error("listar maquinas falhou", zap.Error(err))
		return []model.Maquina{}
	}
	return maquinas
}

func (u *EstoqueUsecase) ListFiltered(ctx context.Context, in ListMaquinasInput) (MaquinaListOutput, error) {
	if in.SortBy == "" {
		in.SortBy = DefaultSortBy
	}
	if in.Page == 0 {
		in.Page = 1
	}
	if in.Limit == 0 {
		in.Limit = DefaultLimit
	}

	if in.Page < 1 {
		return MaquinaListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return MaquinaListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if !sortableFields[in.SortBy] {
		return MaquinaListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}
	if in.Status != "" && !model.Status(in.Status).Valid() {
		return MaquinaListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	items, total, err := u.maquinaRepo.List(ctx, repo.MaquinaListQuery{
		Search:    strings.TrimSpace(in.Search),
		Status:    in.Status,
		Consultor: in.Consultor,
		SortBy:    in.SortBy,
		Page:      in.Page,
		Limit:     in.Limit,
	})
	if err != nil {
		// degrada para vazio, mantendo a página utilizável
		u.log.Error("listagem filtrada falhou", zap.Error(err))
		return MaquinaListOutput{Items: []model.Maquina{}, Page: in.Page, Limit: in.Limit}, nil
	}

	return MaquinaListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *EstoqueUsecase) GetByID(ctx context.Context, id int64) (model.Maquina, error) {
	if id <= 0 {
		return model.Maquina{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	m, err := u.maquinaRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Maquina{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.log.Error("buscar maquina falhou", zap.Int64("id", id), zap.Error(err))
		return model.Maquina{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return m, nil
}

// Campos editáveis de uma máquina; ID e created_at nunca entram aqui.
type MaquinaInput struct {
	Modelo           string
	Quantidade       int
	Codigo           string
	Consultor        string
	Cliente          string
	Contato          string
	DataEntrega      *time.Time
	QuemRecebeu      string
	PrevisaoRetirada *time.Time
	DataSaida        *time.Time
	QuemEntregou     string
	Status           model.Status
	Obs              string
}

func (u *EstoqueUsecase) validateInput(in *MaquinaInput) error {
	if strings.TrimSpace(in.Modelo) == "" {
		return NewHTTPError(http.StatusBadRequest, "modelo required")
	}
	if in.Quantidade < 0 {
		return NewHTTPError(http.StatusBadRequest, "quantidade must be >= 0")
	}
	if in.Quantidade == 0 {
		in.Quantidade = 1
	}
	if !in.Status.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	return nil
}

func (in MaquinaInput) toModel() model.Maquina {
	return model.Maquina{
		Modelo:           strings.TrimSpace(in.Modelo),
		Quantidade:       in.Quantidade,
		Codigo:           in.Codigo,
		Consultor:        in.Consultor,
		Cliente:          in.Cliente,
		Contato:          in.Contato,
		DataEntrega:      in.DataEntrega,
		QuemRecebeu:      in.QuemRecebeu,
		PrevisaoRetirada: in.PrevisaoRetirada,
		DataSaida:        in.DataSaida,
		QuemEntregou:     in.QuemEntregou,
		Status:           in.Status,
		Obs:              in.Obs,
	}
}

func (u *EstoqueUsecase) Create(ctx context.Context, actor string, in MaquinaInput) (int64, error) {
	if err := u.validateInput(&in); err != nil {
		return 0, err
	}

	created, err := u.maquinaRepo.Create(ctx, in.toModel())
	if err != nil {
		// mensagem do store vai para o usuário
		return 0, NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := u.audit(ctx, actor, model.AuditActionCreate, created.ID, nil, &created); err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created.ID, nil
}

func (u *EstoqueUsecase) Update(ctx context.Context, actor string, id int64, in MaquinaInput) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.validateInput(&in); err != nil {
		return err
	}

	before, err := u.maquinaRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	after := in.toModel()
	after.ID = id
	if err := u.maquinaRepo.Update(ctx, after); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := u.audit(ctx, actor, model.AuditActionUpdate, id, &before, &after); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *EstoqueUsecase) Delete(ctx context.Context, actor string, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	before, err := u.maquinaRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := u.maquinaRepo.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := u.audit(ctx, actor, model.AuditActionDelete, id, &before, nil); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ListConsultores alimenta o filtro da listagem; degrada para vazio.
func (u *EstoqueUsecase) ListConsultores(ctx context.Context) []string {
	consultores, err := u.maquinaRepo.ListConsultores(ctx)
	if err != nil {
		u.log.Error("listar consultores falhou", zap.Error(err))
		return []string{}
	}
	return consultores
}

type EstatisticasOutput struct {
	TotalEmEstoque int `json:"total_em_estoque"`
	TotalPendente  int `json:"total_pendente"`
	TotalMaquinas  int `json:"total_maquinas"`
}

// Estatisticas soma quantidades por status, sempre recalculado do
// conjunto completo. Quantidade ausente conta como 1.
func (u *EstoqueUsecase) Estatisticas(ctx context.Context) EstatisticasOutput {
	rows, err := u.maquinaRepo.ListStatusQuantidade(ctx)
	if err != nil {
		u.log.Error("estatisticas falharam", zap.Error(err))
		return EstatisticasOutput{}
	}

	var out EstatisticasOutput
	for _, row := range rows {
		q := row.Quantidade
		if q <= 0 {
			q = 1
		}
		out.TotalMaquinas += q
		switch row.Status {
		case model.StatusEmEstoque:
			out.TotalEmEstoque += q
		case model.StatusPendente:
			out.TotalPendente += q
		}
	}
	return out
}

// Tipo de evento derivado das datas de uma máquina.
type TipoEvento string

const (
	TipoRetirada TipoEvento = "retirada"
	TipoEntrega  TipoEvento = "entrega"
)

type Evento struct {
	Maquina model.Maquina `json:"maquina"`
	Tipo    TipoEvento    `json:"tipo"`
	Data    *time.Time    `json:"data"`
}

// ClassifyEvento decide se a ocorrência exibida é uma retirada ou uma
// entrega, e qual data mostrar.
func ClassifyEvento(m model.Maquina) (TipoEvento, *time.Time) {
	if m.PrevisaoRetirada != nil && (m.DataEntrega == nil || m.PrevisaoRetirada.Before(*m.DataEntrega)) {
		return TipoRetirada, m.PrevisaoRetirada
	}
	return TipoEntrega, m.DataEntrega
}

// ProximosEventos lista as próximas entregas/retiradas a partir de hoje.
// Falha de store degrada para lista vazia, com log.
func (u *EstoqueUsecase) ProximosEventos(ctx context.Context, limit int) []Evento {
	if limit <= 0 {
		limit = 5
	}

	maquinas, err := u.maquinaRepo.ListProximos(ctx, u.clock.Now(), limit)
	if err != nil {
		u.log.Error("proximos eventos falharam", zap.Error(err))
		return []Evento{}
	}

	eventos := make([]Evento, 0, len(maquinas))
	for _, m := range maquinas {
		tipo, data := ClassifyEvento(m)
		eventos = append(eventos, Evento{Maquina: m, Tipo: tipo, Data: data})
	}
	return eventos
}

// Consulta do log de auditoria.
type ListAuditLogsInput struct {
	Actor      string
	Action     string
	ResourceID int64
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

func (u *EstoqueUsecase) ListAuditLogs(ctx context.Context, in ListAuditLogsInput) ([]model.AuditLog, error) {
	if in.Action != "" && !model.AuditAction(in.Action).Valid() {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid action")
	}
	if in.ResourceID < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid resource_id")
	}

	filter := repo.AuditLogFilter{
		Limit:       in.Limit,
		Offset:      in.Offset,
		CreatedFrom: in.From,
		CreatedTo:   in.To,
	}
	if in.Actor != "" {
		filter.Actor = &in.Actor
	}
	if in.Action != "" {
		action := model.AuditAction(in.Action)
		filter.Action = &action
	}
	if in.ResourceID > 0 {
		filter.ResourceID = &in.ResourceID
	}

	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		u.log.Error("listar auditoria falhou", zap.Error(err))
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}

func (u *EstoqueUsecase) audit(ctx context.Context, actor string, action model.AuditAction, id int64, before, after *model.Maquina) error {
	entry := model.AuditLog{
		Actor:        actor,
		Action:       action,
		ResourceType: model.AuditResourceMaquina,
		ResourceID:   id,
		CreatedAt:    u.clock.Now(),
	}
	if before != nil {
		b, _ := json.Marshal(before)
		entry.BeforeJSON = string(b)
	}
	if after != nil {
		b, _ := json.Marshal(after)
		entry.AfterJSON = string(b)
	}
	return u.auditRepo.Create(ctx, entry)
}
