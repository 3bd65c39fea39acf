package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"estoque/internal/domain/model"
	repo "estoque/internal/repository"

	"gorm.io/gorm"
)

type MaquinaGormRepository struct {
	db *gorm.DB
}

// DI
func NewMaquinaGormRepository(db *gorm.DB) *MaquinaGormRepository {
	return &MaquinaGormRepository{db: db}
}

// Campos em que a ordenação é crescente; todos os outros descem
// (datas primeiro as mais recentes).
func sortDirection(sortBy string) string {
	if sortBy == "modelo" || sortBy == "cliente" {
		return "asc"
	}
	return "desc"
}

// ListAll devolve todas as máquinas, mais recentes primeiro.
func (r *MaquinaGormRepository) ListAll(ctx context.Context) ([]model.Maquina, error) {
	var maquinas []model.Maquina
	err := r.db.WithContext(ctx).
		Order("created_at desc").Order("id desc").
		Find(&maquinas).Error
	if err != nil {
		return nil, err
	}
	return maquinas, nil
}

// List aplica busca/filtros/ordenação/paginação e devolve também o
// total do conjunto filtrado (antes da janela).
func (r *MaquinaGormRepository) List(ctx context.Context, q repo.MaquinaListQuery) ([]model.Maquina, int64, error) {
	var maquinas []model.Maquina
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Maquina{})

	// busca: substring case-insensitive em modelo/cliente/codigo
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("modelo ILIKE ? OR cliente ILIKE ? OR codigo ILIKE ?", like, like, like)
	}

	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Consultor != "" {
		tx = tx.Where("consultor = ?", q.Consultor)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Maquina{}, 0, err
	}

	// SortBy já passou pela whitelist do usecase
	tx = tx.Order(q.SortBy + " " + sortDirection(q.SortBy)).Order("id desc")

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&maquinas).Error; err != nil {
		return []model.Maquina{}, 0, err
	}

	return maquinas, total, nil
}

// FindByID busca uma máquina pelo ID.
func (r *MaquinaGormRepository) FindByID(ctx context.Context, id int64) (model.Maquina, error) {
	var m model.Maquina
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Maquina{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Maquina{}, err
	}
	return m, nil
}

// Create insere a máquina; ID e created_at saem preenchidos pelo banco.
func (r *MaquinaGormRepository) Create(ctx context.Context, m model.Maquina) (model.Maquina, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.Maquina{}, err
	}
	return m, nil
}

// Update substitui todos os campos editáveis (ID e created_at ficam).
func (r *MaquinaGormRepository) Update(ctx context.Context, m model.Maquina) error {
	res := r.db.WithContext(ctx).Model(&model.Maquina{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"modelo":            m.Modelo,
		"quantidade":        m.Quantidade,
		"codigo":            m.Codigo,
		"consultor":         m.Consultor,
		"cliente":           m.Cliente,
		"contato":           m.Contato,
		"data_entrega":      m.DataEntrega,
		"quem_recebeu":      m.QuemRecebeu,
		"previsao_retirada": m.PrevisaoRetirada,
		"data_saida":        m.DataSaida,
		"quem_entregou":     m.QuemEntregou,
		"status":            m.Status,
		"obs":               m.Obs,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Delete remove a máquina (hard delete).
func (r *MaquinaGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Maquina{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ListConsultores devolve os consultores distintos, sem vazios.
func (r *MaquinaGormRepository) ListConsultores(ctx context.Context) ([]string, error) {
	var consultores []string
	err := r.db.WithContext(ctx).Model(&model.Maquina{}).
		Where("consultor IS NOT NULL AND consultor <> ''").
		Distinct().
		Pluck("consultor", &consultores).Error
	if err != nil {
		return nil, err
	}
	return consultores, nil
}

// ListStatusQuantidade projeta só status e quantidade, para o dashboard.
func (r *MaquinaGormRepository) ListStatusQuantidade(ctx context.Context) ([]repo.StatusQuantidade, error) {
	var rows []repo.StatusQuantidade
	err := r.db.WithContext(ctx).Model(&model.Maquina{}).
		Select("status, quantidade").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListProximos devolve máquinas com previsão de retirada ou data de
// entrega a partir de hoje, nulls por último.
func (r *MaquinaGormRepository) ListProximos(ctx context.Context, today time.Time, limit int) ([]model.Maquina, error) {
	day := today.Format("2006-01-02")

	var maquinas []model.Maquina
	err := r.db.WithContext(ctx).
		Where("previsao_retirada >= ? OR data_entrega >= ?", day, day).
		Order("previsao_retirada ASC NULLS LAST").
		Order("data_entrega ASC NULLS LAST").
		Limit(limit).
		Find(&maquinas).Error
	if err != nil {
		return nil, err
	}
	return maquinas, nil
}
