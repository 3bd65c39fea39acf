package repository

import (
	"context"
	"errors"
	"time"

	"estoque/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// Critérios da listagem filtrada. SortBy must be validated against the
// sortable-field whitelist before it reaches the store.
type MaquinaListQuery struct {
	Search    string
	Status    string
	Consultor string
	SortBy    string
	Page      int
	Limit     int
}

// Projeção usada pelo dashboard (status + quantidade apenas).
type StatusQuantidade struct {
	Status     model.Status
	Quantidade int
}

// Persistência das máquinas do estoque.
type MaquinaRepository interface {
	ListAll(ctx context.Context) ([]model.Maquina, error)
	List(ctx context.Context, q MaquinaListQuery) ([]model.Maquina, int64, error)
	FindByID(ctx context.Context, id int64) (model.Maquina, error)

	Create(ctx context.Context, m model.Maquina) (model.Maquina, error)
	Update(ctx context.Context, m model.Maquina) error
	Delete(ctx context.Context, id int64) error

	ListConsultores(ctx context.Context) ([]string, error)
	ListStatusQuantidade(ctx context.Context) ([]StatusQuantidade, error)
	ListProximos(ctx context.Context, today time.Time, limit int) ([]model.Maquina, error)
}
