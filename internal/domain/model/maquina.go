package model

import "time"

// Status de uma máquina no fluxo de estoque.
type Status string

const (
	StatusEmEstoque Status = "Em estoque"
	StatusEntregue  Status = "Entregue"
	StatusRetirado  Status = "Retirado"
	StatusPendente  Status = "Pendente"
)

// Valid reports whether s is one of the four persistable status values.
func (s Status) Valid() bool {
	switch s {
	case StatusEmEstoque, StatusEntregue, StatusRetirado, StatusPendente:
		return true
	}
	return false
}

// Maquina is one physical batch of a machine model in the tracking
// process. ID and CreatedAt are assigned by the store and never change.
type Maquina struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Modelo     string `gorm:"type:varchar(255);not null" json:"modelo"`
	Quantidade int    `gorm:"not null;default:1" json:"quantidade"`
	Codigo     string `gorm:"type:varchar(100)" json:"codigo"`
	Consultor  string `gorm:"type:varchar(255);index" json:"consultor"`
	Cliente    string `gorm:"type:varchar(255)" json:"cliente"`
	Contato    string `gorm:"type:varchar(100)" json:"contato"`

	// Calendar dates, no time-of-day semantics.
	DataEntrega      *time.Time `gorm:"type:date" json:"data_entrega"`
	QuemRecebeu      string     `gorm:"type:varchar(255)" json:"quem_recebeu"`
	PrevisaoRetirada *time.Time `gorm:"type:date" json:"previsao_retirada"`
	DataSaida        *time.Time `gorm:"type:date" json:"data_saida"`
	QuemEntregou     string     `gorm:"type:varchar(255)" json:"quem_entregou"`

	Status Status `gorm:"type:varchar(20);not null;index" json:"status"`
	Obs    string `gorm:"type:text" json:"obs"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
