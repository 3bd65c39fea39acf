package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortDirection(t *testing.T) {
	// campos de texto de pessoa/produto sobem, o resto desce
	asc := []string{"modelo", "cliente"}
	for _, f := range asc {
		assert.Equal(t, "asc", sortDirection(f), f)
	}

	desc := []string{"codigo", "consultor", "status", "data_entrega", "previsao_retirada", "data_saida", "created_at"}
	for _, f := range desc {
		assert.Equal(t, "desc", sortDirection(f), f)
	}
}
