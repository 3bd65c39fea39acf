package usecase

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"estoque/internal/domain/model"

	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Estoque"

// Cabeçalhos fixos da planilha/CSV, nesta ordem.
var exportHeaders = []string{
	"Modelo",
	"Código",
	"Quantidade",
	"Consultor",
	"Cliente",
	"Contato",
	"Data de Entrega",
	"Quem Recebeu",
	"Previsão de Retirada",
	"Data de Saída",
	"Quem Entregou",
	"Status",
	"Observações",
}

// Larguras das colunas A..M, em caracteres.
var exportColWidths = []float64{15, 15, 10, 15, 20, 15, 15, 15, 15, 15, 15, 15, 30}

// Transforma máquinas em planilha XLSX e CSV para download.
type ExportUsecase struct{}

func NewExportUsecase() *ExportUsecase {
	return &ExportUsecase{}
}

// formatDate renders a calendar date the Brazilian way, empty when nil.
func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format("02/01/2006")
}

func exportRow(m model.Maquina) []string {
	return []string{
		m.Modelo,
		m.Codigo,
		fmt.Sprintf("%d", m.Quantidade),
		m.Consultor,
		m.Cliente,
		m.Contato,
		formatDate(m.DataEntrega),
		m.QuemRecebeu,
		formatDate(m.PrevisaoRetirada),
		formatDate(m.DataSaida),
		m.QuemEntregou,
		string(m.Status),
		m.Obs,
	}
}

// ToXLSX gera a planilha: larguras fixas e autofiltro cobrindo
// cabeçalho e dados.
func (u *ExportUsecase) ToXLSX(maquinas []model.Maquina) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}

	for col, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for i, m := range maquinas {
		for col, v := range exportRow(m) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			// quantidade como número, o resto como texto
			if col == 2 {
				if err := f.SetCellValue(exportSheetName, cell, m.Quantidade); err != nil {
					return nil, err
				}
				continue
			}
			if err := f.SetCellValue(exportSheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	for i, w := range exportColWidths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(exportSheetName, name, name, w); err != nil {
			return nil, err
		}
	}

	filterRange := fmt.Sprintf("A1:M%d", len(maquinas)+1)
	if err := f.AutoFilter(exportSheetName, filterRange, nil); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToCSV gera o CSV com BOM UTF-8 na frente, para importadores de
// planilha não estragarem acentuação. Delimitador vírgula ou
// ponto-e-vírgula.
func (u *ExportUsecase) ToCSV(maquinas []model.Maquina, semicolon bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(&buf)
	if semicolon {
		w.Comma = ';'
	}

	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, m := range maquinas {
		if err := w.Write(exportRow(m)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Refinamento em memória antes de exportar.
type ExportFilter struct {
	Status     string
	DataInicio *time.Time
	DataFim    *time.Time
	IncluirObs bool
}

// FilterForExport filtra por status e por intervalo inclusivo da data
// de entrega (registros sem data de entrega ficam de fora quando algum
// limite é informado) e apaga as observações quando pedido. Nunca
// altera a entrada.
func (u *ExportUsecase) FilterForExport(maquinas []model.Maquina, filter ExportFilter) []model.Maquina {
	out := make([]model.Maquina, 0, len(maquinas))

	for _, m := range maquinas {
		if filter.Status != "" && string(m.Status) != filter.Status {
			continue
		}
		if filter.DataInicio != nil {
			if m.DataEntrega == nil || m.DataEntrega.Before(*filter.DataInicio) {
				continue
			}
		}
		if filter.DataFim != nil {
			if m.DataEntrega == nil || m.DataEntrega.After(*filter.DataFim) {
				continue
			}
		}

		if !filter.IncluirObs {
			m.Obs = ""
		}
		out = append(out, m)
	}

	return out
}
