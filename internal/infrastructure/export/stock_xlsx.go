// Package export genera planillas XLSX de existencias y lee catálogos de productos desde XLSX/CSV.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Stock-api/internal/application/usecase"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

var _ usecase.StockExporter = (*XLSXExporter)(nil)

const stockSheet = "Existencias"

var stockHeaders = []string{"Ubicación", "Producto", "Código de barras", "Unidad", "Cantidad", "Última actualización"}

// XLSXExporter escribe la planilla de existencias con excelize.
type XLSXExporter struct {
	lowStock int64
}

// NewXLSXExporter construye el exportador; las filas con cantidad <= lowStock se resaltan.
func NewXLSXExporter(lowStock int64) *XLSXExporter {
	return &XLSXExporter{lowStock: lowStock}
}

// ExportStock una fila por (producto, ubicación) más una fila de total.
func (e *XLSXExporter) ExportStock(_ context.Context, rows []*entity.StockDetail, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), stockSheet); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	low, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "AA1E1E", Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := f.SetCellValue(stockSheet, "A1", "Existencias al "+generatedAt.Format("02/01/2006 15:04")); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(stockSheet, "A3", &stockHeaders); err != nil {
		return nil, fmt.Errorf("xlsx: encabezados: %w", err)
	}
	if err := f.SetCellStyle(stockSheet, "A3", "F3", header); err != nil {
		return nil, err
	}

	r := 4
	var total int64
	for _, d := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r)
		values := []interface{}{d.LocationName, d.ProductName, d.Barcode, d.Unit, d.Quantity, d.LastUpdated.Format("2006-01-02 15:04")}
		if err := f.SetSheetRow(stockSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", r, err)
		}
		if d.Quantity <= e.lowStock {
			qtyCell, _ := excelize.CoordinatesToCellName(5, r)
			if err := f.SetCellStyle(stockSheet, qtyCell, qtyCell, low); err != nil {
				return nil, err
			}
		}
		total += d.Quantity
		r++
	}
	totalCell, _ := excelize.CoordinatesToCellName(4, r)
	if err := f.SetSheetRow(stockSheet, totalCell, &[]interface{}{"Total", total}); err != nil {
		return nil, err
	}

	for col, width := range map[string]float64{"A": 22, "B": 36, "C": 18, "D": 10, "E": 12, "F": 20} {
		if err := f.SetColWidth(stockSheet, col, col, width); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(stockSheet, &excelize.Panes{Freeze: true, YSplit: 3, TopLeftCell: "A4", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
