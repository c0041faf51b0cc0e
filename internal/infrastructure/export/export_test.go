package export

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

func detail(location, product string, qty int64) *entity.StockDetail {
	return &entity.StockDetail{
		Stock:        entity.Stock{Quantity: qty, LastUpdated: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		ProductName:  product,
		Unit:         "und",
		LocationName: location,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ExportStock
// ─────────────────────────────────────────────────────────────────────────────

func TestExportStock_FilasYTotal(t *testing.T) {
	rows := []*entity.StockDetail{detail("Bodega", "Arroz", 12), detail("Tienda", "Arroz", 3)}
	out, err := NewXLSXExporter(5).ExportStock(context.Background(), rows, time.Now())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(stockSheet)
	require.NoError(t, err)
	require.Len(t, got, 6, "título, vacía, encabezado, 2 filas, total")
	assert.Equal(t, stockHeaders, got[2])
	assert.Equal(t, []string{"Bodega", "Arroz", "", "und", "12", "2024-05-01 10:00"}, got[3])
	total, err := f.GetCellValue(stockSheet, "E6")
	require.NoError(t, err)
	assert.Equal(t, "15", total)
}

func TestExportStock_SinFilas(t *testing.T) {
	out, err := NewXLSXExporter(0).ExportStock(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

// ─────────────────────────────────────────────────────────────────────────────
// ReadProducts
// ─────────────────────────────────────────────────────────────────────────────

func TestReadProducts_CSVConPuntoYComaYLatin1(t *testing.T) {
	src := "Listado de precios;;\nCódigo;Nombre;Unidad;Categoría\n7701;Café molido;und;Bebidas\n;;;\n7702;Azúcar;kg;Despensa\n"
	latin1, err := charmap.Windows1252.NewEncoder().String(src)
	require.NoError(t, err)

	got, err := ReadProducts("catalogo.csv", strings.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, got, 2, "la fila vacía se descarta")
	assert.Equal(t, ProductRow{Name: "Café molido", Barcode: "7701", Unit: "und", Category: "Bebidas"}, got[0])
	assert.Equal(t, "Azúcar", got[1].Name)
}

func TestReadProducts_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Producto", "Código de producto", "Descripción del producto"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Harina", "7703", "Trigo 1kg"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	got, err := ReadProducts("catalogo.xlsx", buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ProductRow{Name: "Harina", Barcode: "7703", Description: "Trigo 1kg"}, got[0])
}

func TestReadProducts_Errores(t *testing.T) {
	_, err := ReadProducts("catalogo.pdf", strings.NewReader("x"))
	assert.Error(t, err)
	_, err = ReadProducts("catalogo.csv", strings.NewReader("foo,bar\n1,2\n"))
	assert.ErrorContains(t, err, "nombre")
}
