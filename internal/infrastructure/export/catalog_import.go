package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// ProductRow fila de catálogo leída de una planilla.
type ProductRow struct {
	Name        string
	Barcode     string
	Unit        string
	Category    string
	Description string
}

// Palabras clave por columna, en orden de prioridad ("código de producto" es código, no nombre).
// La fila con más coincidencias entre las 10 primeras es el encabezado.
var columnKeywords = []struct {
	key   string
	words []string
}{
	{"barcode", []string{"código", "codigo", "barcode", "ean"}},
	{"description", []string{"descripción", "descripcion", "description"}},
	{"category", []string{"categoría", "categoria", "category"}},
	{"unit", []string{"unidad", "und", "unit"}},
	{"name", []string{"nombre", "producto", "name", "product"}},
}

// ReadProducts lee un .xlsx o .csv (UTF-8 o Latin-1) y devuelve las filas con nombre.
func ReadProducts(filename string, r io.Reader) ([]ProductRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer archivo: %w", err)
	}
	var rows [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		rows, err = xlsxRows(data)
	case ".csv":
		rows, err = csvRows(data)
	default:
		return nil, fmt.Errorf("formato no soportado: %s", filename)
	}
	if err != nil {
		return nil, err
	}
	return mapRows(rows)
}

func xlsxRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("el archivo no tiene hojas")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheet, err)
	}
	return rows, nil
}

// csvRows acepta ',' o ';' como separador. Planillas exportadas desde Excel en español
// suelen venir en Windows-1252.
func csvRows(data []byte) ([][]string, error) {
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decodificar csv: %w", err)
		}
		data = decoded
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	if first, _, _ := bytes.Cut(data, []byte("\n")); bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		reader.Comma = ';'
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	return rows, nil
}

func mapRows(rows [][]string) ([]ProductRow, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("archivo vacío")
	}
	headerIdx, cols := detectHeader(rows)
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("no se encontró la columna de nombre de producto")
	}
	get := func(row []string, key string) string {
		i, ok := cols[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	var out []ProductRow
	for _, row := range rows[headerIdx+1:] {
		p := ProductRow{
			Name:        get(row, "name"),
			Barcode:     get(row, "barcode"),
			Unit:        get(row, "unit"),
			Category:    get(row, "category"),
			Description: get(row, "description"),
		}
		if p.Name == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func detectHeader(rows [][]string) (int, map[string]int) {
	best, bestCols := 0, map[string]int{}
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		cols := map[string]int{}
		for j, cell := range rows[i] {
			c := strings.ToLower(strings.TrimSpace(strings.Trim(cell, "\"'\t")))
			for _, ck := range columnKeywords {
				if _, taken := cols[ck.key]; taken {
					continue
				}
				if matchesAny(c, ck.words) {
					cols[ck.key] = j
					break
				}
			}
		}
		if len(cols) > len(bestCols) {
			best, bestCols = i, cols
		}
	}
	return best, bestCols
}

func matchesAny(cell string, words []string) bool {
	for _, w := range words {
		if strings.Contains(cell, w) {
			return true
		}
	}
	return false
}
