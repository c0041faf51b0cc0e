// Package pdf genera el acta de una sesión de conteo de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Ubicación + dirección │ Acta N° + Estado + Fechas  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Código | Und | Esperado | Contado | Dif.  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: líneas, contadas, sobrantes, faltantes, neto       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS + QR con el id de la sesión                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
)

var _ inventory.SessionPDFGenerator = (*SessionReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
	colorGreen   = &props.Color{Red: 20, Green: 120, Blue: 60}
)

// SessionReportGenerator implementa inventory.SessionPDFGenerator con Maroto v2.
type SessionReportGenerator struct {
	company string
}

// NewSessionReportGenerator construye el generador; company aparece como autor del documento.
func NewSessionReportGenerator(company string) *SessionReportGenerator {
	return &SessionReportGenerator{company: company}
}

// GenerateSessionPDF arma el acta y devuelve sus bytes.
func (g *SessionReportGenerator) GenerateSessionPDF(_ context.Context, rep inventory.SessionReport) ([]byte, error) {
	if rep.Session == nil || rep.Location == nil {
		return nil, fmt.Errorf("pdf: sesión y ubicación son obligatorias")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de conteo de inventario", true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(rep.Lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(rep.Summary))
	m.AddRows(line.NewRow(6))
	m.AddRows(signatureRow(rep))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(rep inventory.SessionReport) core.Row {
	s := rep.Session
	end := "en curso"
	if s.EndTime != nil {
		end = s.EndTime.Format("02/01/2006 15:04")
	}
	status := "ABIERTA"
	if !s.IsOpen() {
		status = "CERRADA"
	}
	return row.New(22).Add(
		col.New(7).Add(
			text.New(rep.Location.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(rep.Location.Address, "—"), props.Text{Size: 8, Top: 9, Color: colorGray}),
			text.New("Responsable: "+nonEmpty(rep.StartedByName, "—"), props.Text{Size: 8, Top: 14, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("ACTA DE CONTEO DE INVENTARIO", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(shortID(s.ID)+" · "+status, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6}),
			text.New("Inicio: "+s.StartTime.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
			text.New("Cierre: "+end, props.Text{Size: 8, Align: align.Right, Top: 17, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Código", 2, align.Left),
		h("Und", 1, align.Center),
		h("Esperado", 2, align.Right),
		h("Contado", 2, align.Right),
		h("Dif.", 1, align.Right),
	)
}

func tableRows(lines []inventory.SessionReportLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		counted, diff, diffColor := "—", "", colorGray
		if l.Line.IsCounted() {
			counted = formatQty(*l.Line.CountedQuantity)
			d := *l.Line.Difference()
			diff = formatSigned(d)
			switch {
			case d > 0:
				diffColor = colorGreen
			case d < 0:
				diffColor = colorRed
			}
		}
		cell := func(a align.Type) props.Text {
			return props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}
		}
		rows = append(rows, row.New(6).Add(
			col.New(4).Add(text.New(l.ProductName, cell(align.Left))),
			col.New(2).Add(text.New(nonEmpty(l.Barcode, "—"), cell(align.Left))),
			col.New(1).Add(text.New(l.Unit, cell(align.Center))),
			col.New(2).Add(text.New(formatQty(l.Line.ExpectedQuantity), cell(align.Right))),
			col.New(2).Add(text.New(counted, cell(align.Right))),
			col.New(1).Add(text.New(diff, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Style: fontstyle.Bold, Color: diffColor})),
		))
	}
	return rows
}

func summaryRow(s entity.SessionSummary) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2})
	}
	value := func(v string) core.Component {
		return text.New(v, props.Text{Size: 8, Align: align.Right, Right: 1})
	}
	return row.New(24).Add(
		col.New(6).Add(text.New(
			fmt.Sprintf("%d líneas · %d contadas · %d sin contar", s.Lines, s.Counted, s.Uncounted),
			props.Text{Size: 8, Color: colorGray, Top: 1},
		)),
		col.New(3).Add(
			label("Sobrantes:"), label("Faltantes:"), label("Diferencia neta:"),
		),
		col.New(3).Add(
			value(strconv.Itoa(s.Surpluses)),
			value(strconv.Itoa(s.Shortages)),
			text.New(formatSigned(s.NetDifference), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Color: colorPrimary}),
		),
	)
}

func signatureRow(rep inventory.SessionReport) core.Row {
	sign := func(label string) core.Col {
		return col.New(4).Add(
			text.New("______________________________", props.Text{Size: 8, Align: align.Center, Top: 20}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 25, Color: colorGray}),
		)
	}
	return row.New(40).Add(
		sign("Responsable del conteo"),
		sign("Supervisor"),
		col.New(4).Add(code.NewQr(rep.Session.ID, props.Rect{Percent: 80, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return "N° " + id[:8]
	}
	return "N° " + id
}

// formatQty inserta puntos de miles. Ej: 1500 -> "1.500", -25000 -> "-25.000".
func formatQty(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}

// formatSigned como formatQty pero con "+" en positivos.
func formatSigned(n int64) string {
	if n > 0 {
		return "+" + formatQty(n)
	}
	return formatQty(n)
}
