// Package pdf implementa la versión imprimible del informe de conciliación
// de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha/hora de la corrida                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: productos / ok / divergentes / registros           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Apertura | Ent | Sal | Ventas | Esp |     │
//	│         Real | Delta | Estado (divergentes resaltados)       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/Inventario-ledger/internal/application/audit"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary   = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray      = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDivergent = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorOK        = &props.Color{Red: 30, Green: 120, Blue: 50}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa audit.ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateReportPDF genera el PDF del informe y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateReportPDF(_ context.Context, report *audit.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Informe de Conciliación de Inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report.Summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(report.Rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(report.Summary))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar informe: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha de la corrida (der).
func headerRow(report *audit.Report) core.Row {
	fecha := report.GeneratedAt.Format("02/01/2006 15:04:05")

	return row.New(14).Add(
		col.New(8).Add(
			text.New("INFORME DE CONCILIACIÓN DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Comparación del stock materializado contra el log de movimientos", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// summaryRow: conteos de la corrida.
func summaryRow(s audit.Summary) core.Row {
	stat := func(label, value string, color *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Center, Color: color, Top: 5,
			}),
		)
	}
	return row.New(14).Add(
		stat("Productos auditados", fmt.Sprintf("%d", s.TotalProducts), colorPrimary),
		stat("Conciliados", fmt.Sprintf("%d", s.OKCount), colorOK),
		stat("Divergentes", fmt.Sprintf("%d", s.DivergentCount), colorDivergent),
		stat("Movs / Líneas venta", fmt.Sprintf("%d / %d", s.MovementsExamined, s.SaleItemsExamined), colorGray),
	)
}

// tableHeaderRow: cabecera de la tabla de productos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 3, align.Left),
		h("Apertura", 1, align.Right),
		h("Entradas", 1, align.Right),
		h("Salidas", 1, align.Right),
		h("Ventas", 1, align.Right),
		h("Esperado", 1, align.Right),
		h("Real", 1, align.Right),
		h("Delta", 1, align.Right),
		h("Estado", 2, align.Center),
	)
}

// tableRows: una fila por producto; las divergentes en rojo.
func tableRows(rows []audit.Row) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		rowColor := colorGray
		estado := "OK"
		if r.Status == audit.StatusDivergent {
			rowColor = colorDivergent
			estado = "DIVERGENTE"
		}
		num := func(s string, size int) core.Col {
			return col.New(size).Add(text.New(s, props.Text{
				Size: 7, Align: align.Right, Top: 1, Right: 1,
			}))
		}
		result = append(result, row.New(6).Add(
			col.New(3).Add(text.New(r.ProductName, props.Text{
				Size: 7, Align: align.Left, Top: 1, Left: 1,
			})),
			num(r.OpeningQuantity.StringFixed(2), 1),
			num(r.TotalEntries.StringFixed(2), 1),
			num(r.TotalExits.StringFixed(2), 1),
			num(r.TotalSalesConsumed.StringFixed(2), 1),
			num(r.ExpectedQuantity.StringFixed(2), 1),
			num(r.ActualQuantity.StringFixed(2), 1),
			num(r.Delta.StringFixed(2), 1),
			col.New(2).Add(text.New(estado, props.Text{
				Style: fontstyle.Bold, Size: 7, Align: align.Center,
				Color: rowColor, Top: 1,
			})),
		))
	}
	return result
}

// footerRow: leyenda de interpretación.
func footerRow(s audit.Summary) core.Row {
	leyenda := "Todos los productos concilian contra el log de movimientos."
	if s.DivergentCount > 0 {
		leyenda = fmt.Sprintf(
			"%d producto(s) con delta ≥ 0.01 entre cantidad esperada y real. "+
				"Una venta en vuelo puede producir divergencias transitorias; "+
				"repita la corrida antes de investigar.",
			s.DivergentCount,
		)
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(leyenda, props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	))
}
