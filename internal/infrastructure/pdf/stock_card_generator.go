// Package pdf genera el kardex (tarjeta de stock) de un producto en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre + SKU + estado        │  QR (SKU/id)         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Entrada | Salida | Saldo | Motivo ... │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: existencia actual + punto de reorden + generado     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"time"

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

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var kindLabels = map[entity.MovementKind]string{
	entity.MovementIN:         "Entrada",
	entity.MovementOUT:        "Salida",
	entity.MovementRETURN:     "Devolución",
	entity.MovementADJUSTMENT: "Ajuste",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.StockCardPDFGenerator = (*MarotoStockCardGenerator)(nil)

// MarotoStockCardGenerator implementa inventory.StockCardPDFGenerator usando Maroto v2.
type MarotoStockCardGenerator struct{}

// NewMarotoStockCardGenerator construye el generador.
func NewMarotoStockCardGenerator() *MarotoStockCardGenerator { return &MarotoStockCardGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoStockCardGenerator) Generate(product *entity.Product, lines []inventory.StockCardLine, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+product.SKU, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(lines)...)
	if len(lines) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(product, generatedAt))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(p *entity.Product) core.Row {
	return row.New(24).Add(
		col.New(9).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(p.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 6,
			}),
			text.New(fmt.Sprintf("SKU: %s   |   Estado: %s   |   Precio: $%s",
				p.SKU, p.Status, formatMoney(p.Price.StringFixed(0)),
			), props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
		col.New(3).Add(code.NewQr(p.SKU+"|"+p.ID, props.Rect{
			Percent: 90,
			Center:  true,
		})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Entrada", 1, align.Right),
		h("Salida", 1, align.Right),
		h("Saldo", 1, align.Right),
		h("Motivo", 3, align.Left),
		h("Usuario", 2, align.Left),
	)
}

// tableRows: una fila por movimiento. Un ajuste muestra la diferencia contra el saldo anterior.
func tableRows(lines []inventory.StockCardLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	var prev int64
	for _, l := range lines {
		m := l.Movement
		var in, out int64
		switch m.Kind {
		case entity.MovementIN, entity.MovementRETURN:
			in = m.Quantity
		case entity.MovementOUT:
			out = m.Quantity
		case entity.MovementADJUSTMENT:
			if d := l.Balance - prev; d >= 0 {
				in = d
			} else {
				out = -d
			}
		}
		prev = l.Balance

		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		result = append(result, row.New(6).Add(
			cell(m.MovementDate.Format("02/01/2006 15:04"), 2, align.Left),
			cell(kindLabel(m), 2, align.Left),
			cell(blankZero(in), 1, align.Right),
			cell(blankZero(out), 1, align.Right),
			cell(formatMoney(strconv.FormatInt(l.Balance, 10)), 1, align.Right),
			cell(truncate(m.Reason, 60), 3, align.Left),
			cell(nonEmpty(m.PerformedBy, "-"), 2, align.Left),
		))
	}
	return result
}

func footerRow(p *entity.Product, generatedAt time.Time) core.Row {
	qtyColor := colorPrimary
	if p.IsLowStock() {
		qtyColor = colorAlert
	}
	return row.New(16).Add(
		col.New(6).Add(
			text.New("Existencia actual: "+formatMoney(strconv.FormatInt(p.Quantity, 10)), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 2, Color: qtyColor,
			}),
			text.New("Punto de reorden: "+formatMoney(strconv.FormatInt(p.ReorderLevel, 10)), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func kindLabel(m *entity.StockMovement) string {
	label, ok := kindLabels[m.Kind]
	if !ok {
		return string(m.Kind)
	}
	if m.Kind == entity.MovementADJUSTMENT {
		return fmt.Sprintf("%s (=%d)", label, m.Quantity)
	}
	return label
}

func blankZero(n int64) string {
	if n == 0 {
		return ""
	}
	return formatMoney(strconv.FormatInt(n, 10))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
