// Package pdf genera el comprobante imprimible de ingresos y ventas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de comprobante │  N° + Fecha                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR / CLIENTE + documento    │  Registrado por        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Desc. | Subtotal          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto / TOTAL                        │
//	│  QR con la referencia del movimiento                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa inventory.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	company string
	printer *message.Printer
}

// NewMarotoReceiptGenerator construye el generador. company aparece como autor del documento.
func NewMarotoReceiptGenerator(company string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{
		company: company,
		printer: message.NewPrinter(language.Spanish),
	}
}

// GenerateMovementPDF genera el PDF del movimiento y devuelve sus bytes.
// El movimiento debe venir hidratado (contraparte, usuario y productos).
func (g *MarotoReceiptGenerator) GenerateMovementPDF(_ context.Context, m *entity.Movement) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("pdf: movimiento nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title(m.Kind), true).
		WithAuthor(g.company, true).
		Build()

	doc := maroto.New(cfg)

	doc.AddRows(headerRow(m))
	doc.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	doc.AddRows(partiesRow(m))
	doc.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	doc.AddRows(tableHeaderRow(m.Kind))
	doc.AddRows(g.tableDetailRows(m)...)

	doc.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	doc.AddRows(g.totalsRow(m))
	doc.AddRows(line.NewRow(3))
	doc.AddRows(referenceRow(m))

	out, err := doc.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func title(kind entity.MovementKind) string {
	if kind == entity.MovementIngress {
		return "Comprobante de ingreso"
	}
	return "Comprobante de venta"
}

// headerRow: tipo de comprobante (izq) y número + fecha (der).
func headerRow(m *entity.Movement) core.Row {
	number := fmt.Sprintf("N° %06d", m.ID)
	if m.SerialNumber != "" {
		number += "  (" + m.SerialNumber + ")"
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(title(m.Kind), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(number, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+m.OccurredAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// partiesRow: proveedor o cliente (izq) y usuario que registró (der).
func partiesRow(m *entity.Movement) core.Row {
	label := "CLIENTE"
	if m.Kind == entity.MovementIngress {
		label = "PROVEEDOR"
	}
	party := entity.PartySummary{ID: m.CounterpartyID}
	if m.Counterparty != nil {
		party = *m.Counterparty
	}
	actor := fmt.Sprintf("#%d", m.UserID)
	if m.Actor != nil {
		actor = m.Actor.Name
	}
	return row.New(14).Add(
		col.New(8).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(party.Name, fmt.Sprintf("#%d", party.ID)), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Documento: "+nonEmpty(party.Document, "-"), props.Text{
				Size: 8, Top: 11, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("REGISTRADO POR", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(actor, props.Text{Size: 9, Align: align.Right, Top: 6}),
		),
	)
}

func tableHeaderRow(kind entity.MovementKind) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	priceLabel := "Precio Unit."
	if kind == entity.MovementIngress {
		priceLabel = "Costo Unit."
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h(priceLabel, 2, align.Right),
		h("Desc.", 1, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea, en el orden del movimiento.
func (g *MarotoReceiptGenerator) tableDetailRows(m *entity.Movement) []core.Row {
	result := make([]core.Row, 0, len(m.Lines))
	for _, l := range m.Lines {
		name := fmt.Sprintf("Producto #%d", l.ProductID)
		if l.Product != nil {
			name = l.Product.Name
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(g.money(l.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(g.money(l.Discount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(g.money(l.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func (g *MarotoReceiptGenerator) totalsRow(m *entity.Movement) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Impuesto:", 7),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 13,
			}),
		),
		col.New(3).Add(
			value(g.money(m.Subtotal), 1),
			value(g.money(m.Tax), 7),
			text.New(g.money(m.Total), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 13,
			}),
		),
	)
}

// referenceRow: QR con tipo, id y total para verificación en mostrador.
func referenceRow(m *entity.Movement) core.Row {
	ref := fmt.Sprintf("%s-%06d|%s", m.Kind, m.ID, m.Total.StringFixed(2))
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(ref, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New(ref, props.Text{Size: 7, Top: 12, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea con separadores en español y dos decimales. Ej: 1234567.8 → "$1.234.567,80".
func (g *MarotoReceiptGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%v", number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}
