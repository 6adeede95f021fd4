package pricing

import (
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MoneyPlaces decimales de todos los montos monetarios.
const MoneyPlaces = 2

// UnitPricePlaces decimales admitidos en precios y costos unitarios (NUMERIC(12,4)).
const UnitPricePlaces = 4

// DefaultTaxRate tasa aplicada cuando el movimiento no trae impuesto explícito.
var DefaultTaxRate = decimal.RequireFromString("0.18")

// TaxPolicy calcula el impuesto de un movimiento a partir de su subtotal.
// Solo se consulta cuando el llamador no envía un impuesto explícito mayor a cero.
type TaxPolicy interface {
	Tax(subtotal decimal.Decimal) decimal.Decimal
}

// FlatRate impuesto como porcentaje fijo del subtotal (0.18 = 18%).
type FlatRate decimal.Decimal

// Tax implementa TaxPolicy.
func (r FlatRate) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(decimal.Decimal(r))
}

// Totals resultado de ComputeTotals.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Engine motor de precios. El valor cero usa DefaultTaxRate.
type Engine struct {
	policy TaxPolicy
}

// NewEngine construye el motor con la política de impuesto indicada (nil = DefaultTaxRate).
func NewEngine(policy TaxPolicy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) taxPolicy() TaxPolicy {
	if e == nil || e.policy == nil {
		return FlatRate(DefaultTaxRate)
	}
	return e.policy
}

// Round redondea half-up (alejándose de cero) a dos decimales.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// FitsPlaces indica si d no tiene más de places decimales significativos.
func FitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// LineSubtotal ingreso: cantidad * costo; venta: cantidad * precio - descuento.
// Se redondea por línea, no solo al final.
func (e *Engine) LineSubtotal(kind entity.MovementKind, line entity.MovementLine) decimal.Decimal {
	gross := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
	if kind == entity.MovementSale {
		gross = gross.Sub(line.Discount)
	}
	return Round(gross)
}

// ComputeTotals suma los subtotales por línea y aplica el impuesto.
// explicitTax mayor a cero se usa tal cual; en otro caso decide la política.
func (e *Engine) ComputeTotals(kind entity.MovementKind, lines []entity.MovementLine, explicitTax *decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(e.LineSubtotal(kind, l))
	}
	var tax decimal.Decimal
	if explicitTax != nil && explicitTax.IsPositive() {
		tax = *explicitTax
	} else {
		tax = Round(e.taxPolicy().Tax(subtotal))
	}
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    Round(subtotal.Add(tax)),
	}
}

// Apply estampa el subtotal de cada línea y los totales en la cabecera.
func (e *Engine) Apply(m *entity.Movement, explicitTax *decimal.Decimal) {
	for i := range m.Lines {
		m.Lines[i].Subtotal = e.LineSubtotal(m.Kind, m.Lines[i])
	}
	t := e.ComputeTotals(m.Kind, m.Lines, explicitTax)
	m.Subtotal, m.Tax, m.Total = t.Subtotal, t.Tax, t.Total
}
