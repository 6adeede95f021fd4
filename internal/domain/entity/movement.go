package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind distingue ingresos (crédito de stock) y ventas (débito de stock).
type MovementKind string

const (
	MovementIngress MovementKind = "INGRESS"
	MovementSale    MovementKind = "SALE"
)

// CounterpartyEntity nombre de la entidad contraparte según el tipo de movimiento.
func (k MovementKind) CounterpartyEntity() string {
	if k == MovementSale {
		return "Client"
	}
	return "Provider"
}

// Entity nombre de la entidad del movimiento ("Ingress" o "Sale").
func (k MovementKind) Entity() string {
	if k == MovementSale {
		return "Sale"
	}
	return "Ingress"
}

// Valid indica si el tipo es uno de los soportados.
func (k MovementKind) Valid() bool {
	return k == MovementIngress || k == MovementSale
}

// MaxSerialNumberLen longitud máxima del número de serie (comprobante) de un ingreso.
const MaxSerialNumberLen = 20

// Movement cabecera de un ingreso o una venta. Inmutable una vez persistido.
type Movement struct {
	ID             int64
	Kind           MovementKind
	CounterpartyID int64 // proveedor (ingreso) o cliente (venta)
	UserID         int64
	SerialNumber   string // solo ingresos
	OccurredAt     time.Time
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	Lines          []MovementLine

	// Poblados en lecturas y en la respuesta de creación.
	Counterparty *PartySummary
	Actor        *PartySummary
}

// ProductIDs devuelve los ids de producto de las líneas, en orden y con repetidos.
func (m *Movement) ProductIDs() []int64 {
	ids := make([]int64, 0, len(m.Lines))
	for _, l := range m.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

// MovementLine detalle de un movimiento.
// UnitPrice es el costo unitario en ingresos y el precio de venta en ventas.
type MovementLine struct {
	ID        int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal // solo ventas
	Subtotal  decimal.Decimal

	Product *ProductSummary
}
