package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngressCommand entrada para registrar un ingreso de mercadería.
type IngressCommand struct {
	ProviderID   int64
	UserID       int64
	SerialNumber string
	OccurredAt   *time.Time       // nil = ahora
	Tax          *decimal.Decimal // nil o <= 0 = política por defecto
	Lines        []IngressLine
}

// IngressLine detalle de ingreso: cantidad y costo unitario.
type IngressLine struct {
	ProductID int64
	Quantity  int
	Cost      decimal.Decimal
}

// SaleCommand entrada para registrar una venta.
type SaleCommand struct {
	ClientID   int64
	UserID     int64
	OccurredAt *time.Time
	Tax        *decimal.Decimal
	Lines      []SaleLine
}

// SaleLine detalle de venta. SalePrice se ignora: el precio lo fija el producto al procesar.
type SaleLine struct {
	ProductID int64
	Quantity  int
	Discount  decimal.Decimal
	SalePrice *decimal.Decimal
}
