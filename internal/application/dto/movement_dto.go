package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateIngressRequest body para POST /api/ingresses.
// Si user_id se omite se usa el usuario del token.
type CreateIngressRequest struct {
	ProviderID   int64                      `json:"provider_id" validate:"required"`
	UserID       int64                      `json:"user_id,omitempty"`
	SerialNumber string                     `json:"serial_number" validate:"max=20"`
	DateTime     *time.Time                 `json:"date_time,omitempty"`
	Tax          *decimal.Decimal           `json:"tax,omitempty"`
	Details      []CreateIngressLineRequest `json:"details"`
}

// CreateIngressLineRequest detalle de ingreso.
type CreateIngressLineRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Cost      decimal.Decimal `json:"cost"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	ClientID int64                   `json:"client_id" validate:"required"`
	UserID   int64                   `json:"user_id,omitempty"`
	DateTime *time.Time              `json:"date_time,omitempty"`
	Tax      *decimal.Decimal        `json:"tax,omitempty"`
	Details  []CreateSaleLineRequest `json:"details"`
}

// CreateSaleLineRequest detalle de venta. sale_price se acepta pero se ignora.
type CreateSaleLineRequest struct {
	ProductID int64            `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Discount  decimal.Decimal  `json:"discount"`
	SalePrice *decimal.Decimal `json:"sale_price,omitempty"`
}

// PartySummaryResponse resumen de proveedor, cliente o usuario.
type PartySummaryResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Document string `json:"document,omitempty"`
}

// ProductSummaryResponse resumen de producto en un detalle.
type ProductSummaryResponse struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// MovementLineResponse detalle con su subtotal calculado.
type MovementLineResponse struct {
	ID        int64                  `json:"id"`
	Product   ProductSummaryResponse `json:"product"`
	Quantity  int                    `json:"quantity"`
	UnitPrice decimal.Decimal        `json:"unit_price"`
	Discount  decimal.Decimal        `json:"discount"`
	Subtotal  decimal.Decimal        `json:"subtotal"`
}

// MovementResponse salida de un ingreso o una venta.
type MovementResponse struct {
	ID           int64                  `json:"id"`
	Kind         string                 `json:"kind"`
	Counterparty PartySummaryResponse   `json:"counterparty"`
	User         PartySummaryResponse   `json:"user"`
	SerialNumber string                 `json:"serial_number,omitempty"`
	DateTime     time.Time              `json:"date_time"`
	Subtotal     decimal.Decimal        `json:"subtotal"`
	Tax          decimal.Decimal        `json:"tax"`
	Total        decimal.Decimal        `json:"total"`
	Details      []MovementLineResponse `json:"details"`
}

// InsufficientStockResponse cuerpo 409 con el faltante.
type InsufficientStockResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ProductID int64  `json:"product_id"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}
