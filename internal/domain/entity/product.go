package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con su stock actual.
// Stock nunca es negativo; solo cambia a través de ingresos y ventas.
type Product struct {
	ID          int64
	CategoryID  *int64
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta vigente
	Stock       int
	ImageURL    string
	Enabled     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Summary devuelve la vista reducida usada en los detalles de movimientos.
func (p *Product) Summary() *ProductSummary {
	return &ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price}
}

// ProductSummary resumen de producto en las respuestas de movimientos.
type ProductSummary struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}
