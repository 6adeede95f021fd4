package inventory

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/pricing"
)

// ValidateStructure chequeos estructurales previos a cualquier consulta o bloqueo.
// Lista vacía → domain.ErrEmptyLines; cantidades o montos inválidos → domain.ErrInvalidInput.
func ValidateStructure(m *entity.Movement) error {
	if len(m.Lines) == 0 {
		return domain.ErrEmptyLines
	}
	if m.Kind == entity.MovementIngress && utf8.RuneCountInString(m.SerialNumber) > entity.MaxSerialNumberLen {
		return fmt.Errorf("%w: número de serie supera %d caracteres", domain.ErrInvalidInput, entity.MaxSerialNumberLen)
	}
	for i, l := range m.Lines {
		if l.ProductID <= 0 {
			return fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: línea %d con cantidad %d", domain.ErrInvalidInput, i+1, l.Quantity)
		}
		if l.UnitPrice.IsNegative() || l.Discount.IsNegative() {
			return fmt.Errorf("%w: línea %d con montos negativos", domain.ErrInvalidInput, i+1)
		}
		if !pricing.FitsPlaces(l.UnitPrice, pricing.UnitPricePlaces) {
			return fmt.Errorf("%w: línea %d: el costo admite hasta %d decimales", domain.ErrInvalidInput, i+1, pricing.UnitPricePlaces)
		}
		if !pricing.FitsPlaces(l.Discount, pricing.MoneyPlaces) {
			return fmt.Errorf("%w: línea %d: el descuento admite hasta %d decimales", domain.ErrInvalidInput, i+1, pricing.MoneyPlaces)
		}
	}
	return nil
}

// ValidateTax el impuesto explícito se persiste tal cual, por eso no puede tener más de dos decimales.
func ValidateTax(explicitTax *decimal.Decimal) error {
	if explicitTax != nil && !pricing.FitsPlaces(*explicitTax, pricing.MoneyPlaces) {
		return fmt.Errorf("%w: el impuesto admite hasta %d decimales", domain.ErrInvalidInput, pricing.MoneyPlaces)
	}
	return nil
}

// ResolveCounterparty proveedor (ingreso) o cliente (venta) del movimiento.
func ResolveCounterparty(ctx context.Context, repos Repos, kind entity.MovementKind, id int64) (*entity.PartySummary, error) {
	switch kind {
	case entity.MovementIngress:
		p, err := repos.Providers.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get provider: %w", err)
		}
		if p == nil {
			return nil, domain.NewNotFound("Provider", id)
		}
		return p.Summary(), nil
	case entity.MovementSale:
		c, err := repos.Clients.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get client: %w", err)
		}
		if c == nil {
			return nil, domain.NewNotFound("Client", id)
		}
		return c.Summary(), nil
	default:
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, kind)
	}
}

// ResolveActor usuario que registra el movimiento.
func ResolveActor(ctx context.Context, repos Repos, id int64) (*entity.PartySummary, error) {
	u, err := repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, domain.NewNotFound("User", id)
	}
	return u.Summary(), nil
}
