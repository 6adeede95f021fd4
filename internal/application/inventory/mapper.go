package inventory

import (
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// ToMovementResponse convierte el grafo del movimiento en su salida HTTP.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	out := &dto.MovementResponse{
		ID:           m.ID,
		Kind:         string(m.Kind),
		Counterparty: toParty(m.Counterparty, m.CounterpartyID),
		User:         toParty(m.Actor, m.UserID),
		SerialNumber: m.SerialNumber,
		DateTime:     m.OccurredAt,
		Subtotal:     m.Subtotal,
		Tax:          m.Tax,
		Total:        m.Total,
		Details:      make([]dto.MovementLineResponse, 0, len(m.Lines)),
	}
	for _, l := range m.Lines {
		product := dto.ProductSummaryResponse{ID: l.ProductID}
		if l.Product != nil {
			product = dto.ProductSummaryResponse{ID: l.Product.ID, Name: l.Product.Name, Price: l.Product.Price}
		}
		out.Details = append(out.Details, dto.MovementLineResponse{
			ID:        l.ID,
			Product:   product,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			Subtotal:  l.Subtotal,
		})
	}
	return out
}

// ToMovementResponses convierte un listado.
func ToMovementResponses(list []*entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *ToMovementResponse(m))
	}
	return out
}

func toParty(s *entity.PartySummary, id int64) dto.PartySummaryResponse {
	if s == nil {
		return dto.PartySummaryResponse{ID: id}
	}
	return dto.PartySummaryResponse{ID: s.ID, Name: s.Name, Document: s.Document}
}
