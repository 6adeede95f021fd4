package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// ReceiptGenerator genera la representación PDF de un movimiento.
type ReceiptGenerator interface {
	GenerateMovementPDF(ctx context.Context, m *entity.Movement) ([]byte, error)
}

// ReceiptUseCase comprobante PDF de ingresos y ventas.
type ReceiptUseCase struct {
	processor *Processor
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(processor *Processor, generator ReceiptGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{processor: processor, generator: generator}
}

// Download carga el movimiento y genera su PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - *domain.NotFoundError     si el movimiento no existe.
func (uc *ReceiptUseCase) Download(ctx context.Context, kind entity.MovementKind, id int64) (pdfBytes []byte, filename string, err error) {
	m, err := uc.processor.GetMovement(ctx, kind, id)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateMovementPDF(ctx, m)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("%s_%06d.pdf", strings.ToLower(kind.Entity()), m.ID)
	return pdfBytes, filename, nil
}
