package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// MovementHandler expone ingresos y ventas (protegido).
type MovementHandler struct {
	processor *inventory.Processor
	receipts  *inventory.ReceiptUseCase
	log       zerolog.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(processor *inventory.Processor, receipts *inventory.ReceiptUseCase, log zerolog.Logger) *MovementHandler {
	return &MovementHandler{processor: processor, receipts: receipts, log: log}
}

// CreateIngress godoc
// @Summary      Registrar ingreso de mercadería
// @Description  Suma stock por cada detalle. Si user_id se omite se usa el usuario del token.
// @Tags         ingresses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIngressRequest  true  "Cabecera y detalles"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/ingresses [post]
func (h *MovementHandler) CreateIngress(c *fiber.Ctx) error {
	var in dto.CreateIngressRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	cmd := inventory.IngressCommand{
		ProviderID:   in.ProviderID,
		UserID:       actorID(c, in.UserID),
		SerialNumber: in.SerialNumber,
		OccurredAt:   in.DateTime,
		Tax:          in.Tax,
		Lines:        make([]inventory.IngressLine, 0, len(in.Details)),
	}
	for _, d := range in.Details {
		cmd.Lines = append(cmd.Lines, inventory.IngressLine{ProductID: d.ProductID, Quantity: d.Quantity, Cost: d.Cost})
	}
	m, err := h.processor.CreateIngress(c.UserContext(), cmd)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(m))
}

// CreateSale godoc
// @Summary      Registrar venta
// @Description  Descuenta stock. El precio unitario lo fija el producto; sale_price se ignora.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Cabecera y detalles"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *MovementHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	cmd := inventory.SaleCommand{
		ClientID:   in.ClientID,
		UserID:     actorID(c, in.UserID),
		OccurredAt: in.DateTime,
		Tax:        in.Tax,
		Lines:      make([]inventory.SaleLine, 0, len(in.Details)),
	}
	for _, d := range in.Details {
		cmd.Lines = append(cmd.Lines, inventory.SaleLine{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			Discount:  d.Discount,
			SalePrice: d.SalePrice,
		})
	}
	m, err := h.processor.CreateSale(c.UserContext(), cmd)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(m))
}

// ListIngresses godoc
// @Summary      Listar ingresos
// @Tags         ingresses
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/ingresses [get]
func (h *MovementHandler) ListIngresses(c *fiber.Ctx) error {
	return h.list(c, entity.MovementIngress)
}

// ListSales godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/sales [get]
func (h *MovementHandler) ListSales(c *fiber.Ctx) error {
	return h.list(c, entity.MovementSale)
}

// GetIngress godoc
// @Summary      Obtener ingreso por ID
// @Tags         ingresses
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del ingreso"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ingresses/{id} [get]
func (h *MovementHandler) GetIngress(c *fiber.Ctx) error {
	return h.get(c, entity.MovementIngress)
}

// GetSale godoc
// @Summary      Obtener venta por ID
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *MovementHandler) GetSale(c *fiber.Ctx) error {
	return h.get(c, entity.MovementSale)
}

// IngressPDF godoc
// @Summary      Comprobante PDF de un ingreso
// @Tags         ingresses
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del ingreso"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ingresses/{id}/pdf [get]
func (h *MovementHandler) IngressPDF(c *fiber.Ctx) error {
	return h.pdf(c, entity.MovementIngress)
}

// SalePDF godoc
// @Summary      Comprobante PDF de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/pdf [get]
func (h *MovementHandler) SalePDF(c *fiber.Ctx) error {
	return h.pdf(c, entity.MovementSale)
}

func (h *MovementHandler) list(c *fiber.Ctx, kind entity.MovementKind) error {
	list, err := h.processor.ListMovements(c.UserContext(), kind)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inventory.ToMovementResponses(list))
}

func (h *MovementHandler) get(c *fiber.Ctx, kind entity.MovementKind) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	m, err := h.processor.GetMovement(c.UserContext(), kind, id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inventory.ToMovementResponse(m))
}

func (h *MovementHandler) pdf(c *fiber.Ctx, kind entity.MovementKind) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	body, filename, err := h.receipts.Download(c.UserContext(), kind, id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}

// actorID: el user_id explícito del body gana; si falta, el usuario autenticado.
func actorID(c *fiber.Ctx, explicit int64) int64 {
	if explicit != 0 {
		return explicit
	}
	return GetUserID(c)
}
