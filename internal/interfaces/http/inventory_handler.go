package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/application/inventory"
)

// InventoryHandler ajustes, traslados, saldos y kardex (protegido).
type InventoryHandler struct {
	uc *inventory.StockUseCase
	errorMapper
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockUseCase, errs errorMapper) *InventoryHandler {
	return &InventoryHandler{uc: uc, errorMapper: errs}
}

// Adjust godoc
// @Summary      Ajuste manual de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AdjustStockRequest  true  "warehouse_id, product_id, unit_id, quantity, direction (IN|OUT)"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == 0 {
		return h.unauthorized(c)
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return h.invalidBody(c)
	}
	out, err := h.uc.Adjust(c.UserContext(), actorID, in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transfer godoc
// @Summary      Traslado entre bodegas
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TransferStockRequest  true  "from_warehouse_id, to_warehouse_id, product_id, unit_id, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == 0 {
		return h.unauthorized(c)
	}
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return h.invalidBody(c)
	}
	out, err := h.uc.Transfer(c.UserContext(), actorID, in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Balances godoc
// @Summary      Saldos actuales
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        unit_id       query  string  false  "Filtrar por unidad"
// @Success      200  {object}  dto.BalanceListResponse
// @Router       /api/inventory/balances [get]
func (h *InventoryHandler) Balances(c *fiber.Ctx) error {
	out, err := h.uc.Balances(c.UserContext(), dto.BalanceQuery{
		WarehouseID: c.Query("warehouse_id"),
		ProductID:   c.Query("product_id"),
		UnitID:      c.Query("unit_id"),
		Page:        pageFromQuery(c),
	})
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Kardex
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        invoice_id    query  string  false  "Filtrar por factura"
// @Param        from          query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to            query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	out, err := h.uc.Movements(c.UserContext(), dto.MovementQuery{
		WarehouseID: c.Query("warehouse_id"),
		ProductID:   c.Query("product_id"),
		UnitID:      c.Query("unit_id"),
		InvoiceID:   c.Query("invoice_id"),
		From:        c.Query("from"),
		To:          c.Query("to"),
		Page:        pageFromQuery(c),
	})
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}
