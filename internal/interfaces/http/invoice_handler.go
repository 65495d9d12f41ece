package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/application/purchasing"
)

// InvoiceHandler facturas de compra: cabecera, ítems y transiciones de estado (protegido).
type InvoiceHandler struct {
	uc *purchasing.InvoiceUseCase
	errorMapper
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *purchasing.InvoiceUseCase, errs errorMapper) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, errorMapper: errs}
}

// Create godoc
// @Summary      Crear factura de compra (DRAFT)
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateInvoiceRequest  true  "provider_id, warehouse_id, number, date"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == 0 {
		return h.unauthorized(c)
	}
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return h.invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actorID, in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura con ítems y total
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        provider_id   query  string  false  "Filtrar por proveedor"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        status        query  string  false  "DRAFT | CONFIRMED | CANCELED"
// @Param        from          query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to            query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), dto.InvoiceQuery{
		ProviderID:  c.Query("provider_id"),
		WarehouseID: c.Query("warehouse_id"),
		Status:      c.Query("status"),
		From:        c.Query("from"),
		To:          c.Query("to"),
		Page:        pageFromQuery(c),
	})
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// UpdateHeader godoc
// @Summary      Editar cabecera (solo DRAFT)
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                          true  "ID de la factura"
// @Param        body  body      dto.UpdateInvoiceHeaderRequest  true  "campos a modificar"
// @Success      200   {object}  dto.InvoiceResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) UpdateHeader(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == 0 {
		return h.unauthorized(c)
	}
	var in dto.UpdateInvoiceHeaderRequest
	if err := c.BodyParser(&in); err != nil {
		return h.invalidBody(c)
	}
	out, err := h.uc.UpdateHeader(c.UserContext(), actorID, c.Params("id"), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar ítem (solo DRAFT)
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "ID de la factura"
// @Param        body  body      dto.InvoiceItemRequest  true  "product_id, unit_id, quantity, unit_price"
// @Success      201   {object}  dto.InvoiceResponse
// @Router       /api/invoices/{id}/items [post]
func (h *InvoiceHandler) AddItem(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == 0 {
		return h.unauthorized(c)
	}
	var in dto.InvoiceItemRequest
	if err := c.BodyParser(&in); err != nil {
		return h.invalidBody(c)
	}
	out, err := h.uc.AddItem(c.UserContext(), actorID, c.Params("id"), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ReplaceItems godoc
// @Summary      Reemplazar ítems (solo DRAFT)
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "ID de la factura"
// @Param        body  body      dto.ReplaceItemsRequest  true  "items"
// @Success      200   {object}  dto.InvoiceResponse
// @Router       /api/invoices/{id}/items [put]
func (h *InvoiceHandler) ReplaceItems(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == 0 {
		return h.unauthorized(c)
	}
	var in dto.ReplaceItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return h.invalidBody(c)
	}
	out, err := h.uc.ReplaceItems(c.UserContext(), actorID, c.Params("id"), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Eliminar ítem (solo DRAFT)
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true  "ID de la factura"
// @Param        itemId  path      string  true  "ID del ítem"
// @Success      200     {object}  dto.InvoiceResponse
// @Router       /api/invoices/{id}/items/{itemId} [delete]
func (h *InvoiceHandler) RemoveItem(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == 0 {
		return h.unauthorized(c)
	}
	out, err := h.uc.RemoveItem(c.UserContext(), actorID, c.Params("id"), c.Params("itemId"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar factura (DRAFT → CONFIRMED, ingresa stock)
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true   "ID de la factura"
// @Param        body  body      dto.ConfirmInvoiceRequest  false  "observation"
// @Success      200   {object}  dto.InvoiceResponse
// @Router       /api/invoices/{id}/confirm [post]
func (h *InvoiceHandler) Confirm(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == 0 {
		return h.unauthorized(c)
	}
	var in dto.ConfirmInvoiceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return h.invalidBody(c)
		}
	}
	out, err := h.uc.Confirm(c.UserContext(), actorID, c.Params("id"), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular factura (CONFIRMED → CANCELED, revierte stock)
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "ID de la factura"
// @Param        body  body      dto.CancelInvoiceRequest  true  "reason"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == 0 {
		return h.unauthorized(c)
	}
	var in dto.CancelInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return h.invalidBody(c)
	}
	out, err := h.uc.Cancel(c.UserContext(), actorID, c.Params("id"), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}
