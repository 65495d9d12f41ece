package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costeo-api/internal/application/inventory"
	"github.com/jhoicas/costeo-api/internal/application/purchasing"
	"github.com/jhoicas/costeo-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Stock     *inventory.StockUseCase
	Invoices  *purchasing.InvoiceUseCase
	JWTSecret string
	Log       *logger.Logger
	Errors    BusinessErrorCounter // opcional
}

// Router registra las rutas de la API. Todas requieren Bearer Token: cada escritura lleva el actor.
func Router(app *fiber.App, deps RouterDeps) {
	errs := errorMapper{log: deps.Log, counter: deps.Errors}
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Stock, errs)
	inv.Post("/adjustments", inventoryHandler.Adjust)
	inv.Post("/transfers", inventoryHandler.Transfer)
	inv.Get("/balances", inventoryHandler.Balances)
	inv.Get("/movements", inventoryHandler.Movements)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Invoices, errs)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.UpdateHeader)
	invoices.Post("/:id/items", invoiceHandler.AddItem)
	invoices.Put("/:id/items", invoiceHandler.ReplaceItems)
	invoices.Delete("/:id/items/:itemId", invoiceHandler.RemoveItem)
	invoices.Post("/:id/confirm", invoiceHandler.Confirm)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)
}
