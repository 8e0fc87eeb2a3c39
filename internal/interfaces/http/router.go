package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ecommerce-stock/internal/application/allocation"
	"github.com/jhoicas/ecommerce-stock/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Allocator       *allocation.AllocationEngine
	Restorer        *allocation.RestorationEngine
	Adjuster        *allocation.AdjustmentUseCase
	MovementQuery   *usecase.MovementQueryUseCase
	WarehouseUC     *usecase.WarehouseUseCase
	AllocateRetries int
	AllocateBackoff time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Núcleo de asignación: lo consume el flujo de órdenes (checkout/cancelación)
	inv := api.Group("/inventory")
	stockHandler := NewStockHandler(
		deps.Allocator, deps.Restorer, deps.Adjuster, deps.MovementQuery,
		deps.AllocateRetries, deps.AllocateBackoff,
	)
	inv.Post("/allocations", stockHandler.Allocate)
	inv.Post("/restorations", stockHandler.Restore)
	inv.Post("/adjustments", stockHandler.Adjust)
	inv.Put("/stock", stockHandler.SetLevel)
	inv.Get("/movements", stockHandler.ListMovements)

	// Warehouses
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Patch("/:id/active", warehouseHandler.SetActive)
}
