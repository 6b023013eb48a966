package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-realtime-api/internal/application/realtime"
	"github.com/jhoicas/Inventario-realtime-api/internal/application/usecase"
	"github.com/jhoicas/Inventario-realtime-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InventoryUC *usecase.InventoryUseCase
	PriceUC     *usecase.PriceUseCase
	Manager     *realtime.Manager
	Log         *logger.Logger
	AppName     string
}

// Router registra las rutas de la API y los endpoints WebSocket.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": deps.AppName,
			"status":  "running",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	api := app.Group("/api/v1")

	// Inventario. Las rutas fijas van antes de /:id para que fiber no las
	// capture como parámetro.
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	inv.Get("/", inventoryHandler.List)
	inv.Post("/", inventoryHandler.Create)
	inv.Get("/low-stock/alert", inventoryHandler.LowStockAlerts)
	inv.Get("/stats/overview", inventoryHandler.Stats)
	inv.Get("/sku/:sku/exists", inventoryHandler.SKUExists)
	inv.Get("/:id", inventoryHandler.GetByID)
	inv.Put("/:id", inventoryHandler.Update)
	inv.Delete("/:id", inventoryHandler.Delete)

	// Precios
	prices := api.Group("/prices")
	priceHandler := NewPriceHandler(deps.PriceUC)
	prices.Get("/", priceHandler.List)
	prices.Post("/", priceHandler.CreateOrUpdate)
	prices.Get("/changes/significant", priceHandler.SignificantChanges)
	prices.Get("/:id/history", priceHandler.History)
	prices.Get("/:id", priceHandler.CurrentPrice)
	prices.Put("/:id", priceHandler.Update)

	// WebSocket (tiempo real)
	wsHandler := NewWSHandler(deps.Manager, deps.Log)
	app.Get("/ws/stats", wsHandler.Stats)
	app.Use("/ws", wsHandler.Upgrade)
	app.Get("/ws/inventory", websocket.New(wsHandler.Inventory))
	app.Get("/ws/price", websocket.New(wsHandler.Price))
	app.Get("/ws/alerts", websocket.New(wsHandler.Alerts))
}
