package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Inventario-realtime-api/internal/application/realtime"
	"github.com/jhoicas/Inventario-realtime-api/internal/application/usecase"
	"github.com/jhoicas/Inventario-realtime-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Inventario-realtime-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Inventario-realtime-api/internal/interfaces/http"
	"github.com/jhoicas/Inventario-realtime-api/pkg/config"
	"github.com/jhoicas/Inventario-realtime-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisClient, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer redisClient.Close()

	cache := infraredis.NewCache(redisClient, log)
	bus := infraredis.NewBus(redisClient)

	inventoryRepo := postgres.NewInventoryRepository(pool)
	priceRepo := postgres.NewPriceRepository(pool)
	historyRepo := postgres.NewPriceHistoryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	manager := realtime.NewManager(bus, log)
	if err := manager.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("iniciando el manager de tiempo real")
	}
	defer manager.Stop()

	inventoryUC := usecase.NewInventoryUseCase(
		inventoryRepo, cache, manager, log, cfg.Alerts.LowStockThreshold,
	)
	priceUC := usecase.NewPriceUseCase(
		priceRepo, historyRepo, inventoryRepo, txRunner,
		cache, manager, log, cfg.Alerts.PriceChangePercent,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		InventoryUC: inventoryUC,
		PriceUC:     priceUC,
		Manager:     manager,
		Log:         log,
		AppName:     cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
