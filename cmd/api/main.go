package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/ecommerce-stock/internal/application/allocation"
	"github.com/jhoicas/ecommerce-stock/internal/application/usecase"
	"github.com/jhoicas/ecommerce-stock/internal/infrastructure/notifier"
	"github.com/jhoicas/ecommerce-stock/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/ecommerce-stock/internal/interfaces/http"
	"github.com/jhoicas/ecommerce-stock/internal/scheduler"
	"github.com/jhoicas/ecommerce-stock/pkg/config"
	"github.com/jhoicas/ecommerce-stock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
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

	// Repos atados al pool (lecturas advisory); las mutaciones van por el TxRunner.
	stockRepo := postgres.NewStockRecordRepository(pool)
	movRepo := postgres.NewMovementLogRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Inventory.LockTimeout())

	// Notificador de bajo stock: log siempre; webhook si hay URL configurada.
	var lowStock allocation.LowStockNotifier = notifier.NewLogNotifier(log)
	if cfg.Notifier.WebhookURL != "" {
		lowStock = notifier.MultiNotifier{
			notifier.NewLogNotifier(log),
			notifier.NewWebhookNotifier(cfg.Notifier),
		}
	}

	selector := allocation.NewWarehouseSelector(stockRepo)
	allocator := allocation.NewAllocationEngine(txRunner, selector, lowStock, log)
	restorer := allocation.NewRestorationEngine(txRunner, log)
	adjuster := allocation.NewAdjustmentUseCase(txRunner, warehouseRepo, lowStock, log)
	movementQuery := usecase.NewMovementQueryUseCase(movRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)

	// Barrido periódico de bajo stock
	sweep := allocation.NewLowStockSweep(stockRepo, lowStock, log)
	sched := scheduler.New(sweep, cfg.Inventory.SweepSpec, log)
	sched.Start()
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Allocator:       allocator,
		Restorer:        restorer,
		Adjuster:        adjuster,
		MovementQuery:   movementQuery,
		WarehouseUC:     warehouseUC,
		AllocateRetries: cfg.Inventory.AllocateRetries,
		AllocateBackoff: cfg.Inventory.AllocateBackoff(),
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
