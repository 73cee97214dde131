package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/p2p-automation/internal/application/audit"
	"github.com/tu-usuario/p2p-automation/internal/application/exporting"
	"github.com/tu-usuario/p2p-automation/internal/application/invoicing"
	apppayments "github.com/tu-usuario/p2p-automation/internal/application/payments"
	"github.com/tu-usuario/p2p-automation/internal/application/purchasing"
	"github.com/tu-usuario/p2p-automation/internal/application/reconciliation"
	"github.com/tu-usuario/p2p-automation/internal/application/vendors"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/memory"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/postgres"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/storage"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/workday"
	httpRouter "github.com/tu-usuario/p2p-automation/internal/interfaces/http"
	"github.com/tu-usuario/p2p-automation/pkg/config"
	"github.com/tu-usuario/p2p-automation/pkg/logger"
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
		Str("store_driver", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		vendorRepo  repository.VendorRepository
		poRepo      repository.PurchaseOrderRepository
		invoiceRepo repository.InvoiceRepository
		paymentRepo repository.PaymentRepository
		auditRepo   repository.AuditLogRepository
	)
	if cfg.App.StoreDriver == "memory" {
		// Solo para desarrollo local: todo se pierde al reiniciar.
		log.Warn().Msg("usando almacenamiento en memoria")
		vendorRepo = memory.NewVendorRepository()
		poRepo = memory.NewPurchaseOrderRepository()
		invoiceRepo = memory.NewInvoiceRepository()
		paymentRepo = memory.NewPaymentRepository()
		auditRepo = memory.NewAuditLogRepository()
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		vendorRepo = postgres.NewVendorRepository(pool)
		poRepo = postgres.NewPurchaseOrderRepository(pool)
		invoiceRepo = postgres.NewInvoiceRepository(pool)
		paymentRepo = postgres.NewPaymentRepository(pool)
		auditRepo = postgres.NewAuditLogRepository(pool)
	}

	var blobs repository.BlobStore
	if cfg.Blob.Driver == "memory" {
		blobs = memory.NewBlobStore()
	} else {
		fsStore, err := storage.NewFilesystemStore(cfg.Blob.Root)
		if err != nil {
			log.Fatal().Err(err).Msg("blob store en disco")
		}
		blobs = fsStore
	}

	auditor := audit.NewRecorder(auditRepo, log)
	vendorUC := vendors.NewUseCase(vendorRepo, auditor)
	poUC := purchasing.NewUseCase(poRepo, vendorRepo, auditor)
	invoiceUC := invoicing.NewUseCase(invoiceRepo, poRepo, auditRepo, auditor)
	reconcileUC := reconciliation.NewUseCase(invoiceRepo, poRepo, auditor, log)
	paymentUC := apppayments.NewUseCase(
		paymentRepo, invoiceRepo, poRepo, blobs,
		workday.NewFileBuilder(), auditor, log,
	)
	deliveryClient := workday.NewClient(cfg.Workday.CallbackURL, log)
	exportMonitor := exporting.NewMonitor(paymentRepo, blobs, deliveryClient, auditor, log)
	exportService := exporting.NewService(blobs, auditor)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "P2P Automation API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		VendorUC:      vendorUC,
		POUC:          poUC,
		InvoiceUC:     invoiceUC,
		ReconcileUC:   reconcileUC,
		PaymentUC:     paymentUC,
		ExportService: exportService,
		ExportMonitor: exportMonitor,
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
