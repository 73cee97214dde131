package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/p2p-automation/internal/application/exporting"
	"github.com/tu-usuario/p2p-automation/internal/application/invoicing"
	"github.com/tu-usuario/p2p-automation/internal/application/payments"
	"github.com/tu-usuario/p2p-automation/internal/application/purchasing"
	"github.com/tu-usuario/p2p-automation/internal/application/reconciliation"
	"github.com/tu-usuario/p2p-automation/internal/application/vendors"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	VendorUC      *vendors.UseCase
	POUC          *purchasing.UseCase
	InvoiceUC     *invoicing.UseCase
	ReconcileUC   *reconciliation.UseCase
	PaymentUC     *payments.UseCase
	ExportService *exporting.Service
	ExportMonitor *exporting.Monitor
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Vendors
	vendorsGroup := api.Group("/vendors")
	vendorHandler := NewVendorHandler(deps.VendorUC)
	vendorsGroup.Post("/", vendorHandler.Create)
	vendorsGroup.Get("/", vendorHandler.List)
	vendorsGroup.Get("/:id", vendorHandler.GetByID)
	vendorsGroup.Put("/:id", vendorHandler.Update)
	vendorsGroup.Delete("/:id", vendorHandler.Delete)

	// Purchase orders
	poGroup := api.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.POUC)
	poGroup.Post("/", poHandler.Create)
	poGroup.Get("/", poHandler.List)
	poGroup.Get("/:id", poHandler.GetByID)
	poGroup.Post("/:id/approve", poHandler.Approve)
	poGroup.Post("/:id/reject", poHandler.Reject)
	poGroup.Delete("/:id", poHandler.Delete)

	// Invoices (incluye conciliación y aprobación)
	invGroup := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.ReconcileUC, deps.PaymentUC)
	invGroup.Post("/", invoiceHandler.Create)
	invGroup.Get("/", invoiceHandler.List)
	// La ruta fija va antes que las variables para que Fiber no la capture como :id.
	invGroup.Post("/reconcile", invoiceHandler.ReconcileBatch)
	invGroup.Get("/:id", invoiceHandler.GetByID)
	invGroup.Put("/:id", invoiceHandler.Update)
	invGroup.Delete("/:id", invoiceHandler.Delete)
	invGroup.Post("/:id/reconcile", invoiceHandler.Reconcile)
	invGroup.Post("/:id/approve", invoiceHandler.Approve)
	invGroup.Get("/:id/audit", invoiceHandler.AuditTrail)

	// Payments (solo lectura; las transiciones llegan por approve y callback)
	payGroup := api.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.PaymentUC, deps.ExportService)
	payGroup.Get("/", paymentHandler.List)
	payGroup.Get("/:id", paymentHandler.GetByID)
	payGroup.Get("/:id/files/:format", paymentHandler.DownloadFile)

	// Workday callback y vista de estado de integración
	workdayHandler := NewWorkdayHandler(deps.PaymentUC)
	api.Post("/workday/callback", workdayHandler.Callback)
	api.Get("/workday/status/:payment_id", workdayHandler.Status)

	// Exports
	expGroup := api.Group("/exports")
	exportHandler := NewExportHandler(deps.ExportService, deps.ExportMonitor)
	expGroup.Get("/", exportHandler.List)
	expGroup.Get("/file", exportHandler.Download)
	expGroup.Post("/monitor/run", exportHandler.RunMonitor)
}
