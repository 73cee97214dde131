// reconcile_job ejecuta una pasada de conciliación batch sobre todas las
// facturas en estado received y termina.
//
// Uso: go run ./cmd/reconcile_job [-dry-run] [-log-level info]
package main

import (
	"context"
	"flag"
	"os"

	"github.com/tu-usuario/p2p-automation/internal/application/audit"
	"github.com/tu-usuario/p2p-automation/internal/application/reconciliation"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/matching"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/postgres"
	"github.com/tu-usuario/p2p-automation/pkg/config"
	"github.com/tu-usuario/p2p-automation/pkg/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "evalúa las facturas sin persistir transiciones ni auditoría")
	logLevel := flag.String("log-level", "info", "nivel de log: debug, info, warn, error")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: *logLevel})
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)

	if *dryRun {
		runDry(ctx, log, invoiceRepo, poRepo)
		return
	}

	auditor := audit.NewRecorder(auditRepo, log)
	uc := reconciliation.NewUseCase(invoiceRepo, poRepo, auditor, log)

	stats, err := uc.ReconcileBatch(ctx, "reconcile-job")
	if err != nil {
		log.Error().Err(err).Msg("job de conciliación abortado")
		os.Exit(1)
	}
	if stats.Errors > 0 {
		os.Exit(1)
	}
}

// runDry evalúa cada factura con el evaluador puro y solo reporta veredictos.
func runDry(ctx context.Context, log *logger.Logger, invoiceRepo *postgres.InvoiceRepo, poRepo *postgres.PurchaseOrderRepo) {
	pending, err := invoiceRepo.List(entity.InvoiceReceived, "")
	if err != nil {
		log.Fatal().Err(err).Msg("listar facturas pendientes")
	}

	for _, inv := range pending {
		if err := ctx.Err(); err != nil {
			return
		}
		po, err := poRepo.GetByID(inv.POID)
		if err != nil {
			log.Warn().Str("invoice_id", inv.ID).Str("po_id", inv.POID).Msg("orden de compra no disponible")
			continue
		}
		result := matching.Evaluate(inv, po)
		log.Info().
			Str("invoice_id", inv.ID).
			Str("invoice_number", inv.InvoiceNumber).
			Str("verdict", result.Verdict).
			Int("discrepancies", len(result.Discrepancies)).
			Msg("veredicto (dry-run)")
	}
	log.Info().Int("pending", len(pending)).Msg("dry-run completado, nada persistido")
}
