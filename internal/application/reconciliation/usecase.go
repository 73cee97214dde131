package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"github.com/tu-usuario/p2p-automation/internal/application/audit"
	"github.com/tu-usuario/p2p-automation/internal/application/dto"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/matching"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
	"github.com/tu-usuario/p2p-automation/pkg/logger"
)

// UseCase es el motor de conciliación: orquesta la carga de factura y OC,
// delega el veredicto al evaluador puro y aplica la transición de estado
// con guard condicional (at-most-once por factura).
type UseCase struct {
	invoices repository.InvoiceRepository
	orders   repository.PurchaseOrderRepository
	auditor  *audit.Recorder
	log      *logger.Logger
}

// NewUseCase construye el motor de conciliación.
func NewUseCase(
	invoices repository.InvoiceRepository,
	orders repository.PurchaseOrderRepository,
	auditor *audit.Recorder,
	log *logger.Logger,
) *UseCase {
	return &UseCase{invoices: invoices, orders: orders, auditor: auditor, log: log}
}

// Reconcile concilia una factura individual contra su orden de compra.
// Errores: domain.ErrNotFound (factura u OC inexistente),
// domain.ErrAlreadyProcessed (la factura ya no está en received, o otro
// actor ganó la transición).
func (uc *UseCase) Reconcile(ctx context.Context, invoiceID, actor string) (*dto.ReconciliationOutcome, error) {
	outcome, err := uc.reconcileOne(ctx, invoiceID, actor, entity.AuditActionReconcile)
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", invoiceID).
		Str("verdict", outcome.Status).
		Msg("factura conciliada")
	return outcome, nil
}

// ReconcileBatch concilia todas las facturas en estado received.
// Aisla fallos por factura: una OC inexistente o no conciliable cuenta como
// skipped (la factura queda en received para intervención manual); un fallo
// de infraestructura cuenta como error y el job continúa con la siguiente.
func (uc *UseCase) ReconcileBatch(ctx context.Context, actor string) (*dto.BatchStats, error) {
	pending, err := uc.invoices.List(entity.InvoiceReceived, "")
	if err != nil {
		return nil, fmt.Errorf("list received invoices: %w", err)
	}

	stats := &dto.BatchStats{}
	for _, inv := range pending {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		outcome, err := uc.reconcileBatchItem(ctx, inv, actor)
		switch {
		case err == nil && outcome != nil:
			stats.Processed++
			if outcome.Status == matching.VerdictMatched {
				stats.Matched++
			} else {
				stats.Rejected++
			}
		case err == nil:
			// OC ausente o no conciliable; la factura no se toca.
			stats.Skipped++
		case errors.Is(err, domain.ErrAlreadyProcessed):
			// Otro actor transicionó la factura entre el listado y el guard.
			stats.Skipped++
		default:
			stats.Errors++
			uc.log.Error().Err(err).
				Str("invoice_id", inv.ID).
				Msg("error conciliando factura en batch")
			uc.auditor.Record(ctx, audit.Entry(
				entity.AuditTypeInvoiceAction, entity.AuditActionReconcileError,
				"invoice", inv.ID, actor,
				map[string]any{"error": err.Error()},
			))
		}
	}

	uc.auditor.Record(ctx, audit.Entry(
		entity.AuditTypeInvoiceAction, entity.AuditActionJobComplete,
		"reconciliation_job", "batch", actor,
		map[string]any{
			"processed": stats.Processed,
			"matched":   stats.Matched,
			"rejected":  stats.Rejected,
			"errors":    stats.Errors,
			"skipped":   stats.Skipped,
		},
	))

	uc.log.Info().
		Int("processed", stats.Processed).
		Int("matched", stats.Matched).
		Int("rejected", stats.Rejected).
		Int("errors", stats.Errors).
		Int("skipped", stats.Skipped).
		Msg("job de conciliación batch completado")
	return stats, nil
}

// reconcileBatchItem aplica la variante batch sobre una factura ya cargada.
// Devuelve (nil, nil) cuando la factura debe contarse como skipped.
func (uc *UseCase) reconcileBatchItem(ctx context.Context, inv *entity.Invoice, actor string) (*dto.ReconciliationOutcome, error) {
	po, err := uc.orders.GetByID(inv.POID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warn().
				Str("invoice_id", inv.ID).
				Str("po_id", inv.POID).
				Msg("factura omitida: la orden de compra no existe")
			return nil, nil
		}
		return nil, fmt.Errorf("load purchase order %s: %w", inv.POID, err)
	}
	if !po.Status.Reconcilable() {
		uc.log.Warn().
			Str("invoice_id", inv.ID).
			Str("po_id", po.ID).
			Str("po_status", string(po.Status)).
			Msg("factura omitida: la orden de compra no está en estado conciliable")
		return nil, nil
	}

	return uc.apply(ctx, inv, po, actor, entity.AuditActionBatchReconcile)
}

func (uc *UseCase) reconcileOne(ctx context.Context, invoiceID, actor, action string) (*dto.ReconciliationOutcome, error) {
	inv, err := uc.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load invoice %s: %w", invoiceID, err)
	}
	if inv.Status != entity.InvoiceReceived {
		return nil, fmt.Errorf("invoice %s is already %s: %w", inv.ID, inv.Status, domain.ErrAlreadyProcessed)
	}

	po, err := uc.orders.GetByID(inv.POID)
	if err != nil {
		return nil, fmt.Errorf("load purchase order %s: %w", inv.POID, err)
	}

	return uc.apply(ctx, inv, po, actor, action)
}

// apply evalúa y persiste el veredicto. El guard condicional garantiza que
// solo un actor transicione la factura aunque dos procesos evalúen en paralelo.
func (uc *UseCase) apply(ctx context.Context, inv *entity.Invoice, po *entity.PurchaseOrder, actor, action string) (*dto.ReconciliationOutcome, error) {
	result := matching.Evaluate(inv, po)

	next := entity.InvoiceRejected
	if result.Matched() {
		next = entity.InvoiceMatched
	}

	ok, err := uc.invoices.UpdateStatusIf(inv.ID, entity.InvoiceReceived, next)
	if err != nil {
		return nil, fmt.Errorf("update invoice status: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("invoice %s changed state concurrently: %w", inv.ID, domain.ErrAlreadyProcessed)
	}

	uc.auditor.Record(ctx, audit.Entry(
		entity.AuditTypeInvoiceAction, action,
		"invoice", inv.ID, actor,
		map[string]any{
			"invoice_number": inv.InvoiceNumber,
			"po_id":          po.ID,
			"verdict":        result.Verdict,
			"summary":        result.Summary,
			"discrepancies":  result.Discrepancies,
			"items":          result.Items,
		},
	))

	return &dto.ReconciliationOutcome{
		InvoiceID: inv.ID,
		Status:    result.Verdict,
		Result:    result,
	}, nil
}
