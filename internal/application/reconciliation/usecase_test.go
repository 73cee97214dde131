package reconciliation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/p2p-automation/internal/application/audit"
	"github.com/tu-usuario/p2p-automation/internal/application/reconciliation"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/matching"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/memory"
	"github.com/tu-usuario/p2p-automation/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del motor de conciliación sobre repositorios en memoria: transición
// condicional received -> matched/rejected, aislamiento de fallos en batch y
// rastro de auditoría.
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc       *reconciliation.UseCase
	invoices *memory.InvoiceRepository
	orders   *memory.PurchaseOrderRepository
	audits   *memory.AuditLogRepository
}

func setup(t *testing.T) *fixture {
	t.Helper()
	invoices := memory.NewInvoiceRepository()
	orders := memory.NewPurchaseOrderRepository()
	audits := memory.NewAuditLogRepository()
	recorder := audit.NewRecorder(audits, logger.Nop())
	return &fixture{
		uc:       reconciliation.NewUseCase(invoices, orders, recorder, logger.Nop()),
		invoices: invoices,
		orders:   orders,
		audits:   audits,
	}
}

func seedPO(t *testing.T, f *fixture, id string, status entity.POStatus, total string, items ...entity.LineItem) {
	t.Helper()
	require.NoError(t, f.orders.Create(&entity.PurchaseOrder{
		ID:          id,
		VendorID:    "vendor-1",
		Items:       items,
		TotalAmount: decimal.RequireFromString(total),
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}))
}

func seedInvoice(t *testing.T, f *fixture, id, poID, number, total string, items ...entity.LineItem) {
	t.Helper()
	require.NoError(t, f.invoices.Create(&entity.Invoice{
		ID:            id,
		POID:          poID,
		InvoiceNumber: number,
		Items:         items,
		TotalAmount:   decimal.RequireFromString(total),
		Status:        entity.InvoiceReceived,
		CreatedAt:     time.Now().UTC(),
	}))
}

func item(qty int, price string) entity.LineItem {
	p := decimal.RequireFromString(price)
	return entity.LineItem{
		Description: "item",
		Quantity:    qty,
		UnitPrice:   p,
		TotalAmount: p.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestReconcile_Match(t *testing.T) {
	f := setup(t)
	seedPO(t, f, "po-1", entity.POApproved, "850.00", item(2, "200.00"), item(3, "150.00"))
	seedInvoice(t, f, "inv-1", "po-1", "INV-001", "850.00", item(2, "200.00"), item(3, "150.00"))

	outcome, err := f.uc.Reconcile(context.Background(), "inv-1", "tester")

	require.NoError(t, err)
	assert.Equal(t, matching.VerdictMatched, outcome.Status)

	inv, err := f.invoices.GetByID("inv-1")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceMatched, inv.Status, "la factura debe quedar en matched")

	entries, err := f.audits.ListByEntity("invoice", "inv-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.AuditTypeInvoiceAction, entries[0].Type)
	assert.Equal(t, entity.AuditActionReconcile, entries[0].Action)
	assert.Equal(t, "tester", entries[0].Actor)
	assert.Equal(t, matching.VerdictMatched, entries[0].Details["verdict"])
}

func TestReconcile_RechazoPorMonto(t *testing.T) {
	f := setup(t)
	seedPO(t, f, "po-1", entity.POApproved, "1000.00", item(1, "1000.00"))
	seedInvoice(t, f, "inv-1", "po-1", "INV-001", "1100.00", item(1, "1100.00"))

	outcome, err := f.uc.Reconcile(context.Background(), "inv-1", "tester")

	require.NoError(t, err)
	assert.Equal(t, matching.VerdictRejected, outcome.Status)
	require.Len(t, outcome.Result.Discrepancies, 1)
	assert.Equal(t, matching.ReasonAmountMismatch, outcome.Result.Discrepancies[0].Reason)

	inv, err := f.invoices.GetByID("inv-1")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceRejected, inv.Status)
}

func TestReconcile_FacturaInexistente(t *testing.T) {
	f := setup(t)

	_, err := f.uc.Reconcile(context.Background(), "no-existe", "tester")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconcile_YaProcesada(t *testing.T) {
	f := setup(t)
	seedPO(t, f, "po-1", entity.POApproved, "100.00", item(1, "100.00"))
	seedInvoice(t, f, "inv-1", "po-1", "INV-001", "100.00", item(1, "100.00"))

	_, err := f.uc.Reconcile(context.Background(), "inv-1", "tester")
	require.NoError(t, err)

	// Segundo intento: la factura ya no está en received.
	_, err = f.uc.Reconcile(context.Background(), "inv-1", "tester")
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
}

// Varios llamadores concurrentes sobre la misma factura: la transición
// condicional deja exactamente un ganador y el resto observa AlreadyProcessed.
func TestReconcile_ConcurrenciaUnSoloGanador(t *testing.T) {
	f := setup(t)
	seedPO(t, f, "po-1", entity.POApproved, "850.00", item(2, "200.00"), item(3, "150.00"))
	seedInvoice(t, f, "inv-1", "po-1", "INV-001", "850.00", item(2, "200.00"), item(3, "150.00"))

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Reconcile(context.Background(), "inv-1", "tester")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var winners, losers int
	for err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, domain.ErrAlreadyProcessed):
			losers++
		default:
			t.Fatalf("error inesperado en conciliación concurrente: %v", err)
		}
	}
	assert.Equal(t, 1, winners, "solo un llamador gana la transición")
	assert.Equal(t, callers-1, losers)

	inv, err := f.invoices.GetByID("inv-1")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceMatched, inv.Status)

	// Una sola transición persistida implica una sola entrada de auditoría.
	entries, err := f.audits.ListByEntity("invoice", "inv-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.AuditActionReconcile, entries[0].Action)
}

func TestReconcile_OCInexistente(t *testing.T) {
	f := setup(t)
	seedInvoice(t, f, "inv-1", "po-fantasma", "INV-001", "100.00", item(1, "100.00"))

	_, err := f.uc.Reconcile(context.Background(), "inv-1", "tester")

	assert.ErrorIs(t, err, domain.ErrNotFound)

	// La factura no se toca cuando falta la OC.
	inv, err := f.invoices.GetByID("inv-1")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceReceived, inv.Status)
}

func TestReconcileBatch_AislaFallosPorFactura(t *testing.T) {
	f := setup(t)
	seedPO(t, f, "po-ok", entity.POApproved, "500.00", item(1, "500.00"))
	seedPO(t, f, "po-caro", entity.POApproved, "100.00", item(1, "100.00"))
	seedPO(t, f, "po-pendiente", entity.POPending, "200.00", item(1, "200.00"))

	seedInvoice(t, f, "inv-match", "po-ok", "INV-001", "500.00", item(1, "500.00"))
	seedInvoice(t, f, "inv-reject", "po-caro", "INV-002", "150.00", item(1, "150.00"))
	seedInvoice(t, f, "inv-sin-oc", "po-fantasma", "INV-003", "50.00", item(1, "50.00"))
	seedInvoice(t, f, "inv-oc-pendiente", "po-pendiente", "INV-004", "200.00", item(1, "200.00"))

	stats, err := f.uc.ReconcileBatch(context.Background(), "batch-job")

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.Matched)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 0, stats.Errors)

	// Las facturas omitidas quedan en received para intervención manual.
	for _, id := range []string{"inv-sin-oc", "inv-oc-pendiente"} {
		inv, err := f.invoices.GetByID(id)
		require.NoError(t, err)
		assert.Equal(t, entity.InvoiceReceived, inv.Status, id)
	}

	// El cierre del job queda auditado con las estadísticas.
	entries, err := f.audits.ListByEntity("reconciliation_job", "batch")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.AuditActionJobComplete, entries[0].Action)
	assert.Equal(t, 2, entries[0].Details["processed"])
}

func TestReconcileBatch_OCEnSentEsConciliable(t *testing.T) {
	f := setup(t)
	seedPO(t, f, "po-1", entity.POSent, "300.00", item(3, "100.00"))
	seedInvoice(t, f, "inv-1", "po-1", "INV-001", "300.00", item(3, "100.00"))

	stats, err := f.uc.ReconcileBatch(context.Background(), "batch-job")

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Matched)
	assert.Equal(t, 0, stats.Skipped)
}
