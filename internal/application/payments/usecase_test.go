package payments_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/p2p-automation/internal/application/audit"
	"github.com/tu-usuario/p2p-automation/internal/application/payments"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/memory"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/workday"
	"github.com/tu-usuario/p2p-automation/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del ciclo de vida de pagos: aprobación con generación de artefactos
// (un pago por factura, exactamente una vez) y confirmación idempotente del
// callback de Workday.
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc       *payments.UseCase
	payments *memory.PaymentRepository
	invoices *memory.InvoiceRepository
	orders   *memory.PurchaseOrderRepository
	blobs    *memory.BlobStore
	audits   *memory.AuditLogRepository
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		payments: memory.NewPaymentRepository(),
		invoices: memory.NewInvoiceRepository(),
		orders:   memory.NewPurchaseOrderRepository(),
		blobs:    memory.NewBlobStore(),
		audits:   memory.NewAuditLogRepository(),
	}
	recorder := audit.NewRecorder(f.audits, logger.Nop())
	f.uc = payments.NewUseCase(
		f.payments, f.invoices, f.orders, f.blobs,
		workday.NewFileBuilder(), recorder, logger.Nop(),
	)
	return f
}

// seedMatched deja una factura en matched contra una OC aprobada.
func seedMatched(t *testing.T, f *fixture, invoiceID, total string) {
	t.Helper()
	require.NoError(t, f.orders.Create(&entity.PurchaseOrder{
		ID:          "po-1",
		VendorID:    "vendor-1",
		TotalAmount: decimal.RequireFromString(total),
		Status:      entity.POApproved,
	}))
	require.NoError(t, f.invoices.Create(&entity.Invoice{
		ID:            invoiceID,
		POID:          "po-1",
		InvoiceNumber: "INV-" + invoiceID,
		TotalAmount:   decimal.RequireFromString(total),
		Status:        entity.InvoiceMatched,
	}))
}

func TestApproveInvoice_CreaPagoYArtefactos(t *testing.T) {
	f := setup(t)
	seedMatched(t, f, "inv-1", "850.00")

	p, err := f.uc.ApproveInvoice(context.Background(), "inv-1", "maria")
	require.NoError(t, err)

	assert.Equal(t, "inv-1", p.InvoiceID)
	assert.Equal(t, "vendor-1", p.VendorID)
	assert.Equal(t, entity.PaymentApproved, p.Status)
	assert.Equal(t, entity.CurrencyUSD, p.Currency)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("850.00")))

	// Ambos artefactos quedan en el blob store bajo la convención de claves.
	for _, key := range []string{payments.XMLKeyFor(p.ID), payments.JSONKeyFor(p.ID)} {
		obj, err := f.blobs.Get(context.Background(), key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, obj.Content)
		assert.Equal(t, p.ID, obj.Tags["payment_id"])
		assert.Equal(t, "850.00", obj.Tags["amount"])
	}

	// Las claves quedan registradas en el pago persistido.
	stored, err := f.payments.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, payments.XMLKeyFor(p.ID), stored.XMLKey)
	assert.Equal(t, payments.JSONKeyFor(p.ID), stored.JSONKey)

	// La factura conserva los metadatos de aprobación.
	inv, err := f.invoices.GetByID("inv-1")
	require.NoError(t, err)
	assert.Equal(t, "maria", inv.ApprovedBy)
	require.NotNil(t, inv.ApprovedAt)

	// Auditoría de la aprobación con artefactos.
	entries, err := f.audits.ListByEntity("payment", p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.AuditActionApproveWithFiles, entries[0].Action)
	assert.Equal(t, true, entries[0].Details["files_generated"])
}

func TestApproveInvoice_SoloFacturasMatched(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.invoices.Create(&entity.Invoice{
		ID:            "inv-1",
		POID:          "po-1",
		InvoiceNumber: "INV-001",
		TotalAmount:   decimal.RequireFromString("100.00"),
		Status:        entity.InvoiceReceived,
	}))

	_, err := f.uc.ApproveInvoice(context.Background(), "inv-1", "maria")

	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestApproveInvoice_DobleAprobacion(t *testing.T) {
	f := setup(t)
	seedMatched(t, f, "inv-1", "100.00")

	_, err := f.uc.ApproveInvoice(context.Background(), "inv-1", "maria")
	require.NoError(t, err)

	_, err = f.uc.ApproveInvoice(context.Background(), "inv-1", "pedro")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// Sigue existiendo exactamente un pago para la factura.
	all, err := f.payments.List("", "", "inv-1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestApproveInvoice_FacturaInexistente(t *testing.T) {
	f := setup(t)

	_, err := f.uc.ApproveInvoice(context.Background(), "no-existe", "maria")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmDelivery_Idempotente(t *testing.T) {
	f := setup(t)
	seedMatched(t, f, "inv-1", "100.00")
	p, err := f.uc.ApproveInvoice(context.Background(), "inv-1", "maria")
	require.NoError(t, err)

	// Primera confirmación: transiciona a sent.
	got, applied, err := f.uc.ConfirmDelivery(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, entity.PaymentSent, got.Status)
	assert.True(t, got.WorkdayCallbackReceived)
	require.NotNil(t, got.WorkdayConfirmedAt)

	// Callback duplicado: no toca el pago, responde sin error.
	again, applied, err := f.uc.ConfirmDelivery(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, got.WorkdayConfirmedAt.Unix(), again.WorkdayConfirmedAt.Unix())
}

func TestConfirmDelivery_PagoInexistente(t *testing.T) {
	f := setup(t)

	_, _, err := f.uc.ConfirmDelivery(context.Background(), "no-existe")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_EstadoDesconocido(t *testing.T) {
	f := setup(t)

	_, err := f.uc.List(context.Background(), entity.PaymentStatus("pendiente"), "", "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// failingBlobStore rechaza toda escritura para simular el blob store caído.
type failingBlobStore struct{}

func (failingBlobStore) Put(_ context.Context, _ string, _ repository.BlobObject) error {
	return errors.New("blob store no disponible")
}
func (failingBlobStore) Get(_ context.Context, _ string) (*repository.BlobObject, error) {
	return nil, domain.ErrNotFound
}
func (failingBlobStore) Exists(_ context.Context, _ string) (bool, error) { return false, nil }
func (failingBlobStore) List(_ context.Context, _ string) ([]string, error) { return nil, nil }

// Un fallo al subir artefactos no revierte el pago: queda en approved sin
// claves, el llamador recibe el error y la auditoría deja constancia.
func TestApproveInvoice_FalloDeArtefactosNoRevierte(t *testing.T) {
	f := setup(t)
	seedMatched(t, f, "inv-1", "850.00")
	recorder := audit.NewRecorder(f.audits, logger.Nop())
	uc := payments.NewUseCase(
		f.payments, f.invoices, f.orders, failingBlobStore{},
		workday.NewFileBuilder(), recorder, logger.Nop(),
	)

	p, err := uc.ApproveInvoice(context.Background(), "inv-1", "maria")
	require.Error(t, err)
	require.NotNil(t, p, "el pago creado se devuelve junto al error")

	stored, getErr := f.payments.GetByID(p.ID)
	require.NoError(t, getErr)
	assert.Equal(t, entity.PaymentApproved, stored.Status)
	assert.Empty(t, stored.XMLKey)
	assert.Empty(t, stored.JSONKey)

	entries, auditErr := f.audits.ListByEntity("payment", p.ID)
	require.NoError(t, auditErr)
	require.Len(t, entries, 1)
	assert.Equal(t, false, entries[0].Details["files_generated"])
}

// Flujo completo sobre memoria: matched -> approve -> callback.
func TestCicloDeVidaCompleto(t *testing.T) {
	f := setup(t)
	seedMatched(t, f, "inv-1", "850.00")

	p, err := f.uc.ApproveInvoice(context.Background(), "inv-1", "maria")
	require.NoError(t, err)

	pending, err := f.payments.ListPendingDelivery()
	require.NoError(t, err)
	require.Len(t, pending, 1, "el pago aprobado espera entrega")

	_, applied, err := f.uc.ConfirmDelivery(context.Background(), p.ID)
	require.NoError(t, err)
	require.True(t, applied)

	pending, err = f.payments.ListPendingDelivery()
	require.NoError(t, err)
	assert.Empty(t, pending, "tras el callback no quedan entregas pendientes")
}
