package invoicing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/p2p-automation/internal/application/audit"
	"github.com/tu-usuario/p2p-automation/internal/application/dto"
	"github.com/tu-usuario/p2p-automation/internal/application/invoicing"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/memory"
	"github.com/tu-usuario/p2p-automation/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de facturas: unicidad global del número, corrección restringida a
// received y rastro de auditoría.
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc       *invoicing.UseCase
	invoices *memory.InvoiceRepository
	orders   *memory.PurchaseOrderRepository
	audits   *memory.AuditLogRepository
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		invoices: memory.NewInvoiceRepository(),
		orders:   memory.NewPurchaseOrderRepository(),
		audits:   memory.NewAuditLogRepository(),
	}
	recorder := audit.NewRecorder(f.audits, logger.Nop())
	f.uc = invoicing.NewUseCase(f.invoices, f.orders, f.audits, recorder)

	require.NoError(t, f.orders.Create(&entity.PurchaseOrder{
		ID:          "po-1",
		VendorID:    "vendor-1",
		TotalAmount: decimal.RequireFromString("850.00"),
		Status:      entity.POApproved,
	}))
	return f
}

func validRequest(number string) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		POID:          "po-1",
		InvoiceNumber: number,
		Items: []dto.LineItemRequest{
			{Description: "tornillos", Quantity: 2, UnitPrice: "200.00"},
			{Description: "tuercas", Quantity: 3, UnitPrice: "150.00"},
		},
		TotalAmount: "850.00",
	}
}

func TestCreate_NaceEnReceived(t *testing.T) {
	f := setup(t)

	inv, err := f.uc.Create(context.Background(), validRequest("INV-001"), "tester")

	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceReceived, inv.Status)
	assert.Equal(t, "INV-001", inv.InvoiceNumber)

	entries, err := f.audits.ListByEntity("invoice", inv.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.AuditActionCreate, entries[0].Action)
}

func TestCreate_NumeroDuplicado(t *testing.T) {
	f := setup(t)

	_, err := f.uc.Create(context.Background(), validRequest("INV-001"), "tester")
	require.NoError(t, err)

	_, err = f.uc.Create(context.Background(), validRequest("INV-001"), "tester")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestCreate_OCInexistente(t *testing.T) {
	f := setup(t)
	req := validRequest("INV-001")
	req.POID = "po-fantasma"

	_, err := f.uc.Create(context.Background(), req, "tester")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_SoloEnReceived(t *testing.T) {
	f := setup(t)
	inv, err := f.uc.Create(context.Background(), validRequest("INV-001"), "tester")
	require.NoError(t, err)

	// Corrección válida mientras está en received.
	updated, err := f.uc.Update(context.Background(), inv.ID, dto.UpdateInvoiceRequest{
		TotalAmount: "860.00",
		Notes:       "corregido el flete",
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, "860.00", updated.TotalAmount.StringFixed(2))
	assert.Equal(t, "corregido el flete", updated.Notes)

	// Tras la conciliación la factura queda inmutable.
	ok, err := f.invoices.UpdateStatusIf(inv.ID, entity.InvoiceReceived, entity.InvoiceMatched)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.uc.Update(context.Background(), inv.ID, dto.UpdateInvoiceRequest{Notes: "tarde"}, "tester")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestGetByNumber(t *testing.T) {
	f := setup(t)
	created, err := f.uc.Create(context.Background(), validRequest("INV-042"), "tester")
	require.NoError(t, err)

	found, err := f.uc.GetByNumber(context.Background(), "INV-042")

	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}
