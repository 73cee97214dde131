package purchasing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/p2p-automation/internal/application/audit"
	"github.com/tu-usuario/p2p-automation/internal/application/dto"
	"github.com/tu-usuario/p2p-automation/internal/application/purchasing"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/memory"
	"github.com/tu-usuario/p2p-automation/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de órdenes de compra: invariante de total en creación y decisión
// condicional pending -> approved/rejected.
// ──────────────────────────────────────────────────────────────────────────────

func setup(t *testing.T) (*purchasing.UseCase, *memory.VendorRepository) {
	t.Helper()
	orders := memory.NewPurchaseOrderRepository()
	vendors := memory.NewVendorRepository()
	recorder := audit.NewRecorder(memory.NewAuditLogRepository(), logger.Nop())
	return purchasing.NewUseCase(orders, vendors, recorder), vendors
}

func activeVendor(t *testing.T, vendors *memory.VendorRepository) string {
	t.Helper()
	require.NoError(t, vendors.Create(&entity.Vendor{
		ID:     "vendor-1",
		Name:   "Acme",
		Email:  "acme@example.com",
		Status: entity.VendorActive,
	}))
	return "vendor-1"
}

func validRequest(vendorID string) dto.CreatePORequest {
	return dto.CreatePORequest{
		VendorID: vendorID,
		Items: []dto.LineItemRequest{
			{Description: "tornillos", Quantity: 2, UnitPrice: "200.00"},
			{Description: "tuercas", Quantity: 3, UnitPrice: "150.00"},
		},
		TotalAmount: "850.00",
	}
}

func TestCreate_NaceEnPending(t *testing.T) {
	uc, vendors := setup(t)
	vendorID := activeVendor(t, vendors)

	po, err := uc.Create(context.Background(), validRequest(vendorID), "tester")

	require.NoError(t, err)
	assert.Equal(t, entity.POPending, po.Status)
	assert.Equal(t, "850.00", po.TotalAmount.StringFixed(2))
	assert.Len(t, po.Items, 2)
}

func TestCreate_TotalInconsistente(t *testing.T) {
	uc, vendors := setup(t)
	vendorID := activeVendor(t, vendors)

	req := validRequest(vendorID)
	req.TotalAmount = "900.00"

	_, err := uc.Create(context.Background(), req, "tester")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ProveedorInactivo(t *testing.T) {
	uc, vendors := setup(t)
	require.NoError(t, vendors.Create(&entity.Vendor{
		ID:     "vendor-1",
		Name:   "Acme",
		Email:  "acme@example.com",
		Status: entity.VendorSuspended,
	}))

	_, err := uc.Create(context.Background(), validRequest("vendor-1"), "tester")

	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestApprove_SoloUnaVez(t *testing.T) {
	uc, vendors := setup(t)
	vendorID := activeVendor(t, vendors)
	po, err := uc.Create(context.Background(), validRequest(vendorID), "tester")
	require.NoError(t, err)

	approved, err := uc.Approve(context.Background(), po.ID, "maria")
	require.NoError(t, err)
	assert.Equal(t, entity.POApproved, approved.Status)
	assert.Equal(t, "maria", approved.ApprovedBy)

	// Segunda decisión sobre una orden ya aprobada.
	_, err = uc.Reject(context.Background(), po.ID, "pedro")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReject_DesdePending(t *testing.T) {
	uc, vendors := setup(t)
	vendorID := activeVendor(t, vendors)
	po, err := uc.Create(context.Background(), validRequest(vendorID), "tester")
	require.NoError(t, err)

	rejected, err := uc.Reject(context.Background(), po.ID, "maria")

	require.NoError(t, err)
	assert.Equal(t, entity.PORejected, rejected.Status)
	assert.Empty(t, rejected.ApprovedBy)
}
