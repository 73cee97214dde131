// Package purchasing administra las órdenes de compra y su aprobación.
package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/p2p-automation/internal/application/audit"
	"github.com/tu-usuario/p2p-automation/internal/application/dto"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
)

// UseCase operaciones sobre órdenes de compra.
type UseCase struct {
	orders  repository.PurchaseOrderRepository
	vendors repository.VendorRepository
	auditor *audit.Recorder
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	orders repository.PurchaseOrderRepository,
	vendors repository.VendorRepository,
	auditor *audit.Recorder,
) *UseCase {
	return &UseCase{orders: orders, vendors: vendors, auditor: auditor}
}

// Create da de alta una orden de compra en estado pending. El total declarado
// debe coincidir exactamente con la suma de las líneas (invariante de creación).
func (uc *UseCase) Create(ctx context.Context, req dto.CreatePORequest, actor string) (*entity.PurchaseOrder, error) {
	if req.VendorID == "" {
		return nil, fmt.Errorf("vendor_id is required: %w", domain.ErrInvalidInput)
	}
	vendor, err := uc.vendors.GetByID(req.VendorID)
	if err != nil {
		return nil, fmt.Errorf("load vendor %s: %w", req.VendorID, err)
	}
	if vendor.Status != entity.VendorActive {
		return nil, fmt.Errorf("vendor %s is %s, purchase orders require an active vendor: %w",
			vendor.ID, vendor.Status, domain.ErrInvalidState)
	}

	items, err := dto.ParseLineItems(req.Items)
	if err != nil {
		return nil, err
	}
	total, err := dto.ParseAmount("total_amount", req.TotalAmount)
	if err != nil {
		return nil, err
	}

	sum := decimalSum(items)
	if !total.Equal(sum) {
		return nil, fmt.Errorf("total_amount %s does not equal sum of line totals %s: %w",
			total, sum, domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	po := &entity.PurchaseOrder{
		ID:          uuid.New().String(),
		VendorID:    vendor.ID,
		Items:       items,
		TotalAmount: total,
		Status:      entity.POPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.orders.Create(po); err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}

	uc.auditor.Record(ctx, audit.Entry(
		entity.AuditTypePOAction, entity.AuditActionCreate,
		"purchase_order", po.ID, actor,
		map[string]any{
			"vendor_id":    po.VendorID,
			"total_amount": po.TotalAmount.StringFixed(2),
			"item_count":   len(po.Items),
		},
	))
	return po, nil
}

// Get devuelve una orden de compra por ID.
func (uc *UseCase) Get(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.orders.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("load purchase order %s: %w", id, err)
	}
	return po, nil
}

// List devuelve las órdenes, opcionalmente filtradas por estado y/o proveedor.
func (uc *UseCase) List(_ context.Context, status entity.POStatus, vendorID string) ([]*entity.PurchaseOrder, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown purchase order status %q: %w", status, domain.ErrInvalidInput)
	}
	out, err := uc.orders.List(status, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	return out, nil
}

// Approve transiciona pending -> approved. La transición es condicional:
// si otro actor ya decidió la orden, devuelve domain.ErrInvalidState.
func (uc *UseCase) Approve(ctx context.Context, id, approvedBy string) (*entity.PurchaseOrder, error) {
	return uc.decide(ctx, id, approvedBy, entity.POApproved, entity.AuditActionApprove)
}

// Reject transiciona pending -> rejected.
func (uc *UseCase) Reject(ctx context.Context, id, actor string) (*entity.PurchaseOrder, error) {
	return uc.decide(ctx, id, actor, entity.PORejected, entity.AuditActionReject)
}

func (uc *UseCase) decide(ctx context.Context, id, actor string, next entity.POStatus, action string) (*entity.PurchaseOrder, error) {
	approvedBy := ""
	if next == entity.POApproved {
		approvedBy = actor
	}

	ok, err := uc.orders.UpdateStatusIf(id, entity.POPending, next, approvedBy)
	if err != nil {
		return nil, fmt.Errorf("update purchase order %s: %w", id, err)
	}
	if !ok {
		po, loadErr := uc.orders.GetByID(id)
		if loadErr != nil {
			return nil, fmt.Errorf("load purchase order %s: %w", id, loadErr)
		}
		return nil, fmt.Errorf("purchase order %s is already %s: %w", id, po.Status, domain.ErrInvalidState)
	}

	po, err := uc.orders.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("load purchase order %s: %w", id, err)
	}

	uc.auditor.Record(ctx, audit.Entry(
		entity.AuditTypePOAction, action,
		"purchase_order", po.ID, actor,
		map[string]any{"status": string(po.Status)},
	))
	return po, nil
}

// Delete elimina una orden de compra.
func (uc *UseCase) Delete(ctx context.Context, id, actor string) error {
	if err := uc.orders.Delete(id); err != nil {
		return fmt.Errorf("delete purchase order %s: %w", id, err)
	}
	uc.auditor.Record(ctx, audit.Entry(
		entity.AuditTypePOAction, entity.AuditActionDelete,
		"purchase_order", id, actor, nil,
	))
	return nil
}

func decimalSum(items []entity.LineItem) (total decimal.Decimal) {
	for _, it := range items {
		total = total.Add(it.TotalAmount)
	}
	return total
}
