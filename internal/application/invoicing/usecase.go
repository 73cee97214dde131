// Package invoicing administra el registro y la corrección de facturas.
package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/p2p-automation/internal/application/audit"
	"github.com/tu-usuario/p2p-automation/internal/application/dto"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
)

// UseCase operaciones sobre facturas (excepto la conciliación, que vive en
// su propio motor).
type UseCase struct {
	invoices repository.InvoiceRepository
	orders   repository.PurchaseOrderRepository
	audits   repository.AuditLogRepository
	auditor  *audit.Recorder
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	invoices repository.InvoiceRepository,
	orders repository.PurchaseOrderRepository,
	audits repository.AuditLogRepository,
	auditor *audit.Recorder,
) *UseCase {
	return &UseCase{invoices: invoices, orders: orders, audits: audits, auditor: auditor}
}

// Create registra una factura en estado received contra una OC existente.
// El número de factura es único global: un duplicado devuelve
// domain.ErrAlreadyExists.
func (uc *UseCase) Create(ctx context.Context, req dto.CreateInvoiceRequest, actor string) (*entity.Invoice, error) {
	if req.POID == "" || req.InvoiceNumber == "" {
		return nil, fmt.Errorf("po_id and invoice_number are required: %w", domain.ErrInvalidInput)
	}
	if _, err := uc.orders.GetByID(req.POID); err != nil {
		return nil, fmt.Errorf("load purchase order %s: %w", req.POID, err)
	}

	items, err := dto.ParseLineItems(req.Items)
	if err != nil {
		return nil, err
	}
	total, err := dto.ParseAmount("total_amount", req.TotalAmount)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		POID:          req.POID,
		InvoiceNumber: req.InvoiceNumber,
		Items:         items,
		TotalAmount:   total,
		Status:        entity.InvoiceReceived,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.invoices.Create(inv); err != nil {
		return nil, fmt.Errorf("create invoice %s: %w", req.InvoiceNumber, err)
	}

	uc.auditor.Record(ctx, audit.Entry(
		entity.AuditTypeInvoiceAction, entity.AuditActionCreate,
		"invoice", inv.ID, actor,
		map[string]any{
			"invoice_number": inv.InvoiceNumber,
			"po_id":          inv.POID,
			"total_amount":   inv.TotalAmount.StringFixed(2),
		},
	))
	return inv, nil
}

// Get devuelve una factura por ID.
func (uc *UseCase) Get(_ context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("load invoice %s: %w", id, err)
	}
	return inv, nil
}

// GetByNumber devuelve una factura por su número único.
func (uc *UseCase) GetByNumber(_ context.Context, number string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByNumber(number)
	if err != nil {
		return nil, fmt.Errorf("load invoice number %s: %w", number, err)
	}
	return inv, nil
}

// List devuelve facturas, opcionalmente filtradas por estado y/o OC.
func (uc *UseCase) List(_ context.Context, status entity.InvoiceStatus, poID string) ([]*entity.Invoice, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown invoice status %q: %w", status, domain.ErrInvalidInput)
	}
	out, err := uc.invoices.List(status, poID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return out, nil
}

// Update corrige líneas, total o notas de una factura que sigue en received.
// Una factura ya conciliada no se corrige: se rechaza con domain.ErrInvalidState.
func (uc *UseCase) Update(ctx context.Context, id string, req dto.UpdateInvoiceRequest, actor string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("load invoice %s: %w", id, err)
	}
	if inv.Status != entity.InvoiceReceived {
		return nil, fmt.Errorf("invoice %s is %s, only received invoices can be corrected: %w",
			inv.ID, inv.Status, domain.ErrInvalidState)
	}

	changed := map[string]any{}
	if len(req.Items) > 0 {
		items, err := dto.ParseLineItems(req.Items)
		if err != nil {
			return nil, err
		}
		inv.Items = items
		changed["item_count"] = len(items)
	}
	if req.TotalAmount != "" {
		total, err := dto.ParseAmount("total_amount", req.TotalAmount)
		if err != nil {
			return nil, err
		}
		inv.TotalAmount = total
		changed["total_amount"] = total.StringFixed(2)
	}
	if req.Notes != "" {
		inv.Notes = req.Notes
		changed["notes"] = req.Notes
	}
	if len(changed) == 0 {
		return inv, nil
	}

	if err := uc.invoices.Update(inv); err != nil {
		return nil, fmt.Errorf("update invoice %s: %w", id, err)
	}

	uc.auditor.Record(ctx, audit.Entry(
		entity.AuditTypeInvoiceAction, entity.AuditActionUpdate,
		"invoice", inv.ID, actor, changed,
	))
	return uc.Get(ctx, id)
}

// Delete elimina una factura.
func (uc *UseCase) Delete(ctx context.Context, id, actor string) error {
	if err := uc.invoices.Delete(id); err != nil {
		return fmt.Errorf("delete invoice %s: %w", id, err)
	}
	uc.auditor.Record(ctx, audit.Entry(
		entity.AuditTypeInvoiceAction, entity.AuditActionDelete,
		"invoice", id, actor, nil,
	))
	return nil
}

// AuditTrail devuelve el rastro de auditoría de una entidad, más reciente primero.
func (uc *UseCase) AuditTrail(_ context.Context, entityType, entityID string) ([]*entity.AuditLogEntry, error) {
	entries, err := uc.audits.ListByEntity(entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit trail for %s %s: %w", entityType, entityID, err)
	}
	return entries, nil
}
