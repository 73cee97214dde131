// Package vendors administra el catálogo de proveedores.
package vendors

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

// UseCase operaciones sobre proveedores.
type UseCase struct {
	vendors repository.VendorRepository
	auditor *audit.Recorder
}

// NewUseCase construye el caso de uso.
func NewUseCase(vendors repository.VendorRepository, auditor *audit.Recorder) *UseCase {
	return &UseCase{vendors: vendors, auditor: auditor}
}

// Create da de alta un proveedor. Nombre y email son obligatorios;
// sin estado explícito nace active.
func (uc *UseCase) Create(ctx context.Context, req dto.CreateVendorRequest, actor string) (*entity.Vendor, error) {
	if req.Name == "" || req.Email == "" {
		return nil, fmt.Errorf("vendor name and email are required: %w", domain.ErrInvalidInput)
	}
	status := entity.VendorActive
	if req.Status != "" {
		status = entity.VendorStatus(req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("unknown vendor status %q: %w", req.Status, domain.ErrInvalidInput)
		}
	}

	now := time.Now().UTC()
	v := &entity.Vendor{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		TaxID:        req.TaxID,
		PaymentTerms: req.PaymentTerms,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.vendors.Create(v); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}

	uc.auditor.Record(ctx, audit.Entry(
		entity.AuditTypeVendorAction, entity.AuditActionCreate,
		"vendor", v.ID, actor,
		map[string]any{"name": v.Name, "status": string(v.Status)},
	))
	return v, nil
}

// Get devuelve un proveedor por ID.
func (uc *UseCase) Get(_ context.Context, id string) (*entity.Vendor, error) {
	v, err := uc.vendors.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("load vendor %s: %w", id, err)
	}
	return v, nil
}

// List devuelve los proveedores, opcionalmente filtrados por estado.
func (uc *UseCase) List(_ context.Context, status entity.VendorStatus) ([]*entity.Vendor, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown vendor status %q: %w", status, domain.ErrInvalidInput)
	}
	out, err := uc.vendors.List(status)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return out, nil
}

// Update aplica una actualización parcial: los campos vacíos no se tocan.
func (uc *UseCase) Update(ctx context.Context, id string, req dto.UpdateVendorRequest, actor string) (*entity.Vendor, error) {
	v, err := uc.vendors.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("load vendor %s: %w", id, err)
	}

	changed := map[string]any{}
	if req.Name != "" {
		v.Name = req.Name
		changed["name"] = req.Name
	}
	if req.Email != "" {
		v.Email = req.Email
		changed["email"] = req.Email
	}
	if req.Phone != "" {
		v.Phone = req.Phone
		changed["phone"] = req.Phone
	}
	if req.Address != "" {
		v.Address = req.Address
		changed["address"] = req.Address
	}
	if req.TaxID != "" {
		v.TaxID = req.TaxID
		changed["tax_id"] = req.TaxID
	}
	if req.PaymentTerms != "" {
		v.PaymentTerms = req.PaymentTerms
		changed["payment_terms"] = req.PaymentTerms
	}
	if req.Status != "" {
		status := entity.VendorStatus(req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("unknown vendor status %q: %w", req.Status, domain.ErrInvalidInput)
		}
		v.Status = status
		changed["status"] = req.Status
	}
	if len(changed) == 0 {
		return v, nil
	}

	v.UpdatedAt = time.Now().UTC()
	if err := uc.vendors.Update(v); err != nil {
		return nil, fmt.Errorf("update vendor %s: %w", id, err)
	}

	uc.auditor.Record(ctx, audit.Entry(
		entity.AuditTypeVendorAction, entity.AuditActionUpdate,
		"vendor", v.ID, actor, changed,
	))
	return v, nil
}

// Delete elimina un proveedor.
func (uc *UseCase) Delete(ctx context.Context, id, actor string) error {
	if err := uc.vendors.Delete(id); err != nil {
		return fmt.Errorf("delete vendor %s: %w", id, err)
	}
	uc.auditor.Record(ctx, audit.Entry(
		entity.AuditTypeVendorAction, entity.AuditActionDelete,
		"vendor", id, actor, nil,
	))
	return nil
}
