package dto

import (
	"time"

	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// CreateVendorRequest alta de proveedor.
type CreateVendorRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	TaxID        string `json:"tax_id"`
	PaymentTerms string `json:"payment_terms"`
	Status       string `json:"status"`
}

// UpdateVendorRequest actualización parcial de proveedor (campos vacíos no se tocan).
type UpdateVendorRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	TaxID        string `json:"tax_id"`
	PaymentTerms string `json:"payment_terms"`
	Status       string `json:"status"`
}

// VendorResponse representación de salida de un proveedor.
type VendorResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	TaxID        string    `json:"tax_id,omitempty"`
	PaymentTerms string    `json:"payment_terms,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToVendorResponse convierte la entidad a su DTO de salida.
func ToVendorResponse(v *entity.Vendor) VendorResponse {
	return VendorResponse{
		ID:           v.ID,
		Name:         v.Name,
		Email:        v.Email,
		Phone:        v.Phone,
		Address:      v.Address,
		TaxID:        v.TaxID,
		PaymentTerms: v.PaymentTerms,
		Status:       string(v.Status),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
