package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// CreatePORequest alta de orden de compra.
type CreatePORequest struct {
	VendorID    string            `json:"vendor_id"`
	Items       []LineItemRequest `json:"items"`
	TotalAmount string            `json:"total_amount"`
}

// LineItemResponse línea en respuestas.
type LineItemResponse struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// POResponse representación de salida de una orden de compra.
type POResponse struct {
	ID          string             `json:"id"`
	VendorID    string             `json:"vendor_id"`
	Items       []LineItemResponse `json:"items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Status      string             `json:"status"`
	ApprovedBy  string             `json:"approved_by,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ToPOResponse convierte la entidad a su DTO de salida.
func ToPOResponse(po *entity.PurchaseOrder) POResponse {
	resp := POResponse{
		ID:          po.ID,
		VendorID:    po.VendorID,
		Items:       make([]LineItemResponse, 0, len(po.Items)),
		TotalAmount: po.TotalAmount,
		Status:      string(po.Status),
		ApprovedBy:  po.ApprovedBy,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}
	for _, it := range po.Items {
		resp.Items = append(resp.Items, LineItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalAmount: it.TotalAmount,
		})
	}
	return resp
}
