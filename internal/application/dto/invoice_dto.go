package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// CreateInvoiceRequest alta de factura (nace en estado received).
type CreateInvoiceRequest struct {
	POID          string            `json:"po_id"`
	InvoiceNumber string            `json:"invoice_number"`
	Items         []LineItemRequest `json:"items"`
	TotalAmount   string            `json:"total_amount"`
	Notes         string            `json:"notes"`
}

// UpdateInvoiceRequest corrección manual de una factura. No cambia el estado;
// toda corrección queda auditada.
type UpdateInvoiceRequest struct {
	Items       []LineItemRequest `json:"items"`
	TotalAmount string            `json:"total_amount"`
	Notes       string            `json:"notes"`
}

// InvoiceResponse representación de salida de una factura.
type InvoiceResponse struct {
	ID            string             `json:"id"`
	POID          string             `json:"po_id"`
	InvoiceNumber string             `json:"invoice_number"`
	Items         []LineItemResponse `json:"items"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Status        string             `json:"status"`
	ApprovedBy    string             `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time         `json:"approved_at,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ToInvoiceResponse convierte la entidad a su DTO de salida.
func ToInvoiceResponse(inv *entity.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		POID:          inv.POID,
		InvoiceNumber: inv.InvoiceNumber,
		Items:         make([]LineItemResponse, 0, len(inv.Items)),
		TotalAmount:   inv.TotalAmount,
		Status:        string(inv.Status),
		ApprovedBy:    inv.ApprovedBy,
		ApprovedAt:    inv.ApprovedAt,
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	for _, it := range inv.Items {
		resp.Items = append(resp.Items, LineItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalAmount: it.LineTotal(),
		})
	}
	return resp
}
