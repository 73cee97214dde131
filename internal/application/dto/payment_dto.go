package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// ApproveInvoiceRequest aprobación de una factura conciliada.
type ApproveInvoiceRequest struct {
	ApprovedBy string `json:"approved_by"`
}

// WorkdayCallbackRequest callback de la simulación Workday confirmando recepción.
type WorkdayCallbackRequest struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"` // siempre "sent"
}

// WorkdayStatusResponse vista del estado de integración de un pago con Workday.
type WorkdayStatusResponse struct {
	PaymentID        string     `json:"payment_id"`
	Status           string     `json:"status"`
	CallbackReceived bool       `json:"callback_received"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
}

// PaymentResponse representación de salida de un pago.
type PaymentResponse struct {
	ID                      string          `json:"id"`
	InvoiceID               string          `json:"invoice_id"`
	VendorID                string          `json:"vendor_id"`
	Amount                  decimal.Decimal `json:"amount"`
	Currency                string          `json:"currency"`
	Status                  string          `json:"status"`
	ApprovedAt              time.Time       `json:"approved_at"`
	XMLKey                  string          `json:"xml_key,omitempty"`
	JSONKey                 string          `json:"json_key,omitempty"`
	WorkdayConfirmedAt      *time.Time      `json:"workday_confirmed_at,omitempty"`
	WorkdayCallbackReceived bool            `json:"workday_callback_received"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// ToPaymentResponse convierte la entidad a su DTO de salida.
func ToPaymentResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                      p.ID,
		InvoiceID:               p.InvoiceID,
		VendorID:                p.VendorID,
		Amount:                  p.Amount,
		Currency:                p.Currency,
		Status:                  string(p.Status),
		ApprovedAt:              p.ApprovedAt,
		XMLKey:                  p.XMLKey,
		JSONKey:                 p.JSONKey,
		WorkdayConfirmedAt:      p.WorkdayConfirmedAt,
		WorkdayCallbackReceived: p.WorkdayCallbackReceived,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt,
	}
}
