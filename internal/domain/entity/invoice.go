package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice es una factura de proveedor contra exactamente una orden de compra.
// Nace en estado received; pasa a matched o rejected solo a través del motor
// de conciliación (actualización condicional sobre el estado previo).
type Invoice struct {
	ID            string
	POID          string
	InvoiceNumber string // único global
	Items         []LineItem
	TotalAmount   decimal.Decimal
	Status        InvoiceStatus
	ApprovedBy    string
	ApprovedAt    *time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
