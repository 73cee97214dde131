package entity

import "time"

// Vendor representa un proveedor. Es referenciado (nunca poseído) por las órdenes de compra.
type Vendor struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Address      string
	TaxID        string
	PaymentTerms string // ej. "Net 30"
	Status       VendorStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
