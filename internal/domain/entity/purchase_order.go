package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder es una orden de compra dirigida a un proveedor.
// Invariante en creación: TotalAmount == suma de los totales de línea
// (no se revalida en lectura).
type PurchaseOrder struct {
	ID          string
	VendorID    string
	Items       []LineItem
	TotalAmount decimal.Decimal
	Status      POStatus
	ApprovedBy  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemsTotal suma los totales de línea persistidos.
func (po *PurchaseOrder) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range po.Items {
		total = total.Add(it.TotalAmount)
	}
	return total
}
