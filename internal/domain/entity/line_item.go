package entity

import "github.com/shopspring/decimal"

// LineItem es una línea de una orden de compra o de una factura.
// En las OC TotalAmount viene persistido; en las facturas se calcula
// como Quantity * UnitPrice (LineTotal).
type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount,omitempty"`
}

// LineTotal devuelve el total de la línea calculado (Quantity * UnitPrice).
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
