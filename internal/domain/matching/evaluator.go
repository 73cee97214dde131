package matching

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// Veredicto de la conciliación.
const (
	VerdictMatched  = "matched"
	VerdictRejected = "rejected"
)

// Razones de discrepancia bloqueante.
const (
	ReasonPONotApproved     = "po_not_approved"
	ReasonAmountMismatch    = "amount_mismatch"
	ReasonItemCountMismatch = "item_count_mismatch"
)

// Estados del análisis línea a línea (no bloqueante).
const (
	ItemMatched                  = "matched"
	ItemQuantityMismatch         = "quantity_mismatch"
	ItemPriceMismatch            = "price_mismatch"
	ItemQuantityAndPriceMismatch = "quantity_and_price_mismatch"
)

// Tolerancia relativa permitida entre el total de la factura y el de la OC (1%).
var tolerancePercent = decimal.NewFromFloat(0.01)

// Discrepancy es una discrepancia estructurada que bloquea el match.
type Discrepancy struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// ItemComparison es el resultado del análisis de una línea (detalle para auditoría;
// no altera el veredicto más allá de la regla de conteo).
type ItemComparison struct {
	LineNumber       int    `json:"line_number"`
	Status           string `json:"status"`
	POQuantity       int    `json:"po_quantity"`
	InvoiceQuantity  int    `json:"invoice_quantity"`
	POUnitPrice      string `json:"po_unit_price"`
	InvoiceUnitPrice string `json:"invoice_unit_price"`
}

// Summary resume las cifras comparadas.
type Summary struct {
	POTotal          decimal.Decimal `json:"po_total"`
	InvoiceTotal     decimal.Decimal `json:"invoice_total"`
	AmountDifference decimal.Decimal `json:"amount_difference"`
	ItemCountMatch   bool            `json:"item_count_match"`
}

// MatchResult es el veredicto completo de comparar una factura contra su OC.
type MatchResult struct {
	Verdict       string           `json:"verdict"`
	Discrepancies []Discrepancy    `json:"discrepancies"`
	Items         []ItemComparison `json:"items"`
	Summary       Summary          `json:"summary"`
}

// Matched indica si el veredicto fue matched.
func (r MatchResult) Matched() bool { return r.Verdict == VerdictMatched }

// Evaluate compara una factura contra su orden de compra y produce el veredicto.
// Función pura y determinista: sin I/O, misma entrada produce siempre la misma salida
// (requisito para reintentos idempotentes del job batch).
//
// Reglas, en orden, todas deben pasar:
//  1. Estado de la OC conciliable (approved o sent).
//  2. |total factura - total OC| <= total OC * 1%. Una OC con total cero o
//     negativo es mismatch automático (nunca se divide).
//  3. Igual cantidad de líneas.
//
// El análisis línea a línea (cantidad y precio unitario) se reporta siempre como
// detalle suplementario y no altera el veredicto.
func Evaluate(inv *entity.Invoice, po *entity.PurchaseOrder) MatchResult {
	result := MatchResult{
		Discrepancies: []Discrepancy{},
		Items:         []ItemComparison{},
	}

	// 1. Estado de la OC
	if !po.Status.Reconcilable() {
		result.Discrepancies = append(result.Discrepancies, Discrepancy{
			Reason:  ReasonPONotApproved,
			Message: fmt.Sprintf("PO status is '%s', expected 'approved' or 'sent'", po.Status),
		})
	}

	// 2. Tolerancia de monto (1% sobre el total de la OC)
	poTotal := po.TotalAmount
	invTotal := inv.TotalAmount
	difference := poTotal.Sub(invTotal).Abs()
	amountOK := false
	if poTotal.GreaterThan(decimal.Zero) {
		tolerance := poTotal.Mul(tolerancePercent)
		amountOK = difference.LessThanOrEqual(tolerance)
	}
	if !amountOK {
		result.Discrepancies = append(result.Discrepancies, Discrepancy{
			Reason: ReasonAmountMismatch,
			Message: fmt.Sprintf("Total amount mismatch: PO $%s, Invoice $%s (Difference: $%s)",
				poTotal.StringFixed(2), invTotal.StringFixed(2), difference.StringFixed(2)),
		})
	}

	// 3. Conteo de líneas
	countOK := len(po.Items) == len(inv.Items)
	if !countOK {
		result.Discrepancies = append(result.Discrepancies, Discrepancy{
			Reason: ReasonItemCountMismatch,
			Message: fmt.Sprintf("Item count mismatch: PO has %d items, Invoice has %d items",
				len(po.Items), len(inv.Items)),
		})
	}

	// 4. Análisis línea a línea (solo detalle; se recorren los pares comunes)
	pairs := len(po.Items)
	if len(inv.Items) < pairs {
		pairs = len(inv.Items)
	}
	for i := 0; i < pairs; i++ {
		poItem, invItem := po.Items[i], inv.Items[i]
		cmp := ItemComparison{
			LineNumber:       i + 1,
			Status:           ItemMatched,
			POQuantity:       poItem.Quantity,
			InvoiceQuantity:  invItem.Quantity,
			POUnitPrice:      poItem.UnitPrice.StringFixed(2),
			InvoiceUnitPrice: invItem.UnitPrice.StringFixed(2),
		}
		qtyMismatch := poItem.Quantity != invItem.Quantity
		priceMismatch := !poItem.UnitPrice.Equal(invItem.UnitPrice)
		switch {
		case qtyMismatch && priceMismatch:
			cmp.Status = ItemQuantityAndPriceMismatch
		case qtyMismatch:
			cmp.Status = ItemQuantityMismatch
		case priceMismatch:
			cmp.Status = ItemPriceMismatch
		}
		result.Items = append(result.Items, cmp)
	}

	result.Summary = Summary{
		POTotal:          poTotal,
		InvoiceTotal:     invTotal,
		AmountDifference: difference,
		ItemCountMatch:   countOK,
	}

	if len(result.Discrepancies) == 0 {
		result.Verdict = VerdictMatched
	} else {
		result.Verdict = VerdictRejected
	}
	return result
}
