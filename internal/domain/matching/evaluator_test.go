package matching_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/matching"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del evaluador de reglas de conciliación. El evaluador es una función
// pura: estos vectores fijan el contrato (tolerancia del 1%, OC en cero,
// conteo de líneas) que el job batch y la API asumen al reintentar.
// ──────────────────────────────────────────────────────────────────────────────

func buildPO(total string, items ...entity.LineItem) *entity.PurchaseOrder {
	return &entity.PurchaseOrder{
		ID:          "po-1",
		VendorID:    "vendor-1",
		Items:       items,
		TotalAmount: decimal.RequireFromString(total),
		Status:      entity.POApproved,
	}
}

func buildInvoice(total string, items ...entity.LineItem) *entity.Invoice {
	return &entity.Invoice{
		ID:          "inv-1",
		POID:        "po-1",
		Items:       items,
		TotalAmount: decimal.RequireFromString(total),
		Status:      entity.InvoiceReceived,
	}
}

func line(qty int, price string) entity.LineItem {
	p := decimal.RequireFromString(price)
	return entity.LineItem{
		Description: "item",
		Quantity:    qty,
		UnitPrice:   p,
		TotalAmount: p.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func TestEvaluate_MatchExacto(t *testing.T) {
	po := buildPO("850.00", line(2, "200.00"), line(3, "150.00"))
	inv := buildInvoice("850.00", line(2, "200.00"), line(3, "150.00"))

	result := matching.Evaluate(inv, po)

	assert.Equal(t, matching.VerdictMatched, result.Verdict)
	assert.Empty(t, result.Discrepancies)
	assert.True(t, result.Summary.ItemCountMatch)
	assert.Equal(t, "0.00", result.Summary.AmountDifference.StringFixed(2))
}

// TestEvaluate_Determinista verifica que llamadas repetidas con la misma
// entrada producen exactamente el mismo resultado.
func TestEvaluate_Determinista(t *testing.T) {
	po := buildPO("1000.00", line(1, "1000.00"))
	inv := buildInvoice("1005.00", line(1, "1005.00"))

	r1 := matching.Evaluate(inv, po)
	r2 := matching.Evaluate(inv, po)

	assert.Equal(t, r1, r2, "el mismo input siempre debe producir el mismo MatchResult")
}

// TestEvaluate_ToleranciaLimite fija la frontera exacta del 1%:
// 1010.00 sobre una OC de 1000.00 es match; 1010.01 ya no.
func TestEvaluate_ToleranciaLimite(t *testing.T) {
	po := buildPO("1000.00", line(1, "1000.00"))

	dentro := matching.Evaluate(buildInvoice("1010.00", line(1, "1010.00")), po)
	assert.Equal(t, matching.VerdictMatched, dentro.Verdict,
		"una diferencia de exactamente 1 por ciento debe ser match")

	fuera := matching.Evaluate(buildInvoice("1010.01", line(1, "1010.01")), po)
	require.Equal(t, matching.VerdictRejected, fuera.Verdict)
	require.Len(t, fuera.Discrepancies, 1)
	assert.Equal(t, matching.ReasonAmountMismatch, fuera.Discrepancies[0].Reason)
	assert.Equal(t, "10.01", fuera.Summary.AmountDifference.StringFixed(2))
}

// TestEvaluate_POTotalCero: una OC con total 0.00 es mismatch automático,
// sin error de división.
func TestEvaluate_POTotalCero(t *testing.T) {
	po := buildPO("0.00")
	inv := buildInvoice("100.00", line(1, "100.00"))

	result := matching.Evaluate(inv, po)

	require.Equal(t, matching.VerdictRejected, result.Verdict)
	found := false
	for _, d := range result.Discrepancies {
		if d.Reason == matching.ReasonAmountMismatch {
			found = true
		}
	}
	assert.True(t, found, "debe reportar amount_mismatch para OC en cero")
}

func TestEvaluate_PONoAprobada(t *testing.T) {
	po := buildPO("100.00", line(1, "100.00"))
	po.Status = entity.POPending
	inv := buildInvoice("100.00", line(1, "100.00"))

	result := matching.Evaluate(inv, po)

	require.Equal(t, matching.VerdictRejected, result.Verdict)
	require.Len(t, result.Discrepancies, 1)
	assert.Equal(t, matching.ReasonPONotApproved, result.Discrepancies[0].Reason)
}

// TestEvaluate_POEnviada: el estado heredado "sent" cuenta como conciliable.
func TestEvaluate_POEnviada(t *testing.T) {
	po := buildPO("100.00", line(1, "100.00"))
	po.Status = entity.POSent
	inv := buildInvoice("100.00", line(1, "100.00"))

	assert.Equal(t, matching.VerdictMatched, matching.Evaluate(inv, po).Verdict)
}

func TestEvaluate_ConteoDeLineas(t *testing.T) {
	po := buildPO("300.00", line(1, "100.00"), line(1, "200.00"))
	inv := buildInvoice("300.00", line(1, "300.00"))

	result := matching.Evaluate(inv, po)

	require.Equal(t, matching.VerdictRejected, result.Verdict)
	require.Len(t, result.Discrepancies, 1)
	assert.Equal(t, matching.ReasonItemCountMismatch, result.Discrepancies[0].Reason)
	assert.False(t, result.Summary.ItemCountMatch)
}

// TestEvaluate_DetalleNoBloqueante: diferencias de cantidad o precio por línea
// se reportan en Items pero no cambian el veredicto si los totales cuadran.
func TestEvaluate_DetalleNoBloqueante(t *testing.T) {
	po := buildPO("1000.00", line(10, "50.00"), line(5, "100.00"))
	inv := buildInvoice("1000.00", line(9, "50.00"), line(5, "110.00"))

	result := matching.Evaluate(inv, po)

	assert.Equal(t, matching.VerdictMatched, result.Verdict,
		"el análisis por línea es detalle, no regla bloqueante")
	require.Len(t, result.Items, 2)
	assert.Equal(t, matching.ItemQuantityMismatch, result.Items[0].Status)
	assert.Equal(t, matching.ItemPriceMismatch, result.Items[1].Status)
}

// Una línea con ambas desviaciones reporta las dos, no solo el precio.
func TestEvaluate_LineaConDobleDesviacion(t *testing.T) {
	po := buildPO("500.00", line(10, "50.00"))
	inv := buildInvoice("500.00", line(8, "62.50"))

	result := matching.Evaluate(inv, po)

	require.Len(t, result.Items, 1)
	assert.Equal(t, matching.ItemQuantityAndPriceMismatch, result.Items[0].Status)
	assert.Equal(t, 10, result.Items[0].POQuantity)
	assert.Equal(t, 8, result.Items[0].InvoiceQuantity)
	assert.Equal(t, "50.00", result.Items[0].POUnitPrice)
	assert.Equal(t, "62.50", result.Items[0].InvoiceUnitPrice)
}
