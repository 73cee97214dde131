package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/p2p-automation/internal/application/audit"
	"github.com/tu-usuario/p2p-automation/internal/application/exporting"
	"github.com/tu-usuario/p2p-automation/internal/application/invoicing"
	"github.com/tu-usuario/p2p-automation/internal/application/payments"
	"github.com/tu-usuario/p2p-automation/internal/application/purchasing"
	"github.com/tu-usuario/p2p-automation/internal/application/reconciliation"
	"github.com/tu-usuario/p2p-automation/internal/application/vendors"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	httpRouter "github.com/tu-usuario/p2p-automation/internal/interfaces/http"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/memory"
	"github.com/tu-usuario/p2p-automation/internal/infrastructure/workday"
	"github.com/tu-usuario/p2p-automation/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Test de flujo completo sobre la API con almacenamiento en memoria:
// proveedor -> OC -> aprobación de OC -> factura -> conciliación ->
// aprobación de factura (pago + artefactos) -> callback de Workday.
// ──────────────────────────────────────────────────────────────────────────────

func newApp(t *testing.T) *fiber.App {
	t.Helper()

	vendorRepo := memory.NewVendorRepository()
	poRepo := memory.NewPurchaseOrderRepository()
	invoiceRepo := memory.NewInvoiceRepository()
	paymentRepo := memory.NewPaymentRepository()
	auditRepo := memory.NewAuditLogRepository()
	blobs := memory.NewBlobStore()
	log := logger.Nop()
	auditor := audit.NewRecorder(auditRepo, log)

	paymentUC := payments.NewUseCase(
		paymentRepo, invoiceRepo, poRepo, blobs,
		workday.NewFileBuilder(), auditor, log,
	)

	app := fiber.New()
	httpRouter.Router(app, httpRouter.RouterDeps{
		VendorUC:      vendors.NewUseCase(vendorRepo, auditor),
		POUC:          purchasing.NewUseCase(poRepo, vendorRepo, auditor),
		InvoiceUC:     invoicing.NewUseCase(invoiceRepo, poRepo, auditRepo, auditor),
		ReconcileUC:   reconciliation.NewUseCase(invoiceRepo, poRepo, auditor, log),
		PaymentUC:     paymentUC,
		ExportService: exporting.NewService(blobs, auditor),
		ExportMonitor: exporting.NewMonitor(paymentRepo, blobs, noopDelivery{}, auditor, log),
	})
	return app
}

type noopDelivery struct{}

func (noopDelivery) Deliver(_ context.Context, _ *entity.Payment) error { return nil }

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Actor", "tester")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestFlujoCompletoProcureToPay(t *testing.T) {
	app := newApp(t)

	// 1. Proveedor
	code, vendor := doJSON(t, app, nethttp.MethodPost, "/api/vendors", map[string]any{
		"name":  "Acme Corp",
		"email": "billing@acme.test",
	})
	require.Equal(t, nethttp.StatusCreated, code)
	vendorID := vendor["id"].(string)

	// 2. Orden de compra
	code, po := doJSON(t, app, nethttp.MethodPost, "/api/purchase-orders", map[string]any{
		"vendor_id": vendorID,
		"items": []map[string]any{
			{"description": "tornillos", "quantity": 2, "unit_price": "200.00"},
			{"description": "tuercas", "quantity": 3, "unit_price": "150.00"},
		},
		"total_amount": "850.00",
	})
	require.Equal(t, nethttp.StatusCreated, code)
	poID := po["id"].(string)
	assert.Equal(t, "pending", po["status"])

	// 3. Aprobación de la OC
	code, po = doJSON(t, app, nethttp.MethodPost, "/api/purchase-orders/"+poID+"/approve", nil)
	require.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, "approved", po["status"])

	// 4. Factura
	code, inv := doJSON(t, app, nethttp.MethodPost, "/api/invoices", map[string]any{
		"po_id":          poID,
		"invoice_number": "INV-001",
		"items": []map[string]any{
			{"description": "tornillos", "quantity": 2, "unit_price": "200.00"},
			{"description": "tuercas", "quantity": 3, "unit_price": "150.00"},
		},
		"total_amount": "850.00",
	})
	require.Equal(t, nethttp.StatusCreated, code)
	invID := inv["id"].(string)
	assert.Equal(t, "received", inv["status"])

	// 5. Conciliación
	code, outcome := doJSON(t, app, nethttp.MethodPost, "/api/invoices/"+invID+"/reconcile", nil)
	require.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, "matched", outcome["status"])

	// Conciliar dos veces es conflicto.
	code, _ = doJSON(t, app, nethttp.MethodPost, "/api/invoices/"+invID+"/reconcile", nil)
	assert.Equal(t, nethttp.StatusConflict, code)

	// 6. Aprobación de la factura: crea el pago con artefactos
	code, payment := doJSON(t, app, nethttp.MethodPost, "/api/invoices/"+invID+"/approve", map[string]any{
		"approved_by": "maria",
	})
	require.Equal(t, nethttp.StatusCreated, code)
	paymentID := payment["id"].(string)
	assert.Equal(t, "approved", payment["status"])
	assert.Equal(t, "USD", payment["currency"])
	assert.NotEmpty(t, payment["xml_key"])

	// Doble aprobación es conflicto.
	code, _ = doJSON(t, app, nethttp.MethodPost, "/api/invoices/"+invID+"/approve", nil)
	assert.Equal(t, nethttp.StatusConflict, code)

	// 7. Los artefactos aparecen en exports
	req := httptest.NewRequest(nethttp.MethodGet, "/api/exports?payment_id="+paymentID, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	var files []map[string]any
	require.NoError(t, json.Unmarshal(raw, &files))
	assert.Len(t, files, 2)

	// 8. Callback de Workday: approved -> sent, idempotente
	code, payment = doJSON(t, app, nethttp.MethodPost, "/api/workday/callback", map[string]any{
		"payment_id": paymentID,
		"status":     "sent",
	})
	require.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, "sent", payment["status"])

	code, payment = doJSON(t, app, nethttp.MethodPost, "/api/workday/callback", map[string]any{
		"payment_id": paymentID,
		"status":     "sent",
	})
	require.Equal(t, nethttp.StatusOK, code, "el callback duplicado no es error")
	assert.Equal(t, "sent", payment["status"])

	// 9. Vista de estado de integración
	code, status := doJSON(t, app, nethttp.MethodGet, "/api/workday/status/"+paymentID, nil)
	require.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, true, status["callback_received"])
	assert.NotEmpty(t, status["confirmed_at"])

	// 10. Descarga del artefacto XML
	req = httptest.NewRequest(nethttp.MethodGet, "/api/payments/"+paymentID+"/files/xml", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	raw, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "<Payment>")
}

func TestValidacionesHTTP(t *testing.T) {
	app := newApp(t)

	// Factura contra OC inexistente
	code, body := doJSON(t, app, nethttp.MethodPost, "/api/invoices", map[string]any{
		"po_id":          "po-fantasma",
		"invoice_number": "INV-X",
		"items":          []map[string]any{{"description": "x", "quantity": 1, "unit_price": "10.00"}},
		"total_amount":   "10.00",
	})
	assert.Equal(t, nethttp.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", body["code"])

	// Proveedor sin email
	code, body = doJSON(t, app, nethttp.MethodPost, "/api/vendors", map[string]any{"name": "Sin Email"})
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION", body["code"])

	// Pago inexistente
	code, body = doJSON(t, app, nethttp.MethodGet, "/api/payments/no-existe", nil)
	assert.Equal(t, nethttp.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", body["code"])

	// Callback sin payment_id
	code, body = doJSON(t, app, nethttp.MethodPost, "/api/workday/callback", map[string]any{"status": "sent"})
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION", body["code"])
}
