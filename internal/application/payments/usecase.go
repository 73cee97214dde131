package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/p2p-automation/internal/application/audit"
	"github.com/tu-usuario/p2p-automation/internal/domain"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
	"github.com/tu-usuario/p2p-automation/internal/domain/repository"
	"github.com/tu-usuario/p2p-automation/pkg/logger"
)

// UseCase gestiona el ciclo de vida de pagos: aprobación de facturas
// conciliadas (con generación de artefactos) y confirmación de entrega
// vía callback de Workday.
type UseCase struct {
	payments repository.PaymentRepository
	invoices repository.InvoiceRepository
	orders   repository.PurchaseOrderRepository
	blobs    repository.BlobStore
	files    FileBuilder
	auditor  *audit.Recorder
	log      *logger.Logger
}

// NewUseCase construye el gestor de pagos.
func NewUseCase(
	payments repository.PaymentRepository,
	invoices repository.InvoiceRepository,
	orders repository.PurchaseOrderRepository,
	blobs repository.BlobStore,
	files FileBuilder,
	auditor *audit.Recorder,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		payments: payments,
		invoices: invoices,
		orders:   orders,
		blobs:    blobs,
		files:    files,
		auditor:  auditor,
		log:      log,
	}
}

// ApproveInvoice aprueba una factura conciliada y crea su pago (exactamente
// uno por factura). La generación y subida de artefactos es parte del flujo
// feliz, pero su fallo no revierte el pago: un pago approved sin claves es un
// estado parcial que el monitor de exportación detecta como FILES_MISSING.
//
// Errores: domain.ErrNotFound (factura u OC), domain.ErrInvalidState (la
// factura no está en matched), domain.ErrAlreadyExists (ya tiene pago).
func (uc *UseCase) ApproveInvoice(ctx context.Context, invoiceID, approvedBy string) (*entity.Payment, error) {
	inv, err := uc.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load invoice %s: %w", invoiceID, err)
	}
	if inv.Status != entity.InvoiceMatched {
		return nil, fmt.Errorf("invoice %s is %s, only matched invoices can be approved: %w",
			inv.ID, inv.Status, domain.ErrInvalidState)
	}

	existing, err := uc.payments.GetByInvoiceID(inv.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing payment: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("invoice %s already has payment %s: %w",
			inv.ID, existing.ID, domain.ErrAlreadyExists)
	}

	po, err := uc.orders.GetByID(inv.POID)
	if err != nil {
		return nil, fmt.Errorf("load purchase order %s: %w", inv.POID, err)
	}

	now := time.Now().UTC()
	payment := &entity.Payment{
		ID:         uuid.New().String(),
		InvoiceID:  inv.ID,
		VendorID:   po.VendorID,
		Amount:     inv.TotalAmount,
		Currency:   entity.CurrencyUSD,
		Status:     entity.PaymentApproved,
		ApprovedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// La unicidad por invoice_id en el repositorio es el guard real contra
	// la doble aprobación concurrente; el chequeo previo solo mejora el mensaje.
	if err := uc.payments.Create(payment); err != nil {
		return nil, fmt.Errorf("create payment for invoice %s: %w", inv.ID, err)
	}

	// El pago ya existe; un fallo en los metadatos de aprobación no lo revierte.
	if err := uc.invoices.SetApproval(inv.ID, approvedBy, now); err != nil {
		uc.log.Warn().Err(err).
			Str("invoice_id", inv.ID).
			Msg("no se pudieron registrar los metadatos de aprobación")
	}

	details := map[string]any{
		"invoice_id":     inv.ID,
		"invoice_number": inv.InvoiceNumber,
		"vendor_id":      po.VendorID,
		"amount":         payment.Amount.StringFixed(2),
	}

	if uploadErr := uc.uploadArtifacts(ctx, payment); uploadErr != nil {
		uc.log.Error().Err(uploadErr).
			Str("payment_id", payment.ID).
			Msg("no se pudieron generar los artefactos del pago")
		details["files_generated"] = false
		details["error"] = uploadErr.Error()
		uc.auditor.Record(ctx, audit.Entry(
			entity.AuditTypePaymentAction, entity.AuditActionApproveWithFiles,
			"payment", payment.ID, approvedBy, details,
		))
		// El pago queda en approved sin claves: estado parcial recuperable que
		// el monitor de exportación reporta como FILES_MISSING.
		return payment, fmt.Errorf("generate payment artifacts: %w", uploadErr)
	}

	details["files_generated"] = true
	details["xml_key"] = payment.XMLKey
	details["json_key"] = payment.JSONKey

	uc.auditor.Record(ctx, audit.Entry(
		entity.AuditTypePaymentAction, entity.AuditActionApproveWithFiles,
		"payment", payment.ID, approvedBy, details,
	))

	uc.log.Info().
		Str("payment_id", payment.ID).
		Str("invoice_id", inv.ID).
		Str("amount", payment.Amount.StringFixed(2)).
		Msg("factura aprobada y pago creado")
	return payment, nil
}

// uploadArtifacts genera el par XML/JSON, lo sube al blob store y registra
// las claves en el pago.
func (uc *UseCase) uploadArtifacts(ctx context.Context, p *entity.Payment) error {
	xmlData, jsonData, err := uc.files.Build(p)
	if err != nil {
		return err
	}

	tags := func(format, contentType string) map[string]string {
		return map[string]string{
			"payment_id":       p.ID,
			"invoice_id":       p.InvoiceID,
			"vendor_id":        p.VendorID,
			"amount":           p.Amount.StringFixed(2),
			"status":           string(p.Status),
			"file_format":      format,
			"content_type":     contentType,
			"upload_timestamp": time.Now().UTC().Format(time.RFC3339),
		}
	}

	xmlKey := XMLKeyFor(p.ID)
	if err := uc.blobs.Put(ctx, xmlKey, repository.BlobObject{
		Content:     xmlData,
		ContentType: "application/xml",
		Tags:        tags("xml", "application/xml"),
	}); err != nil {
		return fmt.Errorf("upload xml artifact: %w", err)
	}

	jsonKey := JSONKeyFor(p.ID)
	if err := uc.blobs.Put(ctx, jsonKey, repository.BlobObject{
		Content:     jsonData,
		ContentType: "application/json",
		Tags:        tags("json", "application/json"),
	}); err != nil {
		return fmt.Errorf("upload json artifact: %w", err)
	}

	if err := uc.payments.SetFileKeys(p.ID, xmlKey, jsonKey); err != nil {
		return fmt.Errorf("record file keys: %w", err)
	}
	p.XMLKey = xmlKey
	p.JSONKey = jsonKey
	return nil
}

// ConfirmDelivery procesa el callback de Workday para un pago. Es idempotente:
// la primera confirmación transiciona approved -> sent y devuelve true; las
// siguientes no tocan el pago y devuelven false sin error.
func (uc *UseCase) ConfirmDelivery(ctx context.Context, paymentID string) (*entity.Payment, bool, error) {
	applied, err := uc.payments.ConfirmDeliveryIf(paymentID, time.Now().UTC())
	if err != nil {
		return nil, false, fmt.Errorf("confirm delivery %s: %w", paymentID, err)
	}

	p, err := uc.payments.GetByID(paymentID)
	if err != nil {
		return nil, false, fmt.Errorf("load payment %s: %w", paymentID, err)
	}

	uc.auditor.Record(ctx, audit.Entry(
		entity.AuditTypeWorkdayCallback, entity.AuditActionCallbackReceived,
		"payment", p.ID, "workday",
		map[string]any{
			"status":    string(p.Status),
			"duplicate": !applied,
		},
	))

	if applied {
		uc.log.Info().Str("payment_id", p.ID).Msg("entrega confirmada por workday")
	} else {
		uc.log.Warn().Str("payment_id", p.ID).Msg("callback duplicado de workday ignorado")
	}
	return p, applied, nil
}

// Get devuelve un pago por ID.
func (uc *UseCase) Get(_ context.Context, paymentID string) (*entity.Payment, error) {
	p, err := uc.payments.GetByID(paymentID)
	if err != nil {
		return nil, fmt.Errorf("load payment %s: %w", paymentID, err)
	}
	return p, nil
}

// List devuelve pagos filtrados por estado, proveedor y/o factura.
func (uc *UseCase) List(_ context.Context, status entity.PaymentStatus, vendorID, invoiceID string) ([]*entity.Payment, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown payment status %q: %w", status, domain.ErrInvalidInput)
	}
	out, err := uc.payments.List(status, vendorID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}
