package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/p2p-automation/internal/application/dto"
	"github.com/tu-usuario/p2p-automation/internal/application/invoicing"
	"github.com/tu-usuario/p2p-automation/internal/application/payments"
	"github.com/tu-usuario/p2p-automation/internal/application/reconciliation"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// InvoiceHandler maneja las peticiones HTTP para facturas, incluida la
// conciliación y la aprobación (que crea el pago).
type InvoiceHandler struct {
	uc        *invoicing.UseCase
	reconcile *reconciliation.UseCase
	pagos     *payments.UseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *invoicing.UseCase, reconcile *reconciliation.UseCase, pagos *payments.UseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, reconcile: reconcile, pagos: pagos}
}

// Create godoc
// @Summary      Registrar factura (nace en received)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Datos de la factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inv, err := h.uc.Create(c.Context(), in, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToInvoiceResponse(inv))
}

// GetByID godoc
// @Summary      Obtener factura por ID
// @Tags         invoices
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToInvoiceResponse(inv))
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Produce      json
// @Param        status  query  string  false  "Filtro por estado"
// @Param        po_id   query  string  false  "Filtro por orden de compra"
// @Success      200     {array}  dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), entity.InvoiceStatus(c.Query("status")), c.Query("po_id"))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.InvoiceResponse, 0, len(out))
	for _, inv := range out {
		resp = append(resp, dto.ToInvoiceResponse(inv))
	}
	return c.JSON(resp)
}

// Update godoc
// @Summary      Corregir factura (solo en received)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "Campos a corregir"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inv, err := h.uc.Update(c.Context(), c.Params("id"), in, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToInvoiceResponse(inv))
}

// Delete godoc
// @Summary      Eliminar factura
// @Tags         invoices
// @Param        id  path  string  true  "ID de la factura"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), actor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reconcile godoc
// @Summary      Conciliar factura contra su orden de compra
// @Tags         invoices
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.ReconciliationOutcome
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/reconcile [post]
func (h *InvoiceHandler) Reconcile(c *fiber.Ctx) error {
	outcome, err := h.reconcile.Reconcile(c.Context(), c.Params("id"), actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(outcome)
}

// ReconcileBatch godoc
// @Summary      Conciliar todas las facturas en received
// @Tags         invoices
// @Produce      json
// @Success      200  {object}  dto.BatchStats
// @Router       /api/invoices/reconcile [post]
func (h *InvoiceHandler) ReconcileBatch(c *fiber.Ctx) error {
	stats, err := h.reconcile.ReconcileBatch(c.Context(), actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// Approve godoc
// @Summary      Aprobar factura conciliada (crea el pago y sus artefactos)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.ApproveInvoiceRequest  false  "Aprobador"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/approve [post]
func (h *InvoiceHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveInvoiceRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	approvedBy := in.ApprovedBy
	if approvedBy == "" {
		approvedBy = actor(c)
	}
	p, err := h.pagos.ApproveInvoice(c.Context(), c.Params("id"), approvedBy)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPaymentResponse(p))
}

// AuditTrail godoc
// @Summary      Rastro de auditoría de una factura
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {array}  entity.AuditLogEntry
// @Router       /api/invoices/{id}/audit [get]
func (h *InvoiceHandler) AuditTrail(c *fiber.Ctx) error {
	entries, err := h.uc.AuditTrail(c.Context(), "invoice", c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}
