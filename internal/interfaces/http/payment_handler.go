package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/p2p-automation/internal/application/dto"
	"github.com/tu-usuario/p2p-automation/internal/application/exporting"
	"github.com/tu-usuario/p2p-automation/internal/application/payments"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// PaymentHandler maneja las peticiones HTTP de consulta de pagos.
type PaymentHandler struct {
	uc  *payments.UseCase
	svc *exporting.Service
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payments.UseCase, svc *exporting.Service) *PaymentHandler {
	return &PaymentHandler{uc: uc, svc: svc}
}

// GetByID godoc
// @Summary      Obtener pago por ID
// @Tags         payments
// @Produce      json
// @Param        id   path  string  true  "ID del pago"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToPaymentResponse(p))
}

// List godoc
// @Summary      Listar pagos
// @Tags         payments
// @Produce      json
// @Param        status      query  string  false  "Filtro por estado"
// @Param        vendor_id   query  string  false  "Filtro por proveedor"
// @Param        invoice_id  query  string  false  "Filtro por factura"
// @Success      200         {array}  dto.PaymentResponse
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(),
		entity.PaymentStatus(c.Query("status")), c.Query("vendor_id"), c.Query("invoice_id"))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.PaymentResponse, 0, len(out))
	for _, p := range out {
		resp = append(resp, dto.ToPaymentResponse(p))
	}
	return c.JSON(resp)
}

// DownloadFile godoc
// @Summary      Descargar un artefacto de pago
// @Tags         payments
// @Produce      octet-stream
// @Param        id      path  string  true  "ID del pago"
// @Param        format  path  string  true  "xml o json"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/files/{format} [get]
func (h *PaymentHandler) DownloadFile(c *fiber.Ctx) error {
	p, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	var key string
	switch c.Params("format") {
	case "xml":
		key = p.XMLKey
	case "json":
		key = p.JSONKey
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato desconocido, use xml o json"})
	}
	if key == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el pago no tiene artefactos generados"})
	}

	obj, err := h.svc.GetArtifact(c.Context(), key)
	if err != nil {
		return respondError(c, err)
	}
	if obj.ContentType != "" {
		c.Set(fiber.HeaderContentType, obj.ContentType)
	}
	return c.Send(obj.Content)
}
