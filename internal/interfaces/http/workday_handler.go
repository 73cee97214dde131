package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/p2p-automation/internal/application/dto"
	"github.com/tu-usuario/p2p-automation/internal/application/payments"
)

// WorkdayHandler recibe los callbacks de la integración Workday (simulada).
type WorkdayHandler struct {
	uc *payments.UseCase
}

// NewWorkdayHandler construye el handler.
func NewWorkdayHandler(uc *payments.UseCase) *WorkdayHandler {
	return &WorkdayHandler{uc: uc}
}

// Callback godoc
// @Summary      Confirmación de recepción desde Workday
// @Description  Idempotente: un callback repetido responde 200 sin tocar el pago.
// @Tags         workday
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WorkdayCallbackRequest  true  "Confirmación"
// @Success      200   {object}  dto.PaymentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/workday/callback [post]
func (h *WorkdayHandler) Callback(c *fiber.Ctx) error {
	var in dto.WorkdayCallbackRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PaymentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "payment_id es requerido"})
	}

	p, _, err := h.uc.ConfirmDelivery(c.Context(), in.PaymentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToPaymentResponse(p))
}

// Status godoc
// @Summary      Estado de integración de un pago con Workday
// @Tags         workday
// @Produce      json
// @Param        payment_id  path  string  true  "ID del pago"
// @Success      200  {object}  dto.WorkdayStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/workday/status/{payment_id} [get]
func (h *WorkdayHandler) Status(c *fiber.Ctx) error {
	p, err := h.uc.Get(c.Context(), c.Params("payment_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.WorkdayStatusResponse{
		PaymentID:        p.ID,
		Status:           string(p.Status),
		CallbackReceived: p.WorkdayCallbackReceived,
		ConfirmedAt:      p.WorkdayConfirmedAt,
	})
}
