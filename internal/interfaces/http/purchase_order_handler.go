package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/p2p-automation/internal/application/dto"
	"github.com/tu-usuario/p2p-automation/internal/application/purchasing"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// PurchaseOrderHandler maneja las peticiones HTTP para órdenes de compra.
type PurchaseOrderHandler struct {
	uc *purchasing.UseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *purchasing.UseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePORequest  true  "Datos de la orden"
// @Success      201   {object}  dto.POResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePORequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	po, err := h.uc.Create(c.Context(), in, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPOResponse(po))
}

// GetByID godoc
// @Summary      Obtener orden de compra por ID
// @Tags         purchase-orders
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	po, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToPOResponse(po))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Produce      json
// @Param        status     query  string  false  "Filtro por estado"
// @Param        vendor_id  query  string  false  "Filtro por proveedor"
// @Success      200        {array}  dto.POResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), entity.POStatus(c.Query("status")), c.Query("vendor_id"))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.POResponse, 0, len(out))
	for _, po := range out {
		resp = append(resp, dto.ToPOResponse(po))
	}
	return c.JSON(resp)
}

// Approve godoc
// @Summary      Aprobar orden de compra (pending -> approved)
// @Tags         purchase-orders
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/approve [post]
func (h *PurchaseOrderHandler) Approve(c *fiber.Ctx) error {
	po, err := h.uc.Approve(c.Context(), c.Params("id"), actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToPOResponse(po))
}

// Reject godoc
// @Summary      Rechazar orden de compra (pending -> rejected)
// @Tags         purchase-orders
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.POResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/reject [post]
func (h *PurchaseOrderHandler) Reject(c *fiber.Ctx) error {
	po, err := h.uc.Reject(c.Context(), c.Params("id"), actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToPOResponse(po))
}

// Delete godoc
// @Summary      Eliminar orden de compra
// @Tags         purchase-orders
// @Param        id  path  string  true  "ID de la orden"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), actor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
