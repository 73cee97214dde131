package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/p2p-automation/internal/application/dto"
	"github.com/tu-usuario/p2p-automation/internal/application/vendors"
	"github.com/tu-usuario/p2p-automation/internal/domain/entity"
)

// VendorHandler maneja las peticiones HTTP para proveedores.
type VendorHandler struct {
	uc *vendors.UseCase
}

// NewVendorHandler construye el handler.
func NewVendorHandler(uc *vendors.UseCase) *VendorHandler {
	return &VendorHandler{uc: uc}
}

// Create godoc
// @Summary      Crear proveedor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVendorRequest  true  "Datos del proveedor"
// @Success      201   {object}  dto.VendorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/vendors [post]
func (h *VendorHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVendorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	v, err := h.uc.Create(c.Context(), in, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToVendorResponse(v))
}

// GetByID godoc
// @Summary      Obtener proveedor por ID
// @Tags         vendors
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.VendorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vendors/{id} [get]
func (h *VendorHandler) GetByID(c *fiber.Ctx) error {
	v, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToVendorResponse(v))
}

// List godoc
// @Summary      Listar proveedores
// @Tags         vendors
// @Produce      json
// @Param        status  query  string  false  "Filtro por estado"
// @Success      200     {array}  dto.VendorResponse
// @Router       /api/vendors [get]
func (h *VendorHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), entity.VendorStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.VendorResponse, 0, len(out))
	for _, v := range out {
		resp = append(resp, dto.ToVendorResponse(v))
	}
	return c.JSON(resp)
}

// Update godoc
// @Summary      Actualizar proveedor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del proveedor"
// @Param        body  body  dto.UpdateVendorRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.VendorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/vendors/{id} [put]
func (h *VendorHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateVendorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	v, err := h.uc.Update(c.Context(), c.Params("id"), in, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToVendorResponse(v))
}

// Delete godoc
// @Summary      Eliminar proveedor
// @Tags         vendors
// @Param        id  path  string  true  "ID del proveedor"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vendors/{id} [delete]
func (h *VendorHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), actor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
