package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/p2p-automation/internal/application/dto"
	"github.com/tu-usuario/p2p-automation/internal/application/exporting"
)

// ExportHandler expone los artefactos exportados y el disparo manual del
// ciclo del monitor.
type ExportHandler struct {
	svc     *exporting.Service
	monitor *exporting.Monitor
}

// NewExportHandler construye el handler.
func NewExportHandler(svc *exporting.Service, monitor *exporting.Monitor) *ExportHandler {
	return &ExportHandler{svc: svc, monitor: monitor}
}

// List godoc
// @Summary      Listar artefactos exportados
// @Tags         exports
// @Produce      json
// @Param        payment_id  query  string  false  "Acotar a un pago"
// @Success      200         {array}  exporting.ExportFile
// @Router       /api/exports [get]
func (h *ExportHandler) List(c *fiber.Ctx) error {
	files, err := h.svc.ListArtifacts(c.Context(), c.Query("payment_id"), actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(files)
}

// Download godoc
// @Summary      Descargar un artefacto por clave
// @Tags         exports
// @Produce      octet-stream
// @Param        key  query  string  true  "Clave del artefacto"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/exports/file [get]
func (h *ExportHandler) Download(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "key es requerido"})
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

// RunMonitor godoc
// @Summary      Ejecutar un ciclo del monitor de exportación
// @Tags         exports
// @Produce      json
// @Success      200  {object}  exporting.MonitorStats
// @Router       /api/exports/monitor/run [post]
func (h *ExportHandler) RunMonitor(c *fiber.Ctx) error {
	stats, err := h.monitor.RunCycle(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
