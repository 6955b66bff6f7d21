package http

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cartera-api/internal/application/backup"
)

// BackupHandler exportación e importación del libro completo (protegido).
type BackupHandler struct {
	svc *backup.Service
}

// NewBackupHandler construye el handler.
func NewBackupHandler(svc *backup.Service) *BackupHandler {
	return &BackupHandler{svc: svc}
}

// Export GET /api/backup/export. Descarga el documento JSON.
func (h *BackupHandler) Export(c *fiber.Ctx) error {
	doc := h.svc.Export()
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="cartera-%s.json"`, doc.GeneratedAt.Format("20060102-150405")))
	return c.JSON(doc)
}

// Import POST /api/backup/import. Reemplaza clientes, facturas y pagos.
func (h *BackupHandler) Import(c *fiber.Ctx) error {
	out, err := h.svc.ReadFrom(c.Context(), bytes.NewReader(c.Body()))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
