package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/erp/reconciler/internal/application/catalog"
	"github.com/erp/reconciler/internal/infrastructure/storage"
)

// ArchiveURLHeader carries the archived copy's link when archiving is on
const ArchiveURLHeader = "X-Archive-URL"

// ExportService is what ExportHandler needs from catalogapp.ExportService
type ExportService interface {
	Export(ctx context.Context, userID int64, ids []int64) (*catalogapp.ExportResult, error)
}

// ArchiveReader serves archived exports. Only the in-memory archive needs
// it; S3 links point at the bucket directly.
type ArchiveReader interface {
	Get(key string) (storage.Object, bool)
}

// ExportHandler renders the products report
type ExportHandler struct {
	BaseHandler
	exportService ExportService
	archive       ArchiveReader
}

// NewExportHandler creates a new export handler. archive may be nil.
func NewExportHandler(exportService ExportService, archive ArchiveReader) *ExportHandler {
	return &ExportHandler{exportService: exportService, archive: archive}
}

// Export streams the report of the selected products as an attachment.
// POST /export-report/
func (h *ExportHandler) Export(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req catalogapp.ExportRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.exportService.Export(c.Request.Context(), userID, req.Products)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.ArchiveURL != "" {
		c.Header(ArchiveURLHeader, result.ArchiveURL)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// Download serves an archived export.
// GET /exports/:key
func (h *ExportHandler) Download(c *gin.Context) {
	if h.archive == nil {
		h.NotFound(c, "Export not found")
		return
	}
	key := c.Param("key")
	obj, ok := h.archive.Get(key)
	if !ok {
		h.NotFound(c, "Export not found")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, key))
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}
