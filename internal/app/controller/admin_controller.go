package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meshur/storefront-backend/internal/app/service"
	apperrors "github.com/meshur/storefront-backend/internal/errors"
	"github.com/meshur/storefront-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminController struct {
	catalog       service.CatalogProvider
	exportService service.ExportService
}

func NewAdminController(catalog service.CatalogProvider, exportService service.ExportService) *AdminController {
	return &AdminController{
		catalog:       catalog,
		exportService: exportService,
	}
}

// ExportCatalog GET /api/v1/admin/catalog/export
func (ctrl *AdminController) ExportCatalog(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	// buffered so a failed export can still answer with an error
	var buf bytes.Buffer
	rows, err := ctrl.exportService.WriteCatalogWorkbook(&buf)
	if err != nil {
		log.Error("Catalog export failed", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalExportFailed, "Failed to export catalog")
		return
	}

	filename := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Export-Rows", fmt.Sprint(rows))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ReloadCatalog POST /api/v1/admin/catalog/reload
func (ctrl *AdminController) ReloadCatalog(c *gin.Context) {
	if err := ctrl.catalog.Reload(c.Request.Context()); err != nil {
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.CatalogReloadFailed, "Catalog reload failed, the previous catalog is still served")
		return
	}

	snap := ctrl.catalog.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"products":   len(snap.Products),
		"categories": len(snap.Categories),
		"brands":     len(snap.Brands),
		"loaded_at":  snap.LoadedAt,
	})
}
