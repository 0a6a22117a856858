package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/internal/usecase/export"
)

// ExportHandler exposes the CSV export endpoint.
type ExportHandler struct {
	exportService *export.Service
	logger        *zap.Logger
}

// NewExportHandler creates an export handler
func NewExportHandler(exportService *export.Service, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exportService: exportService, logger: logger}
}

// Export handles GET /v1/export/:type and streams a CSV attachment.
func (h *ExportHandler) Export(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	data, filename, err := h.exportService.Export(c.Request().Context(), user.ID, c.Param("type"))
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "text/csv", data)
}
