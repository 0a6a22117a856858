package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/internal/usecase/stats"
)

// StatHandler exposes the dashboard statistics endpoint.
type StatHandler struct {
	statsService *stats.Service
	logger       *zap.Logger
}

// NewStatHandler creates a stats handler
func NewStatHandler(statsService *stats.Service, logger *zap.Logger) *StatHandler {
	return &StatHandler{statsService: statsService, logger: logger}
}

// Monthly handles GET /v1/stats
func (h *StatHandler) Monthly(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	summary, err := h.statsService.Monthly(c.Request().Context(), user.ID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, h.logger, summary)
}
