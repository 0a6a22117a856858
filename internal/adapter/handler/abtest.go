package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/meetscribe/meetscribe/errors"
	"github.com/meetscribe/meetscribe/internal/adapter/dto"
	"github.com/meetscribe/meetscribe/internal/usecase/abtest"
)

// ABTestHandler exposes the extraction variant endpoints.
type ABTestHandler struct {
	abtestService *abtest.Service
	logger        *zap.Logger
}

// NewABTestHandler creates an A/B test handler
func NewABTestHandler(abtestService *abtest.Service, logger *zap.Logger) *ABTestHandler {
	return &ABTestHandler{abtestService: abtestService, logger: logger}
}

// List handles GET /v1/ab-tests
func (h *ABTestHandler) List(c echo.Context) error {
	variants, err := h.abtestService.List(c.Request().Context())
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, h.logger, variants)
}

// Create handles POST /v1/ab-tests
func (h *ABTestHandler) Create(c echo.Context) error {
	var req dto.CreateVariantRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidArgument(err.Error()))
	}

	variant, err := h.abtestService.Create(c.Request().Context(), req.Name, req.Model, req.Prompt, req.Description)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, h.logger, variant)
}

// Overview handles GET /v1/ab-tests/results and aggregates every variant.
func (h *ABTestHandler) Overview(c echo.Context) error {
	overviews, err := h.abtestService.Overview(c.Request().Context())
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, h.logger, overviews)
}

// Results handles GET /v1/ab-tests/:id/results
func (h *ABTestHandler) Results(c echo.Context) error {
	testID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidArgument("invalid test id"))
	}

	results, aggregate, err := h.abtestService.Results(c.Request().Context(), testID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return HandleSuccess(c, h.logger, map[string]interface{}{
		"results":   results,
		"aggregate": aggregate,
	})
}
