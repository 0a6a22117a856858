package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/meetscribe/meetscribe/errors"
	"github.com/meetscribe/meetscribe/internal/adapter/dto"
	"github.com/meetscribe/meetscribe/internal/usecase/actionitem"
)

// ActionItemHandler exposes the action item endpoints.
type ActionItemHandler struct {
	itemService *actionitem.Service
	logger      *zap.Logger
}

// NewActionItemHandler creates an action item handler
func NewActionItemHandler(itemService *actionitem.Service, logger *zap.Logger) *ActionItemHandler {
	return &ActionItemHandler{itemService: itemService, logger: logger}
}

// List handles GET /v1/action-items
func (h *ActionItemHandler) List(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	items, err := h.itemService.List(c.Request().Context(), user.ID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, h.logger, items)
}

// Update handles PATCH /v1/action-items/:id
func (h *ActionItemHandler) Update(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidArgument("invalid action item id"))
	}

	var req dto.UpdateActionItemRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidArgument(err.Error()))
	}

	item, err := h.itemService.Update(c.Request().Context(), user.ID, itemID, &actionitem.UpdateInput{
		Text:      req.Text,
		Assignee:  req.Assignee,
		Priority:  req.Priority,
		DueDate:   req.DueDate,
		Completed: req.Completed,
	})
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, h.logger, item)
}

// GenerateDescription handles POST /v1/action-items/:id/description
func (h *ActionItemHandler) GenerateDescription(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidArgument("invalid action item id"))
	}

	item, err := h.itemService.GenerateDescription(c.Request().Context(), user.ID, itemID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, h.logger, item)
}
