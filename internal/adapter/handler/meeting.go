package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/meetscribe/meetscribe/errors"
	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/usecase/meeting"
)

// MeetingHandler exposes the meeting endpoints.
type MeetingHandler struct {
	meetingService *meeting.Service
	logger         *zap.Logger
}

// NewMeetingHandler creates a meeting handler
func NewMeetingHandler(meetingService *meeting.Service, logger *zap.Logger) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService, logger: logger}
}

// Upload handles POST /v1/meetings/upload. The body is multipart form data
// with the recording under "audio" plus title/date/participants fields.
func (h *MeetingHandler) Upload(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return HandleError(c, h.logger, apperrors.ErrMissingUploadFile())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return HandleError(c, h.logger, apperrors.ErrMissingUploadFile())
	}
	defer src.Close()

	in := &meeting.UploadInput{
		Title:           c.FormValue("title"),
		Date:            c.FormValue("date"),
		Participants:    c.FormValue("participants"),
		VariantSelector: c.FormValue("abTestId"),
		FileName:        fileHeader.Filename,
		FileSize:        fileHeader.Size,
		File:            src,
	}

	m, err := h.meetingService.Upload(c.Request().Context(), user.ID, in)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return HandleSuccess(c, h.logger, m)
}

// List handles GET /v1/meetings
func (h *MeetingHandler) List(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	meetings, err := h.meetingService.List(c.Request().Context(), user.ID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, h.logger, meetings)
}

// Get handles GET /v1/meetings/:id and returns the meeting with its items.
func (h *MeetingHandler) Get(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidArgument("invalid meeting id"))
	}

	m, items, err := h.meetingService.Get(c.Request().Context(), user.ID, meetingID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return HandleSuccess(c, h.logger, map[string]interface{}{
		"meeting":     m,
		"actionItems": items,
	})
}

// Items handles GET /v1/meetings/:id/action-items
func (h *MeetingHandler) Items(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidArgument("invalid meeting id"))
	}

	_, items, err := h.meetingService.Get(c.Request().Context(), user.ID, meetingID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, h.logger, items)
}

// Search handles GET /v1/meetings/search/:query
func (h *MeetingHandler) Search(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	meetings, err := h.meetingService.Search(c.Request().Context(), user.ID, c.Param("query"))
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	if meetings == nil {
		meetings = []*entities.Meeting{}
	}
	return HandleSuccess(c, h.logger, meetings)
}

// Delete handles DELETE /v1/meetings/:id
func (h *MeetingHandler) Delete(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidArgument("invalid meeting id"))
	}

	if err := h.meetingService.Delete(c.Request().Context(), user.ID, meetingID); err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, h.logger, nil)
}
