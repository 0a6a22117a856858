package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	apperrors "github.com/meetscribe/meetscribe/errors"
	"github.com/meetscribe/meetscribe/internal/domain/repositories"
)

// Service renders a user's data as downloadable CSV files.
type Service struct {
	meetingRepo repositories.MeetingRepository
	itemRepo    repositories.ActionItemRepository
}

// NewService creates an export service
func NewService(meetingRepo repositories.MeetingRepository, itemRepo repositories.ActionItemRepository) *Service {
	return &Service{
		meetingRepo: meetingRepo,
		itemRepo:    itemRepo,
	}
}

// Export renders the requested dataset. exportType is "meetings" or
// "action-items"; anything else is rejected.
func (s *Service) Export(ctx context.Context, userID uuid.UUID, exportType string) ([]byte, string, error) {
	switch exportType {
	case "meetings":
		data, err := s.exportMeetings(ctx, userID)
		return data, "meetings.csv", err
	case "action-items":
		data, err := s.exportActionItems(ctx, userID)
		return data, "action-items.csv", err
	default:
		return nil, "", apperrors.ErrInvalidExportType(exportType)
	}
}

func (s *Service) exportMeetings(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	meetings, err := s.meetingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "title", "date", "participants", "status", "duration_seconds", "created_at"}); err != nil {
		return nil, err
	}
	for _, m := range meetings {
		duration := ""
		if m.Duration != nil {
			duration = strconv.Itoa(*m.Duration)
		}
		record := []string{
			m.ID.String(),
			m.Title,
			m.Date,
			m.Participants,
			string(m.Status),
			duration,
			m.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) exportActionItems(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	items, err := s.itemRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "meeting_id", "text", "assignee", "priority", "due_date", "completed"}); err != nil {
		return nil, err
	}
	for _, it := range items {
		assignee, dueDate := "", ""
		if it.Assignee != nil {
			assignee = *it.Assignee
		}
		if it.DueDate != nil {
			dueDate = *it.DueDate
		}
		record := []string{
			it.ID.String(),
			it.MeetingID.String(),
			it.Text,
			assignee,
			string(it.Priority),
			dueDate,
			strconv.FormatBool(it.Completed),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}
