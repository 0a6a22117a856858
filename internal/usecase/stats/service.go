package stats

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/domain/repositories"
)

// Summary is the dashboard's monthly usage snapshot.
type Summary struct {
	MeetingsThisMonth    int64   `json:"meetings_this_month"`
	ActionItemsThisMonth int64   `json:"action_items_this_month"`
	HoursSaved           float64 `json:"hours_saved"`
}

// Service computes dashboard statistics.
type Service struct {
	meetingRepo repositories.MeetingRepository
	itemRepo    repositories.ActionItemRepository
}

// NewService creates a stats service
func NewService(meetingRepo repositories.MeetingRepository, itemRepo repositories.ActionItemRepository) *Service {
	return &Service{
		meetingRepo: meetingRepo,
		itemRepo:    itemRepo,
	}
}

// Monthly returns the user's counts since the first of the current month.
// Hours saved is the display heuristic of half an hour per meeting.
func (s *Service) Monthly(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	meetings, err := s.meetingRepo.CountByUserSince(ctx, userID, monthStart)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.CountByUserSince(ctx, userID, monthStart)
	if err != nil {
		return nil, err
	}

	return &Summary{
		MeetingsThisMonth:    meetings,
		ActionItemsThisMonth: items,
		HoursSaved:           math.Round(float64(meetings)*0.5*10) / 10,
	}, nil
}
