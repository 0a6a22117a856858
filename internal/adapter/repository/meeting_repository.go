package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// MeetingRepository implements the meeting repository interface using GORM
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{
		db: db,
	}
}

// Create creates a new meeting
func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if err := r.db.WithContext(ctx).Create(meeting).Error; err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

// FindByID finds a meeting by ID
func (r *MeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting by ID: %w", err)
	}
	return &meeting, nil
}

// FindByIDForUser finds a meeting by ID scoped to its owner
func (r *MeetingRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&meeting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting for user: %w", err)
	}
	return &meeting, nil
}

// ListByUser returns the user's meetings, newest first
func (r *MeetingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// Search returns the user's meetings whose title or transcription matches
// the query, newest first
func (r *MeetingRepository) Search(ctx context.Context, userID uuid.UUID, query string) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	pattern := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND (title ILIKE ? OR transcription_text ILIKE ?)", userID, pattern, pattern).
		Order("created_at DESC").
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to search meetings: %w", err)
	}
	return meetings, nil
}

// UpdateStatus sets the meeting status. The write is conditional on the
// lifecycle: only rows whose current status may transition to the target are
// touched, so a sweep racing a just-finished run cannot overwrite a terminal
// state.
func (r *MeetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status IN ?", id, statusesAllowedBefore(status)).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update meeting status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return entities.ErrInvalidStatusTransition
	}
	return nil
}

// statusesAllowedBefore returns every status that may transition to next.
func statusesAllowedBefore(next entities.MeetingStatus) []entities.MeetingStatus {
	all := []entities.MeetingStatus{
		entities.MeetingStatusPending,
		entities.MeetingStatusProcessing,
		entities.MeetingStatusCompleted,
		entities.MeetingStatusFailed,
	}
	from := make([]entities.MeetingStatus, 0, len(all))
	for _, s := range all {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}

// MarkCompleted stores the transcription result and flips the meeting to
// completed in one update. Deliberately unconditional: a repeated run for
// the same meeting rewrites the completed row rather than failing.
func (r *MeetingRepository) MarkCompleted(ctx context.Context, id uuid.UUID, transcription string, duration int) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":             entities.MeetingStatusCompleted,
			"transcription_text": transcription,
			"duration":           duration,
		}).Error; err != nil {
		return fmt.Errorf("failed to mark meeting completed: %w", err)
	}
	return nil
}

// Delete removes a meeting
func (r *MeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Meeting{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	return nil
}

// CountByUserSince counts the user's meetings created at or after the cutoff
func (r *MeetingRepository) CountByUserSince(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("user_id = ? AND created_at >= ?", userID, cutoff).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count meetings: %w", err)
	}
	return count, nil
}

// FindStuckProcessing returns meetings that have sat in processing since
// before the cutoff
func (r *MeetingRepository) FindStuckProcessing(ctx context.Context, cutoff time.Time) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", entities.MeetingStatusProcessing, cutoff).
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to find stuck meetings: %w", err)
	}
	return meetings, nil
}
