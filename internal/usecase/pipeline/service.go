package pipeline

import (
	"context"
	"errors"
	"io"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/domain/repositories"
	"github.com/meetscribe/meetscribe/internal/infrastructure/realtime"
	"github.com/meetscribe/meetscribe/pkg/ai"
)

// TranscriptArchiver stores finished transcripts in object storage.
type TranscriptArchiver interface {
	ArchiveTranscript(ctx context.Context, meetingID, transcript string) error
}

// Service drives one meeting from "processing" to a terminal state. Each run
// executes its steps strictly in order; a failure at any step short-circuits
// the rest and flips the meeting to "failed".
type Service struct {
	meetingRepo repositories.MeetingRepository
	itemRepo    repositories.ActionItemRepository
	variantRepo repositories.VariantRepository
	transcriber ai.Transcriber
	extractor   ai.Extractor
	broadcaster realtime.Broadcaster
	archive     TranscriptArchiver // optional
	logger      *zap.Logger

	// Injectable for tests.
	randFloat  func() float64
	openFile   func(path string) (io.ReadCloser, error)
	removeFile func(path string) error
	now        func() time.Time
}

// NewService constructs a pipeline service
func NewService(
	meetingRepo repositories.MeetingRepository,
	itemRepo repositories.ActionItemRepository,
	variantRepo repositories.VariantRepository,
	transcriber ai.Transcriber,
	extractor ai.Extractor,
	broadcaster realtime.Broadcaster,
	archive TranscriptArchiver,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetingRepo: meetingRepo,
		itemRepo:    itemRepo,
		variantRepo: variantRepo,
		transcriber: transcriber,
		extractor:   extractor,
		broadcaster: broadcaster,
		archive:     archive,
		logger:      logger,
		randFloat:   rand.Float64,
		openFile: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
		removeFile: os.Remove,
		now:        time.Now,
	}
}

// Run executes one pipeline run for an uploaded meeting. Progress percentages
// are published at 10, 30, 50, 70 and 100; clients treat percent >= 100 as
// the completion signal.
func (s *Service) Run(ctx context.Context, meetingID, userID uuid.UUID, filePath, variantSelector string) error {
	started := s.now()

	variant, err := s.selectVariant(ctx, variantSelector)
	if err != nil {
		return s.fail(ctx, meetingID, "variant selection failed", err)
	}

	if s.logger != nil {
		s.logger.Info("🎬 Pipeline run started",
			zap.String("meeting_id", meetingID.String()),
			zap.String("user_id", userID.String()),
			zap.String("variant", variant.Name),
		)
	}

	s.progress(userID, meetingID, 10)

	file, err := s.openFile(filePath)
	if err != nil {
		return s.fail(ctx, meetingID, "failed to open uploaded file", err)
	}

	result, err := s.transcriber.TranscribeFromReader(ctx, file)
	file.Close()
	if err != nil {
		return s.fail(ctx, meetingID, "transcription failed", err)
	}

	s.progress(userID, meetingID, 30)

	extracted, err := s.extractor.ExtractActionItems(ctx, result.Text, variant.Model, variant.Prompt)
	if err != nil {
		return s.fail(ctx, meetingID, "extraction failed", err)
	}

	s.progress(userID, meetingID, 50)

	if err := s.meetingRepo.MarkCompleted(ctx, meetingID, result.Text, result.DurationSeconds); err != nil {
		return s.fail(ctx, meetingID, "failed to persist transcription", err)
	}

	items := make([]*entities.ActionItem, 0, len(extracted))
	for _, e := range extracted {
		item := entities.NewActionItem(meetingID, userID, e.Text)
		item.Priority = entities.CoercePriority(e.Priority)
		if e.Assignee != "" {
			assignee := e.Assignee
			item.Assignee = &assignee
		}
		if e.DueDate != "" {
			due := e.DueDate
			item.DueDate = &due
		}
		items = append(items, item)
	}
	if err := s.itemRepo.CreateBatch(ctx, items); err != nil {
		return s.fail(ctx, meetingID, "failed to persist action items", err)
	}

	if len(items) > 0 {
		s.broadcaster.PublishNewItems(userID, realtime.NewItemsEvent{
			MeetingID: meetingID.String(),
			Items:     items,
		})
	}

	s.progress(userID, meetingID, 70)

	elapsed := int(s.now().Sub(started).Seconds())
	resultRow := entities.NewTestResult(
		variant.ID,
		meetingID,
		s.accuracyScore(len(result.Text), len(items)),
		elapsed,
		itemDensity(len(result.Text), len(items)),
	)
	if err := s.variantRepo.CreateResult(ctx, resultRow); err != nil {
		return s.fail(ctx, meetingID, "failed to persist test result", err)
	}

	s.progress(userID, meetingID, 100)

	if err := s.removeFile(filePath); err != nil {
		// Cleanup is best effort; the run already completed.
		if s.logger != nil {
			s.logger.Warn("⚠️ Failed to delete uploaded file",
				zap.String("meeting_id", meetingID.String()),
				zap.String("file_path", filePath),
				zap.Error(err),
			)
		}
	}

	if s.archive != nil {
		if err := s.archive.ArchiveTranscript(ctx, meetingID.String(), result.Text); err != nil {
			if s.logger != nil {
				s.logger.Warn("⚠️ Failed to archive transcript",
					zap.String("meeting_id", meetingID.String()),
					zap.Error(err),
				)
			}
		}
	}

	if s.logger != nil {
		s.logger.Info("✅ Pipeline run completed",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("action_items", len(items)),
			zap.Int("elapsed_seconds", elapsed),
		)
	}
	return nil
}

// selectVariant matches the caller's selector against active variants by
// model. No match falls back to the oldest active variant, which keeps the
// fallback deterministic across runs.
func (s *Service) selectVariant(ctx context.Context, selector string) (*entities.ExtractionVariant, error) {
	if selector != "" {
		variant, err := s.variantRepo.FindActiveByModel(ctx, selector)
		if err == nil {
			return variant, nil
		}
		if !errors.Is(err, entities.ErrVariantNotFound) {
			return nil, err
		}
	}
	return s.variantRepo.FindOldestActive(ctx)
}

func (s *Service) progress(userID, meetingID uuid.UUID, percent int) {
	s.broadcaster.PublishProgress(userID, realtime.ProgressEvent{
		MeetingID: meetingID.String(),
		Percent:   percent,
	})
}

// fail flips the meeting to "failed". Nothing already persisted in the run
// is rolled back, and the error never reaches the uploader.
func (s *Service) fail(ctx context.Context, meetingID uuid.UUID, msg string, cause error) error {
	if s.logger != nil {
		s.logger.Error("❌ Pipeline run failed",
			zap.String("meeting_id", meetingID.String()),
			zap.String("step", msg),
			zap.Error(cause),
		)
	}
	if err := s.meetingRepo.UpdateStatus(ctx, meetingID, entities.MeetingStatusFailed); err != nil {
		// Meeting is now stuck in "processing"; the sweeper reconciles it.
		if s.logger != nil {
			s.logger.Error("❌ Failed to mark meeting as failed",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		}
	}
	return cause
}

// accuracyScore is the comparison heuristic shown on the A/B dashboard:
// a transcript-length term and an item-count term (each capped at 1) scaled
// to 50, plus a random 0-20 offset on a base of 70. Not real telemetry.
func (s *Service) accuracyScore(transcriptLen, itemCount int) int {
	lengthTerm := math.Min(float64(transcriptLen)/1000, 1)
	countTerm := math.Min(float64(itemCount)/10, 1)
	return int(math.Round((lengthTerm+countTerm)*50 + s.randFloat()*20 + 70))
}

// itemDensity reports action items per 1000 transcript characters.
func itemDensity(transcriptLen, itemCount int) int {
	if transcriptLen == 0 {
		return 0
	}
	return int(math.Round(float64(itemCount) / float64(transcriptLen) * 1000))
}
