package meeting

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/meetscribe/meetscribe/errors"
	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/domain/repositories"
	"github.com/meetscribe/meetscribe/internal/usecase/pipeline"
)

// allowedExtensions is the upload whitelist.
var allowedExtensions = map[string]struct{}{
	".mp3": {},
	".mp4": {},
	".wav": {},
	".m4a": {},
}

// Service handles meeting uploads and queries. An accepted upload is handed
// to the pipeline runner and the caller gets the meeting record back
// immediately; the pipeline's outcome is observed via realtime events or by
// polling the meeting status.
type Service struct {
	meetingRepo repositories.MeetingRepository
	itemRepo    repositories.ActionItemRepository
	assetRepo   repositories.AssetRepository
	pipeline    *pipeline.Service
	runner      *pipeline.Runner
	uploadDir   string
	maxSize     int64
	logger      *zap.Logger
}

// NewService creates a meeting service
func NewService(
	meetingRepo repositories.MeetingRepository,
	itemRepo repositories.ActionItemRepository,
	assetRepo repositories.AssetRepository,
	pipelineSvc *pipeline.Service,
	runner *pipeline.Runner,
	uploadDir string,
	maxSize int64,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetingRepo: meetingRepo,
		itemRepo:    itemRepo,
		assetRepo:   assetRepo,
		pipeline:    pipelineSvc,
		runner:      runner,
		uploadDir:   uploadDir,
		maxSize:     maxSize,
		logger:      logger,
	}
}

// UploadInput carries the validated multipart fields for one upload.
type UploadInput struct {
	Title           string
	Date            string
	Participants    string
	VariantSelector string
	FileName        string
	FileSize        int64
	File            io.Reader
}

// Upload validates the request, checks the caller's allowance, stores the
// file, creates the meeting record and schedules the pipeline run.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, in *UploadInput) (*entities.Meeting, error) {
	if in.File == nil || in.FileName == "" {
		return nil, apperrors.ErrMissingUploadFile()
	}
	if in.Title == "" || in.Date == "" || in.Participants == "" {
		return nil, apperrors.ErrMissingUploadFields()
	}

	ext := strings.ToLower(filepath.Ext(in.FileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, apperrors.ErrUnsupportedFileType(ext)
	}
	if s.maxSize > 0 && in.FileSize > s.maxSize {
		return nil, apperrors.ErrFileTooLarge(int(s.maxSize / (1024 * 1024)))
	}

	// Tier gate: an exactly exhausted counter blocks; negative is unlimited.
	asset, err := s.assetRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("find asset", err)
	}
	if !asset.HasTranscriptionAllowance() {
		return nil, apperrors.ErrAllowanceExhausted()
	}

	storedName := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.New().String()[:8], ext)
	filePath := filepath.Join(s.uploadDir, storedName)
	if err := s.saveFile(filePath, in.File); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	meeting := entities.NewMeeting(userID, in.Title, in.Date, in.Participants, in.FileName, filePath, in.VariantSelector)
	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		// Don't leave the orphaned file behind.
		os.Remove(filePath)
		return nil, apperrors.ErrDBQueryFailed("create meeting", err)
	}

	if _, err := s.runner.Submit(ctx, func(runCtx context.Context) error {
		return s.pipeline.Run(runCtx, meeting.ID, userID, filePath, meeting.VariantSelector)
	}); err != nil {
		// Runner is draining during shutdown; the sweeper will reconcile.
		if s.logger != nil {
			s.logger.Error("❌ Failed to schedule pipeline run",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err),
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("📤 Upload accepted",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("user_id", userID.String()),
			zap.String("file", in.FileName),
		)
	}
	return meeting, nil
}

func (s *Service) saveFile(path string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// List returns the user's meetings, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*entities.Meeting, error) {
	return s.meetingRepo.ListByUser(ctx, userID)
}

// Get returns one meeting with its action items
func (s *Service) Get(ctx context.Context, userID, meetingID uuid.UUID) (*entities.Meeting, []*entities.ActionItem, error) {
	meeting, err := s.meetingRepo.FindByIDForUser(ctx, meetingID, userID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.itemRepo.FindByMeeting(ctx, meetingID)
	if err != nil {
		return nil, nil, err
	}
	return meeting, items, nil
}

// Search returns the user's meetings matching the query across title and
// transcription text
func (s *Service) Search(ctx context.Context, userID uuid.UUID, query string) ([]*entities.Meeting, error) {
	if strings.TrimSpace(query) == "" {
		return s.meetingRepo.ListByUser(ctx, userID)
	}
	return s.meetingRepo.Search(ctx, userID, query)
}

// Delete removes a meeting owned by the user
func (s *Service) Delete(ctx context.Context, userID, meetingID uuid.UUID) error {
	if _, err := s.meetingRepo.FindByIDForUser(ctx, meetingID, userID); err != nil {
		return err
	}
	return s.meetingRepo.Delete(ctx, meetingID)
}
