package actionitem

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/meetscribe/meetscribe/errors"
	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/domain/repositories"
	"github.com/meetscribe/meetscribe/pkg/ai"
)

// Service handles action item queries and updates outside the pipeline.
type Service struct {
	itemRepo  repositories.ActionItemRepository
	assetRepo repositories.AssetRepository
	extractor ai.Extractor
	logger    *zap.Logger
}

// NewService creates an action item service
func NewService(
	itemRepo repositories.ActionItemRepository,
	assetRepo repositories.AssetRepository,
	extractor ai.Extractor,
	logger *zap.Logger,
) *Service {
	return &Service{
		itemRepo:  itemRepo,
		assetRepo: assetRepo,
		extractor: extractor,
		logger:    logger,
	}
}

// List returns all of the user's action items, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*entities.ActionItem, error) {
	return s.itemRepo.ListByUser(ctx, userID)
}

// UpdateInput carries the patchable fields. Nil means "leave unchanged".
type UpdateInput struct {
	Text      *string
	Assignee  *string
	Priority  *string
	DueDate   *string
	Completed *bool
}

// Update patches an action item owned by the user
func (s *Service) Update(ctx context.Context, userID, itemID uuid.UUID, in *UpdateInput) (*entities.ActionItem, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, entities.ErrActionItemNotFound
	}

	if in.Text != nil {
		item.Text = *in.Text
	}
	if in.Assignee != nil {
		item.Assignee = in.Assignee
	}
	if in.Priority != nil {
		item.Priority = entities.CoercePriority(*in.Priority)
	}
	if in.DueDate != nil {
		item.DueDate = in.DueDate
	}
	if in.Completed != nil {
		item.Completed = *in.Completed
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GenerateDescription asks the LLM for a description of one item. Gated on
// the user's tier: Free-tier assets have the feature disabled.
func (s *Service) GenerateDescription(ctx context.Context, userID, itemID uuid.UUID) (*entities.ActionItem, error) {
	asset, err := s.assetRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("find asset", err)
	}
	if !asset.ActionDescriptionAllow {
		return nil, apperrors.ErrDescriptionNotAllowed()
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, entities.ErrActionItemNotFound
	}

	desc, err := s.extractor.GenerateDescription(ctx, item.Text)
	if err != nil {
		return nil, apperrors.ErrExtractionFailed(err)
	}

	item.Description = &desc
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("📝 Generated action item description",
			zap.String("item_id", itemID.String()),
			zap.String("user_id", userID.String()),
		)
	}
	return item, nil
}
