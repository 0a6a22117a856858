package billing

import (
	"context"
	"sort"

	"go.uber.org/zap"

	apperrors "github.com/meetscribe/meetscribe/errors"
	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/domain/repositories"
)

// Service applies Gumroad subscription events to user allowances.
type Service struct {
	userRepo  repositories.UserRepository
	assetRepo repositories.AssetRepository
	subRepo   repositories.SubscriptionRepository
	productID map[string]entities.SubscriptionTier
	logger    *zap.Logger
}

// NewService creates a billing service. productBasic and productPro are the
// Gumroad product IDs mapped to their tiers.
func NewService(
	userRepo repositories.UserRepository,
	assetRepo repositories.AssetRepository,
	subRepo repositories.SubscriptionRepository,
	productBasic, productPro string,
	logger *zap.Logger,
) *Service {
	products := make(map[string]entities.SubscriptionTier)
	if productBasic != "" {
		products[productBasic] = entities.TierBasic
	}
	if productPro != "" {
		products[productPro] = entities.TierPro
	}
	return &Service{
		userRepo:  userRepo,
		assetRepo: assetRepo,
		subRepo:   subRepo,
		productID: products,
		logger:    logger,
	}
}

// PingEvent is the subset of a Gumroad ping the webhook consumes.
type PingEvent struct {
	Email          string
	ProductID      string
	SubscriptionID string
	Refunded       bool
	Cancelled      bool
}

// HandlePing resolves the webhook's product to a tier and resets the buyer's
// allowance to that tier's template. Refunds and cancellations drop the user
// back to Free.
func (s *Service) HandlePing(ctx context.Context, ev *PingEvent) (*entities.Asset, error) {
	user, err := s.userRepo.FindByEmail(ctx, ev.Email)
	if err != nil {
		return nil, apperrors.ErrUserNotFound()
	}

	tier, ok := s.productID[ev.ProductID]
	if !ok {
		return nil, apperrors.ErrBillingFailed(nil).WithDetail("product_id", ev.ProductID)
	}
	if ev.Refunded || ev.Cancelled {
		tier = entities.TierFree
	}

	asset, err := s.assetRepo.UpsertForTier(ctx, user.ID, tier)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("upsert asset", err)
	}

	sub := entities.NewSubscription(user.ID, ev.ProductID, ev.SubscriptionID, tier)
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, apperrors.ErrDBQueryFailed("create subscription", err)
	}

	if s.logger != nil {
		s.logger.Info("💳 Subscription tier applied",
			zap.String("user_id", user.ID.String()),
			zap.String("tier", string(tier)),
			zap.String("subscription_id", ev.SubscriptionID),
		)
	}
	return asset, nil
}

// Product describes one purchasable tier for the pricing page.
type Product struct {
	ProductID string                    `json:"product_id"`
	Tier      entities.SubscriptionTier `json:"tier"`
}

// Products lists the configured Gumroad products
func (s *Service) Products() []Product {
	products := make([]Product, 0, len(s.productID))
	for id, tier := range s.productID {
		products = append(products, Product{ProductID: id, Tier: tier})
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Tier < products[j].Tier })
	return products
}

// CurrentTier returns the user's allowance record
func (s *Service) CurrentTier(ctx context.Context, userEmail string) (*entities.Asset, error) {
	user, err := s.userRepo.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, apperrors.ErrUserNotFound()
	}
	asset, err := s.assetRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("find asset", err)
	}
	return asset, nil
}
