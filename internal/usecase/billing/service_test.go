package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

type fakeUserRepo struct {
	users map[string]*entities.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entities.User) error { return nil }
func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, entities.ErrUserNotFound
}
func (f *fakeUserRepo) FindByProvider(ctx context.Context, p entities.AuthProvider, pid string) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}
func (f *fakeUserRepo) Update(ctx context.Context, u *entities.User) error      { return nil }
func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error { return nil }

type fakeAssetRepo struct {
	byUser map[uuid.UUID]*entities.Asset
}

func (f *fakeAssetRepo) Create(ctx context.Context, a *entities.Asset) error {
	f.byUser[a.UserID] = a
	return nil
}
func (f *fakeAssetRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*entities.Asset, error) {
	if a, ok := f.byUser[userID]; ok {
		return a, nil
	}
	return nil, entities.ErrUserNotFound
}
func (f *fakeAssetRepo) Update(ctx context.Context, a *entities.Asset) error { return nil }
func (f *fakeAssetRepo) UpsertForTier(ctx context.Context, userID uuid.UUID, tier entities.SubscriptionTier) (*entities.Asset, error) {
	a := entities.NewAsset(userID)
	a.ApplyTier(tier)
	f.byUser[userID] = a
	return a, nil
}

type fakeSubRepo struct {
	subs []*entities.Subscription
}

func (f *fakeSubRepo) Create(ctx context.Context, s *entities.Subscription) error {
	f.subs = append(f.subs, s)
	return nil
}
func (f *fakeSubRepo) FindLatestByUser(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error) {
	if len(f.subs) == 0 {
		return nil, entities.ErrUserNotFound
	}
	return f.subs[len(f.subs)-1], nil
}

func newBillingEnv(t *testing.T) (*Service, *entities.User, *fakeAssetRepo, *fakeSubRepo) {
	t.Helper()
	user := entities.NewUser("buyer@example.com")
	users := &fakeUserRepo{users: map[string]*entities.User{user.Email: user}}
	assets := &fakeAssetRepo{byUser: map[uuid.UUID]*entities.Asset{user.ID: entities.NewAsset(user.ID)}}
	subs := &fakeSubRepo{}
	svc := NewService(users, assets, subs, "prod-basic", "prod-pro", nil)
	return svc, user, assets, subs
}

func TestHandlePing_AppliesBasicTier(t *testing.T) {
	svc, user, _, subs := newBillingEnv(t)

	asset, err := svc.HandlePing(context.Background(), &PingEvent{
		Email:          user.Email,
		ProductID:      "prod-basic",
		SubscriptionID: "sub-1",
	})
	if err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if asset.CurrentTier != entities.TierBasic || asset.TranscriptionCount != 15 || asset.ActionPerTime != 15 || !asset.ActionDescriptionAllow {
		t.Fatalf("basic template not applied: %+v", asset)
	}
	if len(subs.subs) != 1 || subs.subs[0].Tier != entities.TierBasic {
		t.Fatalf("subscription record missing: %+v", subs.subs)
	}
}

func TestHandlePing_ProIsUnlimited(t *testing.T) {
	svc, user, _, _ := newBillingEnv(t)

	asset, err := svc.HandlePing(context.Background(), &PingEvent{
		Email:          user.Email,
		ProductID:      "prod-pro",
		SubscriptionID: "sub-2",
	})
	if err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if asset.CurrentTier != entities.TierPro {
		t.Fatalf("tier = %s", asset.CurrentTier)
	}
	if asset.TranscriptionCount != entities.UnlimitedCount || asset.ActionPerTime != entities.UnlimitedCount {
		t.Fatalf("pro counters not unlimited: %+v", asset)
	}
	if !asset.HasTranscriptionAllowance() {
		t.Fatal("unlimited allowance reported as exhausted")
	}
}

func TestHandlePing_RefundDropsToFree(t *testing.T) {
	svc, user, _, _ := newBillingEnv(t)

	asset, err := svc.HandlePing(context.Background(), &PingEvent{
		Email:          user.Email,
		ProductID:      "prod-pro",
		SubscriptionID: "sub-3",
		Refunded:       true,
	})
	if err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if asset.CurrentTier != entities.TierFree || asset.TranscriptionCount != 5 || asset.ActionDescriptionAllow {
		t.Fatalf("refund did not reset to free: %+v", asset)
	}
}

func TestHandlePing_UnknownProduct(t *testing.T) {
	svc, user, _, _ := newBillingEnv(t)
	if _, err := svc.HandlePing(context.Background(), &PingEvent{
		Email:     user.Email,
		ProductID: "prod-unknown",
	}); err == nil {
		t.Fatal("unknown product accepted")
	}
}

func TestHandlePing_UnknownBuyer(t *testing.T) {
	svc, _, _, _ := newBillingEnv(t)
	if _, err := svc.HandlePing(context.Background(), &PingEvent{
		Email:     "stranger@example.com",
		ProductID: "prod-basic",
	}); err == nil {
		t.Fatal("unknown buyer accepted")
	}
}
