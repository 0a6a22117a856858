package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/pkg/jwt"
)

type fakeUserRepo struct {
	byEmail map[string]*entities.User
	byID    map[uuid.UUID]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*entities.User),
		byID:    make(map[uuid.UUID]*entities.User),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entities.User) error {
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return nil
}
func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, entities.ErrUserNotFound
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, entities.ErrUserNotFound
}
func (f *fakeUserRepo) FindByProvider(ctx context.Context, p entities.AuthProvider, pid string) (*entities.User, error) {
	for _, u := range f.byID {
		if u.Provider == p && u.ProviderID != nil && *u.ProviderID == pid {
			return u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}
func (f *fakeUserRepo) Update(ctx context.Context, u *entities.User) error { return nil }
func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fakeSessionRepo struct {
	byToken map[string]*entities.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byToken: make(map[string]*entities.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *entities.Session) error {
	f.byToken[s.RefreshToken] = s
	return nil
}
func (f *fakeSessionRepo) FindByRefreshToken(ctx context.Context, token string) (*entities.Session, error) {
	if s, ok := f.byToken[token]; ok && s.RevokedAt == nil {
		return s, nil
	}
	return nil, entities.ErrSessionRevoked
}
func (f *fakeSessionRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	for _, s := range f.byToken {
		if s.ID == id {
			s.Revoke()
		}
	}
	return nil
}
func (f *fakeSessionRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	for _, s := range f.byToken {
		if s.UserID == userID {
			s.Revoke()
		}
	}
	return nil
}
func (f *fakeSessionRepo) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

type fakeAssetRepo struct {
	byUser map[uuid.UUID]*entities.Asset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{byUser: make(map[uuid.UUID]*entities.Asset)}
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

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeSessionRepo, *fakeAssetRepo) {
	t.Helper()
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	assets := newFakeAssetRepo()
	mgr := jwt.NewManager("access-secret", "refresh-secret", 15*time.Minute, 168*time.Hour)
	svc := NewService(users, sessions, assets, mgr, nil, nil, nil)
	return svc, users, sessions, assets
}

func TestSignUp_CreatesUserWithFreeTier(t *testing.T) {
	svc, users, _, assets := newTestService(t)

	resp, err := svc.SignUp(context.Background(), "Alice@Example.com", "supersecret", "Alice", "Smith")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("missing tokens")
	}
	if resp.User.Email != "alice@example.com" {
		t.Fatalf("email not normalised: %s", resp.User.Email)
	}

	user := users.byEmail["alice@example.com"]
	if user == nil || user.PasswordHash == nil {
		t.Fatal("password hash not stored")
	}
	if *user.PasswordHash == "supersecret" {
		t.Fatal("password stored in plaintext")
	}

	asset := assets.byUser[user.ID]
	if asset == nil || asset.CurrentTier != entities.TierFree || asset.TranscriptionCount != 5 {
		t.Fatalf("free tier allowance not applied: %+v", asset)
	}
}

func TestSignUp_RejectsShortPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if _, err := svc.SignUp(context.Background(), "a@b.com", "short", "", ""); err != entities.ErrInvalidPassword {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestSignUp_RejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if _, err := svc.SignUp(context.Background(), "a@b.com", "supersecret", "", ""); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, err := svc.SignUp(context.Background(), "a@b.com", "supersecret", "", ""); err == nil {
		t.Fatal("duplicate signup succeeded")
	}
}

func TestLogin_Succeeds(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if _, err := svc.SignUp(context.Background(), "a@b.com", "supersecret", "", ""); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	resp, err := svc.Login(context.Background(), "a@b.com", "supersecret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("missing access token")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if _, err := svc.SignUp(context.Background(), "a@b.com", "supersecret", "", ""); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@b.com", "wrong-password"); err == nil {
		t.Fatal("login with wrong password succeeded")
	}
}

func TestRefreshAccessToken_RotatesSession(t *testing.T) {
	svc, _, sessions, _ := newTestService(t)
	resp, err := svc.SignUp(context.Background(), "a@b.com", "supersecret", "", "")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	refreshed, err := svc.RefreshAccessToken(context.Background(), resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if refreshed.RefreshToken == resp.RefreshToken {
		t.Fatal("refresh token not rotated")
	}

	// The old token's session was revoked; reusing it fails.
	if _, err := svc.RefreshAccessToken(context.Background(), resp.RefreshToken); err == nil {
		t.Fatal("revoked refresh token accepted")
	}
	_ = sessions
}

func TestValidateSession(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	resp, err := svc.SignUp(context.Background(), "a@b.com", "supersecret", "", "")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	user, err := svc.ValidateSession(context.Background(), resp.AccessToken)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if user.Email != "a@b.com" {
		t.Fatalf("wrong user %s", user.Email)
	}

	if _, err := svc.ValidateSession(context.Background(), "garbage-token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	resp, err := svc.SignUp(context.Background(), "a@b.com", "supersecret", "", "")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if err := svc.Logout(context.Background(), resp.RefreshToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.RefreshAccessToken(context.Background(), resp.RefreshToken); err == nil {
		t.Fatal("refresh after logout succeeded")
	}
}
