package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/usecase/auth"
	"github.com/meetscribe/meetscribe/pkg/jwt"
	"github.com/meetscribe/meetscribe/pkg/validator"
)

type stubUserRepo struct {
	byEmail map[string]*entities.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*entities.User)}
}

func (r *stubUserRepo) Create(ctx context.Context, user *entities.User) error {
	r.byEmail[user.Email] = user
	return nil
}

func (r *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, entities.ErrUserNotFound
}

func (r *stubUserRepo) FindByProvider(ctx context.Context, provider entities.AuthProvider, providerID string) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}

func (r *stubUserRepo) Update(ctx context.Context, user *entities.User) error { return nil }

func (r *stubUserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error { return nil }

type stubSessionRepo struct {
	sessions map[string]*entities.Session
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*entities.Session)}
}

func (r *stubSessionRepo) Create(ctx context.Context, session *entities.Session) error {
	r.sessions[session.RefreshToken] = session
	return nil
}

func (r *stubSessionRepo) FindByRefreshToken(ctx context.Context, token string) (*entities.Session, error) {
	if s, ok := r.sessions[token]; ok {
		return s, nil
	}
	return nil, entities.ErrSessionRevoked
}

func (r *stubSessionRepo) Revoke(ctx context.Context, id uuid.UUID) error { return nil }

func (r *stubSessionRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error { return nil }

func (r *stubSessionRepo) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

type stubAssetRepo struct {
	assets map[uuid.UUID]*entities.Asset
}

func newStubAssetRepo() *stubAssetRepo {
	return &stubAssetRepo{assets: make(map[uuid.UUID]*entities.Asset)}
}

func (r *stubAssetRepo) Create(ctx context.Context, asset *entities.Asset) error {
	r.assets[asset.UserID] = asset
	return nil
}

func (r *stubAssetRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*entities.Asset, error) {
	if a, ok := r.assets[userID]; ok {
		return a, nil
	}
	return nil, entities.ErrUserNotFound
}

func (r *stubAssetRepo) Update(ctx context.Context, asset *entities.Asset) error { return nil }

func (r *stubAssetRepo) UpsertForTier(ctx context.Context, userID uuid.UUID, tier entities.SubscriptionTier) (*entities.Asset, error) {
	a := entities.NewAsset(userID)
	a.ApplyTier(tier)
	r.assets[userID] = a
	return a, nil
}

func newTestAuthHandler(users *stubUserRepo) (*AuthHandler, *echo.Echo) {
	jwtManager := jwt.NewManager("access-secret", "refresh-secret", 15*time.Minute, 168*time.Hour)
	svc := auth.NewService(users, newStubSessionRepo(), newStubAssetRepo(), jwtManager, nil, nil, nil)

	e := echo.New()
	e.Validator = validator.New()
	return NewAuthHandler(svc, nil), e
}

func TestSignUp_ReturnsTokensAndSetsCookies(t *testing.T) {
	h, e := newTestAuthHandler(newStubUserRepo())

	body := `{"email":"alice@example.com","password":"hunter2hunter2","firstName":"Alice","lastName":"Smith"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.SignUp(e.NewContext(req, rec)); err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.AccessToken == "" || resp.Data.RefreshToken == "" {
		t.Fatal("expected both tokens in the response")
	}

	cookies := rec.Result().Cookies()
	names := make(map[string]bool, len(cookies))
	for _, c := range cookies {
		names[c.Name] = true
	}
	if !names["access_token"] || !names["refresh_token"] {
		t.Fatalf("expected auth cookies, got %v", names)
	}
}

func TestSignUp_ShortPasswordRejected(t *testing.T) {
	h, e := newTestAuthHandler(newStubUserRepo())

	body := `{"email":"alice@example.com","password":"short","firstName":"Alice","lastName":"Smith"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.SignUp(e.NewContext(req, rec)); err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSignUp_DuplicateEmailConflicts(t *testing.T) {
	users := newStubUserRepo()
	existing := entities.NewUser("alice@example.com")
	users.byEmail[existing.Email] = existing

	h, e := newTestAuthHandler(users)

	body := `{"email":"alice@example.com","password":"hunter2hunter2","firstName":"Alice","lastName":"Smith"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.SignUp(e.NewContext(req, rec)); err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLogin_WrongPasswordUnauthorized(t *testing.T) {
	users := newStubUserRepo()
	user := entities.NewUser("alice@example.com")
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	hashStr := string(hash)
	user.PasswordHash = &hashStr
	users.byEmail[user.Email] = user

	h, e := newTestAuthHandler(users)

	body := `{"email":"alice@example.com","password":"wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMe_RequiresAuthenticatedContext(t *testing.T) {
	h, e := newTestAuthHandler(newStubUserRepo())

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	rec := httptest.NewRecorder()

	if err := h.Me(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
