package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/meetscribe/meetscribe/errors"
	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/domain/repositories"
	"github.com/meetscribe/meetscribe/internal/infrastructure/external/oauth"
	"github.com/meetscribe/meetscribe/pkg/jwt"
)

// Service handles authentication: email/password accounts, Google OAuth,
// and refresh-token sessions.
type Service struct {
	userRepo     repositories.UserRepository
	sessionRepo  repositories.SessionRepository
	assetRepo    repositories.AssetRepository
	jwtManager   *jwt.Manager
	google       *oauth.GoogleProvider
	stateManager *oauth.StateManager
	logger       *zap.Logger
}

// NewService creates an auth service
func NewService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	assetRepo repositories.AssetRepository,
	jwtManager *jwt.Manager,
	google *oauth.GoogleProvider,
	stateManager *oauth.StateManager,
	logger *zap.Logger,
) *Service {
	return &Service{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		assetRepo:    assetRepo,
		jwtManager:   jwtManager,
		google:       google,
		stateManager: stateManager,
		logger:       logger,
	}
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User         *entities.PublicUser `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	ExpiresIn    int64                `json:"expires_in"`
}

// SignUp registers a new email/password user. Every fresh account gets the
// Free-tier allowance.
func (s *Service) SignUp(ctx context.Context, email, password, firstName, lastName string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, entities.ErrInvalidEmail
	}
	if len(password) < 8 {
		return nil, entities.ErrInvalidPassword
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrUserAlreadyExists(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entities.NewUser(email)
	hashStr := string(hash)
	user.PasswordHash = &hashStr
	if firstName != "" {
		user.FirstName = &firstName
	}
	if lastName != "" {
		user.LastName = &lastName
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.assetRepo.Create(ctx, entities.NewAsset(user.ID)); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("👤 User signed up",
			zap.String("user_id", user.ID.String()),
			zap.String("email", user.Email),
		)
	}

	return s.issueTokens(ctx, user)
}

// Login authenticates an email/password user
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, entities.ErrUserNotFound
	}
	if user.PasswordHash == nil {
		// OAuth-only account
		return nil, apperrors.ErrInvalidCredentials().WithDetail("provider", string(user.Provider))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials()
	}

	user.UpdateLastLogin()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to record last login", zap.Error(err))
	}

	return s.issueTokens(ctx, user)
}

// GetGoogleAuthURL generates the Google OAuth URL with a CSRF state token
func (s *Service) GetGoogleAuthURL(ctx context.Context) (string, error) {
	state, err := s.stateManager.GenerateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return s.google.GetAuthURL(state), nil
}

// HandleGoogleCallback handles the OAuth callback from Google
func (s *Service) HandleGoogleCallback(ctx context.Context, code, state string) (*AuthResponse, error) {
	if !s.stateManager.ValidateState(state) {
		return nil, entities.ErrOAuthStateMismatch
	}

	token, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	googleUser, err := s.google.GetUserInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	user, err := s.userRepo.FindByProvider(ctx, entities.ProviderGoogle, googleUser.ID)
	if err != nil {
		if err != entities.ErrUserNotFound {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}

		// Link by email if an account already exists with another method
		if existing, emailErr := s.userRepo.FindByEmail(ctx, googleUser.Email); emailErr == nil {
			existing.Provider = entities.ProviderGoogle
			existing.ProviderID = &googleUser.ID
			existing.AvatarURL = &googleUser.Picture
			existing.IsEmailVerified = true
			if err := s.userRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("failed to link accounts: %w", err)
			}
			user = existing
		} else {
			user = entities.NewOAuthUser(googleUser.Email, entities.ProviderGoogle, googleUser.ID)
			user.AvatarURL = &googleUser.Picture
			if googleUser.GivenName != "" {
				user.FirstName = &googleUser.GivenName
			}
			if googleUser.FamilyName != "" {
				user.LastName = &googleUser.FamilyName
			}
			if err := s.userRepo.Create(ctx, user); err != nil {
				return nil, fmt.Errorf("failed to create user: %w", err)
			}
			if err := s.assetRepo.Create(ctx, entities.NewAsset(user.ID)); err != nil {
				return nil, fmt.Errorf("failed to create asset: %w", err)
			}
		}
	} else {
		user.UpdateLastLogin()
		user.AvatarURL = &googleUser.Picture
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return s.issueTokens(ctx, user)
}

// RefreshAccessToken refreshes the access token using refresh token
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	hashed, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.FindByRefreshToken(ctx, hashed)
	if err != nil || !session.IsValid() || session.UserID != userID {
		return nil, entities.ErrSessionRevoked
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, entities.ErrUserNotFound
	}

	// Rotate: revoke the old session and issue a fresh pair
	if err := s.sessionRepo.Revoke(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke session: %w", err)
	}
	return s.issueTokens(ctx, user)
}

// ValidateSession resolves an access token to its user
func (s *Service) ValidateSession(ctx context.Context, accessToken string) (*entities.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, claims.UserID)
}

// Logout revokes the session behind a refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	hashed, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return err
	}
	session, err := s.sessionRepo.FindByRefreshToken(ctx, hashed)
	if err != nil {
		return entities.ErrSessionRevoked
	}
	return s.sessionRepo.Revoke(ctx, session.ID)
}

// LogoutAll revokes all sessions for a user
func (s *Service) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.sessionRepo.RevokeAllForUser(ctx, userID)
}

// issueTokens mints an access/refresh pair and records the session. Only a
// hash of the refresh token is stored.
func (s *Service) issueTokens(ctx context.Context, user *entities.User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	hashed, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, err
	}

	session := entities.NewSession(user.ID, hashed, time.Now().Add(s.jwtManager.GetRefreshExpiry()))
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResponse{
		User:         user.ToPublic(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}
