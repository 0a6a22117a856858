package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/meetscribe/meetscribe/errors"
	"github.com/meetscribe/meetscribe/internal/adapter/dto"
	"github.com/meetscribe/meetscribe/internal/usecase/auth"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
	logger      *zap.Logger
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(authService *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// SignUp handles POST /v1/auth/signup
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req dto.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidArgument(err.Error()))
	}

	resp, err := h.authService.SignUp(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	h.setAuthCookies(c, resp)
	return HandleSuccess(c, h.logger, resp)
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidArgument(err.Error()))
	}

	resp, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	h.setAuthCookies(c, resp)
	return HandleSuccess(c, h.logger, resp)
}

// GoogleLogin handles GET /v1/auth/google and starts the OAuth flow.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	url, err := h.authService.GetGoogleAuthURL(c.Request().Context())
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback handles GET /v1/auth/google/callback
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return HandleError(c, h.logger, apperrors.ErrInvalidArgument("missing code or state"))
	}

	resp, err := h.authService.HandleGoogleCallback(c.Request().Context(), code, state)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	h.setAuthCookies(c, resp)
	return HandleSuccess(c, h.logger, resp)
}

// Refresh handles POST /v1/auth/refresh and rotates the refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := h.refreshTokenFrom(c)
	if token == "" {
		return HandleError(c, h.logger, apperrors.ErrInvalidRefreshToken())
	}

	resp, err := h.authService.RefreshAccessToken(c.Request().Context(), token)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	h.setAuthCookies(c, resp)
	return HandleSuccess(c, h.logger, resp)
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := h.refreshTokenFrom(c); token != "" {
		if err := h.authService.Logout(c.Request().Context(), token); err != nil {
			return HandleError(c, h.logger, err)
		}
	}
	h.clearAuthCookies(c)
	return HandleSuccess(c, h.logger, nil)
}

// LogoutAll handles POST /v1/auth/logout-all and revokes every session.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	if err := h.authService.LogoutAll(c.Request().Context(), user.ID); err != nil {
		return HandleError(c, h.logger, err)
	}
	h.clearAuthCookies(c)
	return HandleSuccess(c, h.logger, nil)
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return HandleError(c, h.logger, err)
	}
	return HandleSuccess(c, h.logger, user.ToPublic())
}

func (h *AuthHandler) refreshTokenFrom(c echo.Context) string {
	var req dto.RefreshRequest
	if err := c.Bind(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	if cookie, err := c.Cookie("refresh_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func (h *AuthHandler) setAuthCookies(c echo.Context, resp *auth.AuthResponse) {
	c.SetCookie(&http.Cookie{
		Name:     "access_token",
		Value:    resp.AccessToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	})
	c.SetCookie(&http.Cookie{
		Name:     "refresh_token",
		Value:    resp.RefreshToken,
		Path:     "/v1/auth",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
	c.SetCookie(&http.Cookie{Name: "access_token", Value: "", Path: "/", HttpOnly: true, MaxAge: -1})
	c.SetCookie(&http.Cookie{Name: "refresh_token", Value: "", Path: "/v1/auth", HttpOnly: true, MaxAge: -1})
}
