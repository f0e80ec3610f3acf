package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"business-app-server/internal/auth"
	"business-app-server/internal/config"
	"business-app-server/internal/metrics"
	"business-app-server/internal/middleware"
	"business-app-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Svc *auth.Service
	Cfg *config.Config
	Log *zap.SugaredLogger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *auth.Service, cfg *config.Config, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{Svc: svc, Cfg: cfg, Log: log}
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	TenantID string `json:"tenantId"`
}

// AuthUser is the user payload embedded in token responses. Role is the
// tenant-scoped role name, empty when no membership was resolved.
type AuthUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// AuthResponse is the body of successful login and refresh calls. The
// rotated refresh token travels only in the httpOnly cookie.
type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	User        AuthUser `json:"user"`
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	session, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password, req.TenantID)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.ObserveLogin("denied")
			utils.Unauthorized(c, "Invalid email or password")
			return
		}
		h.Log.Errorw("login failed", "error", err)
		utils.InternalServerError(c, "Failed to log in")
		return
	}

	metrics.ObserveLogin("ok")
	h.setRefreshCookie(c, session.RefreshToken)
	c.JSON(http.StatusOK, sessionResponse(session))
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshToken rotates the refresh token and issues a new access token.
// The token is read from the httpOnly cookie, with a body fallback.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	composite, _ := c.Cookie(h.Cfg.RefreshCookieName)
	if composite == "" {
		var req RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			composite = req.RefreshToken
		}
	}
	if composite == "" {
		metrics.ObserveRefresh("malformed")
		utils.BadRequest(c, "Refresh token is required (either in cookie or body)")
		return
	}

	session, err := h.Svc.Refresh(c.Request.Context(), composite)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMalformedToken):
			metrics.ObserveRefresh("malformed")
			utils.BadRequest(c, "Refresh token malformed")
		case errors.Is(err, auth.ErrInvalidToken):
			metrics.ObserveRefresh("invalid")
			utils.Forbidden(c, "Invalid refresh token")
		default:
			h.Log.Errorw("refresh failed", "error", err)
			utils.InternalServerError(c, "Failed to refresh token")
		}
		return
	}

	metrics.ObserveRefresh("ok")
	h.setRefreshCookie(c, session.RefreshToken)
	c.JSON(http.StatusOK, sessionResponse(session))
}

// LogoutRequest represents the request body for user logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the presented refresh token. It is best-effort: a missing,
// malformed or already-revoked token still yields success.
func (h *AuthHandler) Logout(c *gin.Context) {
	composite, _ := c.Cookie(h.Cfg.RefreshCookieName)
	if composite == "" {
		var req LogoutRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			composite = req.RefreshToken
		}
	}

	h.Svc.Logout(c.Request.Context(), composite)
	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the authenticated user with all memberships and the
// de-duplicated union of their roles' permission keys.
func (h *AuthHandler) Me(c *gin.Context) {
	rc := middleware.RequestCtx(c)
	if rc.User == nil {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	memberships, err := h.Svc.Memberships(c.Request.Context(), rc.UserID)
	if err != nil {
		h.Log.Errorw("failed to load memberships", "user_id", rc.UserID, "error", err)
		utils.InternalServerError(c, "Failed to load memberships")
		return
	}

	seen := make(map[string]struct{})
	permissions := make([]string, 0)
	for _, m := range memberships {
		for _, key := range m.PermissionKeys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			permissions = append(permissions, key)
		}
	}
	sort.Strings(permissions)

	c.JSON(http.StatusOK, gin.H{
		"user":        rc.User.Sanitize(),
		"memberships": memberships,
		"permissions": permissions,
	})
}

func sessionResponse(session *auth.Session) AuthResponse {
	return AuthResponse{
		AccessToken: session.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   session.ExpiresIn,
		User: AuthUser{
			ID:        session.User.ID,
			Email:     session.User.Email,
			FirstName: session.User.FirstName,
			LastName:  session.User.LastName,
			Role:      session.Role,
		},
	}
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	if h.Cfg.Environment == "production" {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(
		h.Cfg.RefreshCookieName,
		token,
		h.Cfg.RefreshExpirationDays*24*60*60, // Max age in seconds
		"/",                                // Path
		"",                                 // Domain (empty means current domain)
		h.Cfg.Environment != "development", // Secure (true in prod, false in dev)
		true,                               // HTTP only
	)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	if h.Cfg.Environment == "production" {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(
		h.Cfg.RefreshCookieName,
		"",
		-1, // MaxAge (negative to expire immediately)
		"/",
		"",
		h.Cfg.Environment != "development",
		true,
	)
}
