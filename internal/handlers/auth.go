package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/metrics"
	"github.com/taskhive-dev/taskhive/internal/middleware"
	"github.com/taskhive-dev/taskhive/internal/services"
	"github.com/taskhive-dev/taskhive/internal/types"
)

const oauthStateTTL = 10 * time.Minute

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) setCookie(ctx *gin.Context, name, value string, maxAge int, sameSite http.SameSite) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.Cookie.Domain,
		MaxAge:   maxAge,
		Secure:   h.Cookie.Secure,
		HttpOnly: true,
		SameSite: sameSite,
	})
}

// sessionSameSite is None for cross-site frontends, which browsers only
// accept on secure cookies.
func (h *Handler) sessionSameSite() http.SameSite {
	if h.Cookie.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func (h *Handler) issueToken(ctx *gin.Context, userID uint, email string) (string, error) {
	token, err := h.JWT.GenerateJWT(userID, email)

	if err != nil {
		return "", apperror.Internal("generate token", err)
	}

	h.setCookie(ctx, types.TokenCookieName, token, int(h.JWT.TTL().Seconds()), h.sessionSameSite())
	return token, nil
}

func (h *Handler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !bindJSON(ctx, &req) {
		return
	}

	_, err := h.Services.Accounts.RegisterUser(ctx.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	metrics.RecordAuth("register", err)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *Handler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !bindJSON(ctx, &req) {
		return
	}

	user, err := h.Services.Accounts.VerifyUser(ctx.Request.Context(), req.Email, req.Password)
	metrics.RecordAuth("login", err)

	if err != nil {
		fail(ctx, err)
		return
	}

	token, err := h.issueToken(ctx, user.ID, user.Email)

	if err != nil {
		fail(ctx, err)
		return
	}

	if err := h.Limiter.ResetLogin(ctx.Request.Context(), ctx.ClientIP()); err != nil {
		h.Log.WithError(err).Warn("failed to reset login rate limit")
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":      "Logged in successfully",
		"user":         user.Response(),
		"access_token": token,
	})
}

// Logout clears the cookie and revokes the presented token until it expires.
// It succeeds without a valid token.
func (h *Handler) Logout(ctx *gin.Context) {
	if token, err := middleware.TokenFromRequest(ctx); err == nil {
		if claims, err := h.JWT.VerifyJWT(token); err == nil && h.Revocations != nil && claims.ExpiresAt != nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			if err := h.Revocations.Revoke(ctx.Request.Context(), claims.ID, ttl); err != nil {
				h.Log.WithError(err).Warn("failed to revoke token")
			}
		}
	}

	h.setCookie(ctx, types.TokenCookieName, "", -1, h.sessionSameSite())
	metrics.RecordAuth("logout", nil)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) GoogleLogin(ctx *gin.Context) {
	if h.Google == nil {
		fail(ctx, apperror.NotFound("Google login is not configured"))
		return
	}

	state, err := auth.NewState()

	if err != nil {
		fail(ctx, apperror.Internal("generate oauth state", err))
		return
	}

	h.setCookie(ctx, types.OAuthStateCookieName, state, int(oauthStateTTL.Seconds()), http.SameSiteLaxMode)
	ctx.Redirect(http.StatusTemporaryRedirect, h.Google.AuthCodeURL(state))
}

func (h *Handler) googleFailure(ctx *gin.Context, err error) {
	metrics.RecordAuth("google", err)
	h.Log.WithError(err).Warn("google login failed")
	ctx.Redirect(http.StatusTemporaryRedirect, h.Frontend.GoogleCallbackURL+"?status=failure")
}

func (h *Handler) GoogleCallback(ctx *gin.Context) {
	if h.Google == nil {
		fail(ctx, apperror.NotFound("Google login is not configured"))
		return
	}

	state, err := ctx.Cookie(types.OAuthStateCookieName)
	h.setCookie(ctx, types.OAuthStateCookieName, "", -1, http.SameSiteLaxMode)

	if err != nil || state == "" || state != ctx.Query("state") {
		h.googleFailure(ctx, fmt.Errorf("oauth state mismatch"))
		return
	}

	profile, err := h.Google.Exchange(ctx.Request.Context(), ctx.Query("code"))

	if err != nil {
		h.googleFailure(ctx, err)
		return
	}

	var picture *string
	if profile.Picture != "" {
		picture = &profile.Picture
	}

	user, err := h.Services.Accounts.LoginOrCreateAccount(ctx.Request.Context(), services.ProviderProfile{
		Provider:      types.ProviderGoogle,
		ProviderID:    profile.Subject,
		DisplayName:   profile.Name,
		Email:         profile.Email,
		EmailVerified: profile.EmailVerified,
		Picture:       picture,
	})

	if err != nil {
		h.googleFailure(ctx, err)
		return
	}

	if user.CurrentWorkspaceID == nil {
		h.googleFailure(ctx, fmt.Errorf("user %d has no current workspace", user.ID))
		return
	}

	if _, err := h.issueToken(ctx, user.ID, user.Email); err != nil {
		h.googleFailure(ctx, err)
		return
	}

	metrics.RecordAuth("google", nil)
	ctx.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/workspace/%d", h.Frontend.Origin, *user.CurrentWorkspaceID))
}
