package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/services"
	"github.com/taskhive-dev/taskhive/internal/types"
)

type AuthenticatedUser struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

func unauthorized(message string) *apperror.Error {
	return apperror.Unauthorized(message).WithCode(apperror.CodeInvalidToken)
}

// TokenFromRequest reads the session cookie, falling back to a Bearer header.
func TokenFromRequest(ctx *gin.Context) (string, error) {
	if cookie, err := ctx.Cookie(types.TokenCookieName); err == nil && cookie != "" {
		return cookie, nil
	}

	authHeader := ctx.GetHeader(types.AuthorizationHeader)

	if authHeader == "" {
		return "", apperror.Unauthorized("Unauthorized. Please log in.")
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != types.AuthorizationScheme || parts[1] == "" {
		return "", unauthorized("Authorization header format must be Bearer {token}")
	}

	return parts[1], nil
}

func AuthMiddleware(jwt *auth.JWTManager, users *services.UserService, revoked auth.RevocationStore, log *logrus.Entry) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := TokenFromRequest(ctx)

		if err != nil {
			abortWithError(ctx, err)
			return
		}

		claims, err := jwt.VerifyJWT(tokenString)

		if err != nil {
			abortWithError(ctx, unauthorized("Invalid or expired token"))
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(ctx.Request.Context(), claims.ID)
			if err != nil {
				// fail open: a revocation outage must not log everyone out
				log.WithError(err).Warn("revocation lookup failed")
			} else if isRevoked {
				abortWithError(ctx, unauthorized("Session has been logged out"))
				return
			}
		}

		user, err := users.FindActive(ctx.Request.Context(), claims.UserID)

		if err != nil {
			abortWithError(ctx, err)
			return
		}

		authUser := AuthenticatedUser{
			ID:      user.ID,
			Name:    user.Name,
			Email:   user.Email,
			TokenID: claims.ID,
		}
		if claims.ExpiresAt != nil {
			authUser.ExpiresAt = claims.ExpiresAt.Time
		}

		ctx.Set(types.ContextUserKey, authUser)
		ctx.Next()
	}
}

func abortWithError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.Abort()
}
