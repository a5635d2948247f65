package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/taskhive-dev/taskhive/internal/apperror"
	"github.com/taskhive-dev/taskhive/internal/ratelimit"
)

// LoginRateLimit rejects clients that exceeded the login attempt budget.
func LoginRateLimit(limiter *ratelimit.Limiter, log *logrus.Entry) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		allowed, retry, err := limiter.CheckLogin(ctx.Request.Context(), ctx.ClientIP())

		if err != nil {
			log.WithError(err).Warn("rate limit store unavailable")
		}

		if !allowed {
			ctx.Header("Retry-After", strconv.Itoa(retry))
			abortWithError(ctx, apperror.TooManyRequests("Too many login attempts. Please try again later."))
			return
		}

		ctx.Next()
	}
}
