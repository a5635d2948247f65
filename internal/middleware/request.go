package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/taskhive-dev/taskhive/internal/metrics"
	"github.com/taskhive-dev/taskhive/internal/types"
)

// RequestID reuses an incoming X-Request-ID or generates one, and echoes it
// on the response.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rid := ctx.GetHeader(types.RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}

		ctx.Set(types.ContextRequestIDKey, rid)
		ctx.Header(types.RequestIDHeader, rid)
		ctx.Next()
	}
}

// RequestLogger logs one line per request and records the HTTP metrics.
func RequestLogger(log *logrus.Entry) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		status := ctx.Writer.Status()
		latency := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(ctx.Request.Method, route).Observe(latency.Seconds())

		entry := log.WithFields(logrus.Fields{
			"method":     ctx.Request.Method,
			"path":       ctx.Request.URL.Path,
			"status":     status,
			"latency_ms": latency.Milliseconds(),
			"request_id": ctx.GetString(types.ContextRequestIDKey),
			"client_ip":  ctx.ClientIP(),
		})

		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
