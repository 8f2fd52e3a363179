package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/pkg/utils"
)

// RequestIDHeader carries the correlation id in and out of the console
const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware creates a structured logging middleware. The request id is taken from
// the incoming header when present and forwarded to backend calls through the context.
func LoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = utils.NewRequestID()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(utils.WithRequestID(c.Request.Context(), requestID))

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", utils.ShortID(requestID),
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= 500:
			logger.Error("request", append(attrs, "errors", c.Errors.String())...)
		case len(c.Errors) > 0:
			logger.Info("request", append(attrs, "errors", c.Errors.String())...)
		default:
			logger.Info("request", attrs...)
		}
	}
}
