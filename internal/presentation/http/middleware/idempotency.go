package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/repository"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Now  func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response of a POST or PUT already processed with the
// same Idempotency-Key, so a UI retry after a lost response does not submit a sale twice.
// Only 2xx responses are stored. Requests without a key pass through.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}
		key := c.GetHeader(IdempotencyKeyHeader)
		user := CurrentUser(c)
		if key == "" || user == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		existing, err := config.Repo.GetByKey(ctx, key, user.ID)
		if err != nil {
			c.Next()
			return
		}
		endpoint := c.Request.Method + " " + c.FullPath()
		if existing != nil && !existing.IsExpired(now()) {
			if existing.Endpoint != endpoint {
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
					"success": false,
					"message": "Idempotency-Key was already used for another request",
				})
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", existing.ResponseBody)
			c.Abort()
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		at := now()
		_ = config.Repo.Create(ctx, &entity.IdempotencyKey{
			Key:          key,
			UserID:       user.ID,
			Endpoint:     endpoint,
			ResponseCode: status,
			ResponseBody: blw.body.Bytes(),
			CreatedAt:    at,
			ExpiresAt:    at.Add(IdempotencyKeyTTL),
		})
		_ = config.Repo.DeleteExpired(ctx, at)
	}
}
