package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/config"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/infrastructure/repository"
	"github.com/sangkips/pos-console/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSession struct {
	session *entity.Session
}

func (f fixedSession) Get() (*entity.Session, bool) {
	if f.session == nil {
		return nil, false
	}
	return f.session, true
}

func sessionFor(role enum.Role) fixedSession {
	return fixedSession{session: &entity.Session{Token: "t", User: entity.User{ID: "U1", Role: role}}}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func serve(r http.Handler, method, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSession(t *testing.T) {
	ok := func(c *gin.Context) { c.String(http.StatusOK, CurrentUser(c).ID) }

	r := newTestRouter()
	r.GET("/anon", RequireSession(fixedSession{}), ok)
	r.GET("/user", RequireSession(sessionFor(enum.RoleEmployee)), ok)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/anon").Code)

	w := serve(r, http.MethodGet, "/user")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "U1", w.Body.String())
}

func TestRequireCapability(t *testing.T) {
	tests := []struct {
		name string
		role enum.Role
		caps []enum.Capability
		want int
	}{
		{"employee records sales", enum.RoleEmployee, []enum.Capability{enum.CapRecordSales}, http.StatusOK},
		{"employee cannot delete products", enum.RoleEmployee, []enum.Capability{enum.CapDeleteProducts}, http.StatusForbidden},
		{"admin needs every capability", enum.RoleAdmin, []enum.Capability{enum.CapDeleteSales, enum.CapEditAnySale}, http.StatusForbidden},
		{"super-admin edits any sale", enum.RoleSuperAdmin, []enum.Capability{enum.CapEditAnySale}, http.StatusOK},
		{"unknown role gets nothing", enum.Role("guest"), []enum.Capability{enum.CapViewProducts}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter()
			r.GET("/", RequireSession(sessionFor(tt.role)), RequireCapability(tt.caps...), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			assert.Equal(t, tt.want, serve(r, http.MethodGet, "/").Code)
		})
	}
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Close()

	r := newTestRouter()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/").Code)

	w := serve(r, http.MethodGet, "/")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, 1, rl.Stats()["active_clients"])
}

func TestRateLimiterCleanupDropsIdleClients(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{EntryTTL: time.Minute})
	defer rl.Close()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.getLimiter("10.0.0.1")

	now = now.Add(2 * time.Minute)
	rl.cleanup()

	assert.Equal(t, 0, rl.Stats()["active_clients"])
}

func TestIdempotency(t *testing.T) {
	calls := 0
	r := newTestRouter()
	guarded := r.Group("", RequireSession(sessionFor(enum.RoleEmployee)),
		Idempotency(IdempotencyConfig{Repo: repository.NewIdempotencyRepository()}))
	guarded.POST("/finalize", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})
	guarded.POST("/receipt", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{})
	})
	guarded.POST("/fail", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusBadRequest, gin.H{})
	})

	first := serve(r, http.MethodPost, "/finalize", IdempotencyKeyHeader, "k1")
	second := serve(r, http.MethodPost, "/finalize", IdempotencyKeyHeader, "k1")
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, `{"call":1}`, second.Body.String())
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))

	assert.Equal(t, http.StatusUnprocessableEntity, serve(r, http.MethodPost, "/receipt", IdempotencyKeyHeader, "k1").Code)

	serve(r, http.MethodPost, "/finalize")
	assert.Equal(t, 2, calls, "requests without a key are not replayed")

	serve(r, http.MethodPost, "/fail", IdempotencyKeyHeader, "k2")
	serve(r, http.MethodPost, "/fail", IdempotencyKeyHeader, "k2")
	assert.Equal(t, 4, calls, "failed responses are not stored")
}

func TestLoggerMiddlewareEchoesRequestID(t *testing.T) {
	r := newTestRouter()
	r.Use(LoggerMiddleware(logging.Discard()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/", RequestIDHeader, "req-123")
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))

	w = serve(r, http.MethodGet, "/")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestCORSAlwaysAllowsConsoleHeaders(t *testing.T) {
	r := newTestRouter()
	r.Use(CORSMiddleware(&config.CORSConfig{
		AllowedOrigins: []string{"http://pos.local"},
		AllowedHeaders: []string{"Authorization"},
	}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "/ping",
		"Origin", "http://pos.local",
		"Access-Control-Request-Method", http.MethodGet,
	)
	assert.Equal(t, http.StatusNoContent, w.Code)
	allowed := w.Header().Get("Access-Control-Allow-Headers")
	assert.Contains(t, allowed, "Authorization")
	assert.Contains(t, allowed, IdempotencyKeyHeader)

	w = serve(r, http.MethodGet, "/ping", "Origin", "http://pos.local")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")

	w = serve(r, http.MethodGet, "/ping", "Origin", "http://evil.local")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
