package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/config"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/internal/infrastructure/repository"
	"github.com/sangkips/pos-console/internal/infrastructure/session"
	"github.com/sangkips/pos-console/internal/presentation/http/handler"
	"github.com/sangkips/pos-console/internal/presentation/http/middleware"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/logging"
	"github.com/sangkips/pos-console/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	users map[string]entity.User
}

func (a *stubAuth) Login(_ context.Context, email, password string) (*entity.Session, error) {
	u, ok := a.users[email]
	if !ok || password != "secret" {
		return nil, apperror.NewServerError(http.StatusUnauthorized, "Invalid credentials", "")
	}
	return &entity.Session{Token: "tok-" + u.ID, User: u}, nil
}

func (a *stubAuth) Logout(context.Context) error { return nil }

func (a *stubAuth) VerifyEmail(_ context.Context, email string) (bool, error) {
	_, ok := a.users[email]
	return ok, nil
}

func (a *stubAuth) ResetPassword(context.Context, entity.PasswordReset) (string, error) {
	return "", nil
}

type stubProducts struct {
	items map[string]entity.Product
}

func (p *stubProducts) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	item, ok := p.items[code]
	if !ok {
		return nil, apperror.NewNotFoundError("Product")
	}
	return &item, nil
}

func (p *stubProducts) List(context.Context) ([]entity.Product, error) {
	out := make([]entity.Product, 0, len(p.items))
	for _, item := range p.items {
		out = append(out, item)
	}
	return out, nil
}

func (p *stubProducts) Create(context.Context, *entity.Product) error         { return nil }
func (p *stubProducts) Update(context.Context, string, *entity.Product) error { return nil }
func (p *stubProducts) Delete(context.Context, string) error                  { return nil }

type stubSales struct {
	mu      sync.Mutex
	creates int
}

func (s *stubSales) Create(context.Context, []entity.PendingSaleLine, float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	return "S100", nil
}

func (s *stubSales) ListHistory(context.Context, string) ([]entity.SalesGroup, error) {
	return nil, nil
}

func (s *stubSales) Update(context.Context, string, []entity.SaleItem) error { return nil }
func (s *stubSales) Delete(context.Context, string) error                    { return nil }

type stubCustomers struct{}

func (stubCustomers) GetByNationalID(context.Context, string) (*entity.Customer, error) {
	return nil, apperror.NewNotFoundError("Customer")
}

type stubReceipts struct{}

func (stubReceipts) Create(context.Context, string, entity.Customer, float64) (string, error) {
	return "R1", nil
}

func (stubReceipts) Document(context.Context, string) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

type stubAnalytics struct{}

func (stubAnalytics) CategoryShares(context.Context) ([]entity.CategoryShare, error) {
	return []entity.CategoryShare{{Category: "Limpieza", TotalSales: 10}}, nil
}

func (stubAnalytics) BestProducts(context.Context) ([]entity.ProductShare, error) {
	return nil, nil
}

func (stubAnalytics) Dashboard(context.Context, entity.DateRange) (*entity.DashboardSummary, error) {
	return &entity.DashboardSummary{}, nil
}

func (stubAnalytics) TopSales(context.Context) ([]entity.TopProduct, error) {
	return []entity.TopProduct{{ID: "P1", Name: "Soap", Quantity: 3, Total: 7.5}}, nil
}

type testServer struct {
	router *gin.Engine
	store  *session.Store
	sales  *stubSales
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logging.Discard()

	store := session.NewStore(session.NewFileRepository(t.TempDir(), nil), logger)
	auth := &stubAuth{users: map[string]entity.User{
		"eva@shop.test": {ID: "E1", FirstName: "Eva", LastName: "Cajera", Email: "eva@shop.test", Role: enum.RoleEmployee},
		"ada@shop.test": {ID: "A1", FirstName: "Ada", LastName: "Admin", Email: "ada@shop.test", Role: enum.RoleAdmin},
	}}
	products := &stubProducts{items: map[string]entity.Product{
		"7750001": {ID: "P1", Code: "7750001", Name: "Soap", Category: "Limpieza", Price: 2.5, Stock: 10},
	}}
	sales := &stubSales{}

	builder := service.NewSaleBuilder(products, sales, stubCustomers{}, stubReceipts{}, logger)
	history := service.NewSalesHistoryService(sales, products, logger)
	analytics := service.NewAnalyticsService(stubAnalytics{})
	productService := service.NewProductService(products)
	store.OnClear(builder.Reset)

	h := &Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(auth, store, logger)),
		Checkout:  handler.NewCheckoutHandler(builder, productService),
		Product:   handler.NewProductHandler(productService),
		User:      handler.NewUserHandler(service.NewUserService(nil)),
		Sales:     handler.NewSalesHandler(history),
		Analytics: handler.NewAnalyticsHandler(analytics),
		Report:    handler.NewReportHandler(service.NewReportService(analytics, history)),
		Printer: handler.NewPrinterHandler(service.NewPrinterService(
			printer.NewNullPrinter(), builder, entity.TicketHeader{StoreName: "Tienda"}, printer.TypeNone, 32, logger)),
	}

	router := Setup(h, &Deps{
		Cfg:             &config.Config{App: config.AppConfig{Name: "pos-console"}},
		Logger:          logger,
		Sessions:        store,
		IdempotencyRepo: repository.NewIdempotencyRepository(),
	})
	return &testServer{router: router, store: store, sales: sales}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *testServer) login(t *testing.T, email string) {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code, env.Message)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"logged_in":false`)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/api/v1/checkout", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
}

func TestLoginReturnsProfile(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "eva@shop.test", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var profile struct {
		Home         string   `json:"home"`
		Capabilities []string `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.NotEmpty(t, profile.Home)
	assert.Contains(t, profile.Capabilities, string(enum.CapRecordSales))
	assert.NotContains(t, profile.Capabilities, string(enum.CapDeleteProducts))

	_, ok := s.store.Get()
	assert.True(t, ok)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "eva@shop.test", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	_, ok := s.store.Get()
	assert.False(t, ok)
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "eva@shop.test")

	w, env := s.do(t, http.MethodPost, "/api/v1/checkout/lines", map[string]any{"code": "7750001", "quantity": 4})
	require.Equal(t, http.StatusOK, w.Code, env.Message)

	var state struct {
		Phase string            `json:"phase"`
		Lines []json.RawMessage `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, "building", state.Phase)
	assert.Len(t, state.Lines, 1)

	w, _ = s.do(t, http.MethodPost, "/api/v1/checkout/lines", map[string]any{"code": "7750001", "quantity": 20})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/checkout/lines/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFinalizeReplaysIdempotentRetry(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "eva@shop.test")

	w, _ := s.do(t, http.MethodPost, "/api/v1/checkout/lines", map[string]any{"code": "7750001", "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	first, _ := s.do(t, http.MethodPost, "/api/v1/checkout/finalize", nil, middleware.IdempotencyKeyHeader, "k-1")
	require.Equal(t, http.StatusCreated, first.Code)

	second, _ := s.do(t, http.MethodPost, "/api/v1/checkout/finalize", nil, middleware.IdempotencyKeyHeader, "k-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, s.sales.creates)
}

func TestCapabilitiesGateRoutes(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "eva@shop.test")

	w, _ := s.do(t, http.MethodDelete, "/api/v1/products/7750001", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/reports/baskets", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, http.MethodGet, "/api/v1/analytics/top-sales", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestAdminDownloadsBasketReport(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "ada@shop.test")

	w, _ := s.do(t, http.MethodGet, "/api/v1/reports/baskets", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Canastos_")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestLogoutResetsCheckout(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "eva@shop.test")
	w, _ := s.do(t, http.MethodPost, "/api/v1/checkout/lines", map[string]any{"code": "7750001", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.login(t, "eva@shop.test")
	_, env := s.do(t, http.MethodGet, "/api/v1/checkout", nil)
	assert.Contains(t, string(env.Data), `"phase":"empty"`)
}
