package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/config"
	"github.com/sangkips/pos-console/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/internal/presentation/http/handler"
	"github.com/sangkips/pos-console/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Checkout  *handler.CheckoutHandler
	Product   *handler.ProductHandler
	User      *handler.UserHandler
	Sales     *handler.SalesHandler
	Analytics *handler.AnalyticsHandler
	Report    *handler.ReportHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Logger          *slog.Logger
	Sessions        middleware.SessionReader
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Middleware())
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		_, loggedIn := deps.Sessions.Get()
		body := gin.H{
			"status":    "ok",
			"service":   deps.Cfg.App.Name,
			"logged_in": loggedIn,
		}
		if deps.RateLimiter != nil {
			body["rate_limiter"] = deps.RateLimiter.Stats()
		}
		c.JSON(200, body)
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes (no session required)
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.RequireSession(deps.Sessions))
		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.Profile)

	registerCheckoutRoutes(protected, h, deps)
	registerProductRoutes(protected, h)
	registerUserRoutes(protected, h)
	registerSalesRoutes(protected, h)
	registerAnalyticsRoutes(protected, h)
	registerReportRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerCheckoutRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	replay := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	checkout := protected.Group("/checkout")
	checkout.Use(middleware.RequireCapability(enum.CapRecordSales))
	{
		checkout.GET("", h.Checkout.State)
		checkout.POST("/lookup", h.Checkout.Lookup)
		checkout.DELETE("/lookup", h.Checkout.DismissLookup)
		checkout.POST("/lines", h.Checkout.AddLine)
		checkout.DELETE("/lines/:index", h.Checkout.RemoveLine)
		checkout.POST("/cancel", h.Checkout.Cancel)
		checkout.POST("/finalize", replay, h.Checkout.Finalize)

		checkout.POST("/receipt/opt-in", h.Checkout.OptInReceipt)
		checkout.POST("/receipt/decline", h.Checkout.DeclineReceipt)
		checkout.POST("/receipt/cancel", h.Checkout.CancelReceipt)
		checkout.PUT("/receipt/customer", h.Checkout.SetCustomerField)
		checkout.POST("/receipt/customer/blur", h.Checkout.BlurNationalID)
		checkout.POST("/receipt/customer/lookup", h.Checkout.LookupCustomer)
		checkout.POST("/receipt", replay, h.Checkout.CreateReceipt)
		checkout.GET("/receipts/:id/document", h.Checkout.ReceiptDocument)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	products.Use(middleware.RequireCapability(enum.CapViewProducts))
	{
		products.GET("", h.Product.List)
		products.GET("/categories", h.Product.Categories)
		products.GET("/:code", h.Product.Get)

		manage := products.Group("")
		manage.Use(middleware.RequireCapability(enum.CapManageProducts))
		manage.POST("", h.Product.Create)
		manage.GET("/:code/edit", h.Product.EditForm)
		manage.PUT("/:code", h.Product.Update)

		products.DELETE("/:code", middleware.RequireCapability(enum.CapDeleteProducts), h.Product.Delete)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequireCapability(enum.CapViewUsers))
	{
		users.GET("", h.User.List)
		users.GET("/roles", h.User.Roles)

		manage := users.Group("")
		manage.Use(middleware.RequireCapability(enum.CapManageUsers))
		manage.POST("", h.User.Create)
		manage.PUT("/:id", h.User.Update)
		manage.DELETE("/:id", h.User.Delete)
	}
}

func registerSalesRoutes(protected *gin.RouterGroup, h *Handlers) {
	sales := protected.Group("/sales")
	sales.Use(middleware.RequireCapability(enum.CapViewSalesHistory))
	{
		sales.GET("", h.Sales.List)
		sales.POST("/:id/open", h.Sales.Open)
		sales.DELETE("/:id", middleware.RequireCapability(enum.CapDeleteSales), h.Sales.Delete)
	}

	current := sales.Group("/current")
	{
		current.GET("", h.Sales.Current)
		current.PUT("/items/:index", h.Sales.SetQuantity)
		current.DELETE("/items/:index", h.Sales.RemoveItem)
		current.POST("/items", h.Sales.AddProduct)
		current.POST("/save", h.Sales.Save)
		current.POST("/close", h.Sales.Close)
	}
}

func registerAnalyticsRoutes(protected *gin.RouterGroup, h *Handlers) {
	analytics := protected.Group("/analytics")
	{
		analytics.GET("/baskets", middleware.RequireCapability(enum.CapViewBaskets), h.Analytics.Baskets)
		analytics.GET("/dashboard", middleware.RequireCapability(enum.CapViewDashboard), h.Analytics.Dashboard)
		// Roles without the ranking get an empty list instead of 403
		analytics.GET("/top-sales", h.Analytics.TopSales)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequireCapability(enum.CapExportReports))
	{
		reports.GET("/baskets", h.Report.Baskets)
		reports.GET("/sales", h.Report.SalesHistory)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printer := protected.Group("/printer")
	printer.Use(middleware.RequireCapability(enum.CapPrintTickets))
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
		printer.POST("/last-sale", h.Printer.PrintLastSale)
	}
}
