package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/config"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/infrastructure/backend"
	"github.com/sangkips/pos-console/internal/infrastructure/database"
	"github.com/sangkips/pos-console/internal/infrastructure/repository"
	"github.com/sangkips/pos-console/internal/infrastructure/session"
	"github.com/sangkips/pos-console/internal/presentation/http/handler"
	"github.com/sangkips/pos-console/internal/presentation/http/middleware"
	"github.com/sangkips/pos-console/internal/presentation/http/routes"
	"github.com/sangkips/pos-console/pkg/logging"
	"github.com/sangkips/pos-console/pkg/printer"
)

func main() {
	bootLogger := logging.New(os.Getenv("APP_ENV"), false)

	// Load configuration
	cfg, err := config.Load(bootLogger)
	if err != nil {
		bootLogger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.App.Env, cfg.App.Debug)

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Session store, restored from disk
	store := session.NewStore(
		session.NewFileRepository(cfg.Storage.Path, session.NewSealer(cfg.Storage.SessionSecret)),
		logger.With("component", "session"),
	)

	// Backend client; a 401 on an authenticated call ends the session
	client := backend.NewClient(backend.Config{
		BaseURL:        cfg.Backend.URL,
		Timeout:        cfg.Backend.Timeout,
		Sessions:       store,
		OnUnauthorized: store.ForceLogout,
		Logger:         logger,
	})

	// Initialize repositories
	authRepo := backend.NewAuthRepository(client)
	productRepo := backend.NewProductRepository(client)
	userRepo := backend.NewUserRepository(client)
	saleRepo := backend.NewSaleRepository(client)
	customerRepo := backend.NewCustomerRepository(client)
	receiptRepo := backend.NewReceiptRepository(client)
	analyticsRepo := backend.NewAnalyticsRepository(client)
	idempotencyRepo := repository.NewIdempotencyRepository()
	if cfg.Database.URL != "" {
		db, err := database.NewPostgresDB(&cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := database.AutoMigrate(db); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		idempotencyRepo = repository.NewGormIdempotencyRepository(db)
	}

	// Initialize services
	authService := service.NewAuthService(authRepo, store, logger)
	productService := service.NewProductService(productRepo)
	userService := service.NewUserService(userRepo)
	saleBuilder := service.NewSaleBuilder(productRepo, saleRepo, customerRepo, receiptRepo, logger)
	historyService := service.NewSalesHistoryService(saleRepo, productRepo, logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo)
	reportService := service.NewReportService(analyticsService, historyService)

	// Logging out, by choice or forced, drops the work in progress
	store.OnClear(saleBuilder.Reset)
	store.OnClear(historyService.Close)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		logger.Warn("failed to initialize printer", "error", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(
		thermalPrinter,
		saleBuilder,
		entity.TicketHeader{StoreName: cfg.Store.Name, Address: cfg.Store.Address, Phone: cfg.Store.Phone},
		cfg.Printer.Type,
		cfg.Printer.Width,
		logger,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Checkout:  handler.NewCheckoutHandler(saleBuilder, productService),
		Product:   handler.NewProductHandler(productService),
		User:      handler.NewUserHandler(userService),
		Sales:     handler.NewSalesHandler(historyService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
		Report:    handler.NewReportHandler(reportService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
	})
	defer rateLimiter.Close()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Logger:          logger,
		Sessions:        store,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", "name", cfg.App.Name, "port", cfg.App.Port, "env", cfg.App.Env, "backend", cfg.Backend.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
}
