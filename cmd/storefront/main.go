package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/istmoglobal/storefront/internal/app"
	"github.com/istmoglobal/storefront/internal/auth"
	"github.com/istmoglobal/storefront/internal/cart"
	"github.com/istmoglobal/storefront/internal/catalog"
	"github.com/istmoglobal/storefront/internal/catalogimport"
	"github.com/istmoglobal/storefront/internal/checkout"
	"github.com/istmoglobal/storefront/internal/dashboard"
	"github.com/istmoglobal/storefront/internal/directory"
	"github.com/istmoglobal/storefront/internal/observability"
	"github.com/istmoglobal/storefront/internal/orders"
	"github.com/istmoglobal/storefront/internal/platform/cache"
	"github.com/istmoglobal/storefront/internal/platform/db"
	"github.com/istmoglobal/storefront/internal/prospects"
	"github.com/istmoglobal/storefront/internal/rbac"
	"github.com/istmoglobal/storefront/internal/settings"
	"github.com/istmoglobal/storefront/internal/shared"
	"github.com/istmoglobal/storefront/internal/storage"
	"github.com/istmoglobal/storefront/internal/users"
	"github.com/istmoglobal/storefront/jobs"
)

const (
	sessionCookieName = "istmo_session"
	settingsCacheTTL  = 5 * time.Minute
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, sessionCookieName, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	settingsService := settings.NewService(
		settings.NewRepository(dbpool),
		settings.NewCache(redisClient, settingsCacheTTL),
		logger,
	)

	authService := auth.NewService(auth.NewRepository(dbpool), auth.Config{
		BypassEnabled:  cfg.AdminBypassEnabled,
		BypassEmail:    cfg.AdminBypassEmail,
		BypassPassword: cfg.AdminBypassPassword,
	})
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager, metrics)

	catalogService := catalog.NewService(catalog.NewRepository(dbpool))
	catalogHandler := catalog.NewHandler(logger, catalogService, settingsService)

	queueOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient, err := jobs.NewClient(queueOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	importHandler := catalogimport.NewHandler(logger, jobClient, catalogimport.NewRedisProgress(redisClient), cfg.ImportMaxBytes)

	orderService := orders.NewService(orders.NewRepository(dbpool))
	prospectService := prospects.NewService(prospects.NewRepository(dbpool))
	userService := users.NewService(users.NewRepository(dbpool))

	checkoutService := checkout.NewService(orderService, metrics)

	var uploadHandler *storage.Handler
	if endpoint := cfg.R2EndpointHost(); endpoint != "" {
		store, err := storage.NewR2Store(storage.Config{
			Endpoint:        endpoint,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			Bucket:          cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
		if err != nil {
			logger.Error("init object store", slog.Any("error", err))
			os.Exit(1)
		}
		uploadHandler = storage.NewHandler(logger, store, cfg.UploadMaxBytes)
	} else {
		logger.Warn("object store not configured, uploads disabled")
	}

	inspector := asynq.NewInspector(queueOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		RBACMiddleware:   rbac.Middleware{Logger: logger},
		Metrics:          metrics,
		AuthHandler:      authHandler,
		CatalogHandler:   catalogHandler,
		ImportHandler:    importHandler,
		CartHandler:      cart.NewHandler(logger, catalogService, settingsService),
		CheckoutHandler:  checkout.NewHandler(logger, checkoutService, settingsService, cfg.WhatsAppPhone),
		OrdersHandler:    orders.NewHandler(logger, orderService),
		ProspectsHandler: prospects.NewHandler(logger, prospectService),
		UsersHandler:     users.NewHandler(logger, userService),
		DirectoryHandler: directory.NewHandler(logger, directory.NewService(userService, prospectService)),
		SettingsHandler:  settings.NewHandler(logger, settingsService),
		DashboardHandler: dashboard.NewHandler(logger, dashboard.NewService(catalogService, prospectService, orderService)),
		UploadHandler:    uploadHandler,
		JobHandler:       jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
