package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	revenueapp "github.com/erp/backoffice/internal/application/revenue"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/cache"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/erp/backoffice/internal/interfaces/http/handler"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/erp/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ERP back-office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Telemetry
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.FromConfig(cfg, version), log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsFromConfig(cfg, version), log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		_ = mp.Shutdown(context.Background())
	}()

	lp, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsFromConfig(cfg, version), log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	defer func() {
		_ = lp.Shutdown(context.Background())
	}()
	log = lp.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	if cfg.Database.SlowThreshold > 0 {
		dbTracing.SlowQueryThresh = cfg.Database.SlowThreshold
	}
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetricsConfig := telemetry.DefaultDBMetricsConfig()
	if cfg.Database.SlowThreshold > 0 {
		dbMetricsConfig.SlowQueryThreshold = cfg.Database.SlowThreshold
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, mp, dbMetricsConfig, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(context.Background())
		defer dbMetrics.Stop()
	}
	log.Info("Database connected successfully")

	// Snapshot locking
	locker, err := cache.NewSnapshotLockerFactory(cfg.Redis, cfg.Report.SnapshotLockTTL,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateLocker(context.Background())
	if err != nil {
		log.Fatal("Failed to initialize snapshot locker", zap.Error(err))
	}

	// Repositories
	centerRepo := persistence.NewGormRevenueCenterRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	costCenterRepo := persistence.NewGormCostCenterRepository(db.DB)
	expenditureRepo := persistence.NewGormExpenditureRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)

	// Application services
	centerService := revenueapp.NewRevenueCenterService(centerRepo, reportRepo, expenditureRepo, locker)
	reportService := revenueapp.NewReportService(
		centerRepo, reportRepo, costCenterRepo, expenditureRepo, invoiceRepo, quotationRepo,
		revenueapp.WithContractedMarkup(cfg.Report.ContractedMarkup),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	// Order matters: the request id and logger must exist before tracing
	// reads them, and auth runs after the body is bounded.
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tp.IsEnabled(),
		}),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: mp,
			Enabled:       mp.IsEnabled(),
			Logger:        log,
		}),
		middleware.CORSWithConfig(corsConfig),
		middleware.SecureWithConfig(securityConfig(cfg)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if cfg.HTTP.AuthEnabled {
		jwtConfig := middleware.DefaultJWTConfig(auth.NewJWTService(cfg.JWT))
		jwtConfig.Logger = log
		engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	engine.Use(middleware.TracingAttributeInjector())

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access sql.DB", zap.Error(err))
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, sqlDB)
	engine.GET("/health", systemHandler.Health)

	revenueRoutes := handler.NewRevenueCenterHandler(centerService, reportService).Routes(cfg.HTTP.AuthEnabled)
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r := router.NewRouter(engine)
	r.Register(revenueRoutes).Register(systemRoutes).Setup()
	log.Info("Routes registered",
		zap.String("base_path", r.BasePath()),
		zap.Int("revenue_center_routes", len(revenueRoutes.Routes())),
		zap.Bool("auth_enabled", cfg.HTTP.AuthEnabled),
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// securityConfig enables HSTS only in production, where TLS terminates in front of the service
func securityConfig(cfg *config.Config) middleware.SecurityConfig {
	sec := middleware.DefaultSecurityConfig()
	sec.HSTSEnabled = cfg.IsProduction()
	return sec
}
