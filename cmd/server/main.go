package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/orderportal/backend/docs"
	printingapp "github.com/orderportal/backend/internal/application/printing"
	domain "github.com/orderportal/backend/internal/domain/printing"
	"github.com/orderportal/backend/internal/infrastructure/auth"
	"github.com/orderportal/backend/internal/infrastructure/config"
	"github.com/orderportal/backend/internal/infrastructure/logger"
	"github.com/orderportal/backend/internal/infrastructure/persistence"
	infra "github.com/orderportal/backend/internal/infrastructure/printing"
	"github.com/orderportal/backend/internal/infrastructure/printing/providers"
	"github.com/orderportal/backend/internal/infrastructure/storage"
	"github.com/orderportal/backend/internal/infrastructure/telemetry"
	"github.com/orderportal/backend/internal/interfaces/http/handler"
	"github.com/orderportal/backend/internal/interfaces/http/middleware"
	"github.com/orderportal/backend/internal/interfaces/http/router"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

//	@title			SLI Service API
//	@version		1.0
//	@description	Generates Shipper's Letter of Instruction forms as HTML previews, PDFs and product summary workbooks.

//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.FromAppConfig(cfg))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting SLI service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Warn("Meter shutdown failed", zap.Error(err))
		}
	}()

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, cfg.Log.Level, cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	service, closeService := newSLIService(ctx, cfg, db, mp, log)
	defer closeService()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	// Order matters: request ID first so every later layer can log it, and
	// the span enricher sits inside the otelgin span.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: mp,
		Enabled:       cfg.Telemetry.MetricsEnabled,
		Logger:        log,
	}))
	engine.Use(logger.GinMiddleware(log, "/health"))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	healthHandler := handler.NewHealthHandler(cfg.App.Name, map[string]handler.Pinger{
		"database": db,
	})
	engine.GET("/health", healthHandler.Health)

	jwtCfg := middleware.DefaultJWTConfig(auth.NewJWTVerifier(cfg.JWT))
	jwtCfg.Logger = log

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, middleware.JWTAuthMiddleware(jwtCfg)),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)
	sliRoutes := handler.SLIRoutes(handler.NewSLIHandler(service), middleware.JWTAuthMiddleware(jwtCfg))

	router.NewRouter(engine).Register(sliRoutes).Setup()
	for _, route := range sliRoutes.Routes() {
		log.Debug("Route registered", zap.String("route", route))
	}

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

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// newSLIService wires the generation pipeline. The returned func releases
// the browser allocator.
func newSLIService(ctx context.Context, cfg *config.Config, db *persistence.Database, mp *telemetry.MeterProvider, log *zap.Logger) (*printingapp.SLIService, func()) {
	geometry := domain.LetterPage(domain.UniformMargins(cfg.Printing.Margin))
	form := domain.StandardForm()

	registry := providers.NewDataProviderRegistry(
		providers.NewOrderProvider(persistence.NewGormOrderReader(db.DB)),
		providers.NewStandaloneProvider(persistence.NewGormSLIDocumentReader(db.DB)),
	)
	var sources []string
	for _, t := range registry.RegisteredTypes() {
		sources = append(sources, string(t))
	}
	log.Info("Data providers registered", zap.Strings("sources", sources))

	generationMetrics, err := telemetry.NewGenerationMetrics(mp.Meter("sli"))
	if err != nil {
		log.Warn("Generation metrics disabled", zap.Error(err))
	}

	var objects *storage.S3ObjectStorage
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objects = s3
	}

	storeCfg := &infra.TemplateStoreConfig{
		Path:     cfg.Printing.TemplatePath,
		Form:     form,
		Geometry: geometry,
		Logger:   log,
	}
	if objects != nil && strings.HasPrefix(cfg.Printing.TemplatePath, "s3://") {
		storeCfg.Objects = objects
	}
	templates, err := infra.NewTemplateStore(ctx, storeCfg)
	if err != nil {
		log.Fatal("Failed to load SLI template", zap.Error(err))
	}
	go reloadOnHangup(ctx, templates, log)

	var capturer infra.SurfaceCapturer
	chrome, err := infra.NewChromedpCapturer(&infra.ChromedpConfig{
		RemoteURL:    cfg.Printing.ChromeRemoteURL,
		NoSandbox:    cfg.Printing.ChromeNoSandbox,
		DisableGPU:   cfg.Printing.ChromeDisableGPU,
		Oversampling: cfg.Printing.Oversampling,
		PageWidth:    geometry.Width,
		PageHeight:   geometry.Height,
		Logger:       log,
	})
	if err != nil {
		log.Warn("Raster rendering unavailable", zap.Error(err))
	} else {
		capturer = chrome
	}

	var archive printingapp.DocumentArchive
	if cfg.Printing.ArchiveEnabled {
		if err := objects.EnsureBucket(ctx); err != nil {
			log.Fatal("Archive bucket unavailable", zap.Error(err))
		}
		archive = objects
	}

	mode, _ := domain.ParseRenderMode(cfg.Printing.DefaultMode)
	service := printingapp.NewSLIService(
		registry,
		templates,
		infra.NewVectorRenderer(infra.NewVectorComposer(form, geometry)),
		capturer,
		infra.NewSummaryWorkbook(form),
		archive,
		printingapp.ServiceConfig{
			DefaultMode:   mode,
			RenderTimeout: cfg.Printing.RenderTimeout,
			Geometry:      geometry,
			ArchivePrefix: cfg.Printing.ArchivePrefix,
			ArchiveExpiry: cfg.Storage.PresignExpiration,
			Metrics:       generationMetrics,
		},
		log,
	)

	return service, func() {
		if chrome != nil {
			if err := chrome.Close(); err != nil {
				log.Warn("Error closing browser", zap.Error(err))
			}
		}
	}
}

// reloadOnHangup re-reads the template on SIGHUP. A failed reload keeps the
// previous template.
func reloadOnHangup(ctx context.Context, templates *infra.TemplateStore, log *zap.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := templates.Reload(ctx); err != nil {
				log.Error("Template reload failed", zap.Error(err))
				continue
			}
			log.Info("Template reloaded",
				zap.String("origin", templates.Origin()),
				zap.Time("loaded_at", templates.LoadedAt()))
		}
	}
}
