package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/adapters/assets"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/adapters/cache"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/adapters/catalog"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/adapters/database"
	selectionstore "github.com/heartclinicmelbourne/patient-resources/backend/internal/adapters/selection"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/api/handlers"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/api/middleware"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/api/routes"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/application/services"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/composer"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/providers"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/repositories"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/infrastructure/clients/postgres"
	redisclient "github.com/heartclinicmelbourne/patient-resources/backend/internal/infrastructure/clients/redis"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/infrastructure/notifications"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/infrastructure/observability"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/mailto"
	"github.com/heartclinicmelbourne/patient-resources/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var metrics *observability.Metrics
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")

			metrics, err = observability.InitMetrics()
			if err != nil {
				logger.Warn().Err(err).Msg("Failed to initialize metrics")
			}
		}
	}

	// Catalog: embedded static data by default, Postgres when enabled
	staticCatalog, err := catalog.NewStaticAdapter()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load embedded catalog")
	}

	var procedureRepo repositories.ProcedureRepository = staticCatalog
	var bundleRepo repositories.BundleRepository = staticCatalog

	if cfg.Database.Enabled {
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
		}
		defer pgClient.Close()

		// Bundles stay embedded; only procedure records move to Postgres
		procedureRepo = database.NewProcedureAdapter(pgClient)
		logger.Info().Msg("PostgreSQL procedure catalog initialized")
	}

	// Redis backs the selection store and the response cache; without it the
	// app degrades to in-memory selections and no response caching
	var selectionRepo repositories.SelectionRepository
	var cacheProvider providers.CacheProvider

	redisConn, err := redisclient.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, using in-memory selection store")
		selectionRepo = selectionstore.NewMemoryAdapter()
	} else {
		defer redisConn.Close()
		selectionRepo = selectionstore.NewRedisAdapter(redisConn, cfg.Session.TTLSeconds)
		cacheProvider = cache.NewRedisAdapter(redisConn)
		logger.Info().Msg("Redis selection store and response cache initialized")
	}

	// Services
	mailComposer := mailto.NewComposer(cfg.Clinic.Name, cfg.Clinic.ReferralEmail, cfg.Clinic.GuideEmail)
	notifier := notifications.NewLogNotifier()

	catalogService := services.NewCatalogService(procedureRepo, bundleRepo)
	selectionService := services.NewSelectionService(selectionRepo, procedureRepo, bundleRepo)
	guideService := services.NewGuideService(
		selectionRepo,
		procedureRepo,
		assets.NewHTTPProvider(&cfg.Assets),
		composer.NewFPDFRenderer(),
		notifier,
		mailComposer,
		cfg.Clinic,
		metrics,
	)
	referralService := services.NewReferralService(mailComposer)

	// HTTP layer
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
	}

	router := routes.NewRouter(
		handlers.NewProcedureHandler(catalogService),
		handlers.NewSelectionHandler(selectionService, guideService),
		handlers.NewGuideHandler(guideService),
		handlers.NewReferralHandler(referralService),
		cacheMiddleware,
		cfg.Session,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	}

	logger.Info().Msg("Server stopped")
}
