package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/fra-analyzer/internal/alerts"
	"github.com/RMahshie/fra-analyzer/internal/api"
	"github.com/RMahshie/fra-analyzer/internal/api/handlers"
	"github.com/RMahshie/fra-analyzer/internal/config"
	"github.com/RMahshie/fra-analyzer/internal/parser"
	"github.com/RMahshie/fra-analyzer/internal/processing"
	"github.com/RMahshie/fra-analyzer/internal/repository"
	"github.com/RMahshie/fra-analyzer/internal/repository/memory"
	"github.com/RMahshie/fra-analyzer/internal/repository/postgres"
	"github.com/RMahshie/fra-analyzer/internal/storage"
	"github.com/RMahshie/fra-analyzer/pkg/models"
)

const version = "1.0.0"

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Repository: PostgreSQL when configured, in-memory otherwise
	var store repository.Store
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		store = postgres.NewPostgresAnalysisRepository(db)
	} else {
		log.Warn().Msg("DATABASE_URL not set, analyses are kept in memory")
		store = memory.NewStore()
	}

	// Object storage for the upload pipeline
	s3Service, err := storage.New(ctx, cfg.Storage.Driver, storage.S3Config{
		Bucket:    cfg.Storage.Bucket,
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKeyID,
		SecretKey: cfg.Storage.SecretAccessKey,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	// Alerts
	var publisher alerts.Publisher = alerts.NopPublisher{}
	if cfg.MQTT.Broker != "" {
		mqttPublisher, err := alerts.NewMQTTPublisher(alerts.MQTTConfig{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
			QoS:      1,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect alert publisher")
		}
		publisher = mqttPublisher
	}
	defer publisher.Close()

	parserOpts := parser.Options{MaxPoints: cfg.Analysis.MaxSweepPoints}
	if cfg.Analysis.NoiseEnabled {
		parserOpts.Noise = parser.NewNoise(cfg.Analysis.NoiseSeed)
		log.Warn().Uint64("seed", cfg.Analysis.NoiseSeed).Msg("Parser noise injection enabled")
	}

	defaults := models.Thresholds{
		Warning:  cfg.Analysis.WarningThreshold,
		Critical: cfg.Analysis.CriticalThreshold,
	}

	var processingSvc processing.ProcessingService
	if s3Service != nil {
		processingSvc = processing.NewProcessingService(s3Service, store, publisher, parserOpts, defaults)
	} else {
		log.Warn().Msg("STORAGE_DRIVER not set, upload pipeline disabled")
	}

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("FRA Analyzer API", version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	// Register health endpoint
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = version
		resp.Body.Time = time.Now()
		return resp, nil
	})

	analysisHandler := handlers.NewAnalysisHandler(store, s3Service, processingSvc, parserOpts, defaults)
	api.RegisterRoutes(humaAPI, analysisHandler, s3Service != nil)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting FRA Analyzer API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
