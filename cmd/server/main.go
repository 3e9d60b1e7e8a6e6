package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/benvon/thai-toolkit/internal/config"
	"github.com/benvon/thai-toolkit/internal/database"
	"github.com/benvon/thai-toolkit/internal/handlers"
	"github.com/benvon/thai-toolkit/internal/logger"
	"github.com/benvon/thai-toolkit/internal/middleware"
	"github.com/benvon/thai-toolkit/internal/progress"
	"github.com/benvon/thai-toolkit/internal/queue"
	"github.com/benvon/thai-toolkit/internal/services/ai"
	"github.com/benvon/thai-toolkit/internal/services/recommend"
	"github.com/benvon/thai-toolkit/internal/services/session"
	"github.com/benvon/thai-toolkit/internal/services/speech"
	"github.com/benvon/thai-toolkit/internal/services/tones"
	"github.com/benvon/thai-toolkit/internal/telemetry"
)

const serviceName = "thai-toolkit-server"

// Set at build time with -ldflags "-X main.version=..."
var (
	version   = "dev"
	commit    = ""
	buildTime = ""
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.New(logger.Options{Debug: debugMode})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("ai_enabled", cfg.OpenAIKey != ""),
		zap.String("progress_timezone", cfg.Location.String()),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	tracingEnabled := false
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), telemetry.Options{
				ServiceName:    serviceName,
				ServiceVersion: version,
				Endpoint:       cfg.OTELEndpoint,
				SampleRatio:    cfg.OTELSampleRatio,
			})
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracingEnabled = true
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Storage backend for progress, recommendations and settings
	openCtx, openCancel := context.WithTimeout(context.Background(), 30*time.Second)
	backend, err := database.Open(openCtx, cfg.StorageURL)
	openCancel()
	if err != nil {
		zapLogger.Fatal("failed_to_open_storage_backend", zap.Error(err))
	}
	defer func() {
		if err := backend.Close(); err != nil {
			zapLogger.Warn("failed_to_close_storage_backend", zap.Error(err))
		}
	}()
	zapLogger.Info("storage_backend_opened", zap.String("storage", storageScheme(cfg.StorageURL)))

	// Redis for shared rate limit counters (optional)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = connectRedis(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		zapLogger.Info("connected_to_redis")
	}

	// RabbitMQ for background recommendation refresh (optional)
	var jobQueue *queue.RabbitMQQueue
	if cfg.RabbitMQURL != "" {
		jobQueue = connectRabbitMQ(cfg.RabbitMQURL, zapLogger)
		defer func() {
			if err := jobQueue.Close(); err != nil {
				zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
			}
		}()
	} else {
		zapLogger.Info("job_queue_not_configured_recommendations_computed_inline")
	}

	corsConfigRepo := database.NewCorsConfigRepository(backend)
	ratelimitConfigRepo := database.NewRatelimitConfigRepository(backend)

	manager := progress.NewManager(backend,
		progress.WithLogger(zapLogger),
		progress.WithLocation(cfg.Location),
	)

	var provider ai.Provider
	var speechGateway handlers.SpeechGateway
	if cfg.OpenAIKey != "" {
		provider = ai.NewOpenAIProviderWithLogger(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, zapLogger, debugMode)
		speechService, err := speech.NewService(speech.Options{
			APIKey:   cfg.OpenAIKey,
			BaseURL:  cfg.AIBaseURL,
			TTSModel: cfg.TTSModel,
			STTModel: cfg.STTModel,
			CacheDir: cfg.TTSCacheDir,
			Logger:   zapLogger,
		})
		if err != nil {
			zapLogger.Fatal("failed_to_create_speech_service", zap.Error(err))
		}
		speechGateway = speechService
	} else {
		zapLogger.Warn("openai_api_key_not_configured_gateway_features_disabled")
	}

	toneService := tones.NewService(provider, zapLogger)
	recommendService := recommend.NewService(provider, backend, manager, zapLogger)

	var enqueuer queue.Enqueuer
	probes := map[string]handlers.Pinger{"backend": backend}
	if jobQueue != nil {
		enqueuer = jobQueue
		probes["queue"] = handlers.PingFunc(jobQueue.HealthCheck)
	}
	if redisClient != nil {
		probes["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	var sessions handlers.Sessions
	if cfg.AppPassword != "" {
		secret := cfg.SessionSecret
		if secret == "" {
			zapLogger.Warn("session_secret_not_configured_deriving_from_app_password")
			secret = cfg.AppPassword
		}
		sessionManager, err := session.NewManager(secret)
		if err != nil {
			zapLogger.Fatal("failed_to_create_session_manager", zap.Error(err))
		}
		sessions = sessionManager
	}

	secureCookies := cfg.EnableHSTS || cfg.SecureCookies
	authHandler := handlers.NewAuthHandler(cfg.AppPassword, sessions, secureCookies, zapLogger)
	contentHandler := handlers.NewContentHandler(provider, toneService, zapLogger)
	speechHandler := handlers.NewSpeechHandler(speechGateway, zapLogger)
	progressHandler := handlers.NewProgressHandler(manager, enqueuer, recommendService, zapLogger)
	recommendationHandler := handlers.NewRecommendationHandler(recommendService)
	healthChecker := handlers.NewHealthChecker(probes)

	r := mux.NewRouter()

	if tracingEnabled {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	corsReloader := middleware.NewCORSReloader(corsConfigRepo, cfg.FrontendURL, zapLogger, 1*time.Minute)
	r.Use(corsReloader.Middleware())
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	rateLimitReloader, err := middleware.NewRateLimitReloader(redisClient, ratelimitConfigRepo, cfg.DefaultRateLimit, zapLogger, 1*time.Minute)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limit_reloader", zap.Error(err))
	}

	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", handlers.VersionHandler(handlers.VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	})).Methods("GET")

	if openAPIHandler, err := handlers.NewOpenAPIHandler(cfg.OpenAPIPath); err != nil {
		zapLogger.Warn("openapi_document_unavailable", zap.String("path", logger.SanitizePath(cfg.OpenAPIPath)), zap.Error(err))
	} else {
		openAPIHandler.RegisterRoutes(r)
	}

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(rateLimitReloader.Middleware())
	apiRouter.Use(middleware.RequirePassword(cfg.AppPassword, sessions, zapLogger))
	apiRouter.Use(middleware.Learner(secureCookies))

	// Audio uploads get their own body limit
	uploadRouter := apiRouter.NewRoute().Subrouter()
	uploadRouter.Use(middleware.MaxRequestSize(middleware.MaxAudioUploadSize))
	speechHandler.RegisterUploadRoutes(uploadRouter)

	jsonRouter := apiRouter.NewRoute().Subrouter()
	jsonRouter.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	authHandler.RegisterRoutes(jsonRouter.PathPrefix("/auth").Subrouter())
	contentHandler.RegisterRoutes(jsonRouter)
	speechHandler.RegisterRoutes(jsonRouter)
	recommendationHandler.RegisterRoutes(jsonRouter)
	progressHandler.RegisterRoutes(jsonRouter.PathPrefix("/progress").Subrouter())

	// Preflight requests; CORS headers are already set by the middleware
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   90 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	reloadCtx, reloadCancel := context.WithCancel(context.Background())
	defer reloadCancel()
	go corsReloader.Start(reloadCtx)
	go rateLimitReloader.Start(reloadCtx)

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	reloadCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

func connectRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// connectRabbitMQ retries with exponential backoff to ride out broker startup.
func connectRabbitMQ(url string, zapLogger *zap.Logger) *queue.RabbitMQQueue {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		q, err := queue.NewRabbitMQQueue(url, zapLogger)
		if err == nil {
			zapLogger.Info("connected_to_rabbitmq")
			return q
		}
		lastErr = err

		delay := min(initialDelay*time.Duration(1<<uint(attempt)), 30*time.Second)
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}

	zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries",
		zap.Int("max_retries", maxRetries),
		zap.Error(lastErr),
	)
	return nil
}

// storageScheme keeps credentials in the storage URL out of the logs.
func storageScheme(rawURL string) string {
	scheme, _, _ := strings.Cut(rawURL, "://")
	return scheme
}
