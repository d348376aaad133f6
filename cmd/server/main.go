package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/lifebots/assistant-api/internal/config"
	"github.com/lifebots/assistant-api/internal/database"
	"github.com/lifebots/assistant-api/internal/handlers"
	"github.com/lifebots/assistant-api/internal/logger"
	"github.com/lifebots/assistant-api/internal/mcp"
	"github.com/lifebots/assistant-api/internal/middleware"
	"github.com/lifebots/assistant-api/internal/queue"
	"github.com/lifebots/assistant-api/internal/services/ai"
	"github.com/lifebots/assistant-api/internal/services/auth"
	"github.com/lifebots/assistant-api/internal/services/geo"
	"github.com/lifebots/assistant-api/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

const (
	serviceName     = "assistant-api"
	shutdownTimeout = 30 * time.Second

	rabbitMaxRetries   = 10
	rabbitInitialDelay = 2 * time.Second
	rabbitMaxDelay     = 30 * time.Second
)

func main() {
	debugFlag := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.NewProductionLogger(cfg.ServerDebugMode || *debugFlag)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync(log) }()

	ctx := context.Background()

	if cfg.OTELEnabled {
		tp, err := telemetry.InitTracer(ctx, serviceName, cfg.OTELEndpoint)
		if err != nil {
			log.Warn("failed_to_init_tracing", zap.Error(err))
		} else {
			defer func() {
				if err := telemetry.Shutdown(context.Background(), tp); err != nil {
					log.Warn("failed_to_shutdown_tracing", zap.Error(err))
				}
			}()
		}
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed_to_connect_database", zap.Error(err))
	}
	defer db.Close()

	store, err := mcp.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Fatal("failed_to_connect_redis", zap.Error(err))
	}
	defer store.Close()

	contexts := mcp.NewService(store, log)

	jobQueue := connectQueue(cfg.RabbitMQURL, log)
	if jobQueue != nil {
		defer jobQueue.Close()
	}

	jwksManager := auth.NewJWKSManager()
	verifier := auth.NewVerifier(jwksManager, cfg.JWTIssuer, cfg.JWKSURL)

	gen := ai.NewOpenAIProviderWithLogger(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, log, cfg.ServerDebugMode)
	geoClient := geo.NewClient(log)

	router := buildRouter(cfg, log, db, store, contexts, jobQueue, verifier, gen, geoClient)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	if jobQueue != nil {
		go scheduleSweeps(sweepCtx, jobQueue, time.Duration(cfg.SweepInterval)*time.Minute, log)
	}

	go func() {
		log.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("server_shutting_down")
	cancelSweep()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server_shutdown_failed", zap.Error(err))
	}
	log.Info("server_stopped")
}

// connectQueue dials RabbitMQ with exponential backoff. The queue is
// optional: after the retry budget the server runs without background jobs.
func connectQueue(amqpURL string, log *zap.Logger) queue.JobQueue {
	if amqpURL == "" {
		log.Warn("rabbitmq_not_configured_jobs_disabled")
		return nil
	}

	delay := rabbitInitialDelay
	for attempt := 1; attempt <= rabbitMaxRetries; attempt++ {
		q, err := queue.NewRabbitMQQueue(amqpURL)
		if err == nil {
			log.Info("rabbitmq_connected", zap.Int("attempt", attempt))
			return q
		}
		log.Warn("rabbitmq_connection_failed",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)
		time.Sleep(delay)
		delay *= 2
		if delay > rabbitMaxDelay {
			delay = rabbitMaxDelay
		}
	}

	log.Error("rabbitmq_unavailable_jobs_disabled")
	return nil
}

func buildRouter(
	cfg *config.Config,
	log *zap.Logger,
	db *database.DB,
	store *mcp.RedisStore,
	contexts *mcp.Service,
	jobQueue queue.JobQueue,
	verifier *auth.Verifier,
	gen ai.Generator,
	geoClient *geo.Client,
) *mux.Router {
	router := mux.NewRouter()

	router.Use(otelmux.Middleware(serviceName))
	router.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	router.Use(middleware.CORS(cfg.FrontendURL))
	router.Use(middleware.MaxRequestSize(1 << 20))
	router.Use(middleware.ContentType)
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.Logging(log))

	healthChecker := handlers.NewHealthChecker(store, db, jobQueue)
	router.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	router.HandleFunc("/version", handlers.Version).Methods("GET")

	rateLimit, err := middleware.RateLimit(store.Client(), cfg.RateLimit)
	if err != nil {
		log.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	contextRouter := router.PathPrefix("/api/v1/context").Subrouter()
	contextRouter.Use(rateLimit)
	handlers.NewContextHandler(contexts, log).RegisterRoutes(contextRouter)

	botRouter := router.PathPrefix("/api/v1/bots").Subrouter()
	botRouter.Use(rateLimit)
	botRouter.Use(middleware.Auth(db, verifier, log))
	handlers.NewBotHandler(contexts, gen, jobQueue, log, cfg.DefaultCity).RegisterRoutes(botRouter)
	handlers.NewWeatherHandler(contexts, gen, log).RegisterRoutes(botRouter)

	placesRouter := botRouter.PathPrefix("/places").Subrouter()
	handlers.NewPlacesHandler(geoClient, log).RegisterRoutes(placesRouter)

	return router
}

// scheduleSweeps enqueues a keyspace-wide health sweep on a fixed interval.
// The worker does the actual walking so API latency never pays for it.
func scheduleSweeps(ctx context.Context, jobQueue queue.JobQueue, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job := queue.NewJob(queue.JobTypeContextSweep, "")
			if err := jobQueue.Enqueue(ctx, job); err != nil {
				log.Warn("failed_to_enqueue_sweep", zap.Error(err))
				continue
			}
			log.Debug("sweep_enqueued", zap.String("job_id", job.ID.String()))
		}
	}
}
