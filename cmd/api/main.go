package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"honeytrap-lab/internal/api"
	"honeytrap-lab/internal/api/handlers"
	"honeytrap-lab/internal/config"
	"honeytrap-lab/internal/domain/services"
	"honeytrap-lab/internal/domain/services/agent"
	"honeytrap-lab/internal/domain/services/ai"
	"honeytrap-lab/internal/domain/services/detection"
	"honeytrap-lab/internal/domain/services/intel"
	grpcserver "honeytrap-lab/internal/grpc/honeypot"
	"honeytrap-lab/internal/infrastructure/cache"
	"honeytrap-lab/internal/infrastructure/database"
	"honeytrap-lab/internal/infrastructure/database/repository"
	"honeytrap-lab/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting Honeytrap Lab")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure
	db, redisCache := initInfrastructure(ctx, cfg, log)
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Initialize optional engagement archive
	var archive *repository.EngagementRepository
	if db != nil {
		archive = repository.NewEngagementRepository(db, log)
		if err := archive.Migrate(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to migrate archive schema, continuing without archive")
			archive = nil
		} else {
			log.Info().Msg("engagement archive initialized")
		}
	}

	// Session intelligence store: Redis when available, in-memory otherwise
	var store intel.Store
	if redisCache != nil {
		store = intel.NewRedisStore(redisCache, cfg.Intel.SessionTTL)
		log.Info().Msg("session intelligence store backed by Redis")
	} else {
		store = intel.NewMemoryStore()
		log.Warn().Msg("running with in-memory session intelligence store")
	}

	// Initialize the LLM client shared by the classifier and the agent
	llmClient := ai.NewClient(ai.Config{
		Provider:     cfg.LLM.Provider,
		ClaudeAPIKey: cfg.LLM.ClaudeAPIKey,
		OpenAIAPIKey: cfg.LLM.OpenAIAPIKey,
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.Temperature,
		MaxTokens:    cfg.LLM.MaxTokens,
		Timeout:      cfg.LLM.Timeout,
	}, log)
	if !cfg.LLM.HasAPIKey() {
		log.Warn().Str("provider", cfg.LLM.Provider).Msg("no LLM API key configured, detection runs on rules and replies on fallbacks")
	}

	// Assemble the pipeline
	pipeline := services.NewPipeline(services.PipelineDeps{
		Extractor:    intel.NewExtractor(log),
		Aggregator:   intel.NewAggregator(store, log),
		Rules:        detection.NewRuleClassifier(log),
		Model:        detection.NewLLMClassifier(llmClient, log),
		Arbiter:      detection.NewArbiter(log),
		Orchestrator: agent.NewOrchestrator(llmClient, log),
		Stats:        services.NewStatsRecorder(ctx, redisCache, log),
		Archive:      archive,
		IncludeReply: cfg.Agent.IncludeReply,
	}, log)

	// Initialize handlers and router
	h := handlers.NewHandlers(handlers.Dependencies{
		Pipeline: pipeline,
		Cache:    redisCache,
		DB:       db,
		Logger:   log,
		Version:  cfg.App.Version,
	})
	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Start gRPC server (health service for load balancers)
	grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gRPC listener")
	}

	grpcServer := grpc.NewServer()
	grpcserver.RegisterHealthServer(ctx, grpcServer, db, redisCache)

	go func() {
		log.Info().
			Str("addr", grpcListener.Addr().String()).
			Msg("starting gRPC server")
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Fatal().Err(err).Msg("gRPC server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	grpcServer.GracefulStop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initInfrastructure connects the optional backing stores. Either one
// being down degrades the service instead of stopping it.
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache) {
	var db *database.PostgresDB
	if cfg.Database.Enabled {
		var err error
		db, err = database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without database")
			db = nil
		}
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		var err error
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
			redisCache = nil
		}
	}

	return db, redisCache
}
