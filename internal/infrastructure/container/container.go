package container

import (
	"fmt"

	"github.com/James3014/snowbuddy-backend/internal/config"
	"github.com/James3014/snowbuddy-backend/internal/delivery/http"
	"github.com/James3014/snowbuddy-backend/internal/delivery/http/handler"
	"github.com/James3014/snowbuddy-backend/internal/delivery/http/middleware"
	"github.com/James3014/snowbuddy-backend/internal/infrastructure/database"
	"github.com/James3014/snowbuddy-backend/internal/infrastructure/gemini"
	"github.com/James3014/snowbuddy-backend/internal/infrastructure/logging"
	"github.com/James3014/snowbuddy-backend/internal/infrastructure/profileapi"
	"github.com/James3014/snowbuddy-backend/internal/infrastructure/server"
	"github.com/James3014/snowbuddy-backend/internal/infrastructure/workflow"
	"github.com/James3014/snowbuddy-backend/internal/repository/postgres"
	"github.com/James3014/snowbuddy-backend/internal/repository/rediscache"
	"github.com/James3014/snowbuddy-backend/internal/usecase/request"
	"github.com/James3014/snowbuddy-backend/internal/usecase/search"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Gemini *gemini.GeminiClient

	dispatcher    *workflow.Dispatcher
	searchUseCase *search.SearchUseCase
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	// Initialize logger
	logger, err := logging.NewLogger(&cfg.Logging, cfg.Server.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize Gemini Client
	geminiClient, err := gemini.NewGeminiClient(cfg.GeminiAPIKey)
	if err != nil {
		logger.Warn("failed to initialize gemini client, intro suggestions disabled", zap.Error(err))
		// Don't fail, just continue without AI features
	}

	// Initialize repositories
	profileRepo := postgres.NewProfileRepository(db)
	tripRepo := postgres.NewTripRepository(db)
	requestRepo := postgres.NewBuddyRequestRepository(db)
	resortRepo := postgres.NewResortRepository(db)
	searchCache := rediscache.NewSearchCache(redisClient)

	// Initialize outbound clients
	knowledgeClient := profileapi.NewClient(cfg.ProfileAPI.BaseURL, cfg.ProfileAPI.Token, logger)
	dispatcher := workflow.NewDispatcher(cfg.Workflow.URL, cfg.Workflow.Token, logger)

	// Initialize use cases
	searchUseCase := search.NewSearchUseCase(
		profileRepo,
		resortRepo,
		searchCache,
		knowledgeClient,
		cfg.Matching.SearchTTL,
		logger,
	)

	var intros request.IntroGenerator
	if geminiClient != nil {
		intros = geminiClient
	}
	requestUseCase := request.NewRequestUseCase(
		requestRepo,
		tripRepo,
		profileRepo,
		dispatcher,
		intros,
		logger,
	)

	// Initialize handlers
	searchHandler := handler.NewSearchHandler(searchUseCase)
	requestHandler := handler.NewRequestHandler(requestUseCase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.AccessSecret)

	// Initialize router
	router := http.NewRouter(
		searchHandler,
		requestHandler,
		authMiddleware,
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter, logger)

	return &Container{
		Config:        cfg,
		Logger:        logger,
		DB:            db,
		Redis:         redisClient,
		Server:        srv,
		Gemini:        geminiClient,
		dispatcher:    dispatcher,
		searchUseCase: searchUseCase,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	// Let in-flight search pipelines publish their final state
	if c.searchUseCase != nil {
		c.searchUseCase.Wait()
	}

	// Drain pending workflow events
	if c.dispatcher != nil {
		c.dispatcher.Close()
	}

	// Close Gemini
	if c.Gemini != nil {
		c.Gemini.Close()
	}

	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("error closing redis", zap.Error(err))
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	if c.Logger != nil {
		_ = c.Logger.Sync()
	}

	return nil
}
