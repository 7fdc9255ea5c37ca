// @title Trivia API
// @version 1.0
// @description JSON API for browsing, searching, adding and playing trivia questions.
// @contact.name API Support
// @license.name MIT
// @host localhost:5000
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "trivia-api/cmd/api/docs"
	"trivia-api/internal/adapter"
	"trivia-api/internal/cache"
	"trivia-api/internal/config"
	"trivia-api/internal/database"
	"trivia-api/internal/domain"
	"trivia-api/internal/handler"
	"trivia-api/internal/logger"
	"trivia-api/internal/metrics"
	"trivia-api/internal/middleware"
	"trivia-api/internal/repository"
	"trivia-api/internal/service"
	"trivia-api/internal/util"
	"trivia-api/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.Connect(ctx, cfg)
	cancel()
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	var categories domain.CategoryRepository = repository.NewCategoryDatabaseAdapter(db)

	// Redis is optional; without it categories are read straight from the database
	var (
		redisClient  *redis.Client
		cacheAdapter domain.Cache
	)
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		categories = repository.NewCachedCategoryRepository(categories, cacheAdapter, cfg.Redis.CategoryTTL)
		appLogger.Info("Category cache enabled", zap.String("address", cfg.Redis.Address), zap.Duration("ttl", cfg.Redis.CategoryTTL))
	}

	store := repository.NewStore(db, categories, repository.NewQuestionDatabaseAdapter(db))
	txManager := repository.NewTransactionManagerAdapter(db)

	triviaService := service.NewTriviaService(
		store,
		txManager,
		cacheAdapter,
		validation.NewValidator(),
		service.NewQuizSelector(store),
	)
	triviaHandler := handler.NewTriviaHandler(triviaService)

	app := fiber.New(fiber.Config{
		AppName:      "trivia-api",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	httpMetrics := metrics.NewHTTPMetrics()

	app.Use(middleware.NewRequestID(util.NewULID))
	app.Use(middleware.Metrics(httpMetrics))
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowMethods: cfg.CORS.AllowMethods,
		AllowHeaders: cfg.CORS.AllowHeaders,
		MaxAge:       300,
	}))
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Logger.Env != "production"}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(httpMetrics.Handler()))
	triviaHandler.RegisterRoutes(app)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("driver", cfg.DB.Driver))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
