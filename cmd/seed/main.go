package main

import (
	"context"
	"flag"
	"log"
	"time"

	"trivia-api/internal/adapter"
	"trivia-api/internal/cache"
	"trivia-api/internal/config"
	"trivia-api/internal/database"
	"trivia-api/internal/logger"
	"trivia-api/internal/repository"
	"trivia-api/internal/seed"

	"go.uber.org/zap"
)

const defaultSeedFile = "./configs/seed_data/trivia.json"

func main() {
	file := flag.String("file", defaultSeedFile, "path to the seed data JSON file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	data, err := seed.Load(*file)
	if err != nil {
		appLogger.Fatal("Failed to load seed data", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	store := repository.NewStore(db, repository.NewCategoryDatabaseAdapter(db), repository.NewQuestionDatabaseAdapter(db))
	res, err := seed.Apply(ctx, repository.NewTransactionManagerAdapter(db), store, data)
	if err != nil {
		appLogger.Fatal("Seeding failed", zap.Error(err))
	}
	appLogger.Info("Seeding finished",
		zap.Int("categories_created", res.CategoriesCreated),
		zap.Int("categories_skipped", res.CategoriesSkipped),
		zap.Int("questions_created", res.QuestionsCreated))

	// a running API may hold a stale category list
	if cfg.Redis.Enabled() && res.CategoriesCreated > 0 {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Warn("Could not reach Redis to invalidate categories", zap.Error(err))
			return
		}
		defer client.Close()
		cached := repository.NewCachedCategoryRepository(nil, adapter.NewRedisCacheAdapter(client), cfg.Redis.CategoryTTL)
		if err := cached.Invalidate(ctx); err != nil {
			appLogger.Warn("Failed to invalidate category cache", zap.Error(err))
		}
	}
}
