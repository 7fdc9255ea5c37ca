package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"trivia-api/internal/config"
	"trivia-api/internal/database"
	"trivia-api/internal/logger"

	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: migrate [-dir path] [-steps n] up|down\n")
	flag.PrintDefaults()
}

func main() {
	dir := flag.String("dir", "", "base migrations directory (defaults to migrations.dir from config)")
	steps := flag.Int("steps", 0, "number of migrations to apply; 0 applies all")
	flag.Usage = usage
	flag.Parse()

	direction := database.Up
	switch flag.Arg(0) {
	case "", "up":
	case "down":
		direction = database.Down
	default:
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	baseDir := cfg.Migrations.Dir
	if *dir != "" {
		baseDir = *dir
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	l.Info("Running migrations",
		zap.String("direction", string(direction)),
		zap.Int("steps", *steps),
		zap.String("dir", database.MigrationDir(baseDir, cfg.DB.Driver)))

	if err := database.RunMigrations(db, baseDir, direction, *steps); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
}
