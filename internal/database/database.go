package database

import (
	"context"
	"fmt"
	"time"

	"trivia-api/internal/config"
	"trivia-api/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // registers "oracle"
	"go.uber.org/zap"
)

const connMaxLifetime = time.Hour

func init() {
	// sqlx has no default bind type for go-ora; it accepts :name placeholders bound by position.
	sqlx.BindDriver(config.DriverOracle, sqlx.NAMED)
}

// Connect opens a pooled sqlx connection for the configured driver and pings it.
func Connect(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DB.Driver, err)
	}

	if cfg.DB.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	db.SetConnMaxLifetime(connMaxLifetime)

	logger.Get().Info("Connected to database",
		zap.String("driver", cfg.DB.Driver),
		zap.String("host", cfg.DB.Host),
		zap.Int("port", cfg.DB.Port),
		zap.String("name", cfg.DB.DBName),
	)
	return db, nil
}
