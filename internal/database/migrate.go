package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"trivia-api/internal/config"
	"trivia-api/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/sijms/go-ora/v2/network"
	"go.uber.org/zap"
)

// Direction selects which way migrations are applied
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ORA-00955: name is already used by an existing object
const oraObjectExists = 955

// MigrationDir returns the per-driver migration folder under baseDir.
func MigrationDir(baseDir, driver string) string {
	if driver == config.DriverOracle {
		return filepath.Join(baseDir, "oracle")
	}
	return filepath.Join(baseDir, "postgres")
}

// RunMigrations applies the migrations in baseDir to db.
// Postgres goes through golang-migrate and its schema_migrations table. With
// steps > 0 only that many migrations are applied; otherwise all of them are.
// Oracle runs the plain .sql files in name order with no version tracking.
func RunMigrations(db *sqlx.DB, baseDir string, dir Direction, steps int) error {
	path := MigrationDir(baseDir, db.DriverName())
	if db.DriverName() == config.DriverOracle {
		return runSQLFiles(db, path, dir)
	}

	driver, err := migratepgx.WithInstance(db.DB, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+filepath.ToSlash(path), "trivia", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	switch {
	case steps > 0 && dir == Down:
		err = m.Steps(-steps)
	case steps > 0:
		err = m.Steps(steps)
	case dir == Down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Get().Info("No migrations to apply", zap.String("direction", string(dir)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s failed: %w", dir, err)
	}

	version, dirty, verr := m.Version()
	if verr == nil {
		logger.Get().Info("Migrations completed",
			zap.String("direction", string(dir)),
			zap.Uint("version", version),
			zap.Bool("dirty", dirty))
	}
	return nil
}

func runSQLFiles(db *sqlx.DB, path string, dir Direction) error {
	files, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %w", err)
	}

	suffix := "." + string(dir) + ".sql"
	var names []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), suffix) {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)
	if dir == Down {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(path, name))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.Exec(stmt); err != nil {
				var oraErr *network.OracleError
				if dir == Up && errors.As(err, &oraErr) && oraErr.ErrCode == oraObjectExists {
					logger.Get().Info("Skipping existing object", zap.String("file", name))
					continue
				}
				return fmt.Errorf("could not execute migration %s: %w", name, err)
			}
		}
		logger.Get().Info("Executed migration", zap.String("file", name))
	}
	return nil
}

// SplitStatements splits a SQL script on ';' line endings and drops blank
// statements and "--" comment lines. go-ora executes a single statement per call.
func SplitStatements(script string) []string {
	var (
		stmts []string
		b     strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if strings.HasSuffix(trimmed, ";") {
			b.WriteString(strings.TrimSuffix(trimmed, ";"))
			if stmt := strings.TrimSpace(b.String()); stmt != "" {
				stmts = append(stmts, stmt)
			}
			b.Reset()
			continue
		}
		b.WriteString(trimmed)
		b.WriteString("\n")
	}
	if stmt := strings.TrimSpace(b.String()); stmt != "" {
		stmts = append(stmts, stmt)
	}
	return stmts
}
