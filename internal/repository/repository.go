package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trivia-api/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sijms/go-ora/v2/network"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	DriverName() string
	Rebind(query string) string
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
}

// oracle integrity constraint codes: unique, not null, check, parent key not found
var oracleConstraintCodes = map[int]bool{1: true, 1400: true, 2290: true, 2291: true}

// translateError wraps driver-level integrity violations in domain.ErrConstraintViolation.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return fmt.Errorf("%w: %s (%s)", domain.ErrConstraintViolation, pgErr.Message, pgErr.ConstraintName)
	}
	var oraErr *network.OracleError
	if errors.As(err, &oraErr) && oracleConstraintCodes[oraErr.ErrCode] {
		return fmt.Errorf("%w: %s", domain.ErrConstraintViolation, oraErr.ErrMsg)
	}
	return err
}

// insertReturningID runs an INSERT written with ? placeholders and returns the generated id.
// Postgres reports the id through RETURNING, Oracle through an OUT bind.
func insertReturningID(ctx context.Context, exec DBTX, insert string, args ...interface{}) (int64, error) {
	var id int64
	if exec.DriverName() == "oracle" {
		query := exec.Rebind(insert + " RETURNING id INTO ?")
		args = append(args, sql.Out{Dest: &id})
		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return 0, translateError(err)
		}
		return id, nil
	}

	query := exec.Rebind(insert + " RETURNING id")
	if err := exec.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

// Store composes the category and question adapters into a domain.QuestionStore
type Store struct {
	domain.CategoryRepository
	domain.QuestionRepository
	db *sqlx.DB
}

var _ domain.QuestionStore = (*Store)(nil)

// NewStore creates a QuestionStore backed by db
func NewStore(db *sqlx.DB, categories domain.CategoryRepository, questions domain.QuestionRepository) *Store {
	return &Store{
		CategoryRepository: categories,
		QuestionRepository: questions,
		db:                 db,
	}
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
