package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"trivia-api/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var questionColumns = []string{"id", "question", "answer", "category", "difficulty"}

// setupTestDB creates a sqlx.DB bound like the pgx driver, so queries use $n placeholders.
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "pgx"), mock
}

func TestListQuestions(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	rows := sqlmock.NewRows(questionColumns).
		AddRow(1, "Whose autobiography is entitled 'I Know Why the Caged Bird Sings'?", "Maya Angelou", 4, 2).
		AddRow(2, "What boxer's original name is Cassius Clay?", "Muhammad Ali", 4, 1)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, question, answer, category, difficulty FROM questions ORDER BY id`)).
		WillReturnRows(rows)

	result, err := repo.ListQuestions(context.Background())

	assert.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, int64(1), result[0].ID)
	assert.Equal(t, "Maya Angelou", result[0].Answer)
	assert.Equal(t, int64(4), result[1].CategoryID)
	assert.Equal(t, 1, result[1].Difficulty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListQuestions_DBError(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, question, answer, category, difficulty FROM questions`)).
		WillReturnError(errors.New("connection reset"))

	result, err := repo.ListQuestions(context.Background())

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to list questions")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuestion(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	rows := sqlmock.NewRows(questionColumns).AddRow(5, "La Giaconda is better known as what?", "Mona Lisa", 2, 3)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM questions WHERE id = $1`)).WithArgs(int64(5)).WillReturnRows(rows)

	q, err := repo.GetQuestion(context.Background(), 5)

	assert.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "Mona Lisa", q.Answer)
	assert.Equal(t, int64(2), q.CategoryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuestion_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM questions WHERE id = $1`)).WithArgs(int64(999)).
		WillReturnError(sql.ErrNoRows)

	q, err := repo.GetQuestion(context.Background(), 999)

	assert.NoError(t, err)
	assert.Nil(t, q)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListQuestionsByCategory(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	rows := sqlmock.NewRows(questionColumns).
		AddRow(20, "What is the heaviest organ in the human body?", "The Liver", 1, 4).
		AddRow(21, "Who discovered penicillin?", "Alexander Fleming", 1, 3)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM questions WHERE category = $1 ORDER BY id`)).
		WithArgs(int64(1)).WillReturnRows(rows)

	result, err := repo.ListQuestionsByCategory(context.Background(), 1)

	assert.NoError(t, err)
	require.Len(t, result, 2)
	for _, q := range result {
		assert.Equal(t, int64(1), q.CategoryID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchQuestions(t *testing.T) {
	tests := []struct {
		name    string
		term    string
		pattern string
	}{
		{name: "lower-cases the term", term: "Title", pattern: "%title%"},
		{name: "escapes percent", term: "100%", pattern: `%100\%%`},
		{name: "escapes underscore and backslash", term: `a_b\c`, pattern: `%a\_b\\c%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupTestDB(t)
			repo := NewQuestionDatabaseAdapter(db)

			rows := sqlmock.NewRows(questionColumns).
				AddRow(6, "What was the title of the 1990 fantasy directed by Tim Burton?", "Edward Scissorhands", 5, 3)
			mock.ExpectQuery(regexp.QuoteMeta(`WHERE LOWER(question) LIKE $1 ESCAPE '\' ORDER BY id`)).
				WithArgs(tt.pattern).WillReturnRows(rows)

			result, err := repo.SearchQuestions(context.Background(), tt.term)

			assert.NoError(t, err)
			assert.Len(t, result, 1)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSearchQuestions_NoMatches(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta(`LIKE $1`)).WithArgs("%zzzz%").
		WillReturnRows(sqlmock.NewRows(questionColumns))

	result, err := repo.SearchQuestions(context.Background(), "zzzz")

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertQuestion(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	q := domain.NewQuestion("What is the capital of France?", "Paris", 3, 1)
	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO questions (question, answer, category, difficulty) VALUES ($1, $2, $3, $4) RETURNING id`)).
		WithArgs(q.Text, q.Answer, q.CategoryID, q.Difficulty).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(24))

	err := repo.InsertQuestion(context.Background(), q)

	assert.NoError(t, err)
	assert.Equal(t, int64(24), q.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertQuestion_ForeignKeyViolation(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	q := domain.NewQuestion("Orphan?", "Yes", 42, 2)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO questions`)).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "insert violates foreign key", ConstraintName: "questions_category_fkey"})

	err := repo.InsertQuestion(context.Background(), q)

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	assert.Zero(t, q.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertQuestion_Nil(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	assert.Error(t, repo.InsertQuestion(context.Background(), nil))
}

func TestDeleteQuestion(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM questions WHERE id = $1`)).
		WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DeleteQuestion(context.Background(), 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteQuestion_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM questions WHERE id = $1`)).
		WithArgs(int64(404)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteQuestion(context.Background(), 404)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
