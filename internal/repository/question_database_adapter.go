package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"trivia-api/internal/domain"
	"trivia-api/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const selectQuestions = `SELECT id, question, answer, category, difficulty FROM questions`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

// ListQuestions implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) ListQuestions(ctx context.Context) ([]*domain.Question, error) {
	questions, err := a.selectQuestions(ctx, selectQuestions+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// GetQuestion implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetQuestion(ctx context.Context, id int64) (*domain.Question, error) {
	exec := GetExecutor(ctx, a.db)
	var modelQuestion models.Question
	query := exec.Rebind(selectQuestions + ` WHERE id = ?`)
	if err := exec.GetContext(ctx, &modelQuestion, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question %d: %w", id, err)
	}
	return toDomainQuestion(&modelQuestion), nil
}

// ListQuestionsByCategory implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]*domain.Question, error) {
	questions, err := a.selectQuestions(ctx, selectQuestions+` WHERE category = ? ORDER BY id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions for category %d: %w", categoryID, err)
	}
	return questions, nil
}

// SearchQuestions implements domain.QuestionRepository.
// LIKE wildcards in term are escaped so the match is plain substring containment.
func (a *QuestionDatabaseAdapter) SearchQuestions(ctx context.Context, term string) ([]*domain.Question, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	questions, err := a.selectQuestions(ctx,
		selectQuestions+` WHERE LOWER(question) LIKE ? ESCAPE '\' ORDER BY id`, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}
	return questions, nil
}

// InsertQuestion implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) InsertQuestion(ctx context.Context, question *domain.Question) error {
	if question == nil {
		return fmt.Errorf("cannot insert nil question")
	}
	m := toModelQuestion(question)
	id, err := insertReturningID(ctx, GetExecutor(ctx, a.db),
		`INSERT INTO questions (question, answer, category, difficulty) VALUES (?, ?, ?, ?)`,
		m.Question, m.Answer, m.Category, m.Difficulty)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}
	question.ID = id
	return nil
}

// DeleteQuestion implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) DeleteQuestion(ctx context.Context, id int64) error {
	exec := GetExecutor(ctx, a.db)
	result, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM questions WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete question %d: %w", id, translateError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("question %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (a *QuestionDatabaseAdapter) selectQuestions(ctx context.Context, query string, args ...interface{}) ([]*domain.Question, error) {
	exec := GetExecutor(ctx, a.db)
	var modelQuestions []models.Question
	if err := exec.SelectContext(ctx, &modelQuestions, exec.Rebind(query), args...); err != nil {
		return nil, err
	}
	questions := make([]*domain.Question, len(modelQuestions))
	for i := range modelQuestions {
		questions[i] = toDomainQuestion(&modelQuestions[i])
	}
	return questions, nil
}

func toDomainQuestion(m *models.Question) *domain.Question {
	return &domain.Question{
		ID:         m.ID,
		Text:       m.Question,
		Answer:     m.Answer,
		CategoryID: m.Category,
		Difficulty: m.Difficulty,
	}
}

func toModelQuestion(d *domain.Question) *models.Question {
	return &models.Question{
		ID:         d.ID,
		Question:   d.Text,
		Answer:     d.Answer,
		Category:   d.CategoryID,
		Difficulty: d.Difficulty,
	}
}
