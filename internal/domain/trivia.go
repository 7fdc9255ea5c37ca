package domain

import (
	"context"
	"strings"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 5

	// AllCategoriesID selects every question in quiz mode. It is never looked up in the store.
	AllCategoriesID int64 = 0
)

// Category represents a named grouping of questions
type Category struct {
	ID   int64
	Type string
}

// Question represents a single trivia item
type Question struct {
	ID         int64
	Text       string
	Answer     string
	CategoryID int64
	Difficulty int
}

// NewQuestion creates a Question that has not been persisted yet
func NewQuestion(text, answer string, categoryID int64, difficulty int) *Question {
	return &Question{
		Text:       strings.TrimSpace(text),
		Answer:     strings.TrimSpace(answer),
		CategoryID: categoryID,
		Difficulty: difficulty,
	}
}

// Validate checks the invariants the store relies on
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("question is required")
	}
	if strings.TrimSpace(q.Answer) == "" {
		return NewValidationError("answer is required")
	}
	if q.CategoryID <= 0 {
		return NewValidationError("category must be a positive integer")
	}
	if q.Difficulty < MinDifficulty || q.Difficulty > MaxDifficulty {
		return NewValidationError("difficulty must be between 1 and 5")
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidationError(message string) error {
	return &ValidationError{message: message}
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// ListCategories returns every category ordered by id
	ListCategories(ctx context.Context) ([]*Category, error)

	// GetCategory returns nil, nil when the category does not exist
	GetCategory(ctx context.Context, id int64) (*Category, error)

	// SaveCategory persists a new category and assigns its ID
	SaveCategory(ctx context.Context, category *Category) error
}

// QuestionRepository defines the interface for question persistence.
// All list operations return questions ordered by id ascending.
type QuestionRepository interface {
	ListQuestions(ctx context.Context) ([]*Question, error)

	// GetQuestion returns nil, nil when the question does not exist
	GetQuestion(ctx context.Context, id int64) (*Question, error)

	ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]*Question, error)

	// SearchQuestions returns questions whose text contains term, ignoring case
	SearchQuestions(ctx context.Context, term string) ([]*Question, error)

	// InsertQuestion persists a new question and assigns its ID.
	// Integrity failures wrap ErrConstraintViolation.
	InsertQuestion(ctx context.Context, question *Question) error

	// DeleteQuestion wraps ErrNotFound when no row was removed
	DeleteQuestion(ctx context.Context, id int64) error
}

// QuestionStore is the durable storage the trivia service reads from and writes to
type QuestionStore interface {
	CategoryRepository
	QuestionRepository

	// Ping checks connectivity to the underlying database
	Ping(ctx context.Context) error
}
