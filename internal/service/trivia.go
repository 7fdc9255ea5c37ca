package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"trivia-api/internal/domain"
	"trivia-api/internal/dto"
	"trivia-api/internal/logger"
	"trivia-api/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TriviaService defines the operations behind the trivia HTTP API.
// Every error it returns is a *domain.DomainError.
type TriviaService interface {
	ListCategories(ctx context.Context) (*dto.CategoriesResponse, error)
	ListQuestions(ctx context.Context, page int) (*dto.QuestionsResponse, error)
	DeleteQuestion(ctx context.Context, id int64) (*dto.DeleteQuestionResponse, error)
	CreateQuestion(ctx context.Context, req *dto.CreateQuestionRequest) (*dto.CreateQuestionResponse, error)
	SearchQuestions(ctx context.Context, term string) (*dto.SearchQuestionsResponse, error)
	QuestionsByCategory(ctx context.Context, categoryID int64) (*dto.CategoryQuestionsResponse, error)
	NextQuizQuestion(ctx context.Context, req *dto.QuizRequest) (*dto.QuizResponse, error)
	Health(ctx context.Context) error
}

// triviaService implements TriviaService
type triviaService struct {
	store     domain.QuestionStore
	tx        domain.TransactionManager
	cache     domain.Cache // nil when redis is disabled
	validator *validation.Validator
	search    *QuestionSearchService
	quiz      *QuizSelector
}

// NewTriviaService wires the service. cache may be nil.
func NewTriviaService(
	store domain.QuestionStore,
	tx domain.TransactionManager,
	cache domain.Cache,
	validator *validation.Validator,
	quiz *QuizSelector,
) TriviaService {
	return &triviaService{
		store:     store,
		tx:        tx,
		cache:     cache,
		validator: validator,
		search:    NewQuestionSearchService(store),
		quiz:      quiz,
	}
}

// ListCategories implements TriviaService
func (s *triviaService) ListCategories(ctx context.Context) (*dto.CategoriesResponse, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list categories", err)
	}
	return &dto.CategoriesResponse{
		Success:    true,
		Categories: toCategoryMap(categories),
	}, nil
}

// ListQuestions implements TriviaService
func (s *triviaService) ListQuestions(ctx context.Context, page int) (*dto.QuestionsResponse, error) {
	var (
		questions  []*domain.Question
		categories []*domain.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = s.store.ListQuestions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("Failed to list questions", err)
	}

	current, err := Paginate(questions, page, PageSize)
	if err != nil {
		return nil, err
	}

	return &dto.QuestionsResponse{
		Success:         true,
		Questions:       toQuestionResponses(current),
		TotalQuestions:  len(questions),
		Categories:      toCategoryMap(categories),
		CurrentCategory: nil,
	}, nil
}

// DeleteQuestion implements TriviaService.
// Deleting an id that does not exist is UNPROCESSABLE, and the store is left unchanged.
func (s *triviaService) DeleteQuestion(ctx context.Context, id int64) (*dto.DeleteQuestionResponse, error) {
	if id <= 0 {
		return nil, domain.NewUnprocessableError(fmt.Sprintf("question %d does not exist", id), nil).
			WithContext("question_id", id)
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		question, err := s.store.GetQuestion(ctx, id)
		if err != nil {
			return domain.NewUnprocessableError("Failed to load question", err).WithContext("question_id", id)
		}
		if question == nil {
			return domain.NewUnprocessableError(fmt.Sprintf("question %d does not exist", id), nil).
				WithContext("question_id", id)
		}
		if err := s.store.DeleteQuestion(ctx, id); err != nil {
			return domain.NewUnprocessableError("Failed to delete question", err).WithContext("question_id", id)
		}
		return nil
	})
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, domain.NewUnprocessableError("Failed to delete question", err).WithContext("question_id", id)
	}

	remaining, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list questions after delete", err)
	}

	firstPage := remaining
	if len(firstPage) > PageSize {
		firstPage = firstPage[:PageSize]
	}

	logger.Get().Info("Question deleted", zap.Int64("question_id", id), zap.Int("remaining", len(remaining)))

	return &dto.DeleteQuestionResponse{
		Success:        true,
		Deleted:        id,
		Questions:      toQuestionResponses(firstPage),
		TotalQuestions: len(remaining),
	}, nil
}

// CreateQuestion implements TriviaService
func (s *triviaService) CreateQuestion(ctx context.Context, req *dto.CreateQuestionRequest) (*dto.CreateQuestionResponse, error) {
	if err := s.validator.ValidateCreateQuestion(req); err != nil {
		return nil, err
	}

	question := domain.NewQuestion(req.Question, req.Answer, req.Category.Value, int(req.Difficulty.Value))
	if err := question.Validate(); err != nil {
		return nil, domain.NewUnprocessableError(err.Error(), err)
	}

	category, err := s.store.GetCategory(ctx, question.CategoryID)
	if err != nil {
		return nil, domain.NewUnprocessableError("Failed to check category", err).
			WithContext("category_id", question.CategoryID)
	}
	if category == nil {
		return nil, domain.NewUnprocessableError(fmt.Sprintf("category %d does not exist", question.CategoryID), nil).
			WithContext("category_id", question.CategoryID)
	}

	if err := s.store.InsertQuestion(ctx, question); err != nil {
		return nil, domain.NewUnprocessableError("Failed to create question", err).
			WithContext("constraint", errors.Is(err, domain.ErrConstraintViolation))
	}

	logger.Get().Info("Question created",
		zap.Int64("question_id", question.ID),
		zap.Int64("category_id", question.CategoryID))

	return &dto.CreateQuestionResponse{Success: true, Created: question.ID}, nil
}

// SearchQuestions implements TriviaService
func (s *triviaService) SearchQuestions(ctx context.Context, term string) (*dto.SearchQuestionsResponse, error) {
	questions, err := s.search.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return &dto.SearchQuestionsResponse{
		Success:         true,
		Questions:       toQuestionResponses(questions),
		TotalQuestions:  len(questions),
		CurrentCategory: nil,
	}, nil
}

// QuestionsByCategory implements TriviaService
func (s *triviaService) QuestionsByCategory(ctx context.Context, categoryID int64) (*dto.CategoryQuestionsResponse, error) {
	// ids start at 1; 0 is the quiz sentinel and is never looked up
	if categoryID <= 0 {
		return nil, domain.NewCategoryNotFoundError(categoryID)
	}
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get category", err).WithContext("category_id", categoryID)
	}
	if category == nil {
		return nil, domain.NewCategoryNotFoundError(categoryID)
	}

	questions, err := s.store.ListQuestionsByCategory(ctx, categoryID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list questions by category", err).
			WithContext("category_id", categoryID)
	}

	return &dto.CategoryQuestionsResponse{
		Success:         true,
		Questions:       toQuestionResponses(questions),
		TotalQuestions:  len(questions),
		CurrentCategory: category.Type,
	}, nil
}

// NextQuizQuestion implements TriviaService
func (s *triviaService) NextQuizQuestion(ctx context.Context, req *dto.QuizRequest) (*dto.QuizResponse, error) {
	if req == nil {
		return nil, domain.NewNotFoundError("quiz_category is required")
	}
	categoryID, err := parseQuizCategory(req.QuizCategory)
	if err != nil {
		return nil, err
	}

	selection, err := s.quiz.NextQuestion(ctx, categoryID, req.PreviousQuestions)
	if err != nil {
		return nil, err
	}
	if selection.Exhausted {
		return &dto.QuizResponse{Success: true, Question: nil}, nil
	}

	q := toQuestionResponse(selection.Question)
	return &dto.QuizResponse{Success: true, Question: &q}, nil
}

// Health pings the database and, when configured, the cache.
func (s *triviaService) Health(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.store.Ping(gctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		return nil
	})
	if s.cache != nil {
		g.Go(func() error {
			if err := s.cache.Ping(gctx); err != nil {
				return fmt.Errorf("cache: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.NewInternalError("Health check failed", err)
	}
	return nil
}

// parseQuizCategory extracts the category id. Anything that is not an object
// with an integer id is reported as NOT_FOUND.
func parseQuizCategory(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, domain.NewNotFoundError("quiz_category is required")
	}
	var category dto.QuizCategory
	if err := json.Unmarshal(raw, &category); err != nil {
		return 0, domain.NewNotFoundError("quiz_category is malformed").WithContext("quiz_category", string(raw))
	}
	if !category.ID.Set {
		return 0, domain.NewNotFoundError("quiz_category.id is required")
	}
	return category.ID.Value, nil
}

func toQuestionResponse(q *domain.Question) dto.QuestionResponse {
	return dto.QuestionResponse{
		ID:         q.ID,
		Question:   q.Text,
		Answer:     q.Answer,
		Category:   q.CategoryID,
		Difficulty: q.Difficulty,
	}
}

func toQuestionResponses(questions []*domain.Question) []dto.QuestionResponse {
	out := make([]dto.QuestionResponse, len(questions))
	for i, q := range questions {
		out[i] = toQuestionResponse(q)
	}
	return out
}

func toCategoryMap(categories []*domain.Category) map[int64]string {
	m := make(map[int64]string, len(categories))
	for _, c := range categories {
		m[c.ID] = c.Type
	}
	return m
}
