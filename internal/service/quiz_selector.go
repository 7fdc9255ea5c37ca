package service

import (
	"context"
	"math/rand"

	"trivia-api/internal/domain"
	"trivia-api/internal/logger"

	"go.uber.org/zap"
)

// QuizSelection is the outcome of a quiz turn. Exhausted is true and Question nil
// once every question in scope has been seen.
type QuizSelection struct {
	Question  *domain.Question
	Exhausted bool
}

// QuizSelector serves a random unseen question from a category, or from every
// category when the id is domain.AllCategoriesID.
type QuizSelector struct {
	store domain.QuestionStore
	intn  func(n int) int
}

func NewQuizSelector(store domain.QuestionStore) *QuizSelector {
	return NewQuizSelectorWithSource(store, rand.Intn)
}

// NewQuizSelectorWithSource lets tests fix the random choice. intn must return a value in [0, n).
func NewQuizSelectorWithSource(store domain.QuestionStore, intn func(n int) int) *QuizSelector {
	return &QuizSelector{store: store, intn: intn}
}

// NextQuestion builds the eligible set (candidates minus previousIDs) and picks one uniformly.
func (s *QuizSelector) NextQuestion(ctx context.Context, categoryID int64, previousIDs []int64) (QuizSelection, error) {
	candidates, err := s.candidates(ctx, categoryID)
	if err != nil {
		return QuizSelection{}, err
	}

	seen := make(map[int64]struct{}, len(previousIDs))
	for _, id := range previousIDs {
		seen[id] = struct{}{}
	}

	eligible := make([]*domain.Question, 0, len(candidates))
	for _, q := range candidates {
		if _, ok := seen[q.ID]; !ok {
			eligible = append(eligible, q)
		}
	}

	if len(eligible) == 0 {
		logger.Get().Debug("Quiz exhausted",
			zap.Int64("category_id", categoryID),
			zap.Int("previous", len(previousIDs)))
		return QuizSelection{Exhausted: true}, nil
	}

	return QuizSelection{Question: eligible[s.intn(len(eligible))]}, nil
}

func (s *QuizSelector) candidates(ctx context.Context, categoryID int64) ([]*domain.Question, error) {
	if categoryID == domain.AllCategoriesID {
		questions, err := s.store.ListQuestions(ctx)
		if err != nil {
			return nil, domain.NewInternalError("Failed to list questions", err)
		}
		return questions, nil
	}
	if categoryID < 0 {
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
		return nil, domain.NewInternalError("Failed to list questions by category", err).WithContext("category_id", categoryID)
	}
	return questions, nil
}
