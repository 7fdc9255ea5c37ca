package service

import (
	"context"
	"strings"

	"trivia-api/internal/domain"
)

// QuestionSearchService finds questions by case-insensitive substring match on their text
type QuestionSearchService struct {
	repo domain.QuestionRepository
}

func NewQuestionSearchService(repo domain.QuestionRepository) *QuestionSearchService {
	return &QuestionSearchService{repo: repo}
}

// Search trims term and rejects it when nothing is left.
// Zero matches is a valid, empty result.
func (s *QuestionSearchService) Search(ctx context.Context, term string) ([]*domain.Question, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.NewBadRequestError("searchTerm is required")
	}

	questions, err := s.repo.SearchQuestions(ctx, term)
	if err != nil {
		return nil, domain.NewInternalError("Failed to search questions", err).WithContext("term", term)
	}
	if questions == nil {
		questions = []*domain.Question{}
	}
	return questions, nil
}
