package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexibleInt accepts a JSON integer or a string holding one ("3").
// Set is false when the field was absent or null.
type FlexibleInt struct {
	Value int64
	Set   bool
}

// NewFlexibleInt returns a FlexibleInt holding v
func NewFlexibleInt(v int64) FlexibleInt {
	return FlexibleInt{Value: v, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = FlexibleInt{}
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%s is not an integer", raw)
	}
	*f = FlexibleInt{Value: n, Set: true}
	return nil
}

// MarshalJSON implements json.Marshaler
func (f FlexibleInt) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(f.Value, 10)), nil
}

// QuestionResponse is the wire shape of a question
// @Description Trivia question
type QuestionResponse struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// CategoriesResponse maps category id to its type
// @Description All categories keyed by id
type CategoriesResponse struct {
	Success    bool             `json:"success"`
	Categories map[int64]string `json:"categories"`
}

// QuestionsResponse is returned by GET /questions
// @Description One page of questions
type QuestionsResponse struct {
	Success         bool               `json:"success"`
	Questions       []QuestionResponse `json:"questions"`
	TotalQuestions  int                `json:"totalQuestions"`
	Categories      map[int64]string   `json:"categories"`
	CurrentCategory *string            `json:"currentCategory"`
}

// DeleteQuestionResponse is returned by DELETE /questions/{id}
type DeleteQuestionResponse struct {
	Success        bool               `json:"success"`
	Deleted        int64              `json:"deleted"`
	Questions      []QuestionResponse `json:"questions"`
	TotalQuestions int                `json:"totalQuestions"`
}

// CreateQuestionRequest is the body of POST /questions
// @Description New question payload
type CreateQuestionRequest struct {
	Question   string      `json:"question" validate:"notblank"`
	Answer     string      `json:"answer" validate:"notblank"`
	Category   FlexibleInt `json:"category" validate:"required,min=1" swaggertype:"integer"`
	Difficulty FlexibleInt `json:"difficulty" validate:"required,min=1,max=5" swaggertype:"integer"`
}

// CreateQuestionResponse is returned by POST /questions
type CreateQuestionResponse struct {
	Success bool  `json:"success"`
	Created int64 `json:"created"`
}

// SearchQuestionsRequest is the body of POST /questions/search
type SearchQuestionsRequest struct {
	SearchTerm string `json:"searchTerm"`
}

// SearchQuestionsResponse is returned by POST /questions/search
type SearchQuestionsResponse struct {
	Success         bool               `json:"success"`
	Questions       []QuestionResponse `json:"questions"`
	TotalQuestions  int                `json:"totalQuestions"`
	CurrentCategory *string            `json:"currentCategory"`
}

// CategoryQuestionsResponse is returned by GET /categories/{id}/questions
type CategoryQuestionsResponse struct {
	Success         bool               `json:"success"`
	Questions       []QuestionResponse `json:"questions"`
	TotalQuestions  int                `json:"totalQuestions"`
	CurrentCategory string             `json:"currentCategory"`
}

// QuizRequest is the body of POST /quizzes.
// QuizCategory stays raw so a malformed category can be reported as not found
// instead of failing the whole body.
type QuizRequest struct {
	PreviousQuestions []int64         `json:"previous_questions"`
	QuizCategory      json.RawMessage `json:"quiz_category" swaggertype:"object"`
}

// QuizCategory is the expected shape of QuizRequest.QuizCategory
type QuizCategory struct {
	ID   FlexibleInt `json:"id"`
	Type string      `json:"type,omitempty"`
}

// QuizResponse carries the next question, or null when the quiz is exhausted
type QuizResponse struct {
	Success  bool              `json:"success"`
	Question *QuestionResponse `json:"question"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the body of every handled error
// @Description Error envelope
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}
