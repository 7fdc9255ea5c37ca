package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"trivia-api/internal/domain"
	"trivia-api/internal/dto"
	"trivia-api/internal/handler"
	"trivia-api/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

// MockTriviaService
type MockTriviaService struct {
	ListCategoriesFunc      func(ctx context.Context) (*dto.CategoriesResponse, error)
	ListQuestionsFunc       func(ctx context.Context, page int) (*dto.QuestionsResponse, error)
	DeleteQuestionFunc      func(ctx context.Context, id int64) (*dto.DeleteQuestionResponse, error)
	CreateQuestionFunc      func(ctx context.Context, req *dto.CreateQuestionRequest) (*dto.CreateQuestionResponse, error)
	SearchQuestionsFunc     func(ctx context.Context, term string) (*dto.SearchQuestionsResponse, error)
	QuestionsByCategoryFunc func(ctx context.Context, categoryID int64) (*dto.CategoryQuestionsResponse, error)
	NextQuizQuestionFunc    func(ctx context.Context, req *dto.QuizRequest) (*dto.QuizResponse, error)
	HealthFunc              func(ctx context.Context) error
}

func (m *MockTriviaService) ListCategories(ctx context.Context) (*dto.CategoriesResponse, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	panic("MockTriviaService.ListCategoriesFunc not implemented")
}
func (m *MockTriviaService) ListQuestions(ctx context.Context, page int) (*dto.QuestionsResponse, error) {
	if m.ListQuestionsFunc != nil {
		return m.ListQuestionsFunc(ctx, page)
	}
	panic("MockTriviaService.ListQuestionsFunc not implemented")
}
func (m *MockTriviaService) DeleteQuestion(ctx context.Context, id int64) (*dto.DeleteQuestionResponse, error) {
	if m.DeleteQuestionFunc != nil {
		return m.DeleteQuestionFunc(ctx, id)
	}
	panic("MockTriviaService.DeleteQuestionFunc not implemented")
}
func (m *MockTriviaService) CreateQuestion(ctx context.Context, req *dto.CreateQuestionRequest) (*dto.CreateQuestionResponse, error) {
	if m.CreateQuestionFunc != nil {
		return m.CreateQuestionFunc(ctx, req)
	}
	panic("MockTriviaService.CreateQuestionFunc not implemented")
}
func (m *MockTriviaService) SearchQuestions(ctx context.Context, term string) (*dto.SearchQuestionsResponse, error) {
	if m.SearchQuestionsFunc != nil {
		return m.SearchQuestionsFunc(ctx, term)
	}
	panic("MockTriviaService.SearchQuestionsFunc not implemented")
}
func (m *MockTriviaService) QuestionsByCategory(ctx context.Context, categoryID int64) (*dto.CategoryQuestionsResponse, error) {
	if m.QuestionsByCategoryFunc != nil {
		return m.QuestionsByCategoryFunc(ctx, categoryID)
	}
	panic("MockTriviaService.QuestionsByCategoryFunc not implemented")
}
func (m *MockTriviaService) NextQuizQuestion(ctx context.Context, req *dto.QuizRequest) (*dto.QuizResponse, error) {
	if m.NextQuizQuestionFunc != nil {
		return m.NextQuizQuestionFunc(ctx, req)
	}
	panic("MockTriviaService.NextQuizQuestionFunc not implemented")
}
func (m *MockTriviaService) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	panic("MockTriviaService.HealthFunc not implemented")
}

func setupApp(svc *MockTriviaService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	handler.NewTriviaHandler(svc).RegisterRoutes(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp, out
}

func assertErrorBody(t *testing.T, body map[string]interface{}, status int, message string) {
	t.Helper()
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(status), body["error"])
	assert.Equal(t, message, body["message"])
}

func TestTriviaHandler_GetCategories(t *testing.T) {
	svc := &MockTriviaService{
		ListCategoriesFunc: func(ctx context.Context) (*dto.CategoriesResponse, error) {
			return &dto.CategoriesResponse{Success: true, Categories: map[int64]string{1: "Science", 2: "Art"}}, nil
		},
	}
	resp, body := doRequest(t, setupApp(svc), http.MethodGet, "/categories", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]interface{}{"1": "Science", "2": "Art"}, body["categories"])
}

func TestTriviaHandler_GetQuestions(t *testing.T) {
	var gotPage int
	svc := &MockTriviaService{
		ListQuestionsFunc: func(ctx context.Context, page int) (*dto.QuestionsResponse, error) {
			gotPage = page
			if page > 2 {
				return nil, domain.NewNotFoundError("page out of range")
			}
			return &dto.QuestionsResponse{
				Success:        true,
				Questions:      []dto.QuestionResponse{{ID: 1, Question: "Q", Answer: "A", Category: 1, Difficulty: 1}},
				TotalQuestions: 11,
				Categories:     map[int64]string{1: "Science"},
			}, nil
		},
	}
	app := setupApp(svc)

	t.Run("default page", func(t *testing.T) {
		resp, body := doRequest(t, app, http.MethodGet, "/questions", nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, gotPage)
		assert.Equal(t, float64(11), body["totalQuestions"])
		assert.Contains(t, body, "currentCategory")
		assert.Nil(t, body["currentCategory"])
		questions := body["questions"].([]interface{})
		require.Len(t, questions, 1)
		q := questions[0].(map[string]interface{})
		for _, key := range []string{"id", "question", "answer", "category", "difficulty"} {
			assert.Contains(t, q, key)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		resp, body := doRequest(t, app, http.MethodGet, "/questions?page=500", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assertErrorBody(t, body, 404, "Not found")
	})

	t.Run("bad page", func(t *testing.T) {
		for _, page := range []string{"0", "-1", "abc"} {
			resp, body := doRequest(t, app, http.MethodGet, "/questions?page="+page, nil)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, page)
			assertErrorBody(t, body, 400, "Bad Request")
		}
	})
}

func TestTriviaHandler_DeleteQuestion(t *testing.T) {
	svc := &MockTriviaService{
		DeleteQuestionFunc: func(ctx context.Context, id int64) (*dto.DeleteQuestionResponse, error) {
			if id == 1000 {
				return nil, domain.NewUnprocessableError("question 1000 does not exist", nil)
			}
			return &dto.DeleteQuestionResponse{Success: true, Deleted: id, Questions: []dto.QuestionResponse{}}, nil
		},
	}
	app := setupApp(svc)

	resp, body := doRequest(t, app, http.MethodDelete, "/questions/5", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(5), body["deleted"])

	resp, body = doRequest(t, app, http.MethodDelete, "/questions/1000", nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assertErrorBody(t, body, 422, "Unprocessable")

	resp, body = doRequest(t, app, http.MethodDelete, "/questions/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assertErrorBody(t, body, 400, "Bad Request")
}

func TestTriviaHandler_CreateQuestion(t *testing.T) {
	var got *dto.CreateQuestionRequest
	svc := &MockTriviaService{
		CreateQuestionFunc: func(ctx context.Context, req *dto.CreateQuestionRequest) (*dto.CreateQuestionResponse, error) {
			got = req
			return &dto.CreateQuestionResponse{Success: true, Created: 24}, nil
		},
	}
	app := setupApp(svc)

	t.Run("string numbers accepted", func(t *testing.T) {
		resp, body := doRequest(t, app, http.MethodPost, "/questions",
			`{"question":"Capital of Peru?","answer":"Lima","category":"3","difficulty":2}`)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(24), body["created"])
		require.NotNil(t, got)
		assert.Equal(t, int64(3), got.Category.Value)
		assert.Equal(t, int64(2), got.Difficulty.Value)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, body := doRequest(t, app, http.MethodPost, "/questions", `{"question":`)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
		assertErrorBody(t, body, 422, "Unprocessable")
	})

	t.Run("non-numeric difficulty", func(t *testing.T) {
		resp, _ := doRequest(t, app, http.MethodPost, "/questions",
			`{"question":"Q","answer":"A","category":1,"difficulty":"hard"}`)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestTriviaHandler_SearchQuestions(t *testing.T) {
	svc := &MockTriviaService{
		SearchQuestionsFunc: func(ctx context.Context, term string) (*dto.SearchQuestionsResponse, error) {
			if term == "" {
				return nil, domain.NewBadRequestError("searchTerm is required")
			}
			return &dto.SearchQuestionsResponse{Success: true, Questions: []dto.QuestionResponse{}, TotalQuestions: 0}, nil
		},
	}
	app := setupApp(svc)

	resp, body := doRequest(t, app, http.MethodPost, "/questions/search", dto.SearchQuestionsRequest{SearchTerm: ""})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assertErrorBody(t, body, 400, "Bad Request")

	resp, body = doRequest(t, app, http.MethodPost, "/questions/search", dto.SearchQuestionsRequest{SearchTerm: "zzz"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []interface{}{}, body["questions"])

	resp, _ = doRequest(t, app, http.MethodPost, "/questions/search", `not json`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTriviaHandler_GetCategoryQuestions(t *testing.T) {
	svc := &MockTriviaService{
		QuestionsByCategoryFunc: func(ctx context.Context, categoryID int64) (*dto.CategoryQuestionsResponse, error) {
			if categoryID != 1 {
				return nil, domain.NewCategoryNotFoundError(categoryID)
			}
			return &dto.CategoryQuestionsResponse{Success: true, Questions: []dto.QuestionResponse{}, CurrentCategory: "Science"}, nil
		},
	}
	app := setupApp(svc)

	resp, body := doRequest(t, app, http.MethodGet, "/categories/1/questions", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Science", body["currentCategory"])

	resp, body = doRequest(t, app, http.MethodGet, "/categories/1000/questions", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assertErrorBody(t, body, 404, "Not found")

	resp, body = doRequest(t, app, http.MethodGet, "/categories/science/questions", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assertErrorBody(t, body, 400, "Bad Request")
}

func TestTriviaHandler_PlayQuiz(t *testing.T) {
	var got *dto.QuizRequest
	svc := &MockTriviaService{
		NextQuizQuestionFunc: func(ctx context.Context, req *dto.QuizRequest) (*dto.QuizResponse, error) {
			got = req
			if len(req.PreviousQuestions) == 2 {
				return &dto.QuizResponse{Success: true}, nil
			}
			return &dto.QuizResponse{Success: true, Question: &dto.QuestionResponse{ID: 7}}, nil
		},
	}
	app := setupApp(svc)

	t.Run("next question", func(t *testing.T) {
		resp, body := doRequest(t, app, http.MethodPost, "/quizzes",
			`{"previous_questions":[3],"quiz_category":{"id":"1","type":"Science"}}`)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, []int64{3}, got.PreviousQuestions)
		assert.JSONEq(t, `{"id":"1","type":"Science"}`, string(got.QuizCategory))
		assert.Equal(t, float64(7), body["question"].(map[string]interface{})["id"])
	})

	t.Run("exhausted", func(t *testing.T) {
		resp, body := doRequest(t, app, http.MethodPost, "/quizzes",
			`{"previous_questions":[3,4],"quiz_category":{"id":1}}`)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])
		assert.Contains(t, body, "question")
		assert.Nil(t, body["question"])
	})

	t.Run("wrong previous_questions type", func(t *testing.T) {
		resp, body := doRequest(t, app, http.MethodPost, "/quizzes",
			`{"previous_questions":"3","quiz_category":{"id":1}}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assertErrorBody(t, body, 400, "Bad Request")
	})
}

func TestTriviaHandler_Health(t *testing.T) {
	healthy := true
	svc := &MockTriviaService{
		HealthFunc: func(ctx context.Context) error {
			if healthy {
				return nil
			}
			return domain.NewInternalError("Health check failed", nil)
		},
	}
	app := setupApp(svc)

	resp, body := doRequest(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	healthy = false
	resp, body = doRequest(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assertErrorBody(t, body, 500, "Internal Server Error")
}

func TestTriviaHandler_MethodNotAllowed(t *testing.T) {
	app := setupApp(&MockTriviaService{})

	resp, body := doRequest(t, app, http.MethodPatch, "/categories", `{}`)
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
	assertErrorBody(t, body, 405, "Method Not Allowed")
}
