package handler

import (
	"trivia-api/internal/domain"
	"trivia-api/internal/dto"
	"trivia-api/internal/service"
	"trivia-api/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// TriviaHandler handles the trivia HTTP API
type TriviaHandler struct {
	service service.TriviaService
}

// NewTriviaHandler creates a new TriviaHandler instance
func NewTriviaHandler(service service.TriviaService) *TriviaHandler {
	return &TriviaHandler{
		service: service,
	}
}

// RegisterRoutes mounts every trivia endpoint on router
func (h *TriviaHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/categories", h.GetCategories)
	router.Get("/categories/:id/questions", h.GetCategoryQuestions)
	router.Get("/questions", h.GetQuestions)
	router.Post("/questions", h.CreateQuestion)
	router.Post("/questions/search", h.SearchQuestions)
	router.Delete("/questions/:id", h.DeleteQuestion)
	router.Post("/quizzes", h.PlayQuiz)
	router.Get("/health", h.Health)
}

// GetCategories godoc
// @Summary List categories
// @Description Returns every category keyed by id
// @Tags categories
// @Produce json
// @Success 200 {object} dto.CategoriesResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /categories [get]
func (h *TriviaHandler) GetCategories(c *fiber.Ctx) error {
	resp, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetQuestions godoc
// @Summary List questions
// @Description Returns one page of ten questions ordered by id, plus the total count and all categories
// @Tags questions
// @Produce json
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} dto.QuestionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions [get]
func (h *TriviaHandler) GetQuestions(c *fiber.Ctx) error {
	page, err := service.ParsePage(c.Query("page"))
	if err != nil {
		return err
	}
	resp, err := h.service.ListQuestions(c.UserContext(), page)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.DeleteQuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /questions/{id} [delete]
func (h *TriviaHandler) DeleteQuestion(c *fiber.Ctx) error {
	id, err := validation.ParseID(c.Params("id"), "question_id")
	if err != nil {
		return err
	}
	resp, err := h.service.DeleteQuestion(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CreateQuestion godoc
// @Summary Create a question
// @Description category and difficulty may be sent as numbers or numeric strings
// @Tags questions
// @Accept json
// @Produce json
// @Param request body dto.CreateQuestionRequest true "New question"
// @Success 200 {object} dto.CreateQuestionResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /questions [post]
func (h *TriviaHandler) CreateQuestion(c *fiber.Ctx) error {
	var req dto.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewUnprocessableError("Invalid request body", err)
	}
	resp, err := h.service.CreateQuestion(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SearchQuestions godoc
// @Summary Search questions
// @Description Case-insensitive substring match on question text. No matches is an empty list.
// @Tags questions
// @Accept json
// @Produce json
// @Param request body dto.SearchQuestionsRequest true "Search term"
// @Success 200 {object} dto.SearchQuestionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /questions/search [post]
func (h *TriviaHandler) SearchQuestions(c *fiber.Ctx) error {
	var req dto.SearchQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewBadRequestError("Invalid request body")
	}
	resp, err := h.service.SearchQuestions(c.UserContext(), req.SearchTerm)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetCategoryQuestions godoc
// @Summary List questions in a category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} dto.CategoryQuestionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /categories/{id}/questions [get]
func (h *TriviaHandler) GetCategoryQuestions(c *fiber.Ctx) error {
	id, err := validation.ParseID(c.Params("id"), "category_id")
	if err != nil {
		return err
	}
	resp, err := h.service.QuestionsByCategory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// PlayQuiz godoc
// @Summary Next quiz question
// @Description Returns a random question not in previous_questions. quiz_category.id 0 means every category.
// @Description question is null once the category is exhausted.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param request body dto.QuizRequest true "Quiz state"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes [post]
func (h *TriviaHandler) PlayQuiz(c *fiber.Ctx) error {
	var req dto.QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewBadRequestError("Invalid request body")
	}
	resp, err := h.service.NextQuizQuestion(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Health godoc
// @Summary Health check
// @Description Pings the database and, when configured, the cache
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /health [get]
func (h *TriviaHandler) Health(c *fiber.Ctx) error {
	if err := h.service.Health(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(dto.HealthResponse{Success: true})
}
