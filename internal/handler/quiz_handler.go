package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"speakscore/internal/domain"
	"speakscore/internal/dto"
	"speakscore/internal/middleware"
	"speakscore/internal/service"
	"speakscore/internal/validation"
)

// QuizHandler handles grammar quiz HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// StartQuiz godoc
// @Summary Start a grammar quiz
// @Description Samples questions for the session, replacing any unanswered quiz
// @Tags quiz
// @Produce json
// @Param count query int false "Number of questions"
// @Success 200 {object} dto.QuizStartResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /quiz [get]
func (h *QuizHandler) StartQuiz(c *fiber.Ctx) error {
	count, _ := c.Locals(middleware.ValidatedCountKey).(int)
	_, sessionID := middleware.Identity(c)

	view, err := h.service.Start(c.UserContext(), sessionID, count)
	if err != nil {
		return err
	}

	return c.JSON(dto.QuizStartResponse{Success: true, QuizView: *view})
}

// SubmitQuiz godoc
// @Summary Submit quiz answers
// @Tags quiz
// @Accept json
// @Produce json
// @Param submission body dto.QuizSubmitRequest true "Answers"
// @Success 200 {object} dto.QuizSubmitResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quiz/submit [post]
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	var req dto.QuizSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", nil)}
	}

	answers, err := req.AnswerMap()
	if errors.Is(err, dto.ErrAnswersMissing) {
		return domain.ValidationErrors{domain.NewMissingFieldError("answers")}
	}
	if err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("answers", nil)}
	}
	if errs := h.validator.ValidateQuizSubmission(req.QuizID, answers); len(errs) > 0 {
		return errs
	}

	userID, sessionID := middleware.Identity(c)
	result, err := h.service.Submit(c.UserContext(), service.QuizSubmission{
		UserID:    userID,
		SessionID: sessionID,
		QuizID:    req.QuizID,
		Answers:   answers,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.QuizSubmitResponse{Success: true, QuizScoreResult: result})
}
