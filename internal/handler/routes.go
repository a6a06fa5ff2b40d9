package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"speakscore/internal/middleware"
	"speakscore/internal/service"
)

// Routes bundles the handlers mounted under /api.
type Routes struct {
	Auth             service.AuthService
	Exercise         *ExerciseHandler
	Quiz             *QuizHandler
	Session          *SessionHandler
	Health           *HealthHandler
	QuizMaxQuestions int
	// RequestTimeout bounds every /api request context; zero disables it.
	RequestTimeout time.Duration
}

// Register mounts the API. /api/session is registered before /api/:module so
// the parameterised route does not capture it.
func Register(app *fiber.App, r Routes) {
	vm := middleware.NewValidationMiddleware()
	protected := middleware.Protected(r.Auth)

	app.Get("/healthz", r.Health.Check)

	api := app.Group("/api", middleware.RequestDeadline(r.RequestTimeout))
	api.Post("/session", r.Session.StartSession)
	api.Get("/report", protected, r.Session.GetReport)

	api.Get("/quiz", protected, vm.ValidateQuizCount(r.QuizMaxQuestions), r.Quiz.StartQuiz)
	api.Post("/quiz/submit", protected, r.Quiz.SubmitQuiz)

	api.Get("/:module/item", protected, vm.ValidateSpeechModule(), r.Exercise.GetItem)
	api.Post("/:module", protected, vm.ValidateSpeechModule(), r.Exercise.Score)
}
