package handler

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"speakscore/internal/domain"
	"speakscore/internal/dto"
	"speakscore/internal/logger"
	"speakscore/internal/middleware"
	"speakscore/internal/service"
	"speakscore/internal/validation"
)

// ExerciseHandler serves the speech modules (reading, repeat, topic).
type ExerciseHandler struct {
	service   service.SpeechService
	validator *validation.Validator
	tempDir   string
}

// NewExerciseHandler creates a new ExerciseHandler. Uploads are staged in tempDir.
func NewExerciseHandler(service service.SpeechService, tempDir string) *ExerciseHandler {
	return &ExerciseHandler{
		service:   service,
		validator: validation.NewValidator(),
		tempDir:   tempDir,
	}
}

// GetItem godoc
// @Summary Get a random reference item
// @Tags exercise
// @Produce json
// @Param module path string true "reading, repeat or topic"
// @Success 200 {object} dto.ItemResponse
// @Router /{module}/item [get]
func (h *ExerciseHandler) GetItem(c *fiber.Ctx) error {
	module := c.Locals(middleware.ValidatedModuleKey).(domain.Module)

	item, err := h.service.RandomItem(module)
	if err != nil {
		return err
	}

	return c.JSON(dto.ItemResponse{
		Success: true,
		Module:  module,
		ID:      item.ID,
		Text:    item.Text,
	})
}

// Score godoc
// @Summary Score a recorded attempt
// @Tags exercise
// @Accept multipart/form-data
// @Produce json
// @Param module path string true "reading, repeat or topic"
// @Param id formData int true "Reference item id"
// @Param audio formData file true "Recorded audio"
// @Success 200 {object} dto.SpeechScoreResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /{module} [post]
func (h *ExerciseHandler) Score(c *fiber.Ctx) error {
	module := c.Locals(middleware.ValidatedModuleKey).(domain.Module)
	userID, sessionID := middleware.Identity(c)

	id, errs := h.validator.ValidateItemID(itemIDField(c, module))
	if len(errs) > 0 {
		return errs
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("audio")}
	}

	path, err := h.stageUpload(c, fileHeader)
	if err != nil {
		return err
	}
	defer func() {
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
			logger.Get().Warn("Failed to remove staged upload", zap.String("path", path), zap.Error(removeErr))
		}
	}()

	result, err := h.service.Score(c.UserContext(), service.SpeechAttempt{
		UserID:    userID,
		SessionID: sessionID,
		Module:    module,
		ItemID:    id,
		AudioPath: path,
	})
	if err != nil {
		return err
	}

	logger.Get().Info("Scored speech attempt",
		zap.String("module", string(module)),
		zap.Int("id", id),
		zap.Float64("score", result.Score),
		zap.Bool("tracking_saved", result.TrackingSaved))

	return c.JSON(dto.SpeechScoreResponse{Success: true, SpeechScoreResult: result})
}

// itemIDField reads the item id, accepting the module specific field names
// older clients send (sentence_id, topic_id).
func itemIDField(c *fiber.Ctx, module domain.Module) string {
	if id := c.FormValue("id"); id != "" {
		return id
	}
	if module == domain.ModuleTopic {
		return c.FormValue("topic_id")
	}
	return c.FormValue("sentence_id")
}

func (h *ExerciseHandler) stageUpload(c *fiber.Ctx, fileHeader *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if len(ext) > 8 {
		ext = ""
	}
	tmp, err := os.CreateTemp(h.tempDir, "speakscore-*"+ext)
	if err != nil {
		return "", domain.NewInternalError("failed to stage upload", err)
	}
	path := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(path)
		return "", domain.NewInternalError("failed to stage upload", err)
	}
	if err := c.SaveFile(fileHeader, path); err != nil {
		_ = os.Remove(path)
		return "", domain.NewInternalError("failed to stage upload", err)
	}
	return path, nil
}
