package middleware

import (
	"github.com/gofiber/fiber/v2"

	"speakscore/internal/validation"
)

const (
	ValidatedModuleKey = "validated_module"
	ValidatedCountKey  = "validated_count"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateSpeechModule validates the :module path parameter.
func (vm *ValidationMiddleware) ValidateSpeechModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		module, errs := vm.validator.ValidateSpeechModule(c.Params("module"))
		if len(errs) > 0 {
			return errs // This will be handled by ErrorHandler middleware
		}

		c.Locals(ValidatedModuleKey, module)
		return c.Next()
	}
}

// ValidateQuizCount validates the optional count query parameter against max.
func (vm *ValidationMiddleware) ValidateQuizCount(max int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count, errs := vm.validator.ValidateQuizCount(c.Query("count"), max)
		if len(errs) > 0 {
			return errs
		}

		c.Locals(ValidatedCountKey, count)
		return c.Next()
	}
}
