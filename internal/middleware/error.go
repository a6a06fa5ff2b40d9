package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"speakscore/internal/domain"
	"speakscore/internal/logger"
)

// statusClientClosedRequest is used when the caller went away mid-request.
const statusClientClosedRequest = 499

// CodeRequestTimeout is reported when the request deadline expires outside a provider call.
const CodeRequestTimeout = "REQUEST_TIMEOUT"

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse represents validation error response
type ValidationErrorResponse struct {
	Success bool                     `json:"success"`
	Error   string                   `json:"error"`
	Code    string                   `json:"code"`
	Errors  []domain.ValidationError `json:"errors"`
}

// ErrorHandler is a centralized error handling middleware
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var validationErrs domain.ValidationErrors
		if errors.As(err, &validationErrs) {
			log.Warn("Validation errors occurred",
				zap.String("path", c.Path()),
				zap.Int("error_count", len(validationErrs)),
			)
			return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
				Error:  validationErrs.Error(),
				Code:   string(domain.CodeValidation),
				Errors: validationErrs,
			})
		}

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := StatusForCode(domainErr.Code)

			fields := []zap.Field{
				zap.String("path", c.Path()),
				zap.String("code", string(domainErr.Code)),
				zap.Int("status", statusCode),
				zap.Error(domainErr.Cause),
			}
			if statusCode >= http.StatusInternalServerError {
				log.Error(domainErr.Message, fields...)
			} else {
				log.Warn(domainErr.Message, fields...)
			}

			response := ErrorResponse{
				Error: domainErr.Message,
				Code:  string(domainErr.Code),
			}
			if len(domainErr.Context) > 0 {
				response.Details = domainErr.Context
			}
			return c.Status(statusCode).JSON(response)
		}

		if errors.Is(err, context.Canceled) {
			log.Info("Request cancelled by client", zap.String("path", c.Path()))
			return c.Status(statusClientClosedRequest).JSON(ErrorResponse{
				Error: "request cancelled",
				Code:  string(domain.CodeInternal),
			})
		}

		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("Request deadline exceeded", zap.String("path", c.Path()))
			return c.Status(http.StatusGatewayTimeout).JSON(ErrorResponse{
				Error: "request timed out",
				Code:  CodeRequestTimeout,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Error: fiberErr.Message,
				Code:  "HTTP_ERROR",
			})
		}

		log.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Internal server error",
			Code:  string(domain.CodeInternal),
		})
	}
}

// StatusForCode maps domain error codes to HTTP status codes
func StatusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeInvalidInput, domain.CodeValidation, domain.CodeMissingField,
		domain.CodeInvalidFormat, domain.CodeOutOfRange, domain.CodeInsufficientPool:
		return http.StatusBadRequest
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeNoActiveQuiz:
		return http.StatusConflict
	case domain.CodeProviderError, domain.CodeEvaluationParse:
		return http.StatusBadGateway
	case domain.CodeProviderTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
