package validation

import (
	"regexp"
	"strconv"
	"strings"

	"speakscore/internal/domain"
)

const maxAnswerLength = 200

var validULID = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSpeechModule resolves a URL slug to one of the audio modules.
func (v *Validator) ValidateSpeechModule(slug string) (domain.Module, domain.ValidationErrors) {
	if strings.TrimSpace(slug) == "" {
		return "", domain.ValidationErrors{domain.NewMissingFieldError("module")}
	}
	module, ok := domain.ParseModule(slug)
	if !ok || !module.IsSpeech() {
		return "", domain.ValidationErrors{domain.NewInvalidFormatError("module", slug)}
	}
	return module, nil
}

// ValidateItemID parses the reference item id of a speech attempt.
// Range checking is left to the item bank.
func (v *Validator) ValidateItemID(raw string) (int, domain.ValidationErrors) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ValidationErrors{domain.NewMissingFieldError("id")}
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("id", raw)}
	}
	return id, nil
}

// ValidateQuizCount parses the optional question count. An empty value yields 0,
// which selects the configured default.
func (v *Validator) ValidateQuizCount(raw string, max int) (int, domain.ValidationErrors) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("count", raw)}
	}
	if count < 1 || count > max {
		return 0, domain.ValidationErrors{domain.NewOutOfRangeError("count", count, 1, max)}
	}
	return count, nil
}

// ValidateQuizSubmission checks the optional quiz id and the answer lengths.
func (v *Validator) ValidateQuizSubmission(quizID string, answers map[string]string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if quizID != "" && !isValidULID(quizID) {
		errors = append(errors, domain.NewInvalidFormatError("quiz_id", quizID))
	}

	for key, answer := range answers {
		if idx, err := strconv.Atoi(key); err != nil || idx < 0 {
			errors = append(errors, domain.NewInvalidFormatError("answers", key))
			continue
		}
		if len(answer) > maxAnswerLength {
			errors = append(errors, domain.NewOutOfRangeError("answers["+key+"]", len(answer), 0, maxAnswerLength))
		}
	}

	return errors
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	return len(s) == 26 && validULID.MatchString(s)
}
