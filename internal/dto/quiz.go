package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"speakscore/internal/domain"
)

// QuizStartResponse is returned by GET /api/quiz. Answer keys are never included.
type QuizStartResponse struct {
	Success bool `json:"success"`
	domain.QuizView
}

// QuizSubmitRequest is the body of POST /api/quiz/submit.
// Answers may be a JSON array (positional) or an object keyed by 0-based index.
// @Description Quiz submission
type QuizSubmitRequest struct {
	QuizID  string          `json:"quiz_id"`
	Answers json.RawMessage `json:"answers"`
}

// ErrAnswersMissing is returned by AnswerMap when the body has no answers value.
var ErrAnswersMissing = errors.New("answers is required")

// AnswerMap normalizes Answers into a map keyed by 0-based index strings.
// An absent or null answers value is ErrAnswersMissing; an empty array or object is allowed.
func (r *QuizSubmitRequest) AnswerMap() (map[string]string, error) {
	raw := bytes.TrimSpace(r.Answers)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrAnswersMissing
	}

	switch raw[0] {
	case '[':
		var list []*string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("answers array: %w", err)
		}
		answers := make(map[string]string, len(list))
		for i, answer := range list {
			if answer != nil {
				answers[strconv.Itoa(i)] = *answer
			}
		}
		return answers, nil
	case '{':
		var keyed map[string]*string
		if err := json.Unmarshal(raw, &keyed); err != nil {
			return nil, fmt.Errorf("answers object: %w", err)
		}
		answers := make(map[string]string, len(keyed))
		for key, answer := range keyed {
			if answer != nil {
				answers[key] = *answer
			}
		}
		return answers, nil
	default:
		return nil, errors.New("answers must be an array or an object")
	}
}

// QuizSubmitResponse wraps the graded quiz.
type QuizSubmitResponse struct {
	Success bool `json:"success"`
	*domain.QuizScoreResult
}
