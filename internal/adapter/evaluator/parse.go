package evaluator

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"speakscore/internal/domain"
	"speakscore/internal/util"
)

var (
	thinkBlock   = regexp.MustCompile(`(?s)<think>.*?</think>`)
	openingFence = regexp.MustCompile("^```[a-zA-Z]*\\s*")
	closingFence = regexp.MustCompile("\\s*```$")
)

// StripFences removes reasoning blocks and a wrapping markdown code fence.
func StripFences(raw string) string {
	cleaned := strings.TrimSpace(thinkBlock.ReplaceAllString(raw, ""))
	cleaned = openingFence.ReplaceAllString(cleaned, "")
	cleaned = closingFence.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// ParseRubric decodes a provider response into a RubricEvaluation.
// A response that is not a JSON object after fence stripping fails with
// EVALUATION_PARSE_ERROR. Individual fields that are missing or of the wrong
// type fall back to zero values.
func ParseRubric(raw string) (*domain.RubricEvaluation, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil, domain.NewEvaluationParseError(raw, errors.New("empty response"))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, domain.NewEvaluationParseError(raw, err)
	}
	if fields == nil {
		return nil, domain.NewEvaluationParseError(raw, errors.New("response is not a JSON object"))
	}

	return &domain.RubricEvaluation{
		Relevance:    scoreField(fields["relevance_score"], 25),
		Grammar:      scoreField(fields["grammar_score"], 25),
		Vocabulary:   scoreField(fields["vocabulary_score"], 25),
		Coherence:    scoreField(fields["coherence_score"], 25),
		Total:        scoreField(fields["total_score"], 100),
		Feedback:     stringField(fields["feedback"]),
		Strengths:    listField(fields["strengths"]),
		Improvements: listField(fields["improvements"]),
	}, nil
}

// scoreField reads a number (or numeric string), rounds it and clamps it to [0, max].
func scoreField(raw json.RawMessage, max int) int {
	if len(raw) == 0 {
		return 0
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		var text string
		if json.Unmarshal(raw, &text) != nil {
			return 0
		}
		// Out-of-range text parses to ±Inf with ErrRange and is clamped below.
		parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0
		}
		value = parsed
	}
	if math.IsNaN(value) {
		return 0
	}
	return int(math.Round(util.Clamp(value, 0, float64(max))))
}

func stringField(raw json.RawMessage) string {
	var text string
	if len(raw) == 0 || json.Unmarshal(raw, &text) != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// listField accepts a string array, or a single string as a one-element list.
func listField(raw json.RawMessage) []string {
	items := []string{}
	if len(raw) == 0 {
		return items
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items
	}
	if single := stringField(raw); single != "" {
		items = append(items, single)
	}
	return items
}
