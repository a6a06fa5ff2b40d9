package scoring

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"speakscore/internal/domain"
	"speakscore/internal/util"
)

const noAnswer = "(no answer)"

// NormalizeAnswer trims surrounding whitespace and case-folds an answer.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// SampleQuestions draws count distinct items from pool without replacement and
// numbers them from 1. It fails with INSUFFICIENT_POOL when count exceeds the pool.
func SampleQuestions(pool []domain.QuizItem, count int, rng *rand.Rand) ([]domain.QuizQuestion, error) {
	if count <= 0 {
		return nil, domain.NewInvalidInputError("question count must be positive")
	}
	if count > len(pool) {
		return nil, domain.NewInsufficientPoolError(count, len(pool))
	}

	var perm []int
	if rng != nil {
		perm = rng.Perm(len(pool))
	} else {
		perm = rand.Perm(len(pool))
	}

	questions := make([]domain.QuizQuestion, 0, count)
	for i, idx := range perm[:count] {
		item := pool[idx]
		questions = append(questions, domain.QuizQuestion{
			ID:        i,
			Number:    i + 1,
			Sentence:  item.Sentence,
			Category:  item.Category,
			AnswerKey: item.Answer,
		})
	}
	return questions, nil
}

// AnswersFromList keys a positional answer list by 0-based index strings.
func AnswersFromList(answers []string) map[string]string {
	keyed := make(map[string]string, len(answers))
	for i, answer := range answers {
		keyed[strconv.Itoa(i)] = answer
	}
	return keyed
}

// GradeQuiz compares answers, keyed by 0-based question index, to the quiz's answer keys.
// Grading is a pure function of its inputs.
func GradeQuiz(quiz *domain.QuizInstance, answers map[string]string) domain.QuizScoreResult {
	review := make([]domain.QuestionReview, 0, len(quiz.Questions))
	correct := 0
	for idx, question := range quiz.Questions {
		given := NormalizeAnswer(answers[strconv.Itoa(idx)])
		isCorrect := given == NormalizeAnswer(question.AnswerKey)
		if isCorrect {
			correct++
		}
		shown := given
		if shown == "" {
			shown = noAnswer
		}
		review = append(review, domain.QuestionReview{
			QuestionNumber: idx + 1,
			Sentence:       question.Sentence,
			UserAnswer:     shown,
			CorrectAnswer:  question.AnswerKey,
			Correct:        isCorrect,
		})
	}

	total := len(quiz.Questions)
	percentage := util.Round(util.Percentage(float64(correct), float64(total)), 1)
	return domain.QuizScoreResult{
		QuizID:       quiz.ID,
		CorrectCount: correct,
		Total:        total,
		Percentage:   percentage,
		Feedback:     QuizFeedback.Pick(percentage, 0),
		Review:       review,
	}
}
