package domain

import (
	"context"
	"time"
)

// QuizQuestion is one question of an active quiz. AnswerKey never leaves the grader.
type QuizQuestion struct {
	ID        int    `json:"id"`
	Number    int    `json:"number"`
	Sentence  string `json:"sentence"`
	Category  string `json:"category"`
	AnswerKey string `json:"answer_key"`
}

// QuizInstance is the active quiz of a session, consumed by exactly one submission.
type QuizInstance struct {
	ID        string         `json:"quiz_id"`
	SessionID string         `json:"session_id"`
	Questions []QuizQuestion `json:"questions"`
	CreatedAt time.Time      `json:"created_at"`
}

// PublicQuestion is a quiz question without its answer key.
type PublicQuestion struct {
	ID       int    `json:"id"`
	Number   int    `json:"number"`
	Sentence string `json:"sentence"`
	Category string `json:"category"`
}

// QuizView is what the caller sees when a quiz starts.
type QuizView struct {
	QuizID         string           `json:"quiz_id"`
	Questions      []PublicQuestion `json:"questions"`
	TotalQuestions int              `json:"total_questions"`
}

// View strips the answer keys from the quiz.
func (q *QuizInstance) View() QuizView {
	questions := make([]PublicQuestion, 0, len(q.Questions))
	for _, question := range q.Questions {
		questions = append(questions, PublicQuestion{
			ID:       question.ID,
			Number:   question.Number,
			Sentence: question.Sentence,
			Category: question.Category,
		})
	}
	return QuizView{
		QuizID:         q.ID,
		Questions:      questions,
		TotalQuestions: len(questions),
	}
}

// QuestionReview is the graded outcome of one question.
type QuestionReview struct {
	QuestionNumber int    `json:"question_number"`
	Sentence       string `json:"sentence"`
	UserAnswer     string `json:"user_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	Correct        bool   `json:"correct"`
}

// QuizScoreResult is the normalized outcome of module D.
type QuizScoreResult struct {
	QuizID        string           `json:"quiz_id"`
	CorrectCount  int              `json:"correct_count"`
	Total         int              `json:"total"`
	Percentage    float64          `json:"percentage"`
	Feedback      string           `json:"feedback"`
	Review        []QuestionReview `json:"review"`
	TrackingSaved bool             `json:"tracking_saved"`
	Warning       string           `json:"warning"`
}

// QuizStore keeps at most one active quiz per session.
type QuizStore interface {
	Save(ctx context.Context, quiz *QuizInstance) error
	Peek(ctx context.Context, sessionID string) (*QuizInstance, error)
	// Take removes and returns the session's quiz. A non-empty quizID must match
	// the active quiz, otherwise nothing is removed. It returns a NO_ACTIVE_QUIZ
	// error when no matching quiz exists.
	Take(ctx context.Context, sessionID, quizID string) (*QuizInstance, error)
}
