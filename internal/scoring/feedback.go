package scoring

// FeedbackBand pairs a threshold test with the message shown when it passes.
type FeedbackBand struct {
	Matches func(primary, secondary float64) bool
	Message string
}

// FeedbackTable is evaluated top to bottom; the first matching band wins.
// The last band should always match.
type FeedbackTable []FeedbackBand

// Pick returns the message of the first band that matches.
func (t FeedbackTable) Pick(primary, secondary float64) string {
	for _, band := range t {
		if band.Matches(primary, secondary) {
			return band.Message
		}
	}
	return ""
}

func always(float64, float64) bool { return true }

// ReadingFeedback grades pronunciation (primary) and fluency (secondary).
var ReadingFeedback = FeedbackTable{
	{func(p, f float64) bool { return p > 90 && f > 85 }, "Excellent! Your pronunciation and fluency are outstanding."},
	{func(p, _ float64) bool { return p > 75 }, "Good pronunciation, but try to improve your pacing."},
	{always, "Needs improvement. Focus on speaking more clearly."},
}

// RepeatFeedback grades the listen-and-repeat accuracy score.
var RepeatFeedback = FeedbackTable{
	{func(s, _ float64) bool { return s >= 90 }, "Excellent! Your pronunciation is very clear."},
	{func(s, _ float64) bool { return s >= 70 }, "Good job! Minor improvements needed."},
	{func(s, _ float64) bool { return s >= 50 }, "Fair attempt. Keep practicing pronunciation."},
	{always, "Needs improvement. Focus on clarity and pace."},
}

// TopicFeedback is used when the rubric provider returns no feedback text.
var TopicFeedback = FeedbackTable{
	{func(s, _ float64) bool { return s >= 85 }, "Excellent response! Well organized and on topic."},
	{func(s, _ float64) bool { return s >= 65 }, "Good response. Work on expanding your vocabulary and structure."},
	{func(s, _ float64) bool { return s >= 40 }, "Fair response. Try to stay on topic and speak in complete sentences."},
	{always, "Needs improvement. Plan your main points before speaking."},
}

// QuizFeedback grades the quiz percentage.
var QuizFeedback = FeedbackTable{
	{func(s, _ float64) bool { return s >= 90 }, "Excellent! Your grammar is outstanding."},
	{func(s, _ float64) bool { return s >= 70 }, "Good work! Review the questions you missed."},
	{func(s, _ float64) bool { return s >= 50 }, "Fair attempt. Keep practicing these grammar points."},
	{always, "Needs improvement. Review the grammar rules and try again."},
}
