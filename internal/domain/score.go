package domain

import "context"

// TranscriptionResult is the text a speech-to-text provider heard.
// DurationSec is zero when the provider did not report the audio length.
type TranscriptionResult struct {
	Text        string
	DurationSec float64
}

// Transcriber converts a recorded audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*TranscriptionResult, error)
}

// AudioProber reports the duration of an audio file in seconds.
type AudioProber interface {
	Duration(ctx context.Context, audioPath string) (float64, error)
}

// RubricEvaluation is the multi-criterion judgement returned by the generative provider.
// Total is stored as returned and is not derived from the sub-scores.
type RubricEvaluation struct {
	Relevance    int      `json:"relevance_score"`
	Grammar      int      `json:"grammar_score"`
	Vocabulary   int      `json:"vocabulary_score"`
	Coherence    int      `json:"coherence_score"`
	Total        int      `json:"total_score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// SubScoreSum returns the sum of the four criteria, which may differ from Total.
func (r RubricEvaluation) SubScoreSum() int {
	return r.Relevance + r.Grammar + r.Vocabulary + r.Coherence
}

// RubricEvaluator scores a free-form spoken response against a topic.
type RubricEvaluator interface {
	Evaluate(ctx context.Context, topic, transcript string) (*RubricEvaluation, error)
}

// SpeechScoreResult is the normalized outcome of modules A, B and C.
// Fields that a module does not compute keep their zero value.
type SpeechScoreResult struct {
	Module             Module            `json:"module"`
	ItemID             int               `json:"id"`
	Reference          string            `json:"expected"`
	Transcript         string            `json:"transcription"`
	Score              float64           `json:"score"`
	PronunciationScore float64           `json:"pronunciation_score"`
	FluencyScore       float64           `json:"fluency_score"`
	DurationSec        float64           `json:"duration_sec"`
	WordsPerSecond     float64           `json:"wps"`
	Feedback           string            `json:"feedback"`
	Rubric             *RubricEvaluation `json:"rubric,omitempty"`
	RubricSubScoreSum  int               `json:"rubric_sub_score_sum,omitempty"`
	TrackingSaved      bool              `json:"tracking_saved"`
	Warning            string            `json:"warning"`
}
