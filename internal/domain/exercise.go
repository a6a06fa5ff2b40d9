package domain

import "strings"

// Module identifies one of the four exercise types.
type Module string

const (
	ModuleReading Module = "reading" // Module A - read a sentence aloud
	ModuleRepeat  Module = "repeat"  // Module B - listen and repeat
	ModuleTopic   Module = "topic"   // Module C - free speaking on a topic
	ModuleQuiz    Module = "quiz"    // Module D - fill-in-the-blank grammar quiz
)

// LedgerName returns the module name recorded in performance entries.
func (m Module) LedgerName() string {
	switch m {
	case ModuleReading:
		return "Module A - Read & Speak"
	case ModuleRepeat:
		return "Module B - Listen & Repeat"
	case ModuleTopic:
		return "Module C - Topic Speaking"
	case ModuleQuiz:
		return "Module D - Grammar Quiz"
	default:
		return string(m)
	}
}

// IsSpeech reports whether the module scores a recorded audio attempt.
func (m Module) IsSpeech() bool {
	return m == ModuleReading || m == ModuleRepeat || m == ModuleTopic
}

// ParseModule converts a URL slug into a Module.
func ParseModule(slug string) (Module, bool) {
	switch Module(strings.ToLower(strings.TrimSpace(slug))) {
	case ModuleReading:
		return ModuleReading, true
	case ModuleRepeat:
		return ModuleRepeat, true
	case ModuleTopic:
		return ModuleTopic, true
	case ModuleQuiz:
		return ModuleQuiz, true
	}
	return "", false
}

// ReferenceItem is an immutable exercise prompt. ID is its index in the owning bank.
type ReferenceItem struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category,omitempty"`
}

// QuizItem is a grammar question together with its answer key.
type QuizItem struct {
	Sentence string
	Answer   string
	Category string
}

// ItemBank provides read-only access to the reference items of each speech module.
type ItemBank interface {
	Random(module Module) (ReferenceItem, error)
	Get(module Module, id int) (ReferenceItem, error)
	QuizPool() []QuizItem
}
