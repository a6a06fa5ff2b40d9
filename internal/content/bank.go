package content

import (
	"fmt"
	"math/rand/v2"

	"speakscore/internal/domain"
)

var readingSentences = []string{
	"The sun rises in the east and sets in the west.",
	"Python is a powerful programming language used worldwide.",
	"Artificial intelligence is transforming the future of technology.",
	"Reading books expands knowledge and sharpens the mind.",
	"A balanced diet is essential for a healthy lifestyle.",
	"The quick brown fox jumps over the lazy dog.",
	"Water is the most essential resource for all living beings.",
	"Cloud computing allows data to be stored and accessed online.",
	"The earth revolves around the sun in an elliptical orbit.",
	"Machine learning enables computers to learn from data.",
	"Listening to music can reduce stress and improve mood.",
	"Teamwork is the key to achieving great success.",
	"Renewable energy sources are vital for a sustainable future.",
	"The internet has revolutionized communication and information sharing.",
	"Practice makes perfect, so never stop learning new things.",
}

// The listen-and-repeat bank has pre-generated audio for the first fourteen sentences only.
var repeatSentences = readingSentences[:14]

var speakingTopics = []string{
	"The importance of renewable energy in today's world",
	"How technology is revolutionizing modern education",
	"The role of artificial intelligence in healthcare",
	"Your favorite hobby and why it brings you joy",
	"The impact of social media on modern society",
	"How to maintain a healthy lifestyle in busy times",
	"The importance of effective time management",
	"The benefits of reading books in the digital age",
	"Climate change and its global effects",
	"Your dream vacation destination and why",
}

var grammarQuestions = []domain.QuizItem{
	{Sentence: "She ___ going to the market.", Answer: "is", Category: "be_verb"},
	{Sentence: "They have been friends ___ childhood.", Answer: "since", Category: "preposition"},
	{Sentence: "He runs faster ___ anyone else.", Answer: "than", Category: "comparison"},
	{Sentence: "I have lived here ___ five years.", Answer: "for", Category: "preposition"},
	{Sentence: "This is the ___ book I have ever read.", Answer: "best", Category: "superlative"},
	{Sentence: "I am looking forward ___ meeting you.", Answer: "to", Category: "phrasal_verb"},
	{Sentence: "Neither the teacher nor the students ___ ready.", Answer: "are", Category: "subject_verb"},
	{Sentence: "She has been working here ___ last year.", Answer: "since", Category: "preposition"},
	{Sentence: "We went to the park ___ it was raining.", Answer: "although", Category: "conjunction"},
	{Sentence: "I don't like tea, and ___ do I.", Answer: "neither", Category: "negative"},
	{Sentence: "By the time we arrived, the train ___.", Answer: "had left", Category: "past_perfect"},
	{Sentence: "There ___ a lot of people at the party.", Answer: "were", Category: "be_verb"},
	{Sentence: "She speaks English ___ than her brother.", Answer: "better", Category: "comparison"},
	{Sentence: "If I ___ you, I would take the job.", Answer: "were", Category: "conditional"},
	{Sentence: "He hasn't called me ___ last week.", Answer: "since", Category: "preposition"},
	{Sentence: "We stayed at a hotel ___ had a beautiful view.", Answer: "that", Category: "relative_pronoun"},
	{Sentence: "The book was so interesting that I couldn't ___ it down.", Answer: "put", Category: "phrasal_verb"},
	{Sentence: "You should not judge a book ___ its cover.", Answer: "by", Category: "preposition"},
	{Sentence: "I will call you when I ___ home.", Answer: "get", Category: "time_clause"},
	{Sentence: "She prefers coffee ___ tea.", Answer: "to", Category: "preference"},
	{Sentence: "The children ___ playing in the garden.", Answer: "are", Category: "present_continuous"},
	{Sentence: "I wish I ___ speak French fluently.", Answer: "could", Category: "wish"},
	{Sentence: "The meeting has been ___ until next week.", Answer: "postponed", Category: "passive"},
	{Sentence: "Either you or your brother ___ to help.", Answer: "has", Category: "either_or"},
	{Sentence: "She made me ___ for an hour.", Answer: "wait", Category: "causative"},
}

type staticBank struct {
	speech map[domain.Module][]string
	quiz   []domain.QuizItem
}

// NewStaticBank returns the built-in item banks. Contents never change after start-up.
func NewStaticBank() domain.ItemBank {
	return &staticBank{
		speech: map[domain.Module][]string{
			domain.ModuleReading: readingSentences,
			domain.ModuleRepeat:  repeatSentences,
			domain.ModuleTopic:   speakingTopics,
		},
		quiz: grammarQuestions,
	}
}

// NewBank builds a bank from caller-supplied lists. Used by tests and custom deployments.
func NewBank(speech map[domain.Module][]string, quiz []domain.QuizItem) domain.ItemBank {
	return &staticBank{speech: speech, quiz: quiz}
}

func (b *staticBank) items(module domain.Module) ([]string, error) {
	items, ok := b.speech[module]
	if !ok || len(items) == 0 {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("module %q has no reference items", module))
	}
	return items, nil
}

func (b *staticBank) Random(module domain.Module) (domain.ReferenceItem, error) {
	items, err := b.items(module)
	if err != nil {
		return domain.ReferenceItem{}, err
	}
	id := rand.IntN(len(items))
	return domain.ReferenceItem{ID: id, Text: items[id]}, nil
}

func (b *staticBank) Get(module domain.Module, id int) (domain.ReferenceItem, error) {
	items, err := b.items(module)
	if err != nil {
		return domain.ReferenceItem{}, err
	}
	if id < 0 || id >= len(items) {
		return domain.ReferenceItem{}, domain.NewInvalidInputError(
			fmt.Sprintf("invalid id %d for module %s", id, module)).
			WithContext("id", id).
			WithContext("max", len(items)-1)
	}
	return domain.ReferenceItem{ID: id, Text: items[id]}, nil
}

// QuizPool returns a copy so callers may shuffle it freely.
func (b *staticBank) QuizPool() []domain.QuizItem {
	pool := make([]domain.QuizItem, len(b.quiz))
	copy(pool, b.quiz)
	return pool
}
