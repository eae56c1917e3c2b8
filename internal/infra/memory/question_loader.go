package memory

import (
	"context"

	"quiz-service/internal/domain"
)

// StaticQuestionLoader is a simple loader backed by an in-memory map of banks (useful for tests/demos).
// An empty bank id selects the default bank.
type StaticQuestionLoader struct {
	banks map[string][]domain.Question
}

// DefaultBank is the bank id used when none is configured.
const DefaultBank = "default"

func NewStaticQuestionLoader(banks map[string][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{banks: banks}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, bankID string) ([]domain.Question, error) {
	if bankID == "" {
		bankID = DefaultBank
	}
	questions, ok := l.banks[bankID]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	// hand out a copy so callers can normalize entries freely
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	return out, nil
}
