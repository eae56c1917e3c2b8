package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"quiz-service/internal/domain"
)

// QuestionLoader fetches question content from a backing store (e.g., an external question bank).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, bankID string) ([]domain.Question, error)
}

// Seeder fills an empty store with the defaults the quiz needs to be usable.
type Seeder struct {
	repo Repository
	auth *AuthService
	now  func() time.Time
}

func NewSeeder(repo Repository, auth *AuthService) *Seeder {
	return &Seeder{repo: repo, auth: auth, now: time.Now}
}

// SeedOptions selects the question source and the default admin account.
type SeedOptions struct {
	Loader QuestionLoader
	BankID string
	Admin  Registration
}

// Seed inserts questions when the table is empty, a default settings row when none
// exists, and the default admin when no admin exists. It is safe to run on every start.
func (s *Seeder) Seed(ctx context.Context, opts SeedOptions) error {
	count, err := s.repo.CountQuestions(ctx)
	if err != nil {
		return err
	}
	if count == 0 && opts.Loader != nil {
		questions, err := opts.Loader.LoadQuestions(ctx, opts.BankID)
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}
		if _, err := s.ImportQuestions(ctx, questions); err != nil {
			return err
		}
	}

	settings, err := s.repo.CurrentSettings(ctx)
	if err != nil {
		return err
	}
	if settings == nil {
		now := s.now().UTC()
		if _, err := s.repo.SaveSettings(ctx, domain.QuizSettings{CreatedAt: now, UpdatedAt: now}); err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
		log.Printf("seed: default quiz settings created")
	}

	created, err := s.auth.EnsureAdmin(ctx, opts.Admin)
	if err != nil {
		return err
	}
	if created {
		log.Printf("seed: default admin %s created", opts.Admin.Email)
	}
	return nil
}

// ImportQuestions appends questions in one transaction; invalid entries abort the import.
func (s *Seeder) ImportQuestions(ctx context.Context, questions []domain.Question) (int, error) {
	for i := range questions {
		if err := validateQuestion(&questions[i]); err != nil {
			return 0, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	err := s.repo.RunInTx(ctx, func(ctx context.Context, tx Repository) error {
		for _, q := range questions {
			if _, err := tx.CreateQuestion(ctx, q); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import questions: %w", err)
	}
	log.Printf("seed: imported %d question(s)", len(questions))
	return len(questions), nil
}

// SampleQuestions is the built-in question set used when no bank is configured.
func SampleQuestions() []domain.Question {
	return []domain.Question{
		{Text: "What is the capital of France?", Options: []string{"Paris", "London", "Berlin", "Madrid"}, CorrectAnswer: 0, Points: 1},
		{Text: "Which programming language was the most popular in 2024?", Options: []string{"Python", "JavaScript", "Java", "C++"}, CorrectAnswer: 1, Points: 2},
		{Text: "What is React?", Options: []string{"A framework", "A library", "A language", "An IDE"}, CorrectAnswer: 1, Points: 2},
		{Text: "What is 2 + 2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: 1, Points: 1},
		{Text: "Which HTTP method is used to create a resource?", Options: []string{"GET", "POST", "PUT", "DELETE"}, CorrectAnswer: 1, Points: 2},
	}
}
