package app

import (
	"context"

	"quiz-service/internal/domain"
)

// Repository abstracts the persistent store (SQLite file or Postgres).
// Methods that find nothing return the matching domain not-found error.
type Repository interface {
	// RunInTx runs fn against a repository bound to a single transaction.
	// The transaction commits only when fn returns nil.
	RunInTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error

	ListQuestions(ctx context.Context) ([]domain.Question, error)
	QuestionsByID(ctx context.Context, ids []int64) (map[int64]domain.Question, error)
	GetQuestion(ctx context.Context, id int64) (domain.Question, error)
	CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error)
	UpdateQuestion(ctx context.Context, q domain.Question) error
	DeleteQuestion(ctx context.Context, id int64) error
	CountQuestions(ctx context.Context) (int, error)

	// AttemptPolicy returns nil without error when the candidate has no row yet.
	AttemptPolicy(ctx context.Context, candidateID string) (*domain.AttemptPolicy, error)
	// UpsertResult overwrites the latest-attempt aggregate and bumps attempts_count,
	// or inserts a new candidate with attempts_count = 1. It reports whether a row was created.
	UpsertResult(ctx context.Context, result domain.AttemptResult) (bool, error)
	InsertAnswers(ctx context.Context, answers []domain.Answer) error

	GetCandidate(ctx context.Context, id string) (domain.Candidate, error)
	FindCandidateByEmail(ctx context.Context, email string) (domain.Candidate, error)
	FindCandidateByWhatsapp(ctx context.Context, whatsapp string) (domain.Candidate, error)
	ListCandidates(ctx context.Context) ([]domain.Candidate, error)
	CreateCandidate(ctx context.Context, c domain.Candidate) error
	UpdateCandidateProfile(ctx context.Context, c domain.Candidate) error
	SetMaxAttempts(ctx context.Context, id string, maxAttempts int) error
	DeleteCandidate(ctx context.Context, id string) error
	CountAdmins(ctx context.Context) (int, error)

	// Leaderboard returns every candidate ordered by score desc, time taken asc.
	Leaderboard(ctx context.Context) ([]domain.Candidate, error)

	// CurrentSettings returns nil without error when no settings row exists.
	CurrentSettings(ctx context.Context) (*domain.QuizSettings, error)
	SaveSettings(ctx context.Context, s domain.QuizSettings) (domain.QuizSettings, error)
}

// Notifier receives the "scores changed" signal after a committed submission.
// Implementations must not block the caller on slow viewers.
type Notifier interface {
	ScoresChanged(ctx context.Context)
}
