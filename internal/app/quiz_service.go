package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"quiz-service/internal/domain"
)

// QuizService contains the quiz-taking use cases: serving questions and settings,
// gating attempts, and the submission pipeline.
type QuizService struct {
	repo        Repository
	leaderboard *LeaderboardService
	notifier    Notifier
	now         func() time.Time
	locks       *candidateLocks
}

func NewQuizService(repo Repository, leaderboard *LeaderboardService, notifier Notifier) *QuizService {
	return NewQuizServiceWithClock(repo, leaderboard, notifier, time.Now)
}

// NewQuizServiceWithClock allows deterministic completion timestamps in tests.
func NewQuizServiceWithClock(repo Repository, leaderboard *LeaderboardService, notifier Notifier, now func() time.Time) *QuizService {
	return &QuizService{
		repo:        repo,
		leaderboard: leaderboard,
		notifier:    notifier,
		now:         now,
		locks:       newCandidateLocks(),
	}
}

// QuestionSet is the payload served to quiz takers.
type QuestionSet struct {
	Questions   []domain.Question
	ShowAnswers bool
}

// Questions returns all questions in id order along with the show-answers flag.
func (s *QuizService) Questions(ctx context.Context) (QuestionSet, error) {
	questions, err := s.repo.ListQuestions(ctx)
	if err != nil {
		return QuestionSet{}, err
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return QuestionSet{}, err
	}
	return QuestionSet{Questions: questions, ShowAnswers: settings.ShowAnswers}, nil
}

// Question returns one question including its correct answer.
func (s *QuizService) Question(ctx context.Context, id int64) (domain.Question, error) {
	return s.repo.GetQuestion(ctx, id)
}

// Settings returns the effective quiz settings, or the defaults when none were saved.
func (s *QuizService) Settings(ctx context.Context) (domain.QuizSettings, error) {
	settings, err := s.repo.CurrentSettings(ctx)
	if err != nil {
		return domain.QuizSettings{}, err
	}
	if settings == nil {
		return domain.QuizSettings{TimeLimit: 0, ShowAnswers: false}, nil
	}
	return *settings, nil
}

// CanAttempt reports the attempt gate state for a candidate.
func (s *QuizService) CanAttempt(ctx context.Context, candidateID string) (domain.AttemptStatus, error) {
	policy, err := s.repo.AttemptPolicy(ctx, candidateID)
	if err != nil {
		return domain.AttemptStatus{}, err
	}
	return policy.Status(), nil
}

// CandidateInfo returns the candidate profile with its latest aggregate.
func (s *QuizService) CandidateInfo(ctx context.Context, candidateID string) (domain.Candidate, error) {
	return s.repo.GetCandidate(ctx, candidateID)
}

// Submit grades and records one attempt.
//
// The gate check, answer inserts and candidate upsert share one transaction; the
// scores-changed signal fires only after it committed.
func (s *QuizService) Submit(ctx context.Context, sub domain.Submission) (domain.SubmitResult, error) {
	if err := validateSubmission(sub); err != nil {
		return domain.SubmitResult{}, err
	}

	unlock := s.locks.lock(sub.CandidateID)
	defer unlock()

	var grading Grading
	err := s.repo.RunInTx(ctx, func(ctx context.Context, tx Repository) error {
		policy, err := tx.AttemptPolicy(ctx, sub.CandidateID)
		if err != nil {
			return err
		}
		if err := policy.Check(); err != nil {
			return err
		}

		questions, err := tx.QuestionsByID(ctx, questionIDs(sub.Answers))
		if err != nil {
			return err
		}
		grading = Grade(sub.CandidateID, sub.Answers, questions)

		if err := tx.InsertAnswers(ctx, grading.Answers); err != nil {
			return err
		}

		name := strings.TrimSpace(sub.CandidateName)
		if name == "" {
			name = domain.DefaultCandidateName
		}
		_, err = tx.UpsertResult(ctx, domain.AttemptResult{
			CandidateID:    sub.CandidateID,
			Name:           name,
			Email:          sub.Email,
			Whatsapp:       sub.Whatsapp,
			Score:          grading.Score,
			TotalQuestions: grading.TotalQuestions,
			TimeTaken:      sub.TimeTaken,
			CompletedAt:    s.now().UTC(),
		})
		return err
	})
	if err != nil {
		var limitErr *domain.AttemptLimitError
		if errors.As(err, &limitErr) {
			return domain.SubmitResult{}, err
		}
		return domain.SubmitResult{}, fmt.Errorf("%w: submit: %v", domain.ErrPersistence, err)
	}

	if len(grading.Skipped) > 0 {
		log.Printf("submit: candidate %s referenced %d unknown question(s): %v", sub.CandidateID, len(grading.Skipped), grading.Skipped)
	}

	s.leaderboard.invalidate()
	if s.notifier != nil {
		s.notifier.ScoresChanged(ctx)
	}

	return domain.SubmitResult{
		Score:          grading.Score,
		TotalQuestions: grading.TotalQuestions,
		Percentage:     domain.Percentage(grading.Score, grading.TotalQuestions),
		AnswerDetails:  grading.Details,
		Skipped:        grading.Skipped,
	}, nil
}

func validateSubmission(sub domain.Submission) error {
	if strings.TrimSpace(sub.CandidateID) == "" {
		return domain.Invalid("candidateId is required")
	}
	if sub.Answers == nil {
		return domain.Invalid("answers must be an array")
	}
	if sub.TimeTaken < 0 {
		return domain.Invalid("timeTaken must not be negative")
	}
	return nil
}
