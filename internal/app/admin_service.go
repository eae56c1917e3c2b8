package app

import (
	"context"
	"strings"
	"time"

	"quiz-service/internal/domain"
)

// AdminService backs the admin dashboard: accounts, the question bank and quiz settings.
type AdminService struct {
	repo        Repository
	auth        *AuthService
	leaderboard *LeaderboardService
	notifier    Notifier
	now         func() time.Time
}

func NewAdminService(repo Repository, auth *AuthService, leaderboard *LeaderboardService, notifier Notifier) *AdminService {
	return &AdminService{repo: repo, auth: auth, leaderboard: leaderboard, notifier: notifier, now: time.Now}
}

// UserInput is the admin-side account form.
type UserInput struct {
	Name     string
	Email    string
	Whatsapp string
	Password string
	IsAdmin  bool
}

func (s *AdminService) Users(ctx context.Context) ([]domain.Candidate, error) {
	return s.repo.ListCandidates(ctx)
}

// CreateUser adds an account; unlike self-registration the admin may grant the admin flag.
func (s *AdminService) CreateUser(ctx context.Context, in UserInput) (domain.Candidate, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Whatsapp = strings.TrimSpace(in.Whatsapp)
	if in.Name == "" || in.Password == "" || (in.Email == "" && in.Whatsapp == "") {
		return domain.Candidate{}, domain.Invalid("name, password and email or whatsapp are required")
	}
	candidate, err := s.auth.newCandidate(Registration{
		Name:     in.Name,
		Email:    in.Email,
		Whatsapp: in.Whatsapp,
		Password: in.Password,
	}, in.IsAdmin)
	if err != nil {
		return domain.Candidate{}, err
	}
	err = s.repo.RunInTx(ctx, func(ctx context.Context, tx Repository) error {
		if err := ensureUnique(ctx, tx, in.Email, in.Whatsapp); err != nil {
			return err
		}
		return tx.CreateCandidate(ctx, candidate)
	})
	if err != nil {
		return domain.Candidate{}, err
	}
	s.scoresChanged(ctx)
	return candidate, nil
}

// UpdateUser edits profile fields; an empty password keeps the current hash.
func (s *AdminService) UpdateUser(ctx context.Context, id string, in UserInput) (domain.Candidate, error) {
	var updated domain.Candidate
	err := s.repo.RunInTx(ctx, func(ctx context.Context, tx Repository) error {
		current, err := tx.GetCandidate(ctx, id)
		if err != nil {
			return err
		}
		if name := strings.TrimSpace(in.Name); name != "" {
			current.Name = name
		}
		email := strings.TrimSpace(in.Email)
		if email != "" && email != current.Email {
			if err := ensureUnique(ctx, tx, email, ""); err != nil {
				return err
			}
			current.Email = email
		}
		whatsapp := strings.TrimSpace(in.Whatsapp)
		if whatsapp != "" && whatsapp != current.Whatsapp {
			if err := ensureUnique(ctx, tx, "", whatsapp); err != nil {
				return err
			}
			current.Whatsapp = whatsapp
		}
		if in.Password != "" {
			hash, err := hashPassword(in.Password)
			if err != nil {
				return err
			}
			current.PasswordHash = hash
		}
		current.IsAdmin = in.IsAdmin
		updated = current
		return tx.UpdateCandidateProfile(ctx, current)
	})
	if err != nil {
		return domain.Candidate{}, err
	}
	s.scoresChanged(ctx)
	return updated, nil
}

// SetMaxAttempts changes a candidate's attempt budget; -1 removes the limit.
func (s *AdminService) SetMaxAttempts(ctx context.Context, id string, maxAttempts int) error {
	if maxAttempts < domain.UnlimitedAttempts {
		return domain.Invalid("maxAttempts must be -1 or a non-negative number")
	}
	return s.repo.SetMaxAttempts(ctx, id, maxAttempts)
}

// DeleteUser removes the candidate and all of its answers.
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.Invalid("user id is required")
	}
	if err := s.repo.DeleteCandidate(ctx, id); err != nil {
		return err
	}
	s.scoresChanged(ctx)
	return nil
}

func (s *AdminService) Questions(ctx context.Context) ([]domain.Question, error) {
	return s.repo.ListQuestions(ctx)
}

func (s *AdminService) AddQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	if err := validateQuestion(&q); err != nil {
		return domain.Question{}, err
	}
	return s.repo.CreateQuestion(ctx, q)
}

func (s *AdminService) UpdateQuestion(ctx context.Context, q domain.Question) error {
	if q.ID <= 0 {
		return domain.Invalid("question id is required")
	}
	if err := validateQuestion(&q); err != nil {
		return err
	}
	return s.repo.UpdateQuestion(ctx, q)
}

// DeleteQuestion removes a question together with the answers that reference it.
func (s *AdminService) DeleteQuestion(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.Invalid("question id is required")
	}
	return s.repo.DeleteQuestion(ctx, id)
}

// UpdateSettings rewrites the effective settings row.
func (s *AdminService) UpdateSettings(ctx context.Context, timeLimit int, showAnswers bool) (domain.QuizSettings, error) {
	if timeLimit < 0 {
		return domain.QuizSettings{}, domain.Invalid("timeLimit must not be negative")
	}
	var saved domain.QuizSettings
	err := s.repo.RunInTx(ctx, func(ctx context.Context, tx Repository) error {
		current, err := tx.CurrentSettings(ctx)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		saved = domain.QuizSettings{CreatedAt: now}
		if current != nil {
			saved = *current
		}
		saved.TimeLimit = timeLimit
		saved.ShowAnswers = showAnswers
		saved.UpdatedAt = now
		saved, err = tx.SaveSettings(ctx, saved)
		return err
	})
	if err != nil {
		return domain.QuizSettings{}, err
	}
	return saved, nil
}

func (s *AdminService) scoresChanged(ctx context.Context) {
	s.leaderboard.invalidate()
	if s.notifier != nil {
		s.notifier.ScoresChanged(ctx)
	}
}

func validateQuestion(q *domain.Question) error {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return domain.Invalid("question text is required")
	}
	if len(q.Options) < 2 {
		return domain.Invalid("a question needs at least two options")
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return domain.Invalid("correct_answer must index one of the options")
	}
	if q.Points <= 0 {
		q.Points = 1
	}
	return nil
}
