package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-service/internal/domain"

	"github.com/uptrace/bun"
)

// AttemptPolicy returns nil when the candidate has no row yet.
func (s *Store) AttemptPolicy(ctx context.Context, candidateID string) (*domain.AttemptPolicy, error) {
	var row candidateRow
	err := s.idb.NewSelect().
		Model(&row).
		Column("max_attempts", "attempts_count").
		Where("id = ?", candidateID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load attempt policy: %w", err)
	}
	return &domain.AttemptPolicy{MaxAttempts: row.MaxAttempts, AttemptsCount: row.AttemptsCount}, nil
}

// UpsertResult records the latest attempt. An existing row keeps its identity fields
// and has attempts_count incremented in place; a new row starts at one attempt.
func (s *Store) UpsertResult(ctx context.Context, result domain.AttemptResult) (bool, error) {
	exists, err := s.idb.NewSelect().Model((*candidateRow)(nil)).Where("id = ?", result.CandidateID).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check candidate: %w", err)
	}

	if exists {
		_, err := s.idb.NewUpdate().
			Model((*candidateRow)(nil)).
			Set("score = ?", result.Score).
			Set("total_questions = ?", result.TotalQuestions).
			Set("time_taken = ?", result.TimeTaken).
			Set("completed_at = ?", result.CompletedAt).
			Set("attempts_count = attempts_count + 1").
			Where("id = ?", result.CandidateID).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("update candidate result: %w", err)
		}
		return false, nil
	}

	row := candidateRow{
		ID:             result.CandidateID,
		Name:           result.Name,
		Email:          result.Email,
		Whatsapp:       result.Whatsapp,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		TimeTaken:      result.TimeTaken,
		CompletedAt:    result.CompletedAt,
		CreatedAt:      result.CompletedAt,
		MaxAttempts:    domain.UnlimitedAttempts,
		AttemptsCount:  1,
	}
	if _, err := s.idb.NewInsert().Model(&row).Exec(ctx); err != nil {
		return false, fmt.Errorf("insert candidate result: %w", err)
	}
	return true, nil
}

func (s *Store) GetCandidate(ctx context.Context, id string) (domain.Candidate, error) {
	return s.findCandidate(ctx, "id = ?", id)
}

func (s *Store) FindCandidateByEmail(ctx context.Context, email string) (domain.Candidate, error) {
	return s.findCandidate(ctx, "email = ?", email)
}

func (s *Store) FindCandidateByWhatsapp(ctx context.Context, whatsapp string) (domain.Candidate, error) {
	return s.findCandidate(ctx, "whatsapp = ?", whatsapp)
}

func (s *Store) findCandidate(ctx context.Context, where string, arg interface{}) (domain.Candidate, error) {
	var row candidateRow
	err := s.idb.NewSelect().Model(&row).Where(where, arg).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Candidate{}, domain.ErrCandidateNotFound
	}
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("get candidate: %w", err)
	}
	return candidateFromRow(row), nil
}

// ListCandidates returns every account, newest first.
func (s *Store) ListCandidates(ctx context.Context) ([]domain.Candidate, error) {
	return s.selectCandidates(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("created_at DESC", "id ASC")
	})
}

// Leaderboard orders by score desc then time taken asc; id breaks remaining ties.
func (s *Store) Leaderboard(ctx context.Context) ([]domain.Candidate, error) {
	return s.selectCandidates(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("score DESC", "time_taken ASC", "id ASC")
	})
}

func (s *Store) selectCandidates(ctx context.Context, apply func(*bun.SelectQuery) *bun.SelectQuery) ([]domain.Candidate, error) {
	var rows []candidateRow
	if err := apply(s.idb.NewSelect().Model(&rows)).Scan(ctx); err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	out := make([]domain.Candidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, candidateFromRow(row))
	}
	return out, nil
}

func (s *Store) CreateCandidate(ctx context.Context, c domain.Candidate) error {
	row := candidateToRow(c)
	if _, err := s.idb.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("create candidate: %w", err)
	}
	return nil
}

// UpdateCandidateProfile rewrites identity and credential fields, leaving attempt data alone.
func (s *Store) UpdateCandidateProfile(ctx context.Context, c domain.Candidate) error {
	row := candidateToRow(c)
	res, err := s.idb.NewUpdate().
		Model(&row).
		Column("name", "email", "whatsapp", "password_hash", "is_admin").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update candidate: %w", err)
	}
	return requireAffected(res, domain.ErrCandidateNotFound)
}

func (s *Store) SetMaxAttempts(ctx context.Context, id string, maxAttempts int) error {
	res, err := s.idb.NewUpdate().
		Model((*candidateRow)(nil)).
		Set("max_attempts = ?", maxAttempts).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("set max attempts: %w", err)
	}
	return requireAffected(res, domain.ErrCandidateNotFound)
}

// DeleteCandidate removes the candidate and its answers.
func (s *Store) DeleteCandidate(ctx context.Context, id string) error {
	return s.withTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		if _, err := tx.NewDelete().Model((*answerRow)(nil)).Where("candidate_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete answers of candidate: %w", err)
		}
		res, err := tx.NewDelete().Model((*candidateRow)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete candidate: %w", err)
		}
		return requireAffected(res, domain.ErrCandidateNotFound)
	})
}

func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	n, err := s.idb.NewSelect().Model((*candidateRow)(nil)).Where("is_admin = ?", true).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}
