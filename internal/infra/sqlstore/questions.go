package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-service/internal/domain"

	"github.com/uptrace/bun"
)

func (s *Store) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	var rows []questionRow
	if err := s.idb.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	questions := make([]domain.Question, 0, len(rows))
	for _, row := range rows {
		q, err := questionFromRow(row)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// QuestionsByID loads the referenced questions in one query. Unknown ids are absent from the map.
func (s *Store) QuestionsByID(ctx context.Context, ids []int64) (map[int64]domain.Question, error) {
	out := make(map[int64]domain.Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []questionRow
	if err := s.idb.NewSelect().Model(&rows).Where("id IN (?)", bun.In(ids)).Scan(ctx); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	for _, row := range rows {
		q, err := questionFromRow(row)
		if err != nil {
			return nil, err
		}
		out[q.ID] = q
	}
	return out, nil
}

func (s *Store) GetQuestion(ctx context.Context, id int64) (domain.Question, error) {
	var row questionRow
	err := s.idb.NewSelect().Model(&row).Where("id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("get question: %w", err)
	}
	return questionFromRow(row)
}

func (s *Store) CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	row, err := questionToRow(q)
	if err != nil {
		return domain.Question{}, err
	}
	row.ID = 0
	if _, err := s.idb.NewInsert().Model(&row).Exec(ctx); err != nil {
		return domain.Question{}, fmt.Errorf("create question: %w", err)
	}
	return questionFromRow(row)
}

func (s *Store) UpdateQuestion(ctx context.Context, q domain.Question) error {
	row, err := questionToRow(q)
	if err != nil {
		return err
	}
	res, err := s.idb.NewUpdate().
		Model(&row).
		Column("text", "options_json", "correct_answer", "points").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return requireAffected(res, domain.ErrQuestionNotFound)
}

// DeleteQuestion removes the question and every answer that references it.
func (s *Store) DeleteQuestion(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		if _, err := tx.NewDelete().Model((*answerRow)(nil)).Where("question_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete answers of question: %w", err)
		}
		res, err := tx.NewDelete().Model((*questionRow)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete question: %w", err)
		}
		return requireAffected(res, domain.ErrQuestionNotFound)
	})
}

func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	n, err := s.idb.NewSelect().Model((*questionRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
