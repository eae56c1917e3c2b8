package sqlstore

import (
	"context"
	"fmt"

	"quiz-service/internal/domain"
)

// InsertAnswers appends graded answers; earlier submissions' rows are kept.
func (s *Store) InsertAnswers(ctx context.Context, answers []domain.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	rows := make([]answerRow, 0, len(answers))
	for _, a := range answers {
		rows = append(rows, answerRow{
			CandidateID: a.CandidateID,
			QuestionID:  a.QuestionID,
			Answer:      a.Selected,
			IsCorrect:   a.IsCorrect,
		})
	}
	if _, err := s.idb.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("insert answers: %w", err)
	}
	return nil
}

// CountAnswers reports how many answer rows a candidate has.
func (s *Store) CountAnswers(ctx context.Context, candidateID string) (int, error) {
	n, err := s.idb.NewSelect().Model((*answerRow)(nil)).Where("candidate_id = ?", candidateID).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count answers: %w", err)
	}
	return n, nil
}
