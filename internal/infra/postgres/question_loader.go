package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quiz-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader reads question banks stored as JSONB documents in an external Postgres.
//
//	CREATE TABLE question_banks (id TEXT PRIMARY KEY, data JSONB NOT NULL);
//
// data holds {"questions": [{"text": ..., "options": [...], "correct_answer": n, "points": n}]}.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

type bankDocument struct {
	Questions []domain.Question `json:"questions"`
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, bankID string) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE id=$1`, bankID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("question bank %q: %w", bankID, domain.ErrQuestionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	var doc bankDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal question bank: %w", err)
	}
	// ids belong to the source bank; the store assigns its own
	for i := range doc.Questions {
		doc.Questions[i].ID = 0
	}
	return doc.Questions, nil
}
