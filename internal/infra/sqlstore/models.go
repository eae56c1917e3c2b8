package sqlstore

import (
	"encoding/json"
	"fmt"
	"time"

	"quiz-service/internal/domain"

	"github.com/uptrace/bun"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID            int64  `bun:"id,pk,autoincrement"`
	Text          string `bun:"text,notnull"`
	OptionsJSON   string `bun:"options_json,notnull"`
	CorrectAnswer int    `bun:"correct_answer,notnull"`
	Points        int    `bun:"points,notnull,default:1"`
}

type candidateRow struct {
	bun.BaseModel `bun:"table:candidates,alias:c"`

	ID             string    `bun:"id,pk"`
	Name           string    `bun:"name,notnull"`
	Email          string    `bun:"email,nullzero"`
	Whatsapp       string    `bun:"whatsapp,nullzero"`
	PasswordHash   string    `bun:"password_hash,nullzero"`
	Score          int       `bun:"score,notnull,default:0"`
	TotalQuestions int       `bun:"total_questions,notnull,default:0"`
	TimeTaken      int       `bun:"time_taken,notnull,default:0"`
	CompletedAt    time.Time `bun:"completed_at,nullzero"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	IsAdmin        bool      `bun:"is_admin,notnull,default:false"`
	MaxAttempts    int       `bun:"max_attempts,notnull,default:-1"`
	AttemptsCount  int       `bun:"attempts_count,notnull,default:0"`
}

type answerRow struct {
	bun.BaseModel `bun:"table:answers,alias:a"`

	ID          int64  `bun:"id,pk,autoincrement"`
	CandidateID string `bun:"candidate_id,notnull"`
	QuestionID  int64  `bun:"question_id,notnull"`
	Answer      int    `bun:"answer,notnull"`
	IsCorrect   bool   `bun:"is_correct,notnull,default:false"`
}

type settingsRow struct {
	bun.BaseModel `bun:"table:quiz_settings,alias:s"`

	ID          int64     `bun:"id,pk,autoincrement"`
	TimeLimit   int       `bun:"time_limit,notnull,default:0"`
	ShowAnswers bool      `bun:"show_answers,notnull,default:false"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func questionFromRow(row questionRow) (domain.Question, error) {
	var options []string
	if err := json.Unmarshal([]byte(row.OptionsJSON), &options); err != nil {
		return domain.Question{}, fmt.Errorf("decode options of question %d: %w", row.ID, err)
	}
	return domain.Question{
		ID:            row.ID,
		Text:          row.Text,
		Options:       options,
		CorrectAnswer: row.CorrectAnswer,
		Points:        row.Points,
	}, nil
}

func questionToRow(q domain.Question) (questionRow, error) {
	options := q.Options
	if options == nil {
		options = []string{}
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return questionRow{}, fmt.Errorf("encode options: %w", err)
	}
	points := q.Points
	if points <= 0 {
		points = 1
	}
	return questionRow{
		ID:            q.ID,
		Text:          q.Text,
		OptionsJSON:   string(raw),
		CorrectAnswer: q.CorrectAnswer,
		Points:        points,
	}, nil
}

func candidateFromRow(row candidateRow) domain.Candidate {
	c := domain.Candidate{
		ID:             row.ID,
		Name:           row.Name,
		Email:          row.Email,
		Whatsapp:       row.Whatsapp,
		PasswordHash:   row.PasswordHash,
		Score:          row.Score,
		TotalQuestions: row.TotalQuestions,
		TimeTaken:      row.TimeTaken,
		CreatedAt:      row.CreatedAt,
		IsAdmin:        row.IsAdmin,
		MaxAttempts:    row.MaxAttempts,
		AttemptsCount:  row.AttemptsCount,
	}
	if !row.CompletedAt.IsZero() {
		completed := row.CompletedAt
		c.CompletedAt = &completed
	}
	return c
}

func candidateToRow(c domain.Candidate) candidateRow {
	row := candidateRow{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Whatsapp:       c.Whatsapp,
		PasswordHash:   c.PasswordHash,
		Score:          c.Score,
		TotalQuestions: c.TotalQuestions,
		TimeTaken:      c.TimeTaken,
		CreatedAt:      c.CreatedAt,
		IsAdmin:        c.IsAdmin,
		MaxAttempts:    c.MaxAttempts,
		AttemptsCount:  c.AttemptsCount,
	}
	if c.CompletedAt != nil {
		row.CompletedAt = *c.CompletedAt
	}
	return row
}

func settingsFromRow(row settingsRow) domain.QuizSettings {
	return domain.QuizSettings{
		ID:          row.ID,
		TimeLimit:   row.TimeLimit,
		ShowAnswers: row.ShowAnswers,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
