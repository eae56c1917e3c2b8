package domain

import "time"

// UnlimitedAttempts is the max_attempts value that disables the attempt gate.
const UnlimitedAttempts = -1

// Unanswered is the selected-option sentinel for a question the candidate skipped.
const Unanswered = -1

// DefaultCandidateName is stored when a submission arrives without a name.
const DefaultCandidateName = "Anonymous"

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID            int64    `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Points        int      `json:"points"` // defaults to 1 if zero
}

// Candidate is a quiz taker (or admin) with credentials and the aggregate of the latest attempt.
type Candidate struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	Whatsapp       string     `json:"whatsapp,omitempty"`
	PasswordHash   string     `json:"-"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	TimeTaken      int        `json:"time_taken"`
	CompletedAt    *time.Time `json:"completed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	IsAdmin        bool       `json:"is_admin"`
	MaxAttempts    int        `json:"max_attempts"`
	AttemptsCount  int        `json:"attempts_count"`
}

// AttemptPolicy is the slice of a candidate row the attempt gate needs.
type AttemptPolicy struct {
	MaxAttempts   int
	AttemptsCount int
}

// Answer is one graded (candidate, question) pair of a submission.
type Answer struct {
	ID          int64
	CandidateID string
	QuestionID  int64
	Selected    int
	IsCorrect   bool
}

// QuizSettings holds the quiz-wide options; only the latest row is effective.
type QuizSettings struct {
	ID          int64     `json:"-"`
	TimeLimit   int       `json:"timeLimit"` // minutes, 0 means unlimited
	ShowAnswers bool      `json:"showAnswers"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// TimeLimitSeconds converts the configured limit for the client countdown.
func (s QuizSettings) TimeLimitSeconds() int {
	return s.TimeLimit * 60
}

// AnswerSubmission models one submitted (question, option) pair.
type AnswerSubmission struct {
	QuestionID     int64
	SelectedAnswer int
}

// Submission is a full attempt sent by a candidate.
type Submission struct {
	CandidateID   string
	CandidateName string
	Email         string
	Whatsapp      string
	Answers       []AnswerSubmission
	TimeTaken     int // seconds
}

// AnswerDetail is the per-question review returned after grading.
type AnswerDetail struct {
	QuestionID     int64    `json:"questionId"`
	QuestionText   string   `json:"questionText"`
	Options        []string `json:"options"`
	CorrectAnswer  int      `json:"correctAnswer"`
	SelectedAnswer int      `json:"selectedAnswer"`
	IsCorrect      bool     `json:"isCorrect"`
	Points         int      `json:"points"`
}

// AttemptResult is the aggregate written to the candidate row after grading.
type AttemptResult struct {
	CandidateID    string
	Name           string
	Email          string
	Whatsapp       string
	Score          int
	TotalQuestions int
	TimeTaken      int
	CompletedAt    time.Time
}

// SubmitResult summarizes a committed submission.
type SubmitResult struct {
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	Percentage     int            `json:"percentage"`
	AnswerDetails  []AnswerDetail `json:"answerDetails"`
	Skipped        []int64        `json:"-"`
}

// AttemptStatus answers "may this candidate submit again".
type AttemptStatus struct {
	CanAttempt        bool `json:"canAttempt"`
	RemainingAttempts int  `json:"remainingAttempts"`
	MaxAttempts       int  `json:"maxAttempts"`
	AttemptsCount     int  `json:"attemptsCount"`
}

// ScoreSummary is one leaderboard row.
type ScoreSummary struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	TimeTaken      int        `json:"time_taken"`
	CompletedAt    *time.Time `json:"completed_at"`
	Percentage     int        `json:"percentage"`
	IsAdmin        bool       `json:"is_admin"`
}

// LiveEvent is pushed to every connected viewer; it carries no payload.
type LiveEvent struct {
	Type string `json:"type"`
}

// EventScoresUpdated tells viewers to re-fetch the leaderboard.
const EventScoresUpdated = "scores-updated"
