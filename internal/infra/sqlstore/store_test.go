package sqlstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"quiz-service/internal/app"
	"quiz-service/internal/domain"
	"quiz-service/internal/infra/sqlstore"

	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	ctx := context.Background()
	store, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))
	return store
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestQuestionCRUD(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	created, err := store.CreateQuestion(ctx, domain.Question{
		Text:          "What is 2 + 2?",
		Options:       []string{"3", "4", "5"},
		CorrectAnswer: 1,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, 1, created.Points)

	got, err := store.GetQuestion(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"3", "4", "5"}, got.Options)

	got.Text = "What is 3 + 1?"
	got.Points = 2
	require.NoError(t, store.UpdateQuestion(ctx, got))

	byID, err := store.QuestionsByID(ctx, []int64{created.ID, 999})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	require.Equal(t, "What is 3 + 1?", byID[created.ID].Text)
	require.Equal(t, 2, byID[created.ID].Points)

	require.NoError(t, store.InsertAnswers(ctx, []domain.Answer{{CandidateID: "c1", QuestionID: created.ID, Selected: 1, IsCorrect: true}}))
	require.NoError(t, store.DeleteQuestion(ctx, created.ID))

	_, err = store.GetQuestion(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrQuestionNotFound)
	n, err := store.CountAnswers(ctx, "c1")
	require.NoError(t, err)
	require.Zero(t, n)

	require.ErrorIs(t, store.DeleteQuestion(ctx, created.ID), domain.ErrQuestionNotFound)
}

func TestUpsertResultCreatesThenIncrements(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	policy, err := store.AttemptPolicy(ctx, "c1")
	require.NoError(t, err)
	require.Nil(t, policy)

	created, err := store.UpsertResult(ctx, domain.AttemptResult{
		CandidateID: "c1", Name: "Alice", Email: "alice@example.com",
		Score: 3, TotalQuestions: 2, TimeTaken: 40, CompletedAt: first,
	})
	require.NoError(t, err)
	require.True(t, created)

	created, err = store.UpsertResult(ctx, domain.AttemptResult{
		CandidateID: "c1", Name: "Someone else",
		Score: 1, TotalQuestions: 2, TimeTaken: 55, CompletedAt: first.Add(time.Hour),
	})
	require.NoError(t, err)
	require.False(t, created)

	c, err := store.GetCandidate(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "Alice", c.Name)
	require.Equal(t, "alice@example.com", c.Email)
	require.Equal(t, 1, c.Score)
	require.Equal(t, 55, c.TimeTaken)
	require.Equal(t, 2, c.AttemptsCount)
	require.Equal(t, domain.UnlimitedAttempts, c.MaxAttempts)
	require.NotNil(t, c.CompletedAt)
	require.True(t, c.CompletedAt.Equal(first.Add(time.Hour)))
}

func TestLeaderboardOrdering(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	now := time.Now().UTC()

	for _, r := range []domain.AttemptResult{
		{CandidateID: "a", Name: "A", Score: 3, TimeTaken: 50, CompletedAt: now},
		{CandidateID: "b", Name: "B", Score: 3, TimeTaken: 40, CompletedAt: now},
		{CandidateID: "c", Name: "C", Score: 5, TimeTaken: 90, CompletedAt: now},
	} {
		_, err := store.UpsertResult(ctx, r)
		require.NoError(t, err)
	}

	rows, err := store.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"c", "b", "a"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
}

func TestRunInTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	boom := errors.New("boom")

	err := store.RunInTx(ctx, func(ctx context.Context, tx app.Repository) error {
		if err := tx.InsertAnswers(ctx, []domain.Answer{{CandidateID: "c1", QuestionID: 1, Selected: 0}}); err != nil {
			return err
		}
		if _, err := tx.UpsertResult(ctx, domain.AttemptResult{CandidateID: "c1", Name: "A", CompletedAt: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.GetCandidate(ctx, "c1")
	require.ErrorIs(t, err, domain.ErrCandidateNotFound)
	n, err := store.CountAnswers(ctx, "c1")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestCandidateAccounts(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	require.NoError(t, store.CreateCandidate(ctx, domain.Candidate{
		ID: "admin", Name: "Admin", Email: "admin@quiz.com", PasswordHash: "x",
		IsAdmin: true, MaxAttempts: domain.UnlimitedAttempts, CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, store.CreateCandidate(ctx, domain.Candidate{
		ID: "u1", Name: "User", Whatsapp: "+100", PasswordHash: "y",
		MaxAttempts: domain.UnlimitedAttempts, CreatedAt: time.Now().UTC(),
	}))

	admins, err := store.CountAdmins(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, admins)

	byMail, err := store.FindCandidateByEmail(ctx, "admin@quiz.com")
	require.NoError(t, err)
	require.Equal(t, "admin", byMail.ID)

	byPhone, err := store.FindCandidateByWhatsapp(ctx, "+100")
	require.NoError(t, err)
	require.Equal(t, "u1", byPhone.ID)

	require.NoError(t, store.SetMaxAttempts(ctx, "u1", 2))
	policy, err := store.AttemptPolicy(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, &domain.AttemptPolicy{MaxAttempts: 2, AttemptsCount: 0}, policy)

	byPhone.Name = "Renamed"
	require.NoError(t, store.UpdateCandidateProfile(ctx, byPhone))

	all, err := store.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, store.DeleteCandidate(ctx, "u1"))
	require.ErrorIs(t, store.DeleteCandidate(ctx, "u1"), domain.ErrCandidateNotFound)
	require.ErrorIs(t, store.SetMaxAttempts(ctx, "ghost", 1), domain.ErrCandidateNotFound)
}

func TestSettingsLatestRowWins(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	current, err := store.CurrentSettings(ctx)
	require.NoError(t, err)
	require.Nil(t, current)

	now := time.Now().UTC()
	first, err := store.SaveSettings(ctx, domain.QuizSettings{TimeLimit: 10, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	_, err = store.SaveSettings(ctx, domain.QuizSettings{TimeLimit: 20, ShowAnswers: true, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	current, err = store.CurrentSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, 20, current.TimeLimit)
	require.True(t, current.ShowAnswers)

	current.TimeLimit = 5
	_, err = store.SaveSettings(ctx, *current)
	require.NoError(t, err)
	again, err := store.CurrentSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, current.ID, again.ID)
	require.Equal(t, 5, again.TimeLimit)
}
