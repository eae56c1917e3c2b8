package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"quiz-service/internal/app"
	"quiz-service/internal/domain"
	pgbank "quiz-service/internal/infra/postgres"
	infraredis "quiz-service/internal/infra/redis"
	"quiz-service/internal/infra/sqlstore"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestSubmitEndToEndOnPostgres(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()
	seedBank(t, ctx, pool, "bank-1", []domain.Question{
		{Text: "Q1", Options: []string{"a", "b", "c"}, CorrectAnswer: 0, Points: 1},
		{Text: "Q2", Options: []string{"a", "b", "c"}, CorrectAnswer: 1, Points: 2},
	})

	store, err := sqlstore.Open(ctx, sqlstore.DriverPostgres, pgURL)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	auth := app.NewAuthService(store, "integration-secret", time.Hour)
	err = app.NewSeeder(store, auth).Seed(ctx, app.SeedOptions{
		Loader: pgbank.NewQuestionLoader(pool),
		BankID: "bank-1",
		Admin:  app.Registration{Email: "admin@quiz.com", Password: "admin123"},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	broadcaster := app.NewBroadcaster()
	notifier := infraredis.NewNotifier(redisClient, "", time.Minute)
	ready := make(chan struct{})
	relayDone := make(chan error, 1)
	go func() { relayDone <- notifier.Relay(ctx, broadcaster, ready) }()
	select {
	case <-ready:
	case err := <-relayDone:
		t.Fatalf("relay: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatalf("relay never subscribed")
	}

	updates, unsubscribe := broadcaster.Subscribe()
	defer unsubscribe()

	leaderboard := app.NewLeaderboardService(store)
	service := app.NewQuizService(store, leaderboard, notifier)

	set, err := service.Questions(ctx)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(set.Questions) != 2 {
		t.Fatalf("expected 2 seeded questions, got %d", len(set.Questions))
	}

	res, err := service.Submit(ctx, domain.Submission{
		CandidateID:   "cand-1",
		CandidateName: "Alice",
		Answers: []domain.AnswerSubmission{
			{QuestionID: set.Questions[0].ID, SelectedAnswer: 0},
			{QuestionID: set.Questions[1].ID, SelectedAnswer: 2},
		},
		TimeTaken: 45,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Score != 1 || res.TotalQuestions != 2 || res.Percentage != 25 {
		t.Fatalf("unexpected result %+v", res)
	}

	select {
	case ev := <-updates:
		if ev.Type != domain.EventScoresUpdated {
			t.Fatalf("unexpected event %q", ev.Type)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no scores-updated event relayed through redis")
	}

	if _, err := notifier.LastUpdate(ctx); err != nil {
		t.Fatalf("last update: %v", err)
	}

	rows, err := leaderboard.Standings(ctx)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != "cand-1" || rows[0].Percentage != 25 {
		t.Fatalf("expected cand-1 leading the board, got %+v", rows)
	}

	status, err := service.CanAttempt(ctx, "cand-1")
	if err != nil {
		t.Fatalf("can attempt: %v", err)
	}
	if !status.CanAttempt || status.AttemptsCount != 1 {
		t.Fatalf("unexpected attempt status %+v", status)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedBank(t *testing.T, ctx context.Context, pool *pgxpool.Pool, id string, questions []domain.Question) {
	t.Helper()
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS question_banks (id TEXT PRIMARY KEY, data JSONB NOT NULL)`); err != nil {
		t.Fatalf("create question_banks: %v", err)
	}
	data, err := json.Marshal(map[string]any{"questions": questions})
	if err != nil {
		t.Fatalf("marshal bank: %v", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO question_banks (id, data) VALUES ($1, $2::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`, id, string(data)); err != nil {
		t.Fatalf("insert bank: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
