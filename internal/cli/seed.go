package cli

import (
	"context"
	"log"
	"time"

	"quiz-service/internal/app"
	"quiz-service/internal/config"
	"quiz-service/internal/domain"
	"quiz-service/internal/infra/memory"
	pgbank "quiz-service/internal/infra/postgres"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewSeedCmd fills an empty database with questions, default settings and the admin account.
func NewSeedCmd(configPath *string) *cobra.Command {
	var bankURL, bankID string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed questions, settings and the default admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if bankURL != "" {
				cfg.Bank.PostgresURL = bankURL
			}
			if bankID != "" {
				cfg.Bank.ID = bankID
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			return seed(cmd.Context(), store, cfg)
		},
	}
	cmd.Flags().StringVar(&bankURL, "bank-url", "", "postgres URL of an external question bank")
	cmd.Flags().StringVar(&bankID, "bank-id", "", "question bank id to import")
	return cmd
}

func seed(ctx context.Context, repo app.Repository, cfg config.Config) error {
	auth := app.NewAuthService(repo, cfg.Auth.JWTSecret, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))

	var loader app.QuestionLoader = memory.NewStaticQuestionLoader(map[string][]domain.Question{
		memory.DefaultBank: app.SampleQuestions(),
	})
	bank := cfg.Bank.ID
	if cfg.Bank.PostgresURL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Bank.PostgresURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgbank.NewQuestionLoader(pool)
		log.Printf("seed: using question bank %q from postgres", bank)
	}

	return app.NewSeeder(repo, auth).Seed(ctx, app.SeedOptions{
		Loader: loader,
		BankID: bank,
		Admin: app.Registration{
			Name:     cfg.Admin.Name,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		},
	})
}
