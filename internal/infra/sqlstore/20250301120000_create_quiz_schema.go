package sqlstore

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrations holds the schema history applied by Store.Migrate and the migrate command.
var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				models := []interface{}{
					(*questionRow)(nil),
					(*candidateRow)(nil),
					(*answerRow)(nil),
					(*settingsRow)(nil),
				}
				for _, model := range models {
					if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
						return err
					}
				}
				_, err := tx.NewCreateIndex().
					Model((*answerRow)(nil)).
					Index("answers_candidate_id_idx").
					Column("candidate_id").
					IfNotExists().
					Exec(ctx)
				return err
			})
		},
		func(ctx context.Context, db *bun.DB) error {
			for _, table := range []string{"answers", "quiz_settings", "candidates", "questions"} {
				if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
					return err
				}
			}
			return nil
		},
	)
}
