package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-service/internal/domain"
)

// CurrentSettings returns the most recent settings row, or nil when none exists.
func (s *Store) CurrentSettings(ctx context.Context) (*domain.QuizSettings, error) {
	var row settingsRow
	err := s.idb.NewSelect().Model(&row).Order("id DESC").Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	settings := settingsFromRow(row)
	return &settings, nil
}

// SaveSettings inserts a row when settings.ID is zero and updates that row otherwise.
func (s *Store) SaveSettings(ctx context.Context, settings domain.QuizSettings) (domain.QuizSettings, error) {
	row := settingsRow{
		ID:          settings.ID,
		TimeLimit:   settings.TimeLimit,
		ShowAnswers: settings.ShowAnswers,
		CreatedAt:   settings.CreatedAt,
		UpdatedAt:   settings.UpdatedAt,
	}
	if row.ID == 0 {
		if _, err := s.idb.NewInsert().Model(&row).Exec(ctx); err != nil {
			return domain.QuizSettings{}, fmt.Errorf("insert settings: %w", err)
		}
		return settingsFromRow(row), nil
	}
	_, err := s.idb.NewUpdate().
		Model(&row).
		Column("time_limit", "show_answers", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.QuizSettings{}, fmt.Errorf("update settings: %w", err)
	}
	return settingsFromRow(row), nil
}
