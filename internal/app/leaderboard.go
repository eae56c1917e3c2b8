package app

import (
	"context"
	"strconv"
	"sync/atomic"

	"quiz-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

// LeaderboardService projects ranked standings from the candidate aggregates.
//
// Concurrent reads of the same generation share one query. The generation moves
// forward after every committed submission, so a read that starts after a
// scores-updated signal never joins a query issued before the commit.
type LeaderboardService struct {
	repo       Repository
	sf         singleflight.Group
	generation atomic.Uint64
}

func NewLeaderboardService(repo Repository) *LeaderboardService {
	return &LeaderboardService{repo: repo}
}

// Standings returns every candidate ordered by score desc then time taken asc.
func (l *LeaderboardService) Standings(ctx context.Context) ([]domain.ScoreSummary, error) {
	key := "leaderboard:" + strconv.FormatUint(l.generation.Load(), 10)
	// the query is shared by every caller in the flight, so no single caller may cancel it
	shared := context.WithoutCancel(ctx)
	result, err, _ := l.sf.Do(key, func() (interface{}, error) {
		candidates, err := l.repo.Leaderboard(shared)
		if err != nil {
			return nil, err
		}
		summaries := make([]domain.ScoreSummary, 0, len(candidates))
		for _, c := range candidates {
			summaries = append(summaries, summarize(c))
		}
		return summaries, nil
	})
	if err != nil {
		return nil, err
	}
	rows := result.([]domain.ScoreSummary)
	// callers may filter in place; hand out a private copy
	out := make([]domain.ScoreSummary, len(rows))
	copy(out, rows)
	return out, nil
}

// ExcludeAdmins drops admin rows, as the public and dashboard views do.
func ExcludeAdmins(rows []domain.ScoreSummary) []domain.ScoreSummary {
	out := rows[:0]
	for _, row := range rows {
		if !row.IsAdmin {
			out = append(out, row)
		}
	}
	return out
}

// Score returns the summary of a single candidate.
func (l *LeaderboardService) Score(ctx context.Context, candidateID string) (domain.ScoreSummary, error) {
	c, err := l.repo.GetCandidate(ctx, candidateID)
	if err != nil {
		return domain.ScoreSummary{}, err
	}
	return summarize(c), nil
}

func (l *LeaderboardService) invalidate() {
	l.generation.Add(1)
}

func summarize(c domain.Candidate) domain.ScoreSummary {
	return domain.ScoreSummary{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Score:          c.Score,
		TotalQuestions: c.TotalQuestions,
		TimeTaken:      c.TimeTaken,
		CompletedAt:    c.CompletedAt,
		Percentage:     domain.Percentage(c.Score, c.TotalQuestions),
		IsAdmin:        c.IsAdmin,
	}
}
