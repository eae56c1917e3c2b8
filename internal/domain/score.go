package domain

import "math"

// NominalPointsPerQuestion is the divisor weight used by Percentage.
//
// The percentage assumes every question is worth two points whatever its configured
// value. Existing clients and stored leaderboards depend on it; keep it as is.
const NominalPointsPerQuestion = 2

// Percentage returns round(score / (totalQuestions*2) * 100), or 0 when nothing was answered.
func Percentage(score, totalQuestions int) int {
	if totalQuestions <= 0 {
		return 0
	}
	ratio := float64(score) / float64(totalQuestions*NominalPointsPerQuestion)
	return int(math.Round(ratio * 100))
}

// Status evaluates the attempt gate for a policy. A nil policy means the candidate has no
// record yet, which always allows the first attempt.
func (p *AttemptPolicy) Status() AttemptStatus {
	if p == nil {
		return AttemptStatus{
			CanAttempt:        true,
			RemainingAttempts: UnlimitedAttempts,
			MaxAttempts:       UnlimitedAttempts,
			AttemptsCount:     0,
		}
	}
	if p.MaxAttempts == UnlimitedAttempts {
		return AttemptStatus{
			CanAttempt:        true,
			RemainingAttempts: UnlimitedAttempts,
			MaxAttempts:       p.MaxAttempts,
			AttemptsCount:     p.AttemptsCount,
		}
	}
	remaining := p.MaxAttempts - p.AttemptsCount
	if remaining < 0 {
		remaining = 0
	}
	return AttemptStatus{
		CanAttempt:        p.AttemptsCount < p.MaxAttempts,
		RemainingAttempts: remaining,
		MaxAttempts:       p.MaxAttempts,
		AttemptsCount:     p.AttemptsCount,
	}
}

// Check returns an AttemptLimitError when the policy denies another submission.
func (p *AttemptPolicy) Check() error {
	if p.Status().CanAttempt {
		return nil
	}
	return &AttemptLimitError{MaxAttempts: p.MaxAttempts}
}
