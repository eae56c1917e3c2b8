package domain

import (
	"errors"
	"testing"
)

func TestPercentage(t *testing.T) {
	cases := []struct {
		score, total, want int
	}{
		{3, 2, 75},
		{1, 2, 25},
		{4, 2, 100},
		{0, 3, 0},
		{5, 0, 0},
		{1, 3, 17},
	}
	for _, tc := range cases {
		if got := Percentage(tc.score, tc.total); got != tc.want {
			t.Fatalf("Percentage(%d, %d) = %d, want %d", tc.score, tc.total, got, tc.want)
		}
	}
}

func TestAttemptPolicyStatus(t *testing.T) {
	cases := []struct {
		name   string
		policy *AttemptPolicy
		want   AttemptStatus
	}{
		{"no record", nil, AttemptStatus{CanAttempt: true, RemainingAttempts: -1, MaxAttempts: -1}},
		{"unlimited", &AttemptPolicy{MaxAttempts: -1, AttemptsCount: 7}, AttemptStatus{CanAttempt: true, RemainingAttempts: -1, MaxAttempts: -1, AttemptsCount: 7}},
		{"one left", &AttemptPolicy{MaxAttempts: 3, AttemptsCount: 2}, AttemptStatus{CanAttempt: true, RemainingAttempts: 1, MaxAttempts: 3, AttemptsCount: 2}},
		{"exhausted", &AttemptPolicy{MaxAttempts: 1, AttemptsCount: 1}, AttemptStatus{CanAttempt: false, RemainingAttempts: 0, MaxAttempts: 1, AttemptsCount: 1}},
		{"lowered below count", &AttemptPolicy{MaxAttempts: 1, AttemptsCount: 4}, AttemptStatus{CanAttempt: false, RemainingAttempts: 0, MaxAttempts: 1, AttemptsCount: 4}},
		{"blocked", &AttemptPolicy{MaxAttempts: 0}, AttemptStatus{CanAttempt: false, RemainingAttempts: 0, MaxAttempts: 0}},
	}
	for _, tc := range cases {
		if got := tc.policy.Status(); got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestAttemptPolicyCheck(t *testing.T) {
	var none *AttemptPolicy
	if err := none.Check(); err != nil {
		t.Fatalf("first attempt should be allowed, got %v", err)
	}

	err := (&AttemptPolicy{MaxAttempts: 2, AttemptsCount: 2}).Check()
	var limit *AttemptLimitError
	if !errors.As(err, &limit) {
		t.Fatalf("expected AttemptLimitError, got %v", err)
	}
	if limit.MaxAttempts != 2 {
		t.Fatalf("expected max 2 in error, got %d", limit.MaxAttempts)
	}
}

func TestValidationErrorUnwraps(t *testing.T) {
	err := Invalid("answers must be an array")
	if !errors.Is(err, ErrInvalidSubmission) {
		t.Fatalf("expected ErrInvalidSubmission, got %v", err)
	}
	if err.Error() != "answers must be an array" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
