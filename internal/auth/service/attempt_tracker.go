package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskflowhq/taskflow/internal/auth/domain"
)

// LoginAttemptTracker records authentication attempts and answers
// lockout queries over a sliding window. Lockout is best-effort:
// concurrent logins for the same email may race past the check, and the
// store only needs read-your-writes consistency within the window.
type LoginAttemptTracker struct {
	store  domain.AttemptStore
	logger *slog.Logger
}

func NewLoginAttemptTracker(store domain.AttemptStore, logger *slog.Logger) *LoginAttemptTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginAttemptTracker{store: store, logger: logger}
}

// Record appends one attempt. An append failure must never change the
// authentication outcome, so it is logged and swallowed here.
func (t *LoginAttemptTracker) Record(ctx context.Context, email string, success bool, failureReason string) {
	email = strings.ToLower(email)

	attempt := &domain.LoginAttempt{
		ID:          uuid.NewString(),
		Email:       email,
		AttemptTime: time.Now().UTC(),
		Success:     success,
	}
	if !success && failureReason != "" {
		attempt.FailureReason = &failureReason
	}

	if err := t.store.Append(ctx, attempt); err != nil {
		t.logger.Warn("failed to record login attempt", "email", email, "error", err)
	}
}

func (t *LoginAttemptTracker) CountRecentFailures(ctx context.Context, email string, window time.Duration) (int, error) {
	since := time.Now().UTC().Add(-window)
	return t.store.CountFailures(ctx, strings.ToLower(email), since)
}

func (t *LoginAttemptTracker) IsLocked(ctx context.Context, email string, maxAttempts int, window time.Duration) (bool, error) {
	failures, err := t.CountRecentFailures(ctx, email, window)
	if err != nil {
		return false, err
	}
	return failures >= maxAttempts, nil
}
