package domain

//go:generate mockgen -destination=../../mocks/mock_user_store.go -package=mocks github.com/taskflowhq/taskflow/internal/auth/domain UserStore
//go:generate mockgen -destination=../../mocks/mock_attempt_store.go -package=mocks github.com/taskflowhq/taskflow/internal/auth/domain AttemptStore
//go:generate mockgen -destination=../../mocks/mock_notifier.go -package=mocks github.com/taskflowhq/taskflow/internal/auth/domain Notifier

import (
	"context"
	"time"
)

// UserStore is the persistence collaborator for user records.
// Lookups return (nil, nil) when no record exists.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string) error
}

// AttemptStore persists login attempts and answers lockout-window queries.
type AttemptStore interface {
	Append(ctx context.Context, attempt *LoginAttempt) error
	CountFailures(ctx context.Context, email string, since time.Time) (int, error)
}

// Notifier delivers account emails. Implementations are fire-and-forget:
// failures are logged by the implementation, never returned to the flow.
type Notifier interface {
	SendPasswordReset(ctx context.Context, user *User, token string)
	SendVerification(ctx context.Context, user *User)
}
