package domain

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Active       bool
	Verified     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LoginAttempt is append-only: one record per authentication attempt,
// never mutated after creation. Retention is the store's concern.
type LoginAttempt struct {
	ID            string
	Email         string
	AttemptTime   time.Time
	Success       bool
	FailureReason *string
}
