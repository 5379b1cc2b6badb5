package constant

// Token type claims carried in the "type" field of every signed token.
const (
	TokenTypeAccess        = "access"
	TokenTypeRefresh       = "refresh"
	TokenTypePasswordReset = "password_reset"
)

// DefaultTokenType is the OAuth-style token_type returned with a pair.
const DefaultTokenType = "bearer"

// Failure reasons recorded with failed login attempts.
const (
	FailureAccountLocked   = "account_locked"
	FailureUserNotFound    = "user_not_found"
	FailureInvalidPassword = "invalid_password"
	FailureInactiveUser    = "inactive_user"
)

const (
	DefaultAccessExpireMinutes = 30
	DefaultRefreshExpireDays   = 7
	DefaultLoginMaxAttempts    = 5
	DefaultLoginWindowMinutes  = 60
	MinSecretKeyLength         = 32
)
