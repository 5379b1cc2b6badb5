package email

import (
	"context"
	"log/slog"

	"github.com/taskflowhq/taskflow/internal/auth/domain"
)

// Service is the email-delivery collaborator. Delivery is log-only
// until an SMTP transport is wired in; failures never propagate back
// into credential flows.
//
// TODO: wire an SMTP sender behind EMAIL_ENABLED.
type Service struct {
	enabled bool
	logger  *slog.Logger
}

func NewService(enabled bool, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{enabled: enabled, logger: logger}
}

func (s *Service) SendPasswordReset(ctx context.Context, user *domain.User, token string) {
	if !s.enabled {
		s.logger.Info("password reset email skipped, delivery disabled", "user_id", user.ID)
		return
	}
	// The token itself is never logged.
	s.logger.Info("password reset email queued", "user_id", user.ID, "email", user.Email)
}

func (s *Service) SendVerification(ctx context.Context, user *domain.User) {
	if !s.enabled {
		s.logger.Info("verification email skipped, delivery disabled", "user_id", user.ID)
		return
	}
	s.logger.Info("verification email queued", "user_id", user.ID, "email", user.Email)
}
