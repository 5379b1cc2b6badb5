package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskflowhq/taskflow/config"
	"github.com/taskflowhq/taskflow/internal/auth/domain"
	"github.com/taskflowhq/taskflow/internal/auth/dto"
	autherror "github.com/taskflowhq/taskflow/internal/errors"
	"github.com/taskflowhq/taskflow/pkg/constant"
)

// resetTokenTTL bounds how long a password-reset link stays usable.
const resetTokenTTL = time.Hour

// UserService orchestrates the credential lifecycle: registration,
// authentication with lockout, token pairs, and the password-reset
// flow. It owns no persistence; user and attempt records live behind
// the injected stores.
type UserService struct {
	users    domain.UserStore
	tokens   TokenCodec
	hasher   PasswordHasher
	attempts *LoginAttemptTracker
	notifier domain.Notifier
	cfg      *config.Config
	logger   *slog.Logger
}

func NewUserService(
	users domain.UserStore,
	tokens TokenCodec,
	hasher PasswordHasher,
	attempts *LoginAttemptTracker,
	notifier domain.Notifier,
	cfg *config.Config,
	logger *slog.Logger,
) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		attempts: attempts,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	if input.Password != input.ConfirmPassword {
		return nil, autherror.ErrPasswordMismatch
	}
	if problems := ValidatePassword(input.Password); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", autherror.ErrWeakPassword, strings.Join(problems, "; "))
	}

	email := strings.ToLower(input.Email)

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, autherror.StorageError("get user by email", err)
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Active:       true,
		Verified:     false, // email verification pending
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, autherror.StorageError("create user", err)
	}

	s.notifier.SendVerification(ctx, user)
	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)

	return user, nil
}

// Authenticate checks the lockout state before touching the password
// hash, then verifies the credential. Exactly one attempt record is
// written per call, reflecting the final outcome.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(email)

	locked, err := s.attempts.IsLocked(ctx, email, s.cfg.LoginMaxAttempts, s.cfg.LoginWindow())
	if err != nil {
		return nil, autherror.StorageError("check login attempts", err)
	}
	if locked {
		s.attempts.Record(ctx, email, false, constant.FailureAccountLocked)
		return nil, autherror.ErrTooManyLoginAttempts
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, autherror.StorageError("get user by email", err)
	}
	if user == nil {
		s.attempts.Record(ctx, email, false, constant.FailureUserNotFound)
		s.logger.Warn("authentication failed", "reason", constant.FailureUserNotFound, "email", email)
		return nil, autherror.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.attempts.Record(ctx, email, false, constant.FailureInvalidPassword)
		s.logger.Warn("authentication failed", "reason", constant.FailureInvalidPassword, "email", email)
		return nil, autherror.ErrInvalidCredentials
	}

	if !user.Active {
		s.attempts.Record(ctx, email, false, constant.FailureInactiveUser)
		s.logger.Warn("authentication failed", "reason", constant.FailureInactiveUser, "email", email)
		return nil, autherror.ErrInvalidCredentials
	}

	s.attempts.Record(ctx, email, true, "")
	return user, nil
}

// IssueTokenPair mints an access/refresh pair for the user. Both tokens
// carry the email as subject plus the user id.
func (s *UserService) IssueTokenPair(user *domain.User) (accessToken, refreshToken string, err error) {
	claims := map[string]any{
		"sub":     user.Email,
		"user_id": user.ID,
	}

	accessToken, err = s.tokens.Encode(claims, constant.TokenTypeAccess, s.tokens.AccessTokenTTL())
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.tokens.Encode(claims, constant.TokenTypeRefresh, s.tokens.RefreshTokenTTL())
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := s.IssueTokenPair(user)
	if err != nil {
		return nil, err
	}

	// Degraded path: a missed timestamp must not fail the login.
	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	s.logger.Info("user authenticated", "user_id", user.ID, "email", user.Email)

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constant.DefaultTokenType,
		ExpiresIn:    int(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

// Refresh rotates a token pair. The old refresh token is not revoked
// server-side; it simply ages out at its original expiry.
func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	claims, err := s.tokens.DecodeAndVerify(input.RefreshToken)
	if err != nil {
		return nil, autherror.ErrInvalidToken
	}
	if claims["type"] != constant.TokenTypeRefresh {
		return nil, autherror.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, autherror.ErrInvalidToken
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(sub))
	if err != nil {
		return nil, autherror.StorageError("get user by email", err)
	}
	if user == nil || !user.Active {
		return nil, autherror.ErrInvalidToken
	}

	accessToken, refreshToken, err := s.IssueTokenPair(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("token refreshed", "user_id", user.ID)

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constant.DefaultTokenType,
		ExpiresIn:    int(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

// RequestPasswordReset behaves identically whether or not the email is
// registered, so the endpoint cannot be used to probe for accounts. The
// reset token is not persisted: its validity is solely signature,
// expiry and type at confirmation time.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return autherror.StorageError("get user by email", err)
	}
	if user == nil {
		s.logger.Warn("password reset requested for unknown email", "email", email)
		return nil
	}

	token, err := s.tokens.Encode(map[string]any{"sub": user.Email}, constant.TokenTypePasswordReset, resetTokenTTL)
	if err != nil {
		return err
	}

	s.notifier.SendPasswordReset(ctx, user, token)
	s.logger.Info("password reset token issued", "user_id", user.ID)

	return nil
}

func (s *UserService) ConfirmPasswordReset(ctx context.Context, input dto.PasswordResetConfirmInput) error {
	if input.NewPassword != input.ConfirmPassword {
		return autherror.ErrPasswordMismatch
	}
	if len(input.NewPassword) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least 8 characters long", autherror.ErrWeakPassword)
	}

	claims, err := s.tokens.DecodeAndVerify(input.Token)
	if err != nil {
		return autherror.ErrInvalidToken
	}
	if claims["type"] != constant.TokenTypePasswordReset {
		return autherror.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return autherror.ErrInvalidToken
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(sub))
	if err != nil {
		return autherror.StorageError("get user by email", err)
	}
	if user == nil {
		return autherror.ErrInvalidToken
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return autherror.StorageError("update password", err)
	}

	s.logger.Info("password reset completed", "user_id", user.ID)
	return nil
}

// GetByID resolves a user for the authenticated /me endpoint.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, autherror.StorageError("get user by id", err)
	}
	return user, nil
}
