package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskflowhq/taskflow/config"
	"github.com/taskflowhq/taskflow/internal/auth/domain"
	"github.com/taskflowhq/taskflow/internal/auth/dto"
	"github.com/taskflowhq/taskflow/internal/auth/handler"
	"github.com/taskflowhq/taskflow/internal/auth/service"
	"github.com/taskflowhq/taskflow/internal/mocks"
	"github.com/taskflowhq/taskflow/pkg/constant"
)

const handlerTestSecret = "handler-test-secret-key-0123456789abcdef"

type handlerFixture struct {
	users    *mocks.MockUserStore
	attempts *mocks.MockAttemptStore
	notifier *mocks.MockNotifier
	tokens   *service.TokenService
	handler  *handler.AuthHandler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	tokens, err := service.NewTokenService(handlerTestSecret, "HS256", 30, 7)
	require.NoError(t, err)

	f := &handlerFixture{
		users:    mocks.NewMockUserStore(ctrl),
		attempts: mocks.NewMockAttemptStore(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
		tokens:   tokens,
	}

	cfg := &config.Config{
		LoginMaxAttempts:   5,
		LoginWindowMinutes: 60,
	}
	hasher := service.NewBcryptHasher(bcrypt.MinCost)
	tracker := service.NewLoginAttemptTracker(f.attempts, nil)
	userService := service.NewUserService(f.users, tokens, hasher, tracker, f.notifier, cfg, nil)

	f.handler = handler.NewAuthHandler(userService)
	return f
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (int, string) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestRegisterHandler(t *testing.T) {
	f := newHandlerFixture(t)

	app := fiber.New()
	app.Post("/register", f.handler.Register)

	t.Run("success", func(t *testing.T) {
		input := dto.RegisterInput{
			Email:           "test@example.com",
			Password:        "Abcd1234",
			ConfirmPassword: "Abcd1234",
		}

		f.users.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
		f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		f.notifier.EXPECT().SendVerification(gomock.Any(), gomock.Any())

		status, body := postJSON(t, app, "/register", input)
		assert.Equal(t, fiber.StatusCreated, status)

		var out dto.UserOutput
		require.NoError(t, json.Unmarshal([]byte(body), &out))
		assert.Equal(t, input.Email, out.Email)
		assert.NotEmpty(t, out.ID)
		// The hash never leaves the service layer.
		assert.NotContains(t, body, "password")
	})

	t.Run("bad request", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/register", bytes.NewReader(nil))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("password mismatch", func(t *testing.T) {
		status, _ := postJSON(t, app, "/register", dto.RegisterInput{
			Email:           "test@example.com",
			Password:        "Abcd1234",
			ConfirmPassword: "Abcd1235",
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("weak password", func(t *testing.T) {
		status, body := postJSON(t, app, "/register", dto.RegisterInput{
			Email:           "test@example.com",
			Password:        "alllowercase1",
			ConfirmPassword: "alllowercase1",
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, body, "uppercase")
	})

	t.Run("duplicate email", func(t *testing.T) {
		input := dto.RegisterInput{
			Email:           "test@example.com",
			Password:        "Abcd1234",
			ConfirmPassword: "Abcd1234",
		}

		f.users.EXPECT().GetByEmail(gomock.Any(), input.Email).
			Return(&domain.User{ID: "existing", Email: input.Email}, nil)

		status, _ := postJSON(t, app, "/register", input)
		assert.Equal(t, fiber.StatusConflict, status)
	})
}

func TestLoginHandler(t *testing.T) {
	f := newHandlerFixture(t)

	app := fiber.New()
	app.Post("/login", f.handler.Login)

	hash, err := bcrypt.GenerateFromPassword([]byte("Abcd1234"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		ID:           "user-id",
		Email:        "test@example.com",
		PasswordHash: string(hash),
		Active:       true,
	}

	t.Run("success", func(t *testing.T) {
		f.attempts.EXPECT().CountFailures(gomock.Any(), user.Email, gomock.Any()).Return(0, nil)
		f.users.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		f.attempts.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
		f.users.EXPECT().UpdateLastLogin(gomock.Any(), user.ID).Return(nil)

		status, body := postJSON(t, app, "/login", dto.LoginInput{Email: user.Email, Password: "Abcd1234"})
		assert.Equal(t, fiber.StatusOK, status)

		var tokens dto.TokenResponse
		require.NoError(t, json.Unmarshal([]byte(body), &tokens))
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.Equal(t, constant.DefaultTokenType, tokens.TokenType)
		assert.Equal(t, int((30 * time.Minute).Seconds()), tokens.ExpiresIn)
	})

	t.Run("unauthorized on bad password", func(t *testing.T) {
		f.attempts.EXPECT().CountFailures(gomock.Any(), user.Email, gomock.Any()).Return(0, nil)
		f.users.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		f.attempts.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		status, body := postJSON(t, app, "/login", dto.LoginInput{Email: user.Email, Password: "wrong"})
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Contains(t, body, "invalid credentials")
	})

	t.Run("unknown email yields the same generic error", func(t *testing.T) {
		f.attempts.EXPECT().CountFailures(gomock.Any(), "nobody@example.com", gomock.Any()).Return(0, nil)
		f.users.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(nil, nil)
		f.attempts.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		status, body := postJSON(t, app, "/login", dto.LoginInput{Email: "nobody@example.com", Password: "Abcd1234"})
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Contains(t, body, "invalid credentials")
	})

	t.Run("too many attempts", func(t *testing.T) {
		f.attempts.EXPECT().CountFailures(gomock.Any(), user.Email, gomock.Any()).Return(5, nil)
		f.attempts.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		status, _ := postJSON(t, app, "/login", dto.LoginInput{Email: user.Email, Password: "Abcd1234"})
		assert.Equal(t, fiber.StatusTooManyRequests, status)
	})

	t.Run("storage failure is a generic 500", func(t *testing.T) {
		f.attempts.EXPECT().CountFailures(gomock.Any(), user.Email, gomock.Any()).
			Return(0, errors.New("connection refused"))

		status, body := postJSON(t, app, "/login", dto.LoginInput{Email: user.Email, Password: "Abcd1234"})
		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.NotContains(t, body, "connection refused")
	})
}

func TestRefreshHandler(t *testing.T) {
	f := newHandlerFixture(t)

	app := fiber.New()
	app.Post("/refresh", f.handler.Refresh)

	user := &domain.User{ID: "user-id", Email: "test@example.com", Active: true}

	t.Run("success", func(t *testing.T) {
		refreshToken, err := f.tokens.Encode(
			map[string]any{"sub": user.Email, "user_id": user.ID},
			constant.TokenTypeRefresh, time.Hour)
		require.NoError(t, err)

		f.users.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)

		status, body := postJSON(t, app, "/refresh", dto.RefreshInput{RefreshToken: refreshToken})
		assert.Equal(t, fiber.StatusOK, status)

		var tokens dto.TokenResponse
		require.NoError(t, json.Unmarshal([]byte(body), &tokens))
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
	})

	t.Run("access token rejected", func(t *testing.T) {
		accessToken, err := f.tokens.Encode(
			map[string]any{"sub": user.Email, "user_id": user.ID},
			constant.TokenTypeAccess, time.Hour)
		require.NoError(t, err)

		status, _ := postJSON(t, app, "/refresh", dto.RefreshInput{RefreshToken: accessToken})
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		status, _ := postJSON(t, app, "/refresh", dto.RefreshInput{RefreshToken: "garbage"})
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})
}

func TestForgotPasswordHandler(t *testing.T) {
	f := newHandlerFixture(t)

	app := fiber.New()
	app.Post("/forgot-password", f.handler.ForgotPassword)

	user := &domain.User{ID: "user-id", Email: "test@example.com", Active: true}

	t.Run("existing email", func(t *testing.T) {
		f.users.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		f.notifier.EXPECT().SendPasswordReset(gomock.Any(), user, gomock.Any())

		status, body := postJSON(t, app, "/forgot-password", dto.PasswordResetInput{Email: user.Email})
		assert.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, body, "If the email exists")
	})

	t.Run("unknown email gets an identical response", func(t *testing.T) {
		f.users.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(nil, nil)

		status, body := postJSON(t, app, "/forgot-password", dto.PasswordResetInput{Email: "nobody@example.com"})
		assert.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, body, "If the email exists")
	})
}

func TestResetPasswordHandler(t *testing.T) {
	f := newHandlerFixture(t)

	app := fiber.New()
	app.Post("/reset-password", f.handler.ResetPassword)

	user := &domain.User{ID: "user-id", Email: "test@example.com", Active: true}

	t.Run("success", func(t *testing.T) {
		resetToken, err := f.tokens.Encode(
			map[string]any{"sub": user.Email},
			constant.TokenTypePasswordReset, time.Hour)
		require.NoError(t, err)

		f.users.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		f.users.EXPECT().UpdatePassword(gomock.Any(), user.ID, gomock.Any()).Return(nil)

		status, _ := postJSON(t, app, "/reset-password", dto.PasswordResetConfirmInput{
			Token:           resetToken,
			NewPassword:     "NewPass99",
			ConfirmPassword: "NewPass99",
		})
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("refresh token rejected despite valid signature", func(t *testing.T) {
		refreshToken, err := f.tokens.Encode(
			map[string]any{"sub": user.Email},
			constant.TokenTypeRefresh, time.Hour)
		require.NoError(t, err)

		status, _ := postJSON(t, app, "/reset-password", dto.PasswordResetConfirmInput{
			Token:           refreshToken,
			NewPassword:     "NewPass99",
			ConfirmPassword: "NewPass99",
		})
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		resetToken, err := f.tokens.Encode(
			map[string]any{"sub": user.Email},
			constant.TokenTypePasswordReset, -time.Minute)
		require.NoError(t, err)

		status, _ := postJSON(t, app, "/reset-password", dto.PasswordResetConfirmInput{
			Token:           resetToken,
			NewPassword:     "NewPass99",
			ConfirmPassword: "NewPass99",
		})
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})
}
