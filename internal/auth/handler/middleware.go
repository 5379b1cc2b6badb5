package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/taskflowhq/taskflow/internal/auth/service"
	"github.com/taskflowhq/taskflow/pkg/constant"
)

const (
	localUserID = "user_id"
	localEmail  = "email"
)

// RequireAuth guards a route with a bearer access token. A refresh or
// password-reset token carries the wrong type claim and is rejected
// even when its signature is valid.
func RequireAuth(tokens service.TokenCodec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}

		claims, err := tokens.DecodeAndVerify(strings.TrimPrefix(header, prefix))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		if claims["type"] != constant.TokenTypeAccess {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}

		c.Locals(localUserID, userID)
		c.Locals(localEmail, claims["sub"])

		return c.Next()
	}
}
