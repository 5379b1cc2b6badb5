package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taskflowhq/taskflow/internal/auth/service"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler, tokens service.TokenCodec) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Post("/reset-password", h.ResetPassword)
	auth.Get("/me", RequireAuth(tokens), h.Me)

	// Planned surfaces; routed so clients get a stable 501 instead of 404.
	for _, path := range []string{"/tasks", "/projects", "/ai/suggestions", "/ai/summaries"} {
		v1.All(path, NotImplemented)
	}
}

func NotImplemented(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "not implemented"})
}
