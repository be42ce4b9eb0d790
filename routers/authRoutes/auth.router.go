package authRoutes

import (
	authController "vaultgrow/controllers/auth"
	authValidator "vaultgrow/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func SetupAuthRoutes(app *fiber.App, ctl *authController.Controller, limit fiber.Handler) {
	authGroup := app.Group("/auth")
	if limit != nil {
		authGroup.Use(limit)
	}

	authGroup.Post("/register", authValidator.Register(), ctl.Register)
	authGroup.Post("/login", authValidator.Login(), ctl.Login)
	authGroup.Post("/admin/login", authValidator.Login(), ctl.AdminLogin)
}

// DefaultLimiter throttles credential endpoints per client IP.
func DefaultLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max: max,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status":  false,
				"message": "Too many attempts, please try again later",
				"data":    nil,
			})
		},
	})
}
