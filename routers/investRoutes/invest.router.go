package investRoutes

import (
	investController "vaultgrow/controllers/invest"
	"vaultgrow/middleware"
	investValidator "vaultgrow/validators/invest"

	"github.com/gofiber/fiber/v2"
)

func SetupInvestRoutes(app *fiber.App, ctl *investController.Controller, tokens *middleware.TokenService) {
	investGroup := app.Group("/invest")

	investGroup.Get("/plans", ctl.Plans)
	investGroup.Post("/create", middleware.JWTMiddleware(tokens), middleware.UserOnly(), investValidator.Create(), ctl.Create)
}
