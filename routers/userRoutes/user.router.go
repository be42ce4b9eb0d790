package userProfileRoutes

import (
	userController "vaultgrow/controllers/userControllers"
	"vaultgrow/middleware"
	"vaultgrow/validators"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, ctl *userController.Controller, tokens *middleware.TokenService) {
	userGroup := app.Group("/user", middleware.JWTMiddleware(tokens), middleware.UserOnly())

	userGroup.Get("/dashboard", ctl.Dashboard)
	userGroup.Get("/transactions", ctl.Transactions)
	userGroup.Get("/ledger", validators.Query(), ctl.Ledger)
	userGroup.Get("/login/history", validators.Query(), ctl.LoginHistoryList)

	app.Get("/referral", middleware.JWTMiddleware(tokens), middleware.UserOnly(), ctl.Referral)
}
