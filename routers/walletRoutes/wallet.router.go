package walletRoutes

import (
	walletController "vaultgrow/controllers/wallet"
	"vaultgrow/middleware"
	walletValidator "vaultgrow/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App, ctl *walletController.Controller, tokens *middleware.TokenService) {
	app.Post("/payment/submit", middleware.JWTMiddleware(tokens), middleware.UserOnly(), walletValidator.SubmitPayment(), ctl.SubmitPayment)
	app.Post("/withdraw/request", middleware.JWTMiddleware(tokens), middleware.UserOnly(), walletValidator.RequestWithdrawal(), ctl.RequestWithdrawal)
}
