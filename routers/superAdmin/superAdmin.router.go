package superAdminRoutes

import (
	superAdminController "vaultgrow/controllers/superAdmin"
	"vaultgrow/middleware"
	"vaultgrow/validators"
	superAdminValidator "vaultgrow/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
)

func SetupSuperAdminRoutes(app *fiber.App, ctl *superAdminController.Controller, tokens *middleware.TokenService) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware(tokens), middleware.AdminOnly())

	adminGroup.Get("/overview", ctl.Overview)
	adminGroup.Get("/users", validators.Query(), ctl.UserList)
	adminGroup.Get("/investments", validators.Query(), ctl.InvestmentList)
	adminGroup.Get("/withdrawals", validators.Query(), ctl.WithdrawalList)
	adminGroup.Get("/payments", validators.Query(), ctl.PaymentList)

	adminGroup.Patch("/users/:id/toggle-block", superAdminValidator.UserIDParam(), ctl.ToggleBlock)
	adminGroup.Patch("/invest/confirm", superAdminValidator.InvestmentActionBody(), ctl.ConfirmInvestment)
	adminGroup.Patch("/invest/reject", superAdminValidator.InvestmentActionBody(), ctl.RejectInvestment)
	adminGroup.Patch("/withdraw/approve", superAdminValidator.WithdrawalActionBody(), ctl.ApproveWithdrawal)
	adminGroup.Patch("/payment/confirm", superAdminValidator.PaymentActionBody(), ctl.ConfirmPayment)
	adminGroup.Post("/roi/run", ctl.RunAccrual)

	app.Post("/cron/daily-roi", ctl.CronAccrual)
}
