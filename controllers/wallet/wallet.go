package walletController

import (
	"vaultgrow/middleware"
	"vaultgrow/services"
	walletValidator "vaultgrow/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Payments    *services.PaymentService
	Withdrawals *services.WithdrawalService
}

func New(svc *services.Services) *Controller {
	return &Controller{Payments: svc.Payments, Withdrawals: svc.Withdrawals}
}

// SubmitPayment records a bank transfer claim for admin review
func (ctl *Controller) SubmitPayment(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	reqData, ok := c.Locals("validatedPayment").(*walletValidator.PaymentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	payment, err := ctl.Payments.Submit(c.UserContext(), userID, reqData.Amount, reqData.Reference)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment proof submitted!", payment)
}

// RequestWithdrawal debits the wallet now and queues the payout
func (ctl *Controller) RequestWithdrawal(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	reqData, ok := c.Locals("validatedWithdrawal").(*walletValidator.WithdrawalRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	withdrawal, err := ctl.Withdrawals.Request(c.UserContext(), userID, services.WithdrawalInput{
		Amount:        reqData.Amount,
		BankName:      reqData.BankName,
		AccountNumber: reqData.AccountNumber,
		AccountName:   reqData.AccountName,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Withdrawal requested!", withdrawal)
}
