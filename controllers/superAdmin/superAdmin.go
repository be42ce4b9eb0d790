package superAdminController

import (
	"crypto/subtle"

	"vaultgrow/middleware"
	"vaultgrow/services"
	"vaultgrow/utils"
	"vaultgrow/validators"
	superAdminValidator "vaultgrow/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Controller struct {
	svc      *services.Services
	notifier *utils.Notifier
	cronKey  string
	log      logrus.FieldLogger
}

func New(svc *services.Services, notifier *utils.Notifier, cronKey string, log logrus.FieldLogger) *Controller {
	return &Controller{svc: svc, notifier: notifier, cronKey: cronKey, log: log}
}

func (ctl *Controller) Overview(c *fiber.Ctx) error {
	overview, err := ctl.svc.Admin.Overview(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Overview fetched!", overview)
}

func (ctl *Controller) UserList(c *fiber.Ctx) error {
	page := validators.GetPagination(c)
	users, total, err := ctl.svc.Admin.Users(c.UserContext(), page.Page, page.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User list fetched!", fiber.Map{
		"users": users,
		"total": total,
	})
}

func (ctl *Controller) InvestmentList(c *fiber.Ctx) error {
	page := validators.GetPagination(c)
	list, total, err := ctl.svc.Investments.ListAll(c.UserContext(), page.Status, page.Page, page.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Investments fetched!", fiber.Map{
		"investments": list,
		"total":       total,
	})
}

func (ctl *Controller) WithdrawalList(c *fiber.Ctx) error {
	page := validators.GetPagination(c)
	list, total, err := ctl.svc.Withdrawals.ListAll(c.UserContext(), page.Status, page.Page, page.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Withdrawals fetched!", fiber.Map{
		"withdrawals": list,
		"total":       total,
	})
}

func (ctl *Controller) PaymentList(c *fiber.Ctx) error {
	page := validators.GetPagination(c)
	list, total, err := ctl.svc.Payments.ListAll(c.UserContext(), page.Status, page.Page, page.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched!", fiber.Map{
		"payments": list,
		"total":    total,
	})
}

func (ctl *Controller) ToggleBlock(c *fiber.Ctx) error {
	userID, _ := c.Locals("targetUserId").(uint)
	blocked, err := ctl.svc.Admin.ToggleBlock(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "User unblocked!"
	if blocked {
		message = "User blocked!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{"id": userID, "isBlocked": blocked})
}

func (ctl *Controller) ConfirmInvestment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAction").(*superAdminValidator.InvestmentAction)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	inv, err := ctl.svc.Investments.Confirm(c.UserContext(), reqData.InvestmentID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if user, err := ctl.svc.Admin.User(c.UserContext(), inv.UserID); err == nil {
		ctl.notifier.SendInvestmentConfirmedEmail(user.Email, user.FullName, inv.PlanName, inv.Amount)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Investment confirmed!", inv)
}

func (ctl *Controller) RejectInvestment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAction").(*superAdminValidator.InvestmentAction)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	inv, err := ctl.svc.Investments.Reject(c.UserContext(), reqData.InvestmentID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Investment rejected!", inv)
}

func (ctl *Controller) ApproveWithdrawal(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAction").(*superAdminValidator.WithdrawalAction)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	withdrawal, err := ctl.svc.Withdrawals.Approve(c.UserContext(), reqData.WithdrawalID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if user, err := ctl.svc.Admin.User(c.UserContext(), withdrawal.UserID); err == nil {
		ctl.notifier.SendWithdrawalPaidEmail(user.Email, user.FullName, withdrawal.Amount, withdrawal.BankName)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Withdrawal marked as paid!", withdrawal)
}

func (ctl *Controller) ConfirmPayment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAction").(*superAdminValidator.PaymentAction)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	payment, err := ctl.svc.Payments.Confirm(c.UserContext(), reqData.PaymentID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if user, err := ctl.svc.Admin.User(c.UserContext(), payment.UserID); err == nil {
		ctl.notifier.SendPaymentConfirmedEmail(user.Email, user.FullName, payment.Amount, payment.Reference)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment confirmed!", payment)
}

// RunAccrual triggers one accrual sweep from the admin panel.
func (ctl *Controller) RunAccrual(c *fiber.Ctx) error {
	return ctl.runAccrual(c, "admin")
}

// CronAccrual is the external scheduler trigger, guarded by X-Cron-Key.
func (ctl *Controller) CronAccrual(c *fiber.Ctx) error {
	key := c.Get("X-Cron-Key")
	if ctl.cronKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(ctl.cronKey)) != 1 {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid cron key", nil)
	}
	return ctl.runAccrual(c, "cron")
}

func (ctl *Controller) runAccrual(c *fiber.Ctx, trigger string) error {
	res, err := ctl.svc.Accrual.Run(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if res.Errors != nil {
		ctl.log.WithError(res.Errors).WithField("trigger", trigger).Warn("[ROI] sweep finished with failures")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "ROI processing complete", res)
}
